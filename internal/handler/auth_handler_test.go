package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/athmaw/ttis-tracker/internal/model"
)

func TestLogin(t *testing.T) {
	e := setupTest(t)
	createUser(t, "staff@example.com", model.RoleEmployee)

	rec := doRequest(t, e, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "staff@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Token string `json:"token"`
		User  struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body.Token)
	assert.Equal(t, "staff@example.com", body.User.Email)
	assert.Equal(t, "employee", body.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	e := setupTest(t)
	createUser(t, "staff@example.com", model.RoleEmployee)

	rec := doRequest(t, e, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "staff@example.com",
		"password": "wrong",
	})
	code, message := statusAndMessage(t, rec)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "invalid credentials", message)
}

func TestLoginUnknownEmail(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginMissingFields(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "staff@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, http.MethodGet, "/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	e := setupTest(t)

	rec := doRequest(t, e, http.MethodGet, "/inventory", "not-a-real-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
