package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/athmaw/ttis-tracker/internal/model"
	"github.com/athmaw/ttis-tracker/internal/router"
	"github.com/athmaw/ttis-tracker/pkg/config"
	"github.com/athmaw/ttis-tracker/pkg/database"
	"github.com/athmaw/ttis-tracker/pkg/jwtutil"
)

// setupTest wires an isolated in-memory database into the global database
// handle and returns a fully routed server.
func setupTest(t *testing.T) *echo.Echo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Item{}, &model.Sale{}))

	database.DB = db
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	return router.New()
}

func createUser(t *testing.T, email string, role model.Role) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	require.NoError(t, database.GetDB().Create(&user).Error)
	return user
}

func tokenFor(t *testing.T, user model.User) string {
	t.Helper()

	token, err := jwtutil.GenerateToken(user.ID, user.Email, user.Name, string(user.Role))
	require.NoError(t, err)
	return token
}

func createItem(t *testing.T, name string, quantity int, price float64) model.Item {
	t.Helper()

	item := model.Item{Name: name, Quantity: quantity, Price: price}
	require.NoError(t, database.GetDB().Create(&item).Error)
	return item
}

// doRequest issues a JSON request against the test server. An empty token
// leaves the Authorization header unset.
func doRequest(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func reloadItem(t *testing.T, id uint) model.Item {
	t.Helper()

	var item model.Item
	require.NoError(t, database.GetDB().First(&item, id).Error)
	return item
}

func statusAndMessage(t *testing.T, rec *httptest.ResponseRecorder) (int, string) {
	t.Helper()

	var body map[string]interface{}
	decodeBody(t, rec, &body)
	message, _ := body["message"].(string)
	return rec.Code, message
}
