package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestContext(t *testing.T) echo.Context {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestFromContextReturnsStoredLogger(t *testing.T) {
	c := newTestContext(t)
	stored := zap.NewNop()
	c.Set("logger", stored)

	assert.Same(t, stored, FromContext(c))
}

func TestFromContextFallsBackToRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	prev := log
	log = zap.New(core)
	defer func() { log = prev }()

	// No "logger" entry, but the middleware context key is set
	c := newTestContext(t)
	c.Set(RequestIDKey, "req-99")

	FromContext(c).Info("hello")
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-99", entries[0].ContextMap()["request_id"])
}
