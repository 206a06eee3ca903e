package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("tracker-test")
	require.NoError(t, err)

	assert.Equal(t, "tracker-test", cfg.ServiceName)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "tracker-test", cfg.DB.DBName)
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, "admin@technotool.local", cfg.Seed.AdminEmail)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "tracker")
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("JWT_EXPIRATION_HOURS", "8")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")

	cfg, err := Load("tracker-test")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "tracker", cfg.DB.DBName)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 8, cfg.JWT.ExpirationHours)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
}

func TestGetDSN(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		DBName:   "tracker",
		SSLMode:  "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=secret dbname=tracker sslmode=disable",
		cfg.GetDSN())
}
