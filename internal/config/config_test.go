package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ATELIER_DB_PATH", filepath.Join(t.TempDir(), "atelier.db"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "dev-insecure-secret", cfg.JWTSecret)
	assert.Equal(t, 180*24*time.Hour, cfg.LogRetention)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ATELIER_ENV", "production")
	t.Setenv("ATELIER_HTTP_PORT", "9090")
	t.Setenv("ATELIER_JWT_SECRET", "a-real-secret")
	t.Setenv("ATELIER_LOG_RETENTION_DAYS", "30")
	t.Setenv("ATELIER_DB_PATH", filepath.Join(t.TempDir(), "atelier.db"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "a-real-secret", cfg.JWTSecret)
	assert.Equal(t, 30*24*time.Hour, cfg.LogRetention)
	assert.True(t, cfg.IsProduction())
}

func TestLoad_ProductionRequiresJWTSecret(t *testing.T) {
	t.Setenv("ATELIER_ENV", "production")
	t.Setenv("ATELIER_JWT_SECRET", "")
	t.Setenv("ATELIER_DB_PATH", filepath.Join(t.TempDir(), "atelier.db"))

	_, err := Load()
	assert.Error(t, err)
}
