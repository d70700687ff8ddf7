package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	FrontendDir  string

	// JWTSecret signs admin session tokens.
	JWTSecret string
	// AdminAPIKey authorizes header-based access to admin endpoints.
	AdminAPIKey string
	// RecaptchaSecret is the server-side key for the education form's
	// reCAPTCHA verification. Empty disables verification (local dev).
	RecaptchaSecret string

	// LogRetention bounds how long submission audit entries are kept.
	LogRetention time.Duration
}

// Load reads env vars and falls back to defaults so the server can boot with zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:     getEnv("ATELIER_ENV", "development"),
		HTTPPort:        getEnv("ATELIER_HTTP_PORT", "8080"),
		DatabasePath:    getEnv("ATELIER_DB_PATH", filepath.Join("data", "atelier.db")),
		FrontendDir:     getEnv("ATELIER_FRONTEND_DIR", filepath.Clean(filepath.Join("..", "frontend", "dist"))),
		JWTSecret:       getEnv("ATELIER_JWT_SECRET", ""),
		AdminAPIKey:     getEnv("ATELIER_ADMIN_API_KEY", ""),
		RecaptchaSecret: getEnv("ATELIER_RECAPTCHA_SECRET", ""),
		LogRetention:    time.Duration(getEnvInt("ATELIER_LOG_RETENTION_DAYS", 180)) * 24 * time.Hour,
	}

	if cfg.IsProduction() && cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("ATELIER_JWT_SECRET is required in production")
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-insecure-secret"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

// IsProduction reports whether the server runs with production settings.
func (c Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}

	return fallback
}
