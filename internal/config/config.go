package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

const (
	defaultPort              = "8080"
	defaultDatabaseURL       = "estate.db"
	defaultUploadDir         = "./uploads"
	defaultPublicBaseURL     = "http://localhost:8080"
	defaultPlaceholderURL    = "/static/img/placeholder.jpg"
	defaultJWTAccessTTL      = "24h"
	defaultLockSkewTolerance = "1s"
	defaultJWTSecret         = "change-me-jwt-secret"
)

// Config is resolved once at startup. Nothing else in the codebase
// reads environment variables for these concerns.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	JWTSecret         string
	JWTAccessTTL      time.Duration
	UploadDir         string
	PublicBaseURL     string
	PlaceholderURL    string
	LockSkewTolerance time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = strings.TrimSpace(os.Getenv("ENV"))
	}
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = envOrDefault("PORT", defaultPort)
	cfg.DatabaseURL = envOrDefault("DATABASE_URL", defaultDatabaseURL)
	cfg.UploadDir = envOrDefault("UPLOAD_DIR", defaultUploadDir)
	cfg.PublicBaseURL = strings.TrimRight(envOrDefault("PUBLIC_BASE_URL", defaultPublicBaseURL), "/")
	cfg.PlaceholderURL = envOrDefault("PLACEHOLDER_URL", defaultPlaceholderURL)

	cfg.JWTSecret = envOrDefault("JWT_SECRET", defaultJWTSecret)
	if cfg.IsProduction() && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}
	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("WARNING: using default JWT_SECRET, do not use outside local development")
	}

	var err error
	cfg.JWTAccessTTL, err = parseDuration("JWT_ACCESS_TTL", defaultJWTAccessTTL)
	if err != nil {
		return nil, err
	}

	// Tolerance applied when comparing client-held updated_at against the
	// stored value during optimistic-lock checks.
	cfg.LockSkewTolerance, err = parseDuration("LOCK_SKEW_TOLERANCE", defaultLockSkewTolerance)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production" || c.AppEnv == "prod"
}

func envOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := envOrDefault(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s=%q: %w", key, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s=%q: must not be negative", key, raw)
	}
	return d, nil
}
