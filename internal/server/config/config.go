// Package config handles configuration for the server component,
// including defaults and environment variable overlay.
package config

import (
	"fmt"
	"time"
)

// Драйверы хранилища
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config holds runtime settings for the redtrack server.
//
// Fields:
//   - Address: bind address for the HTTP API.
//   - StorageDriver: storage backend, "sqlite" or "bolt".
//   - DatabasePath: path to the database file.
//   - JWTSecret: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenTTL / RefreshTokenTTL: token lifetimes.
//   - RateLimit / RateLimitWindow: default per-IP request budget.
//   - AuthRateLimit / AuthRateLimitWindow: stricter budget for auth endpoints.
type Config struct {
	Address             string
	StorageDriver       string
	DatabasePath        string
	JWTSecret           string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	RateLimit           int
	RateLimitWindow     time.Duration
	AuthRateLimit       int
	AuthRateLimitWindow time.Duration
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.Address = ":8080"
	c.StorageDriver = DriverSQLite
	c.DatabasePath = "redtrack.db"
	c.JWTSecret = "dev-secret-change-me"
	c.AccessTokenTTL = 15 * time.Minute
	c.RefreshTokenTTL = 7 * 24 * time.Hour
	c.RateLimit = 100
	c.RateLimitWindow = time.Minute
	c.AuthRateLimit = 10
	c.AuthRateLimitWindow = time.Minute
}

// Validate проверяет согласованность конфигурации
func (c *Config) Validate() error {
	if c.StorageDriver != DriverSQLite && c.StorageDriver != DriverBolt {
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	return nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from environment variables.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
