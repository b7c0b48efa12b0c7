package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Имена переменных окружения
const (
	envAddress         = "REDTRACK_ADDRESS"
	envStorageDriver   = "REDTRACK_STORAGE_DRIVER"
	envDatabasePath    = "REDTRACK_DATABASE_PATH"
	envJWTSecret       = "REDTRACK_JWT_SECRET"
	envAccessTokenTTL  = "REDTRACK_ACCESS_TOKEN_TTL"
	envRefreshTokenTTL = "REDTRACK_REFRESH_TOKEN_TTL"
	envRateLimit       = "REDTRACK_RATE_LIMIT"
	envRateWindow      = "REDTRACK_RATE_LIMIT_WINDOW"
	envAuthRateLimit   = "REDTRACK_AUTH_RATE_LIMIT"
	envAuthRateWindow  = "REDTRACK_AUTH_RATE_LIMIT_WINDOW"
)

// parseEnv overlays values from environment variables onto cfg.
// Unset variables leave the current value untouched.
func parseEnv(cfg *Config) error {
	setString(envAddress, &cfg.Address)
	setString(envStorageDriver, &cfg.StorageDriver)
	setString(envDatabasePath, &cfg.DatabasePath)
	setString(envJWTSecret, &cfg.JWTSecret)

	if err := setDuration(envAccessTokenTTL, &cfg.AccessTokenTTL); err != nil {
		return err
	}
	if err := setDuration(envRefreshTokenTTL, &cfg.RefreshTokenTTL); err != nil {
		return err
	}
	if err := setInt(envRateLimit, &cfg.RateLimit); err != nil {
		return err
	}
	if err := setDuration(envRateWindow, &cfg.RateLimitWindow); err != nil {
		return err
	}
	if err := setInt(envAuthRateLimit, &cfg.AuthRateLimit); err != nil {
		return err
	}
	if err := setDuration(envAuthRateWindow, &cfg.AuthRateLimitWindow); err != nil {
		return err
	}

	return nil
}

func setString(name string, dst *string) {
	if v, ok := os.LookupEnv(name); ok {
		*dst = v
	}
}

func setDuration(name string, dst *time.Duration) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = d
	return nil
}

func setInt(name string, dst *int) error {
	v, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	*dst = n
	return nil
}
