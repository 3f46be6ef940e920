package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the configuration is usable before the
// server starts. Missing secrets fail here, not at first request.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET is required")
	}
	if cfg.DBHost == "" {
		errs = append(errs, "DB_HOST is required")
	}
	if cfg.DBName == "" {
		errs = append(errs, "DB_NAME is required")
	}
	if cfg.DBUser == "" {
		errs = append(errs, "DB_USER is required")
	}
	if IsProduction() {
		if cfg.DBPassword == "" {
			errs = append(errs, "DB_PASSWORD (or db_password secret) is required in production")
		}
		if cfg.DBSSLMode == "disable" {
			errs = append(errs, "DB_SSL_MODE must not be 'disable' in production")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
