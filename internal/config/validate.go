package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, &ValidationError{Field: "server.port", Message: "must be between 1 and 65535"})
	}
	if c.Fetch.TimeoutMS <= 0 {
		errs = append(errs, &ValidationError{Field: "fetch.timeout_ms", Message: "must be positive"})
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, &ValidationError{Field: "log.level", Message: "must be one of: debug, info, warn, error"})
	}
	if c.Redis.DB < 0 {
		errs = append(errs, &ValidationError{Field: "redis.db", Message: "must not be negative"})
	}
	return errors.Join(errs...)
}
