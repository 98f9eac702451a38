package config

import (
	"fmt"
	"strings"
)

const minProductionSecretLength = 32

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errors []string

	required := []struct {
		field string
		value string
	}{
		{"SERVER_PORT", cfg.ServerPort},
		{"DB_HOST", cfg.DBHost},
		{"DB_USER", cfg.DBUser},
		{"DB_NAME", cfg.DBName},
		{"JWT_SECRET", cfg.JWTSecret},
	}
	for _, r := range required {
		if r.value == "" {
			errors = append(errors, ValidationError{Field: r.field, Message: "is required"}.Error())
		}
	}

	if cfg.Environment == Production {
		if cfg.DBPassword == "" {
			errors = append(errors, ValidationError{Field: "DB_PASSWORD", Message: "is required in production"}.Error())
		}
		if cfg.JWTSecret != "" && len(cfg.JWTSecret) < minProductionSecretLength {
			errors = append(errors, ValidationError{
				Field:   "JWT_SECRET",
				Message: fmt.Sprintf("must be at least %d bytes in production", minProductionSecretLength),
			}.Error())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}

	return nil
}
