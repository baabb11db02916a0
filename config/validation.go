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

// ValidationErrors collects every problem found in a configuration.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "\n")
}

const devJWTSecret = "dev-secret-change-me"

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("server_port", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			add("db_host", "host and database name are required for postgres")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			add("sqlite_path", "is required for sqlite")
		}
	default:
		add("db_driver", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	switch cfg.Extraction.Provider {
	case "gemini", "openrouter", "none":
	default:
		add("extraction.provider", fmt.Sprintf("unsupported provider %q", cfg.Extraction.Provider))
	}
	if cfg.Extraction.DraftTTL <= 0 {
		add("extraction.draft_ttl", "must be positive")
	}
	if cfg.RateLimit.Enabled && (cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0) {
		add("rate_limit", "requests and window must be positive when enabled")
	}
	if cfg.SessionTTL <= 0 {
		add("session_ttl", "must be positive")
	}

	switch cfg.Env {
	case Production, CI:
		// sensitive values must be provided explicitly
		if cfg.JWTSecret == "" {
			add("jwt_secret", "is required")
		}
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			add("db_password", "is required")
		}
	default:
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
