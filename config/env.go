package config

import (
	"os"
	"strings"
)

// Environment is the deployment the service runs in. It decides whether .env
// and Docker secrets are read and how strictly the config is validated.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// ParseEnvironment maps free text onto an Environment, defaulting to Development.
func ParseEnvironment(s string) Environment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "production", "prod":
		return Production
	case "test", "testing":
		return Test
	case "ci":
		return CI
	default:
		return Development
	}
}

// GetEnvironment reads WEEKPREP_ENV, falling back to ENV.
// CI=true always wins so pipelines never pick up local secrets.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}
	if env := os.Getenv("WEEKPREP_ENV"); env != "" {
		return ParseEnvironment(env)
	}
	return ParseEnvironment(os.Getenv("ENV"))
}

// IsProduction returns true if the current environment is production
func IsProduction() bool {
	return GetEnvironment() == Production
}
