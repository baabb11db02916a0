package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment `mapstructure:"-"`

	// Server configuration
	ServerHost  string   `mapstructure:"server_host"`
	ServerPort  string   `mapstructure:"server_port"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	// Database configuration
	DBDriver   string `mapstructure:"db_driver"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name"`
	DBSSLMode  string `mapstructure:"db_ssl_mode"`
	SQLitePath string `mapstructure:"sqlite_path"`

	// Redis configuration
	RedisHost     string `mapstructure:"redis_host"`
	RedisPort     string `mapstructure:"redis_port"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisURL      string `mapstructure:"redis_url"`

	// JWT configuration
	JWTSecret string `mapstructure:"jwt_secret"`

	LogLevel   string        `mapstructure:"log_level"`
	SessionTTL time.Duration `mapstructure:"session_ttl"`

	// Recipe media
	S3Bucket   string `mapstructure:"s3_bucket_name"`
	AWSRegion  string `mapstructure:"aws_region"`
	S3Endpoint string `mapstructure:"s3_endpoint"`

	Extraction ExtractionConfig `mapstructure:"extraction"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

// ExtractionConfig selects and configures the recipe photo extraction provider.
type ExtractionConfig struct {
	Provider          string        `mapstructure:"provider"`
	GeminiAPIKey      string        `mapstructure:"gemini_api_key"`
	GeminiModel       string        `mapstructure:"gemini_model"`
	OpenRouterAPIKey  string        `mapstructure:"openrouter_api_key"`
	OpenRouterModel   string        `mapstructure:"openrouter_model"`
	OpenRouterBaseURL string        `mapstructure:"openrouter_base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	DraftTTL          time.Duration `mapstructure:"draft_ttl"`
	MaxImageBytes     int           `mapstructure:"max_image_bytes"`
}

type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// secretKeys are read from the Docker secrets directory when present and
// take precedence over environment variables.
var secretKeys = []string{
	"db_user",
	"db_password",
	"jwt_secret",
	"redis_password",
	"redis_url",
	"extraction.gemini_api_key",
	"extraction.openrouter_api_key",
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"server_host":                    "SERVER_HOST",
	"server_port":                    "SERVER_PORT",
	"cors_origins":                   "CORS_ORIGINS",
	"db_driver":                      "DB_DRIVER",
	"db_host":                        "DB_HOST",
	"db_port":                        "DB_PORT",
	"db_user":                        "DB_USER",
	"db_password":                    "DB_PASSWORD",
	"db_name":                        "DB_NAME",
	"db_ssl_mode":                    "DB_SSL_MODE",
	"sqlite_path":                    "SQLITE_PATH",
	"redis_host":                     "REDIS_HOST",
	"redis_port":                     "REDIS_PORT",
	"redis_password":                 "REDIS_PASSWORD",
	"redis_db":                       "REDIS_DB",
	"redis_url":                      "REDIS_URL",
	"jwt_secret":                     "JWT_SECRET",
	"log_level":                      "LOG_LEVEL",
	"session_ttl":                    "SESSION_TTL",
	"s3_bucket_name":                 "S3_BUCKET_NAME",
	"aws_region":                     "AWS_REGION",
	"s3_endpoint":                    "S3_ENDPOINT",
	"extraction.provider":            "EXTRACTION_PROVIDER",
	"extraction.gemini_api_key":      "GEMINI_API_KEY",
	"extraction.gemini_model":        "GEMINI_MODEL",
	"extraction.openrouter_api_key":  "OPENROUTER_API_KEY",
	"extraction.openrouter_model":    "OPENROUTER_MODEL",
	"extraction.openrouter_base_url": "OPENROUTER_BASE_URL",
	"extraction.timeout":             "EXTRACTION_TIMEOUT",
	"extraction.draft_ttl":           "EXTRACTION_DRAFT_TTL",
	"extraction.max_image_bytes":     "EXTRACTION_MAX_IMAGE_BYTES",
	"rate_limit.enabled":             "RATE_LIMIT_ENABLED",
	"rate_limit.requests":            "RATE_LIMIT_REQUESTS",
	"rate_limit.window":              "RATE_LIMIT_WINDOW",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8080")
	v.SetDefault("cors_origins", []string{"http://localhost:5173"})

	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "weekprep")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("sqlite_path", "weekprep.db")

	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)

	v.SetDefault("log_level", "info")
	v.SetDefault("session_ttl", "12h")
	v.SetDefault("s3_bucket_name", "weekprep-recipe-media")
	v.SetDefault("aws_region", "us-east-1")

	v.SetDefault("extraction.provider", "gemini")
	v.SetDefault("extraction.gemini_model", "gemini-1.5-flash")
	v.SetDefault("extraction.openrouter_model", "qwen/qwen2.5-vl-72b-instruct:free")
	v.SetDefault("extraction.openrouter_base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("extraction.timeout", "60s")
	v.SetDefault("extraction.draft_ttl", "24h")
	v.SetDefault("extraction.max_image_bytes", 10*1024*1024)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 10)
	v.SetDefault("rate_limit.window", "1m")
}

// LoadConfig builds the configuration from defaults, an optional .env file,
// environment variables and Docker secrets, then validates it.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()

	// .env is optional outside of production
	if env != Production {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)
	for key, envVar := range envBindings {
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", envVar, err)
		}
	}

	// CI uses environment variables only
	if env != CI {
		for _, key := range secretKeys {
			if value := readSecret(secretFileName(key)); value != "" {
				v.Set(key, value)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Env = env
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// DatabaseDSN returns the PostgreSQL connection string.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// DatabaseURL is DatabaseDSN in URL form, as lib/pq and migration tooling expect.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// secretFileName turns a nested key such as extraction.gemini_api_key into its secret file name.
func secretFileName(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[i+1:]
	}
	return key
}

// viper hands comma separated env values over as a single element
func splitList(in []string) []string {
	var out []string
	for _, s := range in {
		for _, part := range strings.Split(s, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	data, err := os.ReadFile(filepath.Join(secretsDir(), name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
