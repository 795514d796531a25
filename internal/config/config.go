// Package config provides configuration management for the volunteer hub service.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	LocalStore LocalStoreConfig
	Cache      CacheConfig
	RateLimit  RateLimitConfig
	Logging    LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig
	Redis    RedisConfig
}

// PostgresConfig holds the hosted backend configuration. The anon-scoped
// credentials here are the only ones ever handed to this service; the
// privileged service-role credentials belong to the out-of-band jobs and
// are read separately (see ServiceRoleDSN).
type PostgresConfig struct {
	Host           string
	Port           string
	Database       string
	User           string
	Password       string
	MaxConnections int
}

// placeholder values shipped in sample .env files; credentials carrying
// them must be treated as absent, not as a connection failure
var placeholderValues = map[string]bool{
	"":                    true,
	"YOUR_BACKEND_HOST":   true,
	"YOUR_BACKEND_PASS":   true,
	"changeme":            true,
	"your-project-ref":    true,
	"your-anon-key":       true,
}

// IsConfigured reports whether real backend credentials are present. This
// is the input to mode selection: false routes the whole session to the
// local fallback store without attempting a connection.
func (c *PostgresConfig) IsConfigured() bool {
	return !placeholderValues[c.Host] && !placeholderValues[c.Password]
}

// RedisConfig holds Redis configuration for the opportunity query cache
type RedisConfig struct {
	Host           string
	Port           string
	Password       string
	DB             int
	MaxConnections int
}

// Enabled reports whether a cache address is configured. The cache is
// optional; without it opportunity reads go straight to the backend.
func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

// AuthConfig holds auth bridge configuration
type AuthConfig struct {
	// JWTSecret verifies session tokens minted by the hosted auth service
	// and signs demo-session tokens.
	JWTSecret string
	// TokenTTL bounds demo session token lifetime.
	TokenTTL time.Duration
	// ProviderBaseURL is the hosted OAuth service endpoint the bridge
	// delegates provider sign-in to.
	ProviderBaseURL string
	// RedirectURL is where the hosted service sends the browser back.
	RedirectURL string
}

// LocalStoreConfig holds local fallback store configuration
type LocalStoreConfig struct {
	// Dir is the directory holding one JSON file per logical table.
	Dir string
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	TTL time.Duration
}

// RateLimitConfig holds per-user API rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond int
	Burst             int
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	// .env file is optional - environment variables can be set directly
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:           getEnv("POSTGRES_HOST", ""),
				Port:           getEnv("POSTGRES_PORT", "5432"),
				Database:       getEnv("POSTGRES_DB", "volunteer_hub"),
				User:           getEnv("POSTGRES_USER", "anon"),
				Password:       getEnv("POSTGRES_PASSWORD", ""),
				MaxConnections: getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 20),
			},
			Redis: RedisConfig{
				Host:           getEnv("REDIS_HOST", ""),
				Port:           getEnv("REDIS_PORT", "6379"),
				Password:       getEnv("REDIS_PASSWORD", ""),
				DB:             getEnvAsInt("REDIS_DB", 0),
				MaxConnections: getEnvAsInt("REDIS_MAX_CONNECTIONS", 20),
			},
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", ""),
			TokenTTL:        getEnvAsDuration("AUTH_TOKEN_TTL", 24*time.Hour),
			ProviderBaseURL: getEnv("AUTH_PROVIDER_BASE_URL", ""),
			RedirectURL:     getEnv("AUTH_REDIRECT_URL", ""),
		},
		LocalStore: LocalStoreConfig{
			Dir: getEnv("LOCAL_STORE_DIR", "data"),
		},
		Cache: CacheConfig{
			TTL: getEnvAsDuration("CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsInt("RATE_LIMIT_RPS", 20),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	return config, nil
}

// ServiceRoleDSN returns the privileged connection string used only by the
// out-of-band batch jobs (opportunity ingestion, recommendation
// generation). It is never read by
// the API server path and is never sent to clients.
func ServiceRoleDSN() string {
	return strings.TrimSpace(os.Getenv("SERVICE_ROLE_DSN"))
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
