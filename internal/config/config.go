package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Project API
	APIBaseURL         string
	APIToken           string
	APICircuitBreaker  bool
	APIBreakerFailures int

	// Supabase
	SupabaseURL            string
	SupabasePublishableKey string
	SupabaseJWTSecret      string
	SupabaseStorageBucket  string
	AuthEmail              string
	AuthPassword           string

	// Database
	DatabaseURL string

	// Logging
	LogLevel string
	LogFile  string

	// Server
	Port        string
	Environment string
}

// Load reads a .env file when one exists, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		APIBaseURL:         getEnv("HOBBYHUB_API_URL", "http://localhost:8080/api"),
		APIToken:           getEnv("HOBBYHUB_API_TOKEN", ""),
		APICircuitBreaker:  getEnvBool("API_CIRCUIT_BREAKER", false),
		APIBreakerFailures: getEnvInt("API_BREAKER_FAILURES", 3),

		SupabaseURL:            getEnv("SUPABASE_URL", ""),
		SupabasePublishableKey: getEnv("SUPABASE_PUBLISHABLE_KEY", ""),
		SupabaseJWTSecret:      getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket:  getEnv("SUPABASE_STORAGE_BUCKET", "project-files"),
		AuthEmail:              getEnv("HOBBYHUB_EMAIL", ""),
		AuthPassword:           getEnv("HOBBYHUB_PASSWORD", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks what every binary needs.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("HOBBYHUB_API_URL is required")
	}
	if !strings.HasPrefix(c.APIBaseURL, "http://") && !strings.HasPrefix(c.APIBaseURL, "https://") {
		return fmt.Errorf("HOBBYHUB_API_URL must be an http(s) URL")
	}
	if c.APIBreakerFailures < 1 {
		return fmt.Errorf("API_BREAKER_FAILURES must be at least 1")
	}
	return nil
}

// ValidateServer checks the settings the development backend needs on top of Validate.
func (c *Config) ValidateServer() error {
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	return nil
}

// HasStorage reports whether file bytes can be pushed to Supabase Storage.
func (c *Config) HasStorage() bool {
	return c.SupabaseURL != "" && c.SupabasePublishableKey != "" && c.SupabaseStorageBucket != ""
}

// HasPasswordAuth reports whether a token can be obtained by signing in.
func (c *Config) HasPasswordAuth() bool {
	return c.SupabaseURL != "" && c.SupabasePublishableKey != "" && c.AuthEmail != "" && c.AuthPassword != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
