// Package config provides configuration for the generator and the read API
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lingopath/backend/internal/apperr"
)

// Store drivers
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite3"
)

// Config holds all configuration for the application
type Config struct {
	Store   StoreConfig
	Model   ModelConfig
	Paths   PathsConfig
	Server  ServerConfig
	Logging LoggingConfig
	CORS    CORSConfig
}

// StoreConfig holds relational store settings
type StoreConfig struct {
	Driver string
	// URL is the PostgREST base URL for the rest driver and the DSN otherwise.
	URL           string
	ServiceKey    string
	RunMigrations bool
}

// ModelConfig holds generative model settings
type ModelConfig struct {
	Provider          string
	APIKey            string
	Name              string
	BaseURL           string
	Timeout           time.Duration
	CallDelay         time.Duration
	RequestsPerMinute int
	MaxAttempts       int
	RetryBackoff      time.Duration
}

// PathsConfig points at an optional YAML override of the built-in paths
type PathsConfig struct {
	File string
}

// ServerConfig holds server settings
type ServerConfig struct {
	Port int
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string
}

// CORSConfig holds CORS settings
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads the generator configuration from environment variables. A .env
// file in the working directory is loaded first when present.
func Load() (*Config, error) {
	return load(true)
}

// LoadServer reads the read API configuration, which needs no model key.
func LoadServer() (*Config, error) {
	return load(false)
}

func load(withModel bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{}
	var err error

	// Store configuration
	if cfg.Store.URL, err = required("STORE_URL"); err != nil {
		return nil, err
	}
	if cfg.Store.ServiceKey, err = required("STORE_SERVICE_KEY"); err != nil {
		return nil, err
	}
	cfg.Store.Driver = strings.ToLower(withDefault("STORE_DRIVER", DriverREST))
	switch cfg.Store.Driver {
	case DriverREST, DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return nil, &apperr.ConfigurationError{Key: "STORE_DRIVER", Err: fmt.Errorf("unsupported driver %q", cfg.Store.Driver)}
	}
	if cfg.Store.RunMigrations, err = boolEnv("RUN_MIGRATIONS", cfg.Store.Driver != DriverREST); err != nil {
		return nil, err
	}

	// Model configuration
	if withModel {
		if cfg.Model.APIKey, err = required("MODEL_API_KEY"); err != nil {
			return nil, err
		}
	}
	cfg.Model.Provider = strings.ToLower(withDefault("MODEL_PROVIDER", "gemini"))
	cfg.Model.Name = os.Getenv("MODEL_NAME")
	cfg.Model.BaseURL = os.Getenv("MODEL_BASE_URL")
	if cfg.Model.Timeout, err = secondsEnv("MODEL_TIMEOUT_SECONDS", 180); err != nil {
		return nil, err
	}
	if cfg.Model.CallDelay, err = secondsEnv("MODEL_CALL_DELAY_SECONDS", 30); err != nil {
		return nil, err
	}
	if cfg.Model.RequestsPerMinute, err = intEnv("MODEL_REQUESTS_PER_MINUTE", 0); err != nil {
		return nil, err
	}
	if cfg.Model.MaxAttempts, err = intEnv("MODEL_MAX_ATTEMPTS", 5); err != nil {
		return nil, err
	}
	if cfg.Model.RetryBackoff, err = secondsEnv("MODEL_RETRY_BACKOFF_SECONDS", 60); err != nil {
		return nil, err
	}

	cfg.Paths.File = os.Getenv("COURSE_PATHS_FILE")

	// Server configuration
	if cfg.Server.Port, err = intEnv("SERVER_PORT", 8080); err != nil {
		return nil, err
	}

	// Logging configuration
	cfg.Logging.Level = withDefault("LOG_LEVEL", "info")

	// CORS configuration
	cfg.CORS.AllowedOrigins = parseOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"))

	return cfg, nil
}

func required(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", &apperr.ConfigurationError{Key: key}
	}
	return v, nil
}

func withDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func intEnv(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, &apperr.ConfigurationError{Key: key, Err: err}
	}
	if n < 0 {
		return 0, &apperr.ConfigurationError{Key: key, Err: fmt.Errorf("must not be negative, got %d", n)}
	}
	return n, nil
}

func secondsEnv(key string, def int) (time.Duration, error) {
	n, err := intEnv(key, def)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &apperr.ConfigurationError{Key: key, Err: err}
	}
	return b, nil
}

// parseOrigins splits a comma-separated origin list, defaulting to "*"
func parseOrigins(raw string) []string {
	origins := make([]string, 0)
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// UsesSQL reports whether the store is reached through database/sql
func (c *Config) UsesSQL() bool {
	return c.Store.Driver != DriverREST
}
