package config

import (
	"os"

	"github.com/joho/godotenv"
)

// LoadTestConfig loads the store settings for integration tests from the .env file or environment variables.
// When TEST_STORE_DRIVER is not set, an in-memory SQLite store is returned so tests run without external services.
func LoadTestConfig() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist - it's optional)
	_ = godotenv.Load("./../../configs/.env")
	_ = godotenv.Load()

	cfg := &Config{}
	cfg.Store.RunMigrations = true
	cfg.Logging.Level = "debug"

	driver := os.Getenv("TEST_STORE_DRIVER")
	if driver == "" || driver == DriverREST {
		cfg.Store.Driver = DriverSQLite
		cfg.Store.URL = "file::memory:?cache=shared&_foreign_keys=on"
		return cfg, nil
	}
	cfg.Store.Driver = driver
	cfg.Store.URL = os.Getenv("TEST_STORE_URL")
	return cfg, nil
}
