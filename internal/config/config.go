package config

import (
	"os"
	"strconv"

	"crashlens/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Database DatabaseConfig
	Metrics  MetricsConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DataConfig holds the three source-table locations. The primary and
// supplemental tables may be CSV or xlsx; the reader dispatches on extension.
type DataConfig struct {
	PrimaryFile      string
	SupplementalFile string
	AuthorityFile    string
}

// DatabaseConfig holds the optional run-history store settings.
// Persistence is skipped entirely when URL is empty.
type DatabaseConfig struct {
	URL string
}

// MetricsConfig holds Prometheus exposure settings
type MetricsConfig struct {
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Data: DataConfig{
			PrimaryFile:      getEnvOrDefault("PRIMARY_FILE", "data/accidents.csv"),
			SupplementalFile: getEnvOrDefault("SUPPLEMENTAL_FILE", "data/supplemental.csv"),
			AuthorityFile:    getEnvOrDefault("AUTHORITY_FILE", "data/authorities.csv"),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBoolOrDefault("METRICS_ENABLED", true),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Data.PrimaryFile == "" {
		return errors.ConfigInvalid("primary table file is required")
	}
	if config.Data.SupplementalFile == "" {
		return errors.ConfigInvalid("supplemental table file is required")
	}
	if config.Data.AuthorityFile == "" {
		return errors.ConfigInvalid("authority table file is required")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
