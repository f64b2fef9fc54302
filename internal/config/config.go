package config

import (
	"os"
	"strconv"
	"time"

	"arbodash/internal/errors"
)

// DefaultESPDate is the Brumadinho dam collapse, used as the intervention boundary
const DefaultESPDate = "2019-01-25"

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Data      DataConfig
	Auth      AuthConfig
	Analysis  AnalysisConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// DatabaseConfig holds database connection settings. An empty URL keeps
// sessions in memory.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port          string
	GinMode       string
	SessionCookie string
	SessionTTL    time.Duration
}

// DataConfig holds dataset location settings. Synthetic serves a generated
// dataset instead of reading DatasetPath.
type DataConfig struct {
	DatasetPath string
	Synthetic   bool
}

// AuthConfig holds the credential file location
type AuthConfig struct {
	File string
}

// AnalysisConfig holds model settings
type AnalysisConfig struct {
	ESPDate time.Time
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	espRaw := getEnvOrDefault("ESP_DATE", DefaultESPDate)
	esp, err := time.Parse("2006-01-02", espRaw)
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid("ESP_DATE must be YYYY-MM-DD"), "failed to load analysis configuration")
	}

	config := &Config{
		Database: DatabaseConfig{
			URL:     getEnvOrDefault("DATABASE_URL", ""),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port:          getEnvOrDefault("PORT", "8501"),
			GinMode:       getEnvOrDefault("GIN_MODE", "release"),
			SessionCookie: getEnvOrDefault("SESSION_COOKIE", "arbodash_session"),
			SessionTTL:    getEnvDurationOrDefault("SESSION_TTL", 12*time.Hour),
		},
		Data: DataConfig{
			DatasetPath: getEnvOrDefault("DATASET_PATH", "data/arbo14vale24.parquet"),
			Synthetic:   getEnvBoolOrDefault("SYNTHETIC_DATA", false),
		},
		Auth: AuthConfig{
			File: getEnvOrDefault("AUTH_FILE", "secrets.yaml"),
		},
		Analysis: AnalysisConfig{
			ESPDate: esp,
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Server.SessionTTL <= 0 {
		return errors.ConfigInvalid("SESSION_TTL must be positive")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
