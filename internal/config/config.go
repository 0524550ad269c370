// Package config reads settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	Env string

	// Storage. Empty means the XDG data directory.
	DBPath string

	// Chart
	View         string
	RowHeight    int
	RenderConfig string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// A missing .env is fine, a malformed one is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Env: getEnv("GANTT_ENV", "development"),

		DBPath: getEnv("GANTT_DB_PATH", ""),

		View:         getEnv("GANTT_VIEW", "month"),
		RowHeight:    getIntEnv("GANTT_ROW_HEIGHT", 50),
		RenderConfig: getEnv("GANTT_RENDER_CONFIG", ""),

		LogLevel:  getEnv("GANTT_LOG_LEVEL", "info"),
		LogFormat: getEnv("GANTT_LOG_FORMAT", "text"),
		LogFile:   getEnv("GANTT_LOG_FILE", ""),
	}
	if cfg.RowHeight <= 0 {
		cfg.RowHeight = 50
	}
	if getBoolEnv("GANTT_DEBUG", false) {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
