package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	productionBaseURL  = "https://api.mealtrackr.app/api/v1"
	developmentBaseURL = "http://localhost:8080/api/v1"
)

// Config holds all configuration for the client
type Config struct {
	// Backend API
	APIBaseURL  string
	HTTPTimeout time.Duration

	// Local persisted state (auth token database)
	StatePath string

	// Logging
	LogLevel string
}

// LoadConfig creates a new Config instance with values from environment variables,
// falling back to per-environment defaults
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	switch env {
	case Production:
		cfg.APIBaseURL = productionBaseURL
		cfg.LogLevel = "info"
	case CI, Test:
		cfg.APIBaseURL = developmentBaseURL
		cfg.LogLevel = "warn"
	case Development:
		cfg.APIBaseURL = developmentBaseURL
		cfg.LogLevel = "debug"
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if v := os.Getenv("MEALTRACKR_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("MEALTRACKR_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	cfg.HTTPTimeout = 30 * time.Second
	if v := os.Getenv("MEALTRACKR_HTTP_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid MEALTRACKR_HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = time.Duration(secs) * time.Second
	}

	cfg.StatePath = os.Getenv("MEALTRACKR_STATE_PATH")
	if cfg.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		cfg.StatePath = filepath.Join(home, ".mealtrackr", "state.db")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
