package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDevelopmentDefaults(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("MEALTRACKR_API_URL", "")
	t.Setenv("MEALTRACKR_STATE_PATH", t.TempDir()+"/state.db")
	t.Setenv("MEALTRACKR_HTTP_TIMEOUT", "")
	t.Setenv("MEALTRACKR_LOG_LEVEL", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, developmentBaseURL, cfg.APIBaseURL)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
}

func TestLoadConfigProductionBaseURL(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("CI", "")
	t.Setenv("MEALTRACKR_API_URL", "")
	t.Setenv("MEALTRACKR_STATE_PATH", t.TempDir()+"/state.db")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, productionBaseURL, cfg.APIBaseURL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("MEALTRACKR_API_URL", "http://10.0.0.5:9000/api/v1")
	t.Setenv("MEALTRACKR_HTTP_TIMEOUT", "5")
	t.Setenv("MEALTRACKR_LOG_LEVEL", "error")
	t.Setenv("MEALTRACKR_STATE_PATH", t.TempDir()+"/state.db")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "error", cfg.LogLevel)
}

func TestLoadConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("CI", "")
	t.Setenv("MEALTRACKR_HTTP_TIMEOUT", "soon")
	t.Setenv("MEALTRACKR_STATE_PATH", t.TempDir()+"/state.db")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfigRejectsBadBaseURL(t *testing.T) {
	cfg := &Config{APIBaseURL: "not a url", HTTPTimeout: time.Second, StatePath: "/tmp/x"}
	assert.Error(t, ValidateConfig(cfg))

	cfg.APIBaseURL = "ftp://example.com"
	assert.Error(t, ValidateConfig(cfg))

	cfg.APIBaseURL = "https://api.example.com/api/v1"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestGetEnvironment(t *testing.T) {
	t.Setenv("CI", "true")
	assert.Equal(t, CI, GetEnvironment())

	t.Setenv("CI", "")
	t.Setenv("ENV", "production")
	assert.Equal(t, Production, GetEnvironment())

	t.Setenv("ENV", "")
	assert.Equal(t, Development, GetEnvironment())
}
