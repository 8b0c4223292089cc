package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ID", "cli_test_app")
	t.Setenv("APP_SECRET", "s3cret")
	t.Setenv("APP_VERIFICATION_TOKEN", "verify-me")
	t.Setenv("GIT_REPO_URL", "https://github.com/acme/website")
}

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "https://open.larksuite.com", cfg.LarkBaseURL)
	assert.Equal(t, "main", cfg.BaseBranch)
	assert.Equal(t, "claude", cfg.ClaudeBin)
	assert.Equal(t, 6, cfg.AgentMaxTurns)
	assert.Equal(t, 10*time.Minute, cfg.AgentTimeout)
	assert.Equal(t, 2*time.Minute, cfg.GitTimeout)
	assert.Equal(t, 2, cfg.MaxWorkers)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)
	t.Setenv("SERVER_PORT", "9999")
	t.Setenv("BASE_BRANCH", "develop")
	t.Setenv("AGENT_MAX_TURNS", "12")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.ServerPort)
	assert.Equal(t, "develop", cfg.BaseBranch)
	assert.Equal(t, 12, cfg.AgentMaxTurns)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadConfig_MissingRequired(t *testing.T) {
	viper.Reset()
	t.Setenv("APP_ID", "cli_test_app")
	t.Setenv("APP_SECRET", "s3cret")
	t.Setenv("GIT_REPO_URL", "https://github.com/acme/website")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "APP_VERIFICATION_TOKEN must be set")
}

func TestLoadConfig_InvalidWorkerCount(t *testing.T) {
	viper.Reset()
	setRequiredEnv(t)
	t.Setenv("MAX_WORKERS", "0")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "MAX_WORKERS must be positive")
}
