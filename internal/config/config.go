// Package config loads and validates the application's configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/pmflow/pr-courier/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	ServerPort string

	// Lark app credentials and the callback verification token.
	AppID             string
	AppSecret         string
	VerificationToken string
	LarkBaseURL       string

	// Target repository and source-control credential.
	GitHubToken string
	RepoURL     string
	BaseBranch  string

	// Change-agent invocation.
	ClaudeBin     string
	AgentMaxTurns int
	AgentTimeout  time.Duration

	GitTimeout  time.Duration
	HTTPTimeout time.Duration

	// MaxWorkers caps concurrent publish pipeline runs.
	MaxWorkers int

	// DatabaseURL enables the optional run-history store when set.
	DatabaseURL string

	Logging logger.Config
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("LOG_OUTPUT", "stdout")
	viper.SetDefault("LARK_BASE_URL", "https://open.larksuite.com")
	viper.SetDefault("BASE_BRANCH", "main")
	viper.SetDefault("CLAUDE_BIN", "claude")
	viper.SetDefault("AGENT_MAX_TURNS", 6)
	viper.SetDefault("AGENT_TIMEOUT", "10m")
	viper.SetDefault("GIT_TIMEOUT", "2m")
	viper.SetDefault("HTTP_TIMEOUT", "15s")
	viper.SetDefault("MAX_WORKERS", 2)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A present-but-broken .env is not fatal; env vars still apply.
			fmt.Printf("warning: failed to read .env file: %v\n", err)
		}
	}

	for _, key := range []string{"APP_ID", "APP_SECRET", "APP_VERIFICATION_TOKEN", "GIT_REPO_URL"} {
		if viper.GetString(key) == "" {
			return nil, fmt.Errorf("%s must be set", key)
		}
	}

	cfg := &Config{
		ServerPort:        viper.GetString("SERVER_PORT"),
		AppID:             viper.GetString("APP_ID"),
		AppSecret:         viper.GetString("APP_SECRET"),
		VerificationToken: viper.GetString("APP_VERIFICATION_TOKEN"),
		LarkBaseURL:       viper.GetString("LARK_BASE_URL"),
		GitHubToken:       viper.GetString("GITHUB_TOKEN"),
		RepoURL:           viper.GetString("GIT_REPO_URL"),
		BaseBranch:        viper.GetString("BASE_BRANCH"),
		ClaudeBin:         viper.GetString("CLAUDE_BIN"),
		AgentMaxTurns:     viper.GetInt("AGENT_MAX_TURNS"),
		AgentTimeout:      viper.GetDuration("AGENT_TIMEOUT"),
		GitTimeout:        viper.GetDuration("GIT_TIMEOUT"),
		HTTPTimeout:       viper.GetDuration("HTTP_TIMEOUT"),
		MaxWorkers:        viper.GetInt("MAX_WORKERS"),
		DatabaseURL:       viper.GetString("DATABASE_URL"),
		Logging: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
			Output: viper.GetString("LOG_OUTPUT"),
		},
	}

	if cfg.AgentMaxTurns <= 0 {
		return nil, fmt.Errorf("AGENT_MAX_TURNS must be positive, got %d", cfg.AgentMaxTurns)
	}
	if cfg.MaxWorkers <= 0 {
		return nil, fmt.Errorf("MAX_WORKERS must be positive, got %d", cfg.MaxWorkers)
	}

	return cfg, nil
}
