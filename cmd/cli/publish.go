package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pmflow/pr-courier/internal/agent"
	"github.com/pmflow/pr-courier/internal/config"
	"github.com/pmflow/pr-courier/internal/core"
	"github.com/pmflow/pr-courier/internal/github"
	"github.com/pmflow/pr-courier/internal/gitutil"
	"github.com/pmflow/pr-courier/internal/jobs"
	"github.com/pmflow/pr-courier/internal/logger"
)

// Color definitions
var (
	titleColor   = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

var publishCmd = &cobra.Command{
	Use:   "publish [instruction]",
	Short: "Run the full publish pipeline for a change instruction",
	Long: `Run the full publish pipeline for a change instruction.

The publish command clones the target repository, lets the change agent
apply the instruction, pushes the result on a new branch, and opens a
pull request against the base branch.

Examples:
  courier-cli publish "add a health endpoint to the API server"
  courier-cli publish -r https://github.com/owner/repo "fix the typo in the README"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPublish,
}

func init() { //nolint:gochecknoinits // Cobra command registration
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, args []string) error {
	instruction := strings.TrimSpace(strings.Join(args, " "))
	if instruction == "" {
		return fmt.Errorf("instruction must not be empty")
	}
	if viper.GetString("GIT_REPO_URL") == "" {
		return fmt.Errorf("target repository must be set via --repo or GIT_REPO_URL")
	}

	cfg := cliConfig()
	log := logger.NewLogger(cfg.Logging, os.Stderr)

	git := gitutil.NewClient(log)
	runner := agent.NewClaudeRunner(cfg.ClaudeBin, cfg.AgentMaxTurns, log)
	gh := github.NewPATClient(cmd.Context(), cfg.GitHubToken, log)
	job := jobs.NewPublishJob(cfg, git, runner, gh, nil, log)

	titleColor.Println("🚀 Publishing change")
	dimColor.Printf("   repo: %s\n", cfg.RepoURL)
	dimColor.Printf("   instruction: %s\n\n", instruction)

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.AgentTimeout+cfg.GitTimeout)
	defer cancel()

	start := time.Now()
	result := job.Run(ctx, &core.MessageEvent{
		EventID: fmt.Sprintf("cli-%d", time.Now().UnixNano()),
		Text:    instruction,
	})
	elapsed := time.Since(start).Round(time.Second)

	if !result.OK() {
		errorColor.Printf("✗ Publish failed after %s: %s\n", elapsed, result.Error)
		return fmt.Errorf("publish failed: %s", result.Error)
	}

	successColor.Printf("✓ Pull request created in %s\n", elapsed)
	fmt.Println(result.PRURL)
	return nil
}

// cliConfig assembles a pipeline configuration from flags and environment
// variables, skipping the webhook-only settings the server requires.
func cliConfig() *config.Config {
	viper.SetDefault("BASE_BRANCH", "main")
	viper.SetDefault("CLAUDE_BIN", "claude")
	viper.SetDefault("AGENT_MAX_TURNS", 6)
	viper.SetDefault("AGENT_TIMEOUT", "10m")
	viper.SetDefault("GIT_TIMEOUT", "2m")
	viper.SetDefault("HTTP_TIMEOUT", "15s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")

	return &config.Config{
		GitHubToken:   viper.GetString("GITHUB_TOKEN"),
		RepoURL:       viper.GetString("GIT_REPO_URL"),
		BaseBranch:    viper.GetString("BASE_BRANCH"),
		ClaudeBin:     viper.GetString("CLAUDE_BIN"),
		AgentMaxTurns: viper.GetInt("AGENT_MAX_TURNS"),
		AgentTimeout:  viper.GetDuration("AGENT_TIMEOUT"),
		GitTimeout:    viper.GetDuration("GIT_TIMEOUT"),
		HTTPTimeout:   viper.GetDuration("HTTP_TIMEOUT"),
		Logging: logger.Config{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
	}
}
