package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	githubToken string
	repoURL     string
)

var rootCmd = &cobra.Command{
	Use:   "courier-cli",
	Short: "courier-cli is the command-line interface for PR Courier.",
	Long:  `A CLI for running the PR Courier publish pipeline directly from the terminal, without going through the chat webhook.`,
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&githubToken, "github-token", "t", "", "GitHub Token")
	rootCmd.PersistentFlags().StringVarP(&repoURL, "repo", "r", "", "Target repository URL")

	if err := viper.BindPFlag("GITHUB_TOKEN", rootCmd.PersistentFlags().Lookup("github-token")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
	if err := viper.BindPFlag("GIT_REPO_URL", rootCmd.PersistentFlags().Lookup("repo")); err != nil {
		slog.Error("Error binding flag", "error", err)
		os.Exit(1)
	}
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}
