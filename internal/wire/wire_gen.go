// Code generated manually. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package wire

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pmflow/pr-courier/internal/agent"
	"github.com/pmflow/pr-courier/internal/app"
	"github.com/pmflow/pr-courier/internal/config"
	"github.com/pmflow/pr-courier/internal/db"
	"github.com/pmflow/pr-courier/internal/dedup"
	"github.com/pmflow/pr-courier/internal/github"
	"github.com/pmflow/pr-courier/internal/gitutil"
	"github.com/pmflow/pr-courier/internal/jobs"
	"github.com/pmflow/pr-courier/internal/lark"
	"github.com/pmflow/pr-courier/internal/logger"
	"github.com/pmflow/pr-courier/internal/server"
	"github.com/pmflow/pr-courier/internal/storage"
)

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	var logWriter io.Writer
	switch cfg.Logging.Output {
	case "stderr":
		logWriter = os.Stderr
	case "file":
		f, _ := os.OpenFile("pr-courier.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		logWriter = f
	default:
		logWriter = os.Stdout
	}
	slogLogger := logger.NewLogger(cfg.Logging, logWriter)

	// Optional run-history database
	var dbConn *db.DB
	var store storage.Store
	cleanup := func() {}
	if cfg.DatabaseURL != "" {
		var dbCleanup func()
		dbConn, dbCleanup, err = db.NewDatabase(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store = storage.NewStore(dbConn.DB)
		cleanup = dbCleanup
	}

	// Chat gateway
	gateway := lark.NewClient(cfg.LarkBaseURL, cfg.AppID, cfg.AppSecret, cfg.HTTPTimeout, slogLogger)

	// Git client
	gitClient := gitutil.NewClient(slogLogger)

	// Change agent
	agentRunner := agent.NewClaudeRunner(cfg.ClaudeBin, cfg.AgentMaxTurns, slogLogger)

	// GitHub client
	ghClient := github.NewPATClient(ctx, cfg.GitHubToken, slogLogger)

	// Publish job and executor
	publishJob := jobs.NewPublishJob(cfg, gitClient, agentRunner, ghClient, store, slogLogger)
	executor := jobs.NewExecutor(publishJob, cfg.MaxWorkers, slogLogger)

	// Dedup set
	seen := dedup.NewSet(dedup.DefaultCapacity)

	// Server
	srv := server.NewServer(ctx, cfg, gateway, executor, seen, slogLogger)

	// App
	application := app.NewApp(cfg, srv, dbConn, slogLogger)

	return application, cleanup, nil
}
