//go:build wireinject
// +build wireinject

package wire

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/google/wire"

	"github.com/pmflow/pr-courier/internal/agent"
	"github.com/pmflow/pr-courier/internal/app"
	"github.com/pmflow/pr-courier/internal/config"
	"github.com/pmflow/pr-courier/internal/core"
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

func InitializeApp(ctx context.Context) (*app.App, func(), error) {
	wire.Build(
		app.NewApp,
		server.NewServer,
		config.LoadConfig,
		jobs.NewPublishJob,
		provideGitClient,
		provideExecutor,
		provideGateway,
		provideAgentRunner,
		provideGitHubClient,
		provideDatabase,
		provideStore,
		provideDedupSet,
		provideSlogLogger,
		provideLogWriter,
	)
	return &app.App{}, nil, nil
}

func provideDedupSet() *dedup.Set {
	return dedup.NewSet(dedup.DefaultCapacity)
}

func provideGateway(cfg *config.Config, log *slog.Logger) lark.Gateway {
	return lark.NewClient(cfg.LarkBaseURL, cfg.AppID, cfg.AppSecret, cfg.HTTPTimeout, log)
}

func provideAgentRunner(cfg *config.Config, log *slog.Logger) agent.Runner {
	return agent.NewClaudeRunner(cfg.ClaudeBin, cfg.AgentMaxTurns, log)
}

func provideGitHubClient(ctx context.Context, cfg *config.Config, log *slog.Logger) github.Client {
	return github.NewPATClient(ctx, cfg.GitHubToken, log)
}

func provideGitClient(log *slog.Logger) jobs.GitClient {
	return gitutil.NewClient(log)
}

func provideExecutor(job core.Job, cfg *config.Config, log *slog.Logger) core.Executor {
	return jobs.NewExecutor(job, cfg.MaxWorkers, log)
}

func provideDatabase(cfg *config.Config) (*db.DB, func(), error) {
	if cfg.DatabaseURL == "" {
		return nil, func() {}, nil
	}
	return db.NewDatabase(cfg.DatabaseURL)
}

func provideStore(dbConn *db.DB) storage.Store {
	if dbConn == nil {
		return nil
	}
	return storage.NewStore(dbConn.DB)
}

func provideLogWriter(cfg *config.Config) io.Writer {
	switch cfg.Logging.Output {
	case "stderr":
		return os.Stderr
	case "file":
		f, _ := os.OpenFile("pr-courier.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
		return f
	default:
		return os.Stdout
	}
}

func provideSlogLogger(cfg *config.Config, writer io.Writer) *slog.Logger {
	return logger.NewLogger(cfg.Logging, writer)
}
