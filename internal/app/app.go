// Package app initializes and orchestrates the main components of the
// pr-courier application. It wires together the configuration, server, and
// other services.
package app

import (
	"log/slog"

	"github.com/pmflow/pr-courier/internal/config"
	"github.com/pmflow/pr-courier/internal/db"
	"github.com/pmflow/pr-courier/internal/server"
)

// App holds the main application components.
type App struct {
	cfg    *config.Config
	server *server.Server
	dbConn *db.DB
	logger *slog.Logger
}

// NewApp assembles the application from its already-built components.
// dbConn is nil when no run-history database is configured.
func NewApp(cfg *config.Config, srv *server.Server, dbConn *db.DB, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		server: srv,
		dbConn: dbConn,
		logger: logger,
	}
}

// Start runs the HTTP server and blocks until it stops.
func (a *App) Start() error {
	a.logger.Info("starting pr-courier",
		"server_port", a.cfg.ServerPort,
		"repo", a.cfg.RepoURL,
		"max_workers", a.cfg.MaxWorkers,
		"run_history", a.dbConn != nil,
	)

	if err := a.server.Start(); err != nil {
		a.logger.Error("failed to start HTTP server", "error", err)
		return err
	}
	return nil
}

// Stop shuts down the application cleanly. In-flight pipeline runs finish
// because shutdown waits for open webhook requests.
func (a *App) Stop() error {
	a.logger.Info("shutting down pr-courier services")

	err := a.server.Stop()
	if err != nil {
		a.logger.Error("error during HTTP server shutdown", "error", err)
	}

	a.logger.Info("pr-courier stopped")
	return err
}
