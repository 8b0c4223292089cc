package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pmflow/pr-courier/internal/config"
	"github.com/pmflow/pr-courier/internal/core"
	"github.com/pmflow/pr-courier/internal/dedup"
	"github.com/pmflow/pr-courier/internal/lark"
	"github.com/pmflow/pr-courier/internal/server/handler"
)

// NewRouter creates and configures a new HTTP router with middleware and API
// routes. No request timeout middleware is installed: the webhook route
// legitimately stays open for the duration of a pipeline run.
func NewRouter(cfg *config.Config, gateway lark.Gateway, executor core.Executor, seen *dedup.Set, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		webhookHandler := handler.NewWebhookHandler(cfg, gateway, executor, seen, logger)
		r.Post("/webhook/lark", webhookHandler.Handle)
	})

	return r
}
