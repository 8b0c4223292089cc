// Package handler provides HTTP handlers for the pr-courier application.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"unicode/utf8"

	"github.com/pmflow/pr-courier/internal/config"
	"github.com/pmflow/pr-courier/internal/core"
	"github.com/pmflow/pr-courier/internal/dedup"
	"github.com/pmflow/pr-courier/internal/lark"
)

// minInstructionLength gates trivially short messages (counted in runes,
// matching how chat users perceive length) so greetings don't trigger a
// pipeline run.
const minInstructionLength = 10

const (
	ackReply        = "🤖 Processing your request, I'll send the PR link when it's ready..."
	successReplyPre = "Pull Request created successfully! Click here to view: "
	failureReplyPre = "Sorry, I couldn't publish that change: "
)

// WebhookHandler processes incoming event callbacks from the Lark platform.
// Every early-exit branch answers with an empty 200: the platform only needs
// the delivery acknowledged, and rejection reasons are deliberately not
// surfaced to the caller.
type WebhookHandler struct {
	cfg      *config.Config
	gateway  lark.Gateway
	executor core.Executor
	seen     *dedup.Set
	logger   *slog.Logger
}

// NewWebhookHandler creates a webhook handler with the given collaborators.
func NewWebhookHandler(cfg *config.Config, gateway lark.Gateway, executor core.Executor, seen *dedup.Set, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{
		cfg:      cfg,
		gateway:  gateway,
		executor: executor,
		seen:     seen,
		logger:   logger,
	}
}

// Handle processes one event delivery end to end.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	var payload core.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("ignoring malformed webhook body", "error", err)
		h.respondEmpty(w)
		return
	}

	if payload.Type == core.EventTypeURLVerification {
		h.respondJSON(w, map[string]string{"challenge": payload.Challenge})
		return
	}

	if payload.Header.Token != h.cfg.VerificationToken {
		h.logger.Warn("verification token mismatch", "event_id", payload.Header.EventID)
		h.respondEmpty(w)
		return
	}

	if !h.seen.ShouldProcess(payload.Header.EventID) {
		h.logger.Info("duplicate event ignored", "event_id", payload.Header.EventID)
		h.respondEmpty(w)
		return
	}

	event, err := core.MessageEventFrom(&payload)
	if err != nil {
		h.logger.Debug("dropping event", "event_id", payload.Header.EventID, "reason", err.Error())
		h.respondEmpty(w)
		return
	}

	// The platform gives up on slow deliveries and retries; outbound
	// replies must not die with the abandoned request. The pipeline run
	// itself is detached by the executor once a slot is acquired, so the
	// request context still governs how long we wait for one.
	ctx := context.WithoutCancel(r.Context())

	token := h.gateway.TenantAccessToken(ctx)
	if token == "" {
		h.logger.Error("no tenant access token, dropping event", "event_id", event.EventID)
		h.respondEmpty(w)
		return
	}

	if utf8.RuneCountInString(event.Text) < minInstructionLength {
		h.logger.Info("instruction too short, dropping event", "event_id", event.EventID)
		h.respondEmpty(w)
		return
	}

	h.gateway.SendText(ctx, token, event.ReceiveID, ackReply)

	result := h.executor.Execute(r.Context(), event)
	if result.OK() {
		h.gateway.SendText(ctx, token, event.ReceiveID, successReplyPre+result.PRURL)
	} else {
		h.gateway.SendText(ctx, token, event.ReceiveID, failureReplyPre+result.Error)
	}

	h.respondJSON(w, struct{}{})
}

func (h *WebhookHandler) respondEmpty(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
}

func (h *WebhookHandler) respondJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}
