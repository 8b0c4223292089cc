// Package lark is the outbound client for the Lark (Feishu) open platform:
// tenant token exchange and best-effort text replies.
package lark

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	tenantTokenPath = "/open-apis/auth/v3/tenant_access_token/internal"
	sendMessagePath = "/open-apis/im/v1/messages"
)

// Gateway is the chat platform surface the webhook handler depends on.
// Both operations are soft-failing: an empty token or an undelivered reply
// is logged, never raised.
type Gateway interface {
	// TenantAccessToken exchanges the app credentials for a short-lived
	// bearer token. Returns "" on any transport or platform error.
	TenantAccessToken(ctx context.Context) string

	// SendText posts a text message to the given open id or chat id.
	// Delivery is best-effort; failures are logged only.
	SendText(ctx context.Context, token, receiveID, text string)
}

type tokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
}

type sendResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// Client talks to the Lark REST API.
type Client struct {
	http      *resty.Client
	appID     string
	appSecret string
	logger    *slog.Logger
}

// NewClient creates a Lark client bound to baseURL with the given request
// timeout applied to every call.
func NewClient(baseURL, appID, appSecret string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:      httpClient,
		appID:     appID,
		appSecret: appSecret,
		logger:    logger,
	}
}

// TenantAccessToken implements Gateway.
func (c *Client) TenantAccessToken(ctx context.Context) string {
	var out tokenResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"app_id":     c.appID,
			"app_secret": c.appSecret,
		}).
		SetResult(&out).
		Post(tenantTokenPath)
	if err != nil {
		c.logger.Error("failed to fetch tenant access token", "error", err)
		return ""
	}
	if resp.IsError() {
		c.logger.Error("tenant access token request rejected", "status", resp.StatusCode())
		return ""
	}
	if out.Code != 0 {
		c.logger.Error("tenant access token exchange failed", "code", out.Code, "msg", out.Msg)
		return ""
	}
	return out.TenantAccessToken
}

// SendText implements Gateway.
func (c *Client) SendText(ctx context.Context, token, receiveID, text string) {
	content, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		c.logger.Error("failed to encode message content", "error", err)
		return
	}

	var out sendResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("receive_id_type", "open_id").
		SetAuthToken(token).
		SetBody(map[string]string{
			"receive_id": receiveID,
			"msg_type":   "text",
			"content":    string(content),
		}).
		SetResult(&out).
		Post(sendMessagePath)
	if err != nil {
		c.logger.Error("failed to send chat message", "receive_id", receiveID, "error", err)
		return
	}
	if resp.IsError() || out.Code != 0 {
		c.logger.Error("chat message rejected by platform",
			"receive_id", receiveID,
			"status", resp.StatusCode(),
			"code", out.Code,
			"msg", out.Msg,
		)
	}
}
