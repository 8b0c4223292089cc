package lark

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTenantAccessToken(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantToken string
	}{
		{
			name:      "successful exchange",
			status:    http.StatusOK,
			body:      `{"code":0,"tenant_access_token":"t-abc123"}`,
			wantToken: "t-abc123",
		},
		{
			name:      "platform error code",
			status:    http.StatusOK,
			body:      `{"code":99991663,"msg":"app not found"}`,
			wantToken: "",
		},
		{
			name:      "http error status",
			status:    http.StatusInternalServerError,
			body:      `{}`,
			wantToken: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, tenantTokenPath, r.URL.Path)

				var req map[string]string
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				assert.Equal(t, "app-id", req["app_id"])
				assert.Equal(t, "app-secret", req["app_secret"])

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "app-id", "app-secret", 5*time.Second, discardLogger())
			assert.Equal(t, tt.wantToken, c.TenantAccessToken(context.Background()))
		})
	}
}

func TestTenantAccessToken_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "app-id", "app-secret", time.Second, discardLogger())
	assert.Empty(t, c.TenantAccessToken(context.Background()))
}

func TestSendText(t *testing.T) {
	var got struct {
		auth      string
		queryType string
		body      map[string]string
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, sendMessagePath, r.URL.Path)
		got.auth = r.Header.Get("Authorization")
		got.queryType = r.URL.Query().Get("receive_id_type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got.body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":0,"msg":"success"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "app-id", "app-secret", 5*time.Second, discardLogger())
	c.SendText(context.Background(), "t-abc123", "ou_user", "hello there")

	assert.Equal(t, "Bearer t-abc123", got.auth)
	assert.Equal(t, "open_id", got.queryType)
	assert.Equal(t, "ou_user", got.body["receive_id"])
	assert.Equal(t, "text", got.body["msg_type"])

	var content map[string]string
	require.NoError(t, json.Unmarshal([]byte(got.body["content"]), &content))
	assert.Equal(t, "hello there", content["text"])
}

func TestSendText_FailureIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"code":230001,"msg":"receive_id invalid"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "app-id", "app-secret", 5*time.Second, discardLogger())
	// Must not panic or surface anything to the caller.
	c.SendText(context.Background(), "t-abc123", "bogus", "hello")
}
