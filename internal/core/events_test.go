package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageEventFrom(t *testing.T) {
	tests := []struct {
		name          string
		payload       *WebhookPayload
		wantReceiveID string
		wantText      string
		wantErr       string
	}{
		{
			name: "p2p text message",
			payload: &WebhookPayload{
				Header: EventHeader{EventID: "evt-1"},
				Event: &ChatEvent{
					Sender: &Sender{SenderID: SenderID{OpenID: "ou_abc"}},
					Message: &Message{
						MessageType: "text",
						ChatType:    ChatTypeP2P,
						Content:     `{"text":"Please enlarge the header font"}`,
					},
				},
			},
			wantReceiveID: "ou_abc",
			wantText:      "Please enlarge the header font",
		},
		{
			name: "group text message replies to the chat",
			payload: &WebhookPayload{
				Header: EventHeader{EventID: "evt-2"},
				Event: &ChatEvent{
					Sender: &Sender{SenderID: SenderID{OpenID: "ou_abc"}},
					Message: &Message{
						MessageType: "text",
						ChatType:    ChatTypeGroup,
						ChatID:      "oc_group",
						Content:     `{"text":"Make the submit button smaller"}`,
					},
				},
			},
			wantReceiveID: "oc_group",
			wantText:      "Make the submit button smaller",
		},
		{
			name: "no message event",
			payload: &WebhookPayload{
				Header: EventHeader{EventID: "evt-3"},
			},
			wantErr: "no message event",
		},
		{
			name: "non-text message",
			payload: &WebhookPayload{
				Event: &ChatEvent{
					Message: &Message{MessageType: "image", ChatType: ChatTypeP2P},
				},
			},
			wantErr: "unsupported message type",
		},
		{
			name: "malformed content",
			payload: &WebhookPayload{
				Event: &ChatEvent{
					Sender:  &Sender{SenderID: SenderID{OpenID: "ou_abc"}},
					Message: &Message{MessageType: "text", ChatType: ChatTypeP2P, Content: "not-json"},
				},
			},
			wantErr: "decode message content",
		},
		{
			name: "p2p without sender",
			payload: &WebhookPayload{
				Event: &ChatEvent{
					Message: &Message{MessageType: "text", ChatType: ChatTypeP2P, Content: `{"text":"hi"}`},
				},
			},
			wantErr: "no sender open id",
		},
		{
			name: "unknown chat type",
			payload: &WebhookPayload{
				Event: &ChatEvent{
					Message: &Message{MessageType: "text", ChatType: "channel", Content: `{"text":"hi"}`},
				},
			},
			wantErr: "unknown chat type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := MessageEventFrom(tt.payload)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.payload.Header.EventID, ev.EventID)
			assert.Equal(t, tt.wantReceiveID, ev.ReceiveID)
			assert.Equal(t, tt.wantText, ev.Text)
		})
	}
}
