// Package core defines the essential interfaces and data structures that form the
// backbone of the application. These components are designed to be abstract,
// allowing for flexible and decoupled implementations of the application's logic.
package core

import (
	"encoding/json"
	"fmt"
)

// Chat types delivered by the Lark platform.
const (
	ChatTypeP2P   = "p2p"
	ChatTypeGroup = "group"
)

// EventTypeURLVerification marks the platform's endpoint handshake payload.
const EventTypeURLVerification = "url_verification"

// WebhookPayload mirrors the JSON body of an inbound Lark event callback.
// Only the fields the bot consumes are declared.
type WebhookPayload struct {
	Type      string      `json:"type"`
	Challenge string      `json:"challenge"`
	Header    EventHeader `json:"header"`
	Event     *ChatEvent  `json:"event"`
}

// EventHeader carries delivery metadata attached to every event callback.
type EventHeader struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Token     string `json:"token"`
}

// ChatEvent is the event body of an im.message.receive callback.
type ChatEvent struct {
	Sender  *Sender  `json:"sender"`
	Message *Message `json:"message"`
}

// Sender identifies the user who produced the message.
type Sender struct {
	SenderID SenderID `json:"sender_id"`
}

// SenderID holds the sender's platform identifiers.
type SenderID struct {
	OpenID string `json:"open_id"`
}

// Message is the inbound chat message. Content is itself a JSON-encoded
// string whose shape depends on MessageType.
type Message struct {
	MessageID   string `json:"message_id"`
	MessageType string `json:"message_type"`
	ChatType    string `json:"chat_type"`
	ChatID      string `json:"chat_id"`
	Content     string `json:"content"`
}

type textContent struct {
	Text string `json:"text"`
}

// MessageEvent is the application's internal view of one accepted chat
// message: who to reply to and what the user asked for.
type MessageEvent struct {
	EventID   string
	ChatType  string
	ReceiveID string
	Text      string
}

// MessageEventFrom transforms a raw webhook payload into the internal
// MessageEvent representation. It acts as an anti-corruption layer: only
// text messages with a resolvable reply target pass through, everything
// else is rejected with a reason the handler logs and drops.
func MessageEventFrom(p *WebhookPayload) (*MessageEvent, error) {
	if p.Event == nil || p.Event.Message == nil {
		return nil, fmt.Errorf("payload carries no message event")
	}

	msg := p.Event.Message
	if msg.MessageType != "text" {
		return nil, fmt.Errorf("unsupported message type %q", msg.MessageType)
	}

	var content textContent
	if err := json.Unmarshal([]byte(msg.Content), &content); err != nil {
		return nil, fmt.Errorf("failed to decode message content: %w", err)
	}

	receiveID, err := resolveReceiveID(p.Event)
	if err != nil {
		return nil, err
	}

	return &MessageEvent{
		EventID:   p.Header.EventID,
		ChatType:  msg.ChatType,
		ReceiveID: receiveID,
		Text:      content.Text,
	}, nil
}

// resolveReceiveID picks the outbound reply target: the sender's open id for
// direct chats, the chat id for group chats.
func resolveReceiveID(event *ChatEvent) (string, error) {
	switch event.Message.ChatType {
	case ChatTypeP2P:
		if event.Sender == nil || event.Sender.SenderID.OpenID == "" {
			return "", fmt.Errorf("p2p message has no sender open id")
		}
		return event.Sender.SenderID.OpenID, nil
	case ChatTypeGroup:
		if event.Message.ChatID == "" {
			return "", fmt.Errorf("group message has no chat id")
		}
		return event.Message.ChatID, nil
	default:
		return "", fmt.Errorf("unknown chat type %q", event.Message.ChatType)
	}
}
