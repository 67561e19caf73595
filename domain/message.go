package domain

import (
	"context"
	"fmt"
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func StringToRole(s string) (Role, error) {
	switch s {
	case "system":
		return RoleSystem, nil
	case "user":
		return RoleUser, nil
	case "assistant":
		return RoleAssistant, nil
	default:
		return "", fmt.Errorf("invalid Role: %q", s)
	}
}

// Message is a single chat turn within a conversation. Messages are
// append-only: created once, never mutated, deleted only via cascading
// conversation deletion. Ordering within a conversation is creation-time
// ascending, and that order is the contract provider adapters rely on.
type Message struct {
	Id             string    `json:"id"`
	ConversationId string    `json:"conversationId"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	Tokens         int       `json:"tokens"`
	Created        time.Time `json:"created"`
}

// MessageStorage defines the interface for message-related database operations
type MessageStorage interface {
	PersistMessage(ctx context.Context, message Message) error
	// GetMessages returns a conversation's messages in chronological order.
	GetMessages(ctx context.Context, conversationId string) ([]Message, error)
}
