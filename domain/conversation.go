package domain

import (
	"context"
	"time"
)

// DefaultConversationTitle is the sentinel title given to a conversation at
// creation. It is overwritten exactly once, the first time an assistant reply
// is persisted while the conversation still carries it.
const DefaultConversationTitle = "New conversation"

// DefaultTitleLength is the number of code points of the first user message
// used as the conversation title. Truncation is by rune, not by byte, so
// multi-byte text is never cut mid-character.
const DefaultTitleLength = 30

// Conversation represents a single chat thread owned by a user.
type Conversation struct {
	Id      string    `json:"id"`
	UserId  string    `json:"userId"`
	Title   string    `json:"title"`
	Model   string    `json:"model"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// DefaultTitleCandidate derives a conversation title from message text.
func DefaultTitleCandidate(text string) string {
	runes := []rune(text)
	if len(runes) > DefaultTitleLength {
		runes = runes[:DefaultTitleLength]
	}
	return string(runes)
}

// ConversationStorage defines the interface for conversation-related database operations
type ConversationStorage interface {
	PersistConversation(ctx context.Context, conversation Conversation) error
	GetConversation(ctx context.Context, userId, conversationId string) (Conversation, error)
	GetConversations(ctx context.Context, userId string, page, pageSize int64) ([]Conversation, int64, error)
	DeleteConversation(ctx context.Context, userId, conversationId string) error

	// MaybeSetDefaultTitle replaces the sentinel title with a truncated
	// candidate. It is a no-op when the title has already been set.
	MaybeSetDefaultTitle(ctx context.Context, conversationId, candidate string) error
}
