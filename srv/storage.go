package srv

import (
	"context"

	"llmchat/domain"
)

// Storage aggregates the persistence interfaces the chat service depends on.
type Storage interface {
	domain.ConversationStorage
	domain.MessageStorage
	domain.UsageStorage

	CheckConnection(ctx context.Context) error
}
