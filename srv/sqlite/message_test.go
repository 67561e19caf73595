package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmchat/domain"
)

func TestPersistAndGetMessages(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "message_test")
	ctx := context.Background()

	require.NoError(t, storage.PersistConversation(ctx, testConversation("conv_1", "user_1")))

	base := time.Now().UTC().Truncate(time.Millisecond)
	turns := []domain.Message{
		{Id: "msg_1", ConversationId: "conv_1", Role: domain.RoleUser, Content: "hello", Tokens: 1, Created: base},
		{Id: "msg_2", ConversationId: "conv_1", Role: domain.RoleAssistant, Content: "hi there", Tokens: 2, Created: base.Add(time.Second)},
		{Id: "msg_3", ConversationId: "conv_1", Role: domain.RoleUser, Content: "tell me more", Tokens: 3, Created: base.Add(2 * time.Second)},
	}
	// Persist out of order; retrieval must still be chronological.
	require.NoError(t, storage.PersistMessage(ctx, turns[2]))
	require.NoError(t, storage.PersistMessage(ctx, turns[0]))
	require.NoError(t, storage.PersistMessage(ctx, turns[1]))

	messages, err := storage.GetMessages(ctx, "conv_1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	for i, expected := range turns {
		assert.Equal(t, expected.Id, messages[i].Id)
		assert.Equal(t, expected.Role, messages[i].Role)
		assert.Equal(t, expected.Content, messages[i].Content)
		assert.Equal(t, expected.Tokens, messages[i].Tokens)
	}
}

func TestGetMessagesEmptyConversation(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "message_test")
	ctx := context.Background()

	messages, err := storage.GetMessages(ctx, "conv_missing")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestGetMessagesScopedToConversation(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "message_test")
	ctx := context.Background()

	require.NoError(t, storage.PersistConversation(ctx, testConversation("conv_1", "user_1")))
	require.NoError(t, storage.PersistConversation(ctx, testConversation("conv_2", "user_1")))
	require.NoError(t, storage.PersistMessage(ctx, domain.Message{
		Id: "msg_1", ConversationId: "conv_1", Role: domain.RoleUser, Content: "a", Created: time.Now().UTC(),
	}))
	require.NoError(t, storage.PersistMessage(ctx, domain.Message{
		Id: "msg_2", ConversationId: "conv_2", Role: domain.RoleUser, Content: "b", Created: time.Now().UTC(),
	}))

	messages, err := storage.GetMessages(ctx, "conv_1")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "msg_1", messages[0].Id)
}
