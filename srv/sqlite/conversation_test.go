package sqlite

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"llmchat/common"
	"llmchat/domain"
)

func testConversation(id, userId string) domain.Conversation {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.Conversation{
		Id:      id,
		UserId:  userId,
		Title:   domain.DefaultConversationTitle,
		Model:   "gpt-4",
		Created: now,
		Updated: now,
	}
}

func TestPersistAndGetConversation(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "conversation_test")
	ctx := context.Background()

	conversation := testConversation("conv_1", "user_1")
	require.NoError(t, storage.PersistConversation(ctx, conversation))

	retrieved, err := storage.GetConversation(ctx, "user_1", "conv_1")
	require.NoError(t, err)
	assert.Equal(t, conversation.Id, retrieved.Id)
	assert.Equal(t, conversation.UserId, retrieved.UserId)
	assert.Equal(t, conversation.Title, retrieved.Title)
	assert.Equal(t, conversation.Model, retrieved.Model)
	assert.WithinDuration(t, conversation.Created, retrieved.Created, time.Second)

	// Persisting again with a new title updates in place.
	conversation.Title = "Renamed"
	require.NoError(t, storage.PersistConversation(ctx, conversation))
	retrieved, err = storage.GetConversation(ctx, "user_1", "conv_1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", retrieved.Title)
}

func TestGetConversationNotFound(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "conversation_test")
	ctx := context.Background()

	_, err := storage.GetConversation(ctx, "user_1", "conv_missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetConversationScopedToOwner(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "conversation_test")
	ctx := context.Background()

	require.NoError(t, storage.PersistConversation(ctx, testConversation("conv_1", "user_1")))

	_, err := storage.GetConversation(ctx, "user_2", "conv_1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = storage.DeleteConversation(ctx, "user_2", "conv_1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	// Still retrievable by the actual owner.
	_, err = storage.GetConversation(ctx, "user_1", "conv_1")
	assert.NoError(t, err)
}

func TestGetConversationsPagination(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "conversation_test")
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Millisecond)
	for i := 0; i < 5; i++ {
		conversation := testConversation("conv_"+string(rune('a'+i)), "user_1")
		conversation.Updated = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, storage.PersistConversation(ctx, conversation))
	}
	require.NoError(t, storage.PersistConversation(ctx, testConversation("conv_other", "user_2")))

	conversations, total, err := storage.GetConversations(ctx, "user_1", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, conversations, 2)
	// Most recently updated first.
	assert.Equal(t, "conv_e", conversations[0].Id)
	assert.Equal(t, "conv_d", conversations[1].Id)

	conversations, total, err = storage.GetConversations(ctx, "user_1", 3, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, conversations, 1)
	assert.Equal(t, "conv_a", conversations[0].Id)

	conversations, total, err = storage.GetConversations(ctx, "user_3", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, conversations)
}

func TestDeleteConversationCascadesToMessages(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "conversation_test")
	ctx := context.Background()

	require.NoError(t, storage.PersistConversation(ctx, testConversation("conv_1", "user_1")))
	require.NoError(t, storage.PersistMessage(ctx, domain.Message{
		Id:             "msg_1",
		ConversationId: "conv_1",
		Role:           domain.RoleUser,
		Content:        "hello",
		Created:        time.Now().UTC(),
	}))

	require.NoError(t, storage.DeleteConversation(ctx, "user_1", "conv_1"))

	_, err := storage.GetConversation(ctx, "user_1", "conv_1")
	assert.ErrorIs(t, err, common.ErrNotFound)

	messages, err := storage.GetMessages(ctx, "conv_1")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMaybeSetDefaultTitle(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "conversation_test")
	ctx := context.Background()

	require.NoError(t, storage.PersistConversation(ctx, testConversation("conv_1", "user_1")))

	require.NoError(t, storage.MaybeSetDefaultTitle(ctx, "conv_1", "What is the capital of France?"))
	retrieved, err := storage.GetConversation(ctx, "user_1", "conv_1")
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", retrieved.Title)

	// Second call is a no-op: the sentinel is gone.
	require.NoError(t, storage.MaybeSetDefaultTitle(ctx, "conv_1", "Something else entirely"))
	retrieved, err = storage.GetConversation(ctx, "user_1", "conv_1")
	require.NoError(t, err)
	assert.Equal(t, "What is the capital of France?", retrieved.Title)
}

func TestMaybeSetDefaultTitleTruncatesByRune(t *testing.T) {
	t.Parallel()
	storage := NewTestSqliteStorage(t, "conversation_test")
	ctx := context.Background()

	require.NoError(t, storage.PersistConversation(ctx, testConversation("conv_1", "user_1")))

	long := strings.Repeat("好", 40)
	require.NoError(t, storage.MaybeSetDefaultTitle(ctx, "conv_1", long))

	retrieved, err := storage.GetConversation(ctx, "user_1", "conv_1")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("好", domain.DefaultTitleLength), retrieved.Title)
}
