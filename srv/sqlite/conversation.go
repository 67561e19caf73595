package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"llmchat/common"
	"llmchat/domain"
)

var conversationTracer = otel.Tracer("llmchat/srv/sqlite")

// Ensure Storage implements ConversationStorage interface
var _ domain.ConversationStorage = (*Storage)(nil)

// PersistConversation inserts or updates a Conversation in the SQLite database
func (s *Storage) PersistConversation(ctx context.Context, conversation domain.Conversation) error {
	ctx, span := conversationTracer.Start(ctx, "Storage.PersistConversation")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("user_id", conversation.UserId),
		attribute.String("conversation_id", conversation.Id),
	)

	query := `
		INSERT OR REPLACE INTO conversations (
			id, user_id, title, model, created, updated
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	conversation.Created = conversation.Created.UTC()
	conversation.Updated = conversation.Updated.UTC()

	_, err := s.db.ExecContext(ctx, query,
		conversation.Id, conversation.UserId, conversation.Title, conversation.Model,
		conversation.Created, conversation.Updated,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to persist conversation: %w", err)
	}

	return nil
}

// GetConversation retrieves a single Conversation scoped to its owner
func (s *Storage) GetConversation(ctx context.Context, userId, conversationId string) (domain.Conversation, error) {
	ctx, span := conversationTracer.Start(ctx, "Storage.GetConversation")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("user_id", userId),
		attribute.String("conversation_id", conversationId),
	)

	var conversation domain.Conversation
	query := `SELECT id, user_id, title, model, created, updated
			  FROM conversations WHERE user_id = ? AND id = ?`
	err := s.db.QueryRowContext(ctx, query, userId, conversationId).Scan(
		&conversation.Id, &conversation.UserId, &conversation.Title, &conversation.Model,
		&conversation.Created, &conversation.Updated)
	if err != nil {
		if err == sql.ErrNoRows {
			span.RecordError(common.ErrNotFound)
			span.SetStatus(codes.Error, common.ErrNotFound.Error())
			return domain.Conversation{}, common.ErrNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Conversation{}, fmt.Errorf("failed to get conversation: %w", err)
	}

	return conversation, nil
}

// GetConversations retrieves one page of a user's conversations, most recently
// updated first, along with the total count. Pages are 1-based.
func (s *Storage) GetConversations(ctx context.Context, userId string, page, pageSize int64) ([]domain.Conversation, int64, error) {
	ctx, span := conversationTracer.Start(ctx, "Storage.GetConversations")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("user_id", userId),
		attribute.Int64("page", page),
		attribute.Int64("page_size", pageSize),
	)

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var total int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM conversations WHERE user_id = ?", userId).Scan(&total)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to count conversations: %w", err)
	}

	query := `SELECT id, user_id, title, model, created, updated
			  FROM conversations WHERE user_id = ?
			  ORDER BY updated DESC
			  LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, userId, pageSize, (page-1)*pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, 0, fmt.Errorf("failed to query conversations: %w", err)
	}
	defer rows.Close()

	conversations := []domain.Conversation{}
	for rows.Next() {
		var conversation domain.Conversation
		if err := rows.Scan(
			&conversation.Id, &conversation.UserId, &conversation.Title, &conversation.Model,
			&conversation.Created, &conversation.Updated); err != nil {
			return nil, 0, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating conversations: %w", err)
	}

	return conversations, total, nil
}

// DeleteConversation removes a Conversation and, through the foreign key
// cascade, all of its messages
func (s *Storage) DeleteConversation(ctx context.Context, userId, conversationId string) error {
	ctx, span := conversationTracer.Start(ctx, "Storage.DeleteConversation")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "DELETE"),
		attribute.String("user_id", userId),
		attribute.String("conversation_id", conversationId),
	)

	query := "DELETE FROM conversations WHERE user_id = ? AND id = ?"
	result, err := s.db.ExecContext(ctx, query, userId, conversationId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		span.RecordError(common.ErrNotFound)
		span.SetStatus(codes.Error, common.ErrNotFound.Error())
		return common.ErrNotFound
	}

	return nil
}

// MaybeSetDefaultTitle replaces the sentinel title with a truncated candidate.
// The WHERE clause makes it naturally idempotent: once a conversation carries
// a real title, the update matches zero rows.
func (s *Storage) MaybeSetDefaultTitle(ctx context.Context, conversationId, candidate string) error {
	ctx, span := conversationTracer.Start(ctx, "Storage.MaybeSetDefaultTitle")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "UPDATE"),
		attribute.String("conversation_id", conversationId),
	)

	query := "UPDATE conversations SET title = ? WHERE id = ? AND title = ?"
	_, err := s.db.ExecContext(ctx, query,
		domain.DefaultTitleCandidate(candidate), conversationId, domain.DefaultConversationTitle)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to set default title: %w", err)
	}

	return nil
}
