package sqlite

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"llmchat/domain"
)

var messageTracer = otel.Tracer("llmchat/srv/sqlite")

// Ensure Storage implements MessageStorage interface
var _ domain.MessageStorage = (*Storage)(nil)

// PersistMessage inserts or updates a Message in the SQLite database
func (s *Storage) PersistMessage(ctx context.Context, message domain.Message) error {
	ctx, span := messageTracer.Start(ctx, "Storage.PersistMessage")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("conversation_id", message.ConversationId),
		attribute.String("message_id", message.Id),
	)

	query := `
		INSERT OR REPLACE INTO messages (
			id, conversation_id, role, content, tokens, created
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	message.Created = message.Created.UTC()

	_, err := s.db.ExecContext(ctx, query,
		message.Id, message.ConversationId, string(message.Role), message.Content,
		message.Tokens, message.Created,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to persist message: %w", err)
	}

	return nil
}

// GetMessages retrieves a conversation's messages in chronological order
func (s *Storage) GetMessages(ctx context.Context, conversationId string) ([]domain.Message, error) {
	ctx, span := messageTracer.Start(ctx, "Storage.GetMessages")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("conversation_id", conversationId),
	)

	query := `SELECT id, conversation_id, role, content, tokens, created
			  FROM messages WHERE conversation_id = ?
			  ORDER BY created ASC, id ASC`
	rows, err := s.db.QueryContext(ctx, query, conversationId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var message domain.Message
		var role string
		if err := rows.Scan(
			&message.Id, &message.ConversationId, &role, &message.Content,
			&message.Tokens, &message.Created); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		message.Role, err = domain.StringToRole(role)
		if err != nil {
			return nil, fmt.Errorf("failed to parse message role: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
