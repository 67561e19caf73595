package sqlite

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"llmchat/domain"
)

var usageTracer = otel.Tracer("llmchat/srv/sqlite")

// Ensure Storage implements UsageStorage interface
var _ domain.UsageStorage = (*Storage)(nil)

// PersistUsage inserts an ApiUsage record in the SQLite database
func (s *Storage) PersistUsage(ctx context.Context, usage domain.ApiUsage) error {
	ctx, span := usageTracer.Start(ctx, "Storage.PersistUsage")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("user_id", usage.UserId),
		attribute.String("model", usage.Model),
	)

	query := `
		INSERT OR REPLACE INTO api_usage (
			id, user_id, model, tokens, cost, created
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	usage.Created = usage.Created.UTC()

	_, err := s.db.ExecContext(ctx, query,
		usage.Id, usage.UserId, usage.Model, usage.Tokens, usage.Cost, usage.Created,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to persist usage: %w", err)
	}

	return nil
}

// GetUsageSummary aggregates a user's usage rows per model, ordered by model
// for deterministic output
func (s *Storage) GetUsageSummary(ctx context.Context, userId string) ([]domain.UsageSummary, error) {
	ctx, span := usageTracer.Start(ctx, "Storage.GetUsageSummary")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "sqlite"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("user_id", userId),
	)

	query := `SELECT model, SUM(tokens), SUM(cost)
			  FROM api_usage WHERE user_id = ?
			  GROUP BY model ORDER BY model ASC`
	rows, err := s.db.QueryContext(ctx, query, userId)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("failed to query usage summary: %w", err)
	}
	defer rows.Close()

	summaries := []domain.UsageSummary{}
	for rows.Next() {
		var summary domain.UsageSummary
		if err := rows.Scan(&summary.Model, &summary.Tokens, &summary.Cost); err != nil {
			return nil, fmt.Errorf("failed to scan usage summary: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating usage summaries: %w", err)
	}

	return summaries, nil
}
