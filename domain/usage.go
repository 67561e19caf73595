package domain

import (
	"context"
	"time"
)

// ApiUsage is one billing record, derived from the full reply text after a
// provider call completes. Like messages, usage rows are append-only.
type ApiUsage struct {
	Id      string    `json:"id"`
	UserId  string    `json:"userId"`
	Model   string    `json:"model"`
	Tokens  int       `json:"tokens"`
	Cost    float64   `json:"cost"`
	Created time.Time `json:"created"`
}

// UsageSummary aggregates a user's usage rows per model.
type UsageSummary struct {
	Model  string  `json:"model"`
	Tokens int64   `json:"tokens"`
	Cost   float64 `json:"cost"`
}

// UsageStorage defines the interface for usage-related database operations
type UsageStorage interface {
	PersistUsage(ctx context.Context, usage ApiUsage) error
	GetUsageSummary(ctx context.Context, userId string) ([]UsageSummary, error)
}
