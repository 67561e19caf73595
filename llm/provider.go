package llm

import "context"

// Provider is the capability contract over one LLM provider family.
//
// Complete blocks until the provider returns the full reply text. Stream
// returns a lazy fragment sequence instead. The two execution shapes are
// separate operations rather than a runtime flag so that each call path's
// contract (single value vs. cancellable sequence) is checked at the
// interface level.
//
// Implementations hold their SDK client for the life of the process; they
// are safe for concurrent use across requests.
type Provider interface {
	Name() string
	Complete(ctx context.Context, request Request) (string, error)
	Stream(ctx context.Context, request Request) (*Stream, error)
}
