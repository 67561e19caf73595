package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedModel means no provider is registered for the model's
	// prefix. Returned before any network call is made.
	ErrUnsupportedModel = errors.New("unsupported model")

	// ErrInvalidMessageSequence means the neutral message list violates an
	// adapter's contract, e.g. multiple system messages for a provider with
	// a single system slot.
	ErrInvalidMessageSequence = errors.New("invalid message sequence")

	// ErrStreamClosed is returned by Recv after Close.
	ErrStreamClosed = errors.New("stream closed")
)

// ProviderError wraps any transport, auth, or API failure coming out of a
// provider SDK, so SDK-specific error types never leak past the adapter
// boundary.
type ProviderError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
