package api

import (
	"context"
	"sync"
)

// streamRegistry tracks the cancel functions of in-flight chat streams by
// conversation id, so a stop request can interrupt them. One active stream
// per conversation: a second stream for the same conversation replaces the
// registration (the first keeps running but can no longer be stopped).
type streamRegistry struct {
	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

func newStreamRegistry() *streamRegistry {
	return &streamRegistry{cancels: make(map[string]context.CancelFunc)}
}

func (r *streamRegistry) add(conversationId string, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancels[conversationId] = cancel
}

func (r *streamRegistry) remove(conversationId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cancels, conversationId)
}

// stop cancels the conversation's active stream. Returns false when no stream
// is registered.
func (r *streamRegistry) stop(conversationId string) bool {
	r.mu.Lock()
	cancel, ok := r.cancels[conversationId]
	delete(r.cancels, conversationId)
	r.mu.Unlock()

	if ok {
		cancel()
	}
	return ok
}
