package llm

import (
	"context"
	"io"
	"sync"
)

type fragment struct {
	text string
	err  error
}

// Stream is a pull-based, finite sequence of reply fragments. Concatenating
// every fragment in receive order reconstructs the full reply exactly.
//
// A Stream has a single consumer: Recv must not be called concurrently.
// Close may be called from any goroutine and is idempotent; closing before
// exhaustion cancels production and releases the underlying provider
// transport.
type Stream struct {
	ch        chan fragment
	done      chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once

	finished bool
	err      error
}

// NewStream runs produce in its own goroutine. Fragments passed to emit are
// handed to Recv callers one at a time: emit blocks until the consumer pulls
// the fragment, so a slow consumer throttles production (no internal
// buffering). produce observes cancellation through its context and through
// emit returning ErrStreamClosed; any cleanup (closing SDK streams, response
// bodies) belongs in produce itself, typically via defer.
func NewStream(ctx context.Context, produce func(ctx context.Context, emit func(text string) error) error) *Stream {
	ctx, cancel := context.WithCancel(ctx)
	s := &Stream{
		ch:     make(chan fragment),
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		err := produce(ctx, func(text string) error {
			select {
			case s.ch <- fragment{text: text}:
				return nil
			case <-s.done:
				return ErrStreamClosed
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err == nil {
			err = io.EOF
		}
		select {
		case s.ch <- fragment{err: err}:
		case <-s.done:
		}
	}()

	return s
}

// Recv returns the next fragment. io.EOF signals normal exhaustion; any other
// error is terminal. After a terminal result, Recv keeps returning the same
// error.
func (s *Stream) Recv() (string, error) {
	if s.finished {
		return "", s.err
	}
	select {
	case f := <-s.ch:
		if f.err != nil {
			s.finished = true
			s.err = f.err
			return "", f.err
		}
		return f.text, nil
	case <-s.done:
		s.finished = true
		s.err = ErrStreamClosed
		return "", s.err
	}
}

// Close stops production. Safe to call multiple times and after exhaustion.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.done)
	})
	return nil
}
