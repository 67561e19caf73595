package chat

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// EventSink receives chat stream events in order. A sink error means the
// client is gone; the relay stops without persisting the partial reply.
type EventSink func(Event) error

// StreamTurn runs one streamed chat turn, relaying provider fragments to the
// sink as they arrive.
//
// Errors before the init event is sent are returned directly, so the caller
// can still answer with a plain error response. Once init is out, failures
// are reported in-band as an ErrorEvent and StreamTurn returns nil: after
// init, every stream ends with exactly one done or error event, unless the
// client disconnected or the turn was canceled.
//
// The assistant message is persisted only when the full reply arrived and
// the turn's context is still live. Cancellation mid-stream discards the
// partial reply; the user message persisted by startTurn stays.
func (s *Service) StreamTurn(ctx context.Context, req Request, sink EventSink) error {
	t, err := s.startTurn(ctx, req)
	if err != nil {
		return err
	}

	stream, err := t.provider.Stream(ctx, t.request)
	if err != nil {
		return err
	}
	defer stream.Close()

	if err := sink(NewInitEvent(t.conversation.Id, t.userMessage)); err != nil {
		return nil
	}

	var sb strings.Builder
	for {
		text, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				log.Debug().Str("conversationId", t.conversation.Id).Msg("Chat stream canceled")
				return nil
			}
			log.Error().Err(err).Str("conversationId", t.conversation.Id).Msg("Provider stream failed")
			if sinkErr := sink(NewErrorEvent(err.Error())); sinkErr != nil {
				return nil
			}
			return nil
		}
		sb.WriteString(text)
		if err := sink(NewChunkEvent(text)); err != nil {
			return nil
		}
	}

	if ctx.Err() != nil {
		log.Debug().Str("conversationId", t.conversation.Id).Msg("Chat stream canceled after completion")
		return nil
	}

	assistantMessage, err := s.saveAssistantMessage(ctx, t, sb.String())
	if err != nil {
		log.Error().Err(err).Str("conversationId", t.conversation.Id).Msg("Failed to persist assistant reply")
		if sinkErr := sink(NewErrorEvent("failed to persist assistant reply")); sinkErr != nil {
			return nil
		}
		return nil
	}

	if err := sink(NewDoneEvent(assistantMessage)); err != nil {
		return nil
	}
	return nil
}
