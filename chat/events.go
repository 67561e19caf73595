package chat

import (
	"encoding/json"
	"fmt"

	"llmchat/domain"
)

// EventType represents the different types of chat stream events.
type EventType string

const (
	InitEventType  EventType = "init"
	ChunkEventType EventType = "chunk"
	DoneEventType  EventType = "done"
	ErrorEventType EventType = "error"
)

// Event is one frame of a streamed chat turn. A well-formed stream is an
// InitEvent, zero or more ChunkEvents, then exactly one DoneEvent or
// ErrorEvent.
type Event interface {
	GetEventType() EventType
}

// InitEvent opens a stream and tells the client which conversation the turn
// belongs to, which matters when the turn created the conversation.
type InitEvent struct {
	EventType      EventType      `json:"type"`
	ConversationId string         `json:"conversationId"`
	UserMessage    domain.Message `json:"userMessage"`
}

func (e InitEvent) GetEventType() EventType {
	return e.EventType
}

var _ Event = InitEvent{}

func NewInitEvent(conversationId string, userMessage domain.Message) InitEvent {
	return InitEvent{EventType: InitEventType, ConversationId: conversationId, UserMessage: userMessage}
}

// ChunkEvent carries one reply fragment. Concatenating chunk contents in
// order reconstructs the full reply.
type ChunkEvent struct {
	EventType EventType `json:"type"`
	Content   string    `json:"content"`
}

func (e ChunkEvent) GetEventType() EventType {
	return e.EventType
}

var _ Event = ChunkEvent{}

func NewChunkEvent(content string) ChunkEvent {
	return ChunkEvent{EventType: ChunkEventType, Content: content}
}

// DoneEvent terminates a successful stream with the persisted assistant
// message.
type DoneEvent struct {
	EventType        EventType      `json:"type"`
	AssistantMessage domain.Message `json:"assistantMessage"`
}

func (e DoneEvent) GetEventType() EventType {
	return e.EventType
}

var _ Event = DoneEvent{}

func NewDoneEvent(assistantMessage domain.Message) DoneEvent {
	return DoneEvent{EventType: DoneEventType, AssistantMessage: assistantMessage}
}

// ErrorEvent terminates a failed stream.
type ErrorEvent struct {
	EventType EventType `json:"type"`
	Message   string    `json:"message"`
}

func (e ErrorEvent) GetEventType() EventType {
	return e.EventType
}

var _ Event = ErrorEvent{}

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{EventType: ErrorEventType, Message: message}
}

// UnmarshalEvent parses a JSON-encoded chat stream event into its concrete
// type.
func UnmarshalEvent(data []byte) (Event, error) {
	var envelope struct {
		EventType EventType `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}

	switch envelope.EventType {
	case InitEventType:
		var event InitEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, err
		}
		return event, nil
	case ChunkEventType:
		var event ChunkEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, err
		}
		return event, nil
	case DoneEventType:
		var event DoneEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, err
		}
		return event, nil
	case ErrorEventType:
		var event ErrorEvent
		if err := json.Unmarshal(data, &event); err != nil {
			return nil, err
		}
		return event, nil
	default:
		return nil, fmt.Errorf("unknown event type: %q", envelope.EventType)
	}
}
