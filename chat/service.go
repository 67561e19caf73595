package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/ksuid"

	"llmchat/domain"
	"llmchat/llm"
	"llmchat/srv"
)

// ErrEmptyMessage is returned when a chat request carries no message text.
var ErrEmptyMessage = errors.New("message must not be empty")

// Service orchestrates a chat turn: conversation lookup or creation, history
// replay, provider resolution, and persistence of the resulting messages and
// usage records.
type Service struct {
	storage      srv.Storage
	router       *llm.Router
	defaultModel string
}

func NewService(storage srv.Storage, router *llm.Router, defaultModel string) *Service {
	return &Service{
		storage:      storage,
		router:       router,
		defaultModel: defaultModel,
	}
}

// Request is one user chat turn. An empty ConversationId starts a new
// conversation; an empty Model falls back to the conversation's model (or the
// configured default for new conversations).
type Request struct {
	ConversationId string `json:"conversationId"`
	UserId         string `json:"-"`
	Message        string `json:"message"`
	Model          string `json:"model"`
}

// Reply is the outcome of a completed synchronous turn.
type Reply struct {
	Conversation     domain.Conversation `json:"conversation"`
	UserMessage      domain.Message      `json:"userMessage"`
	AssistantMessage domain.Message      `json:"assistantMessage"`
}

// turn carries the prepared state of a chat turn: the conversation (created
// on demand), the already-persisted user message, and the resolved provider
// with its request. The user message stays committed even when the provider
// call later fails, so a retry replays it as history.
type turn struct {
	conversation domain.Conversation
	userMessage  domain.Message
	provider     llm.Provider
	request      llm.Request

	// titleCandidate is the conversation's first user message, which seeds
	// the title on the first persisted assistant reply.
	titleCandidate string
}

// Send runs one synchronous chat turn and returns the full reply.
func (s *Service) Send(ctx context.Context, req Request) (Reply, error) {
	t, err := s.startTurn(ctx, req)
	if err != nil {
		return Reply{}, err
	}

	content, err := t.provider.Complete(ctx, t.request)
	if err != nil {
		return Reply{}, err
	}

	assistantMessage, err := s.saveAssistantMessage(ctx, t, content)
	if err != nil {
		return Reply{}, err
	}

	return Reply{
		Conversation:     t.conversation,
		UserMessage:      t.userMessage,
		AssistantMessage: assistantMessage,
	}, nil
}

// startTurn prepares a turn: it loads or creates the conversation, persists
// the user message, and resolves the provider. The provider is resolved after
// the user message is persisted, so an unsupported model still leaves the
// user's turn in the history.
func (s *Service) startTurn(ctx context.Context, req Request) (*turn, error) {
	if req.Message == "" {
		return nil, ErrEmptyMessage
	}

	now := time.Now().UTC()
	model := req.Model

	var conversation domain.Conversation
	if req.ConversationId == "" {
		if model == "" {
			model = s.defaultModel
		}
		conversation = domain.Conversation{
			Id:      "conv_" + ksuid.New().String(),
			UserId:  req.UserId,
			Title:   domain.DefaultConversationTitle,
			Model:   model,
			Created: now,
			Updated: now,
		}
		if err := s.storage.PersistConversation(ctx, conversation); err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
	} else {
		var err error
		conversation, err = s.storage.GetConversation(ctx, req.UserId, req.ConversationId)
		if err != nil {
			return nil, err
		}
		if model == "" {
			model = conversation.Model
		}
	}

	history, err := s.storage.GetMessages(ctx, conversation.Id)
	if err != nil {
		return nil, err
	}

	userMessage := domain.Message{
		Id:             "msg_" + ksuid.New().String(),
		ConversationId: conversation.Id,
		Role:           domain.RoleUser,
		Content:        req.Message,
		Tokens:         llm.EstimateTokens(req.Message),
		Created:        now,
	}
	if err := s.storage.PersistMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to persist user message: %w", err)
	}

	provider, err := s.router.Resolve(model)
	if err != nil {
		return nil, err
	}

	titleCandidate := userMessage.Content
	for _, msg := range history {
		if msg.Role == domain.RoleUser {
			titleCandidate = msg.Content
			break
		}
	}

	llmMessages := make([]llm.Message, 0, len(history)+1)
	for _, msg := range history {
		llmMessages = append(llmMessages, llm.Message{Role: llm.Role(msg.Role), Content: msg.Content})
	}
	llmMessages = append(llmMessages, llm.Message{Role: llm.RoleUser, Content: userMessage.Content})

	return &turn{
		conversation:   conversation,
		userMessage:    userMessage,
		provider:       provider,
		request:        llm.Request{Model: model, Messages: llmMessages},
		titleCandidate: titleCandidate,
	}, nil
}

// saveAssistantMessage commits the outcome of a successful provider call: the
// assistant message, a usage record derived from the reply text, the
// conversation's updated timestamp, and the default title on first reply.
func (s *Service) saveAssistantMessage(ctx context.Context, t *turn, content string) (domain.Message, error) {
	now := time.Now().UTC()

	assistantMessage := domain.Message{
		Id:             "msg_" + ksuid.New().String(),
		ConversationId: t.conversation.Id,
		Role:           domain.RoleAssistant,
		Content:        content,
		Tokens:         llm.EstimateTokens(content),
		Created:        now,
	}
	if err := s.storage.PersistMessage(ctx, assistantMessage); err != nil {
		return domain.Message{}, fmt.Errorf("failed to persist assistant message: %w", err)
	}

	usage := domain.ApiUsage{
		Id:      "usage_" + ksuid.New().String(),
		UserId:  t.conversation.UserId,
		Model:   t.request.Model,
		Tokens:  assistantMessage.Tokens,
		Cost:    llm.Cost(t.request.Model, assistantMessage.Tokens),
		Created: now,
	}
	if err := s.storage.PersistUsage(ctx, usage); err != nil {
		return domain.Message{}, fmt.Errorf("failed to persist usage: %w", err)
	}

	t.conversation.Updated = now
	if err := s.storage.PersistConversation(ctx, t.conversation); err != nil {
		return domain.Message{}, fmt.Errorf("failed to update conversation: %w", err)
	}

	// Must come after PersistConversation: the in-memory conversation may
	// still carry the sentinel title that REPLACE would write back.
	if err := s.storage.MaybeSetDefaultTitle(ctx, t.conversation.Id, t.titleCandidate); err != nil {
		return domain.Message{}, fmt.Errorf("failed to set default conversation title: %w", err)
	}

	return assistantMessage, nil
}
