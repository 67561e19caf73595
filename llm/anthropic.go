package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicDefaultMaxTokens = 4096

// AnthropicProvider adapts the Anthropic messages API. Anthropic takes the
// system prompt as a dedicated request field, so the single system message is
// hoisted out of the turn sequence.
type AnthropicProvider struct {
	client anthropic.Client
}

func NewAnthropicProvider(apiKey, baseURL string) *AnthropicProvider {
	httpClient := &http.Client{
		Timeout: 5 * time.Minute,
	}
	clientOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
	}
	if baseURL != "" {
		clientOptions = append(clientOptions, option.WithBaseURL(baseURL))
	}
	return &AnthropicProvider{client: anthropic.NewClient(clientOptions...)}
}

func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

func (p *AnthropicProvider) Complete(ctx context.Context, request Request) (string, error) {
	params, err := p.messageParams(request)
	if err != nil {
		return "", err
	}

	message, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", wrapAnthropicError(err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

func (p *AnthropicProvider) Stream(ctx context.Context, request Request) (*Stream, error) {
	params, err := p.messageParams(request)
	if err != nil {
		return nil, err
	}

	return NewStream(ctx, func(ctx context.Context, emit func(string) error) error {
		stream := p.client.Messages.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			switch evt := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := evt.Delta.AsAny().(anthropic.TextDelta); ok && delta.Text != "" {
					if err := emit(delta.Text); err != nil {
						return err
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			return wrapAnthropicError(err)
		}
		return nil
	}), nil
}

func (p *AnthropicProvider) messageParams(request Request) (anthropic.MessageNewParams, error) {
	system, turns, err := splitSystemMessage(request.Messages)
	if err != nil {
		return anthropic.MessageNewParams{}, err
	}

	var messages []anthropic.MessageParam
	for _, msg := range turns {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == RoleAssistant {
			messages = append(messages, anthropic.NewAssistantMessage(block))
		} else {
			messages = append(messages, anthropic.NewUserMessage(block))
		}
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(request.Model),
		MaxTokens: int64(anthropicDefaultMaxTokens),
		Messages:  messages,
	}
	if system != nil {
		params.System = []anthropic.TextBlockParam{{Text: *system}}
	}
	return params, nil
}

func wrapAnthropicError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: "anthropic", StatusCode: apiErr.StatusCode, Err: err}
	}
	return &ProviderError{Provider: "anthropic", Err: err}
}
