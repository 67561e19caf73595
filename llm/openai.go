package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIProvider adapts the OpenAI chat completions API. With a non-empty
// base URL it also serves any OpenAI-compatible provider (DeepSeek, custom
// endpoints), which is why the provider name is configurable.
type OpenAIProvider struct {
	name   string
	client openai.Client
}

func NewOpenAIProvider(name, apiKey, baseURL string) *OpenAIProvider {
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
	return &OpenAIProvider{
		name:   name,
		client: openai.NewClient(clientOptions...),
	}
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Complete(ctx context.Context, request Request) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, p.chatParams(request))
	if err != nil {
		return "", wrapOpenAIError(p.name, err)
	}
	if len(completion.Choices) == 0 {
		return "", &ProviderError{Provider: p.name, Err: errors.New("response contained no choices")}
	}
	return completion.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) Stream(ctx context.Context, request Request) (*Stream, error) {
	params := p.chatParams(request)
	return NewStream(ctx, func(ctx context.Context, emit func(string) error) error {
		stream := p.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if delta := chunk.Choices[0].Delta.Content; delta != "" {
				if err := emit(delta); err != nil {
					return err
				}
			}
		}
		if err := stream.Err(); err != nil {
			return wrapOpenAIError(p.name, err)
		}
		return nil
	}), nil
}

// chatParams translates neutral messages into chat completion params. The
// chat completions API accepts system messages inline, so no hoisting is
// needed here.
func (p *OpenAIProvider) chatParams(request Request) openai.ChatCompletionNewParams {
	var chatMessages []openai.ChatCompletionMessageParamUnion
	for _, msg := range request.Messages {
		switch msg.Role {
		case RoleSystem:
			chatMessages = append(chatMessages, openai.SystemMessage(msg.Content))
		case RoleAssistant:
			chatMessages = append(chatMessages, openai.AssistantMessage(msg.Content))
		default:
			chatMessages = append(chatMessages, openai.UserMessage(msg.Content))
		}
	}
	return openai.ChatCompletionNewParams{
		Messages: chatMessages,
		Model:    shared.ChatModel(request.Model),
	}
}

func wrapOpenAIError(provider string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: provider, StatusCode: apiErr.StatusCode, Err: err}
	}
	return &ProviderError{Provider: provider, Err: err}
}
