package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"
)

// GoogleProvider adapts the Gemini API. Like Anthropic, Gemini expects the
// system prompt in a dedicated slot (SystemInstruction) and uses "model" as
// the assistant role name.
type GoogleProvider struct {
	client *genai.Client
}

func NewGoogleProvider(ctx context.Context, apiKey string) (*GoogleProvider, error) {
	httpClient := &http.Client{
		Timeout: 10 * time.Minute,
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Complete(ctx context.Context, request Request) (string, error) {
	contents, config, err := p.generateInputs(request)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Models.GenerateContent(ctx, request.Model, contents, config)
	if err != nil {
		return "", wrapGoogleError(err)
	}
	return resp.Text(), nil
}

func (p *GoogleProvider) Stream(ctx context.Context, request Request) (*Stream, error) {
	contents, config, err := p.generateInputs(request)
	if err != nil {
		return nil, err
	}

	return NewStream(ctx, func(ctx context.Context, emit func(string) error) error {
		for resp, err := range p.client.Models.GenerateContentStream(ctx, request.Model, contents, config) {
			if err != nil {
				return wrapGoogleError(err)
			}
			if text := resp.Text(); text != "" {
				if err := emit(text); err != nil {
					return err
				}
			}
		}
		return nil
	}), nil
}

func (p *GoogleProvider) generateInputs(request Request) ([]*genai.Content, *genai.GenerateContentConfig, error) {
	system, turns, err := splitSystemMessage(request.Messages)
	if err != nil {
		return nil, nil, err
	}

	contents := make([]*genai.Content, 0, len(turns))
	for _, msg := range turns {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}

	config := &genai.GenerateContentConfig{}
	if system != nil {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: *system}},
		}
	}
	return contents, config, nil
}

func wrapGoogleError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Provider: "google", StatusCode: apiErr.Code, Err: err}
	}
	return &ProviderError{Provider: "google", Err: err}
}
