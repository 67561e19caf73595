package llm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIProviderComplete(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.Contains(t, string(body), `"gpt-4"`)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "Hello there"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 5, "completion_tokens": 2, "total_tokens": 7}
		}`)
	}))
	defer server.Close()

	provider := NewOpenAIProvider("openai", "test-key", server.URL)
	reply, err := provider.Complete(context.Background(), Request{
		Model: "gpt-4",
		Messages: []Message{
			{Role: RoleSystem, Content: "You are terse."},
			{Role: RoleUser, Content: "Hello"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)
}

func TestOpenAIProviderStream(t *testing.T) {
	t.Parallel()

	chunks := []string{"Hel", "lo", " world"}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, chunk := range chunks {
			fmt.Fprintf(w, "data: {\"id\":\"chatcmpl-1\",\"object\":\"chat.completion.chunk\",\"created\":1700000000,\"model\":\"gpt-4\",\"choices\":[{\"index\":0,\"delta\":{\"content\":%q}}]}\n\n", chunk)
			flusher.Flush()
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
		flusher.Flush()
	}))
	defer server.Close()

	provider := NewOpenAIProvider("openai", "test-key", server.URL)
	stream, err := provider.Stream(context.Background(), Request{
		Model:    "gpt-4",
		Messages: []Message{{Role: RoleUser, Content: "Hello"}},
	})
	require.NoError(t, err)
	defer stream.Close()

	var sb strings.Builder
	for {
		text, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sb.WriteString(text)
	}
	assert.Equal(t, "Hello world", sb.String())
}

func TestOpenAIProviderUnauthorized(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`)
	}))
	defer server.Close()

	provider := NewOpenAIProvider("openai", "bad-key", server.URL)
	_, err := provider.Complete(context.Background(), Request{
		Model:    "gpt-4",
		Messages: []Message{{Role: RoleUser, Content: "Hello"}},
	})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "openai", provErr.Provider)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.Contains(t, err.Error(), "401")
}

func TestOpenAIProviderEmptyChoices(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "chatcmpl-1", "object": "chat.completion", "created": 1700000000, "model": "gpt-4", "choices": []}`)
	}))
	defer server.Close()

	provider := NewOpenAIProvider("openai", "test-key", server.URL)
	_, err := provider.Complete(context.Background(), Request{
		Model:    "gpt-4",
		Messages: []Message{{Role: RoleUser, Content: "Hello"}},
	})
	require.Error(t, err)

	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Contains(t, provErr.Error(), "no choices")
}

func TestOpenAIProviderName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "openai", NewOpenAIProvider("openai", "k", "").Name())
	// The same adapter serves OpenAI-compatible endpoints under other names.
	assert.Equal(t, "deepseek", NewOpenAIProvider("deepseek", "k", "https://api.deepseek.com").Name())
}
