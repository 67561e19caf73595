package llm

import "fmt"

// Role for the neutral message model. Provider-specific synonyms should be
// handled in adapters.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single neutral chat turn. Messages are handed to adapters in
// chronological order; adapters translate them into their provider's shape.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request carries the model identifier and ordered message history for one
// provider call.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

// splitSystemMessage hoists the system message out of the turn sequence for
// providers that expect it in a dedicated slot. More than one system message
// is a caller contract violation.
func splitSystemMessage(messages []Message) (system *string, turns []Message, err error) {
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			if system != nil {
				return nil, nil, fmt.Errorf("%w: multiple system messages", ErrInvalidMessageSequence)
			}
			content := msg.Content
			system = &content
			continue
		}
		turns = append(turns, msg)
	}
	return system, turns, nil
}
