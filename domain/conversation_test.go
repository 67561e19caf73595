package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTitleCandidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "short text unchanged",
			input:    "hello",
			expected: "hello",
		},
		{
			name:     "exactly thirty runes unchanged",
			input:    "123456789012345678901234567890",
			expected: "123456789012345678901234567890",
		},
		{
			name:     "long ascii truncated to thirty runes",
			input:    "1234567890123456789012345678901234567890",
			expected: "123456789012345678901234567890",
		},
		{
			// Truncation counts code points, not bytes: 40 ideographs are
			// 120 bytes but truncate to the first 30 characters.
			name:     "wide characters truncated by rune",
			input:    "你好世界你好世界你好世界你好世界你好世界你好世界你好世界你好世界你好世界你好世界",
			expected: "你好世界你好世界你好世界你好世界你好世界你好世界你好世界你好",
		},
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, DefaultTitleCandidate(tc.input))
		})
	}
}

func TestStringToRole(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"system", "user", "assistant"} {
		role, err := StringToRole(valid)
		assert.NoError(t, err)
		assert.Equal(t, Role(valid), role)
	}

	_, err := StringToRole("developer")
	assert.Error(t, err)
}
