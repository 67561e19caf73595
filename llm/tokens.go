package llm

import "strings"

// Token estimation is a deterministic approximation, not a vendor tokenizer:
// CJK ideographs weigh roughly one token per character twice over, while
// western text averages a few characters per token. Billing only needs a
// stable, testable figure, so this intentionally trades accuracy for purity.

const (
	cjkIdeographFirst = '一'
	cjkIdeographLast  = '鿿'
)

// EstimateTokens approximates the token count of text: each CJK ideograph
// counts as 2 tokens, every other rune as 0.3, truncated toward zero.
func EstimateTokens(text string) int {
	var wide, other int
	for _, r := range text {
		if r >= cjkIdeographFirst && r <= cjkIdeographLast {
			wide++
		} else {
			other++
		}
	}
	return int(float64(wide)*2 + float64(other)*0.3)
}

// DefaultPricePer1kTokens is charged for models missing from the price table.
const DefaultPricePer1kTokens = 0.002

// pricePer1kTokens is keyed by model family, as computed by ModelFamily.
// Prices are USD per 1000 tokens.
var pricePer1kTokens = map[string]float64{
	"gpt-3.5":           0.002,
	"gpt-4":             0.03,
	"gpt-4o":            0.01,
	"gpt-5":             0.01,
	"claude-3":          0.003,
	"claude-opus":       0.015,
	"claude-sonnet":     0.003,
	"claude-haiku":      0.00025,
	"deepseek-chat":     0.0014,
	"deepseek-reasoner": 0.0022,
	"gemini-2.5":        0.00125,
}

// ModelFamily normalizes a model identifier to its price table key: the first
// two hyphen-separated segments joined back together, or the whole identifier
// when it has fewer than two segments. "gpt-4-turbo-preview" and "gpt-4"
// share the family "gpt-4".
func ModelFamily(model string) string {
	segments := strings.SplitN(model, "-", 3)
	if len(segments) < 2 {
		return model
	}
	return segments[0] + "-" + segments[1]
}

// Cost computes the monetary cost of a call from its token count. Unknown
// families fall back to DefaultPricePer1kTokens rather than failing; zero or
// negative token counts cost nothing.
func Cost(model string, tokens int) float64 {
	if tokens <= 0 {
		return 0
	}
	price, ok := pricePer1kTokens[ModelFamily(model)]
	if !ok {
		price = DefaultPricePer1kTokens
	}
	return float64(tokens) / 1000 * price
}
