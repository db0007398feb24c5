// Package pricing holds the static per-model token rates.
package pricing

const (
	// TokensPerUnit is the number of tokens a rate is quoted for.
	TokensPerUnit = 1_000_000

	// DefaultRate applies to any model missing from the table.
	DefaultRate = 1.0
)

// Table maps a model identifier to its price per TokensPerUnit tokens.
// Prompt and completion tokens share one blended rate.
type Table map[string]float64

// DefaultTable returns the built-in rates.
func DefaultTable() Table {
	return Table{
		"anthropic/claude-opus-4-6":   15,
		"anthropic/claude-sonnet-4-5": 3,
		"anthropic/claude-haiku-4-5":  1,
		"openai/gpt-4o":               2.5,
		"openai/gpt-4o-mini":          0.15,
		"google/gemini-2.5-pro":       1.25,
		"google/gemini-2.5-flash":     0.3,
		"deepseek/deepseek-chat":      0.27,
	}
}

// Rate returns the price per TokensPerUnit tokens for model.
func (t Table) Rate(model string) float64 {
	if rate, ok := t[model]; ok {
		return rate
	}
	return DefaultRate
}

// CalculateCost prices tokens at the model's rate. It is linear in tokens.
func (t Table) CalculateCost(model string, tokens int) float64 {
	return float64(tokens) / TokensPerUnit * t.Rate(model)
}

// Merge returns a copy of t with override applied on top.
func (t Table) Merge(override map[string]float64) Table {
	out := make(Table, len(t)+len(override))
	for m, r := range t {
		out[m] = r
	}
	for m, r := range override {
		out[m] = r
	}
	return out
}
