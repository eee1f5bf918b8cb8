package llm

import "github.com/seosiju/sheetgpt/internal/options"

// Token estimation is a cheap admission-control heuristic, not a tokenizer:
// roughly four characters per token plus a constant message overhead.

const (
	charsPerToken = 4
	tokenOverhead = 10
)

// EstimateTokens approximates the token footprint of one request. When a
// max-output-token override is set it is added to the estimate, since the
// endpoint reserves that budget.
func EstimateTokens(prompt, contextBlock string, opts options.Resolved) int {
	chars := len(prompt) + len(contextBlock) + len(opts.SystemPrompt)
	estimate := (chars+charsPerToken-1)/charsPerToken + tokenOverhead
	if opts.MaxTokens != nil {
		estimate += *opts.MaxTokens
	}
	return estimate
}

// EffectiveTokenLimit is the admission ceiling for the non-agentic path.
func EffectiveTokenLimit(opts options.Resolved) int {
	if opts.TokenLimit < options.MaxTokenCeiling {
		return opts.TokenLimit
	}
	return options.MaxTokenCeiling
}
