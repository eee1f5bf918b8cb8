package cache

import (
	"encoding/base64"
	"encoding/json"
	"strings"

	"github.com/seosiju/sheetgpt/internal/options"
)

// Both key encodings are reversible and URL-safe, and deterministic for
// identical logical inputs: options structs marshal with a fixed field order,
// so equal inputs always produce byte-identical keys.

// keyPayload is the non-agent key shape. Field order is part of the contract.
type keyPayload struct {
	Version string     `json:"version"`
	Prompt  string     `json:"prompt"`
	Context string     `json:"context"`
	Sheet   string     `json:"sheet"`
	Options keyOptions `json:"options"`
}

// keyOptions is the cache-affecting subset of the resolved options. TTL and
// response-length trimming do not change what the model returns, so they are
// excluded; everything that shapes the completion itself is included.
type keyOptions struct {
	Model            string   `json:"model"`
	Temperature      float64  `json:"temperature"`
	TopP             *float64 `json:"topP,omitempty"`
	MaxTokens        *int     `json:"maxTokens,omitempty"`
	Format           string   `json:"format"`
	SystemPrompt     string   `json:"systemPrompt"`
	FrequencyPenalty *float64 `json:"frequencyPenalty,omitempty"`
	PresencePenalty  *float64 `json:"presencePenalty,omitempty"`
}

// Key derives the cache key for a completion request. A present toolkit name
// selects the agent-aware encoding so agentic and direct invocations of the
// same prompt never collide.
func Key(prompt, context, sheet string, opts options.Resolved, toolkit, version string) string {
	if toolkit != "" {
		return agentKey(prompt, context, sheet, opts, toolkit, version)
	}
	return plainKey(prompt, context, sheet, opts, version)
}

func plainKey(prompt, context, sheet string, opts options.Resolved, version string) string {
	payload := keyPayload{
		Version: version,
		Prompt:  prompt,
		Context: context,
		Sheet:   sheet,
		Options: keyOptions{
			Model:            opts.Model,
			Temperature:      opts.Temperature,
			TopP:             opts.TopP,
			MaxTokens:        opts.MaxTokens,
			Format:           opts.Format,
			SystemPrompt:     opts.SystemPrompt,
			FrequencyPenalty: opts.FrequencyPenalty,
			PresencePenalty:  opts.PresencePenalty,
		},
	}
	data, _ := json.Marshal(payload)
	return base64.RawURLEncoding.EncodeToString(data)
}

// agentKey joins the full tuple with an ASCII unit separator, which cannot
// occur in spreadsheet-originated text, then base64-encodes the result.
func agentKey(prompt, context, sheet string, opts options.Resolved, toolkit, version string) string {
	optsJSON, _ := json.Marshal(opts)
	joined := strings.Join([]string{
		prompt,
		context,
		sheet,
		string(optsJSON),
		toolkit,
		version,
	}, "\x1f")
	return base64.RawURLEncoding.EncodeToString([]byte(joined))
}
