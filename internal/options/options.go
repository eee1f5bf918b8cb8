// Package options resolves loosely-typed per-call option payloads into a
// fully populated, range-clamped configuration record.
package options

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"
)

// Global ceilings. User overrides are capped here even when they ask for more.
const (
	MaxTokenCeiling = 16000
	MaxCacheTTL     = 21600 // seconds
)

// Defaults applied before any override.
const (
	DefaultModel             = "gpt-4o-mini"
	DefaultTemperature       = 0.7
	DefaultFormat            = "text"
	DefaultResponseCharLimit = 2000
	DefaultCacheTTLSeconds   = 3600
	DefaultTokenLimit        = 16000
	DefaultSystemPrompt      = "You are a helpful assistant embedded in a spreadsheet. Answer concisely."
)

// Resolved is the validated option set for one invocation. Every field is
// populated; optional request parameters are nil when unset. Declared field
// order is load-bearing: the cache key builder marshals this struct and
// relies on encoding/json emitting fields in declaration order.
type Resolved struct {
	Model             string   `json:"model"`
	Temperature       float64  `json:"temperature"`
	TopP              *float64 `json:"topP,omitempty"`
	MaxTokens         *int     `json:"maxTokens,omitempty"`
	Format            string   `json:"format"`
	ResponseCharLimit int      `json:"responseCharLimit"`
	CacheTTLSeconds   int      `json:"cacheTtlSeconds"`
	SystemPrompt      string   `json:"systemPrompt"`
	TokenLimit        int      `json:"tokenLimit"`
	FrequencyPenalty  *float64 `json:"frequencyPenalty,omitempty"`
	PresencePenalty   *float64 `json:"presencePenalty,omitempty"`
}

// Default returns the baseline option set.
func Default() Resolved {
	return Resolved{
		Model:             DefaultModel,
		Temperature:       DefaultTemperature,
		Format:            DefaultFormat,
		ResponseCharLimit: DefaultResponseCharLimit,
		CacheTTLSeconds:   DefaultCacheTTLSeconds,
		SystemPrompt:      DefaultSystemPrompt,
		TokenLimit:        DefaultTokenLimit,
	}
}

// ParseOverrides normalizes an option payload into a key/value map.
//
// Accepted shapes: nil (no overrides), a JSON object string, a plain map, and
// a one-element slice wrapping any of the former (unwrapped recursively, the
// shape a 1x1 spreadsheet range arrives in). A string that fails to parse as
// JSON yields no overrides; that is logged but never an error for the caller.
func ParseOverrides(payload any) map[string]any {
	switch v := payload.(type) {
	case nil:
		return nil
	case map[string]any:
		if len(v) == 0 {
			return nil
		}
		return v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			log.Warn().Err(err).Msg("Ignoring unparseable options payload")
			return nil
		}
		return m
	case []any:
		if len(v) == 1 {
			return ParseOverrides(v[0])
		}
		return nil
	default:
		return nil
	}
}

// Resolve merges overrides onto the defaults and clamps every bound field.
// Both camelCase and snake_case spellings are accepted for each key; when a
// payload carries both, the camelCase spelling wins.
func Resolve(overrides map[string]any) Resolved {
	opts := Default()
	if len(overrides) == 0 {
		return opts
	}

	if s, ok := stringOverride(overrides, "model"); ok && s != "" {
		opts.Model = s
	}
	if f, ok := floatOverride(overrides, "temperature"); ok {
		opts.Temperature = clampFloat(f, 0, 2)
	}
	if f, ok := floatOverride(overrides, "topP", "top_p"); ok {
		v := clampFloat(f, 0, 1)
		opts.TopP = &v
	}
	if n, ok := intOverride(overrides, "maxTokens", "max_tokens"); ok && n > 0 {
		v := clampInt(n, 1, MaxTokenCeiling)
		opts.MaxTokens = &v
	}
	if s, ok := stringOverride(overrides, "format", "response_format"); ok {
		if strings.EqualFold(strings.TrimSpace(s), "json") {
			opts.Format = "json"
		}
	}
	if n, ok := intOverride(overrides, "responseCharLimit", "response_char_limit"); ok && n > 0 {
		opts.ResponseCharLimit = n
	}
	if n, ok := intOverride(overrides, "cacheTtlSeconds", "cache_ttl_seconds"); ok && n > 0 {
		opts.CacheTTLSeconds = clampInt(n, 1, MaxCacheTTL)
	}
	if s, ok := stringOverride(overrides, "systemPrompt", "system_prompt"); ok && s != "" {
		opts.SystemPrompt = s
	}
	if n, ok := intOverride(overrides, "tokenLimit", "token_limit"); ok && n > 0 {
		opts.TokenLimit = clampInt(n, 1, MaxTokenCeiling)
	}
	if f, ok := floatOverride(overrides, "frequencyPenalty", "frequency_penalty"); ok {
		v := clampFloat(f, -2, 2)
		opts.FrequencyPenalty = &v
	}
	if f, ok := floatOverride(overrides, "presencePenalty", "presence_penalty"); ok {
		v := clampFloat(f, -2, 2)
		opts.PresencePenalty = &v
	}

	return opts
}

// ── Override lookup ─────────────────────────────────────────

// lookup returns the first present key, so listing the camelCase spelling
// first gives it precedence over its snake_case alias.
func lookup(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func stringOverride(m map[string]any, keys ...string) (string, bool) {
	v, ok := lookup(m, keys...)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// floatOverride accepts JSON numbers and numeric strings; anything else is
// ignored rather than treated as an error.
func floatOverride(m map[string]any, keys ...string) (float64, bool) {
	v, ok := lookup(m, keys...)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		var f float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(n)), &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

func intOverride(m map[string]any, keys ...string) (int, bool) {
	f, ok := floatOverride(m, keys...)
	if !ok {
		return 0, false
	}
	return int(f), true
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
