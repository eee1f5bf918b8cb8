package options_test

import (
	"testing"

	"github.com/seosiju/sheetgpt/internal/options"
)

func TestResolve_Defaults(t *testing.T) {
	opts := options.Resolve(nil)

	if opts.Model != options.DefaultModel {
		t.Errorf("Model = %q, want %q", opts.Model, options.DefaultModel)
	}
	if opts.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", opts.Temperature)
	}
	if opts.Format != "text" {
		t.Errorf("Format = %q, want text", opts.Format)
	}
	if opts.TopP != nil || opts.MaxTokens != nil || opts.FrequencyPenalty != nil || opts.PresencePenalty != nil {
		t.Error("optional fields should be nil by default")
	}
	if opts.CacheTTLSeconds != 3600 {
		t.Errorf("CacheTTLSeconds = %d, want 3600", opts.CacheTTLSeconds)
	}
	if opts.TokenLimit != 16000 {
		t.Errorf("TokenLimit = %d, want 16000", opts.TokenLimit)
	}
}

func TestResolve_Clamping(t *testing.T) {
	opts := options.Resolve(map[string]any{
		"temperature":      float64(5),
		"topP":             float64(3),
		"presence_penalty": float64(-10),
		"frequencyPenalty": float64(99),
	})

	if opts.Temperature != 2 {
		t.Errorf("Temperature = %v, want 2", opts.Temperature)
	}
	if opts.TopP == nil || *opts.TopP != 1 {
		t.Errorf("TopP = %v, want 1", opts.TopP)
	}
	if opts.PresencePenalty == nil || *opts.PresencePenalty != -2 {
		t.Errorf("PresencePenalty = %v, want -2", opts.PresencePenalty)
	}
	if opts.FrequencyPenalty == nil || *opts.FrequencyPenalty != 2 {
		t.Errorf("FrequencyPenalty = %v, want 2", opts.FrequencyPenalty)
	}
}

func TestResolve_GlobalCeilings(t *testing.T) {
	opts := options.Resolve(map[string]any{
		"maxTokens":       float64(100000),
		"token_limit":     float64(999999),
		"cacheTtlSeconds": float64(86400),
	})

	if opts.MaxTokens == nil || *opts.MaxTokens != options.MaxTokenCeiling {
		t.Errorf("MaxTokens = %v, want %d", opts.MaxTokens, options.MaxTokenCeiling)
	}
	if opts.TokenLimit != options.MaxTokenCeiling {
		t.Errorf("TokenLimit = %d, want %d", opts.TokenLimit, options.MaxTokenCeiling)
	}
	if opts.CacheTTLSeconds != options.MaxCacheTTL {
		t.Errorf("CacheTTLSeconds = %d, want %d", opts.CacheTTLSeconds, options.MaxCacheTTL)
	}
}

func TestResolve_SnakeCaseAliases(t *testing.T) {
	opts := options.Resolve(map[string]any{
		"max_tokens":    float64(200),
		"top_p":         0.9,
		"system_prompt": "be terse",
	})

	if opts.MaxTokens == nil || *opts.MaxTokens != 200 {
		t.Errorf("MaxTokens = %v, want 200", opts.MaxTokens)
	}
	if opts.TopP == nil || *opts.TopP != 0.9 {
		t.Errorf("TopP = %v, want 0.9", opts.TopP)
	}
	if opts.SystemPrompt != "be terse" {
		t.Errorf("SystemPrompt = %q, want %q", opts.SystemPrompt, "be terse")
	}
}

func TestResolve_CamelCaseWinsOverSnakeCase(t *testing.T) {
	opts := options.Resolve(map[string]any{
		"maxTokens":  float64(100),
		"max_tokens": float64(500),
	})

	if opts.MaxTokens == nil || *opts.MaxTokens != 100 {
		t.Errorf("MaxTokens = %v, want 100 (camelCase precedence)", opts.MaxTokens)
	}
}

func TestResolve_FormatOnlyAcceptsJSON(t *testing.T) {
	if got := options.Resolve(map[string]any{"format": "JSON"}); got.Format != "json" {
		t.Errorf("Format = %q, want json (case-insensitive)", got.Format)
	}
	if got := options.Resolve(map[string]any{"format": "xml"}); got.Format != "text" {
		t.Errorf("Format = %q, want text for unrecognized value", got.Format)
	}
	if got := options.Resolve(map[string]any{"response_format": "json"}); got.Format != "json" {
		t.Errorf("Format = %q, want json via response_format alias", got.Format)
	}
}

func TestResolve_InvalidNumericValuesIgnored(t *testing.T) {
	opts := options.Resolve(map[string]any{
		"temperature": "warm",
		"maxTokens":   true,
	})

	if opts.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want default 0.7", opts.Temperature)
	}
	if opts.MaxTokens != nil {
		t.Errorf("MaxTokens = %v, want nil", opts.MaxTokens)
	}
}

func TestParseOverrides(t *testing.T) {
	if got := options.ParseOverrides(nil); got != nil {
		t.Errorf("ParseOverrides(nil) = %v, want nil", got)
	}

	got := options.ParseOverrides(`{"temperature":0.2,"maxTokens":200}`)
	if got == nil {
		t.Fatal("ParseOverrides(JSON string) returned nil")
	}
	opts := options.Resolve(got)
	if opts.Temperature != 0.2 {
		t.Errorf("Temperature = %v, want 0.2", opts.Temperature)
	}
	if opts.MaxTokens == nil || *opts.MaxTokens != 200 {
		t.Errorf("MaxTokens = %v, want 200", opts.MaxTokens)
	}
}

func TestParseOverrides_BadJSONIsNotAnError(t *testing.T) {
	if got := options.ParseOverrides("{not json"); got != nil {
		t.Errorf("ParseOverrides(bad JSON) = %v, want nil", got)
	}
}

func TestParseOverrides_UnwrapsSingleElementSlice(t *testing.T) {
	got := options.ParseOverrides([]any{[]any{`{"temperature":1.5}`}})
	if got == nil {
		t.Fatal("ParseOverrides(nested slice) returned nil")
	}
	if options.Resolve(got).Temperature != 1.5 {
		t.Errorf("Temperature = %v, want 1.5", options.Resolve(got).Temperature)
	}
}
