package llm

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/seosiju/sheetgpt/internal/options"
)

// ErrNoResponse is returned when the endpoint succeeds but yields no usable
// answer text.
var ErrNoResponse = errors.New("No response")

// ErrNotJSON is returned when JSON output was requested but the answer does
// not parse.
var ErrNotJSON = errors.New("Response is not valid JSON")

// TruncationMarker is appended when an answer is cut at the response
// character limit.
const TruncationMarker = "..."

// contextLabel introduces the serialized range data in the user message.
const contextLabel = "Data:"

// UserMessage builds the user-role message content: the prompt, plus a
// labeled data block when context is non-empty.
func UserMessage(prompt, contextBlock string) string {
	if contextBlock == "" {
		return prompt
	}
	return prompt + "\n\n" + contextLabel + "\n" + contextBlock
}

// Complete issues a single non-agentic chat request and post-processes the
// answer according to the resolved options.
func (c *Client) Complete(ctx context.Context, apiKey, prompt, contextBlock string, opts options.Resolved) (string, error) {
	req := &ChatRequest{
		Model: opts.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: opts.SystemPrompt},
			{Role: "user", Content: UserMessage(prompt, contextBlock)},
		},
		Temperature:      opts.Temperature,
		TopP:             opts.TopP,
		MaxTokens:        opts.MaxTokens,
		FrequencyPenalty: opts.FrequencyPenalty,
		PresencePenalty:  opts.PresencePenalty,
	}
	if opts.Format == "json" {
		req.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}

	resp, err := c.CreateChatCompletion(ctx, apiKey, req)
	if err != nil {
		return "", err
	}

	answer := ""
	if len(resp.Choices) > 0 {
		answer = resp.Choices[0].Message.Content
	}
	if strings.TrimSpace(answer) == "" {
		return "", ErrNoResponse
	}

	if opts.Format == "json" {
		return prettyJSON(answer)
	}

	return Truncate(strings.TrimSpace(answer), opts.ResponseCharLimit), nil
}

// prettyJSON validates the answer as JSON and re-serializes it in a stable
// indented form.
func prettyJSON(answer string) (string, error) {
	var parsed any
	if err := json.Unmarshal([]byte(answer), &parsed); err != nil {
		return "", ErrNotJSON
	}
	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return "", ErrNotJSON
	}
	return string(pretty), nil
}

// Truncate cuts s at limit characters and appends the truncation marker.
// A string exactly at the limit passes through unmodified. The limit counts
// runes, not bytes, so multibyte answers are never cut mid-character.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + TruncationMarker
}
