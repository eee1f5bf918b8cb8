// Package agent implements the bounded tool-calling conversation loop.
//
// The orchestrator seeds a conversation with a tool-use system message and
// the user prompt, then alternates between the model and the resolved
// toolkit until the model answers in plain text or the round limit is hit.
// The conversation lives only for the duration of one Run call.
package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/seosiju/sheetgpt/internal/llm"
	"github.com/seosiju/sheetgpt/internal/options"
	"github.com/seosiju/sheetgpt/internal/toolkit"
)

// MaxRounds bounds the model ↔ tool loop.
const MaxRounds = 5

const systemPrompt = "You are an assistant embedded in a spreadsheet with access to tools. " +
	"Use the provided tools when they can answer part of the question, then give a final plain-text answer."

// InvalidToolkitError reports an unknown or empty toolkit name.
type InvalidToolkitError struct {
	Name string
}

func (e *InvalidToolkitError) Error() string {
	return "Invalid or empty toolkit: " + e.Name
}

// MaxRoundsError reports loop exhaustion without a final answer.
type MaxRoundsError struct{}

func (e *MaxRoundsError) Error() string {
	return "Max loops reached. The agent could not find an answer."
}

// BadToolArgsError reports malformed argument JSON in a tool call. It fails
// the whole round rather than skipping the one call.
type BadToolArgsError struct {
	Tool string
	Err  error
}

func (e *BadToolArgsError) Error() string {
	return fmt.Sprintf("malformed arguments for tool %s: %v", e.Tool, e.Err)
}

func (e *BadToolArgsError) Unwrap() error { return e.Err }

// Orchestrator runs the agentic loop against a toolkit registry.
type Orchestrator struct {
	client   *llm.Client
	registry *toolkit.Registry
}

// New creates an orchestrator.
func New(client *llm.Client, registry *toolkit.Registry) *Orchestrator {
	return &Orchestrator{client: client, registry: registry}
}

// Run executes the loop and returns the model's final answer.
func (o *Orchestrator) Run(ctx context.Context, apiKey, prompt, contextBlock, toolkitName string, opts options.Resolved) (string, error) {
	tk := o.registry.Resolve(toolkitName)
	if tk.Len() == 0 {
		return "", &InvalidToolkitError{Name: toolkitName}
	}

	runID := uuid.New().String()
	start := time.Now()

	messages := []llm.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: llm.UserMessage(prompt, contextBlock)},
	}
	toolDefs := tk.Definitions()

	for round := 1; round <= MaxRounds; round++ {
		req := &llm.ChatRequest{
			Model:       opts.Model,
			Messages:    messages,
			Temperature: opts.Temperature,
			Tools:       toolDefs,
			ToolChoice:  "auto",
		}

		resp, err := o.client.CreateChatCompletion(ctx, apiKey, req)
		if err != nil {
			return "", fmt.Errorf("round %d: %w", round, err)
		}
		if len(resp.Choices) == 0 {
			return "", llm.ErrNoResponse
		}
		reply := resp.Choices[0].Message

		if len(reply.ToolCalls) == 0 {
			log.Info().
				Str("run", runID).
				Str("toolkit", toolkitName).
				Int("rounds", round).
				Dur("duration", time.Since(start)).
				Msg("Agent run complete")
			return reply.Content, nil
		}

		messages = append(messages, reply)

		for _, call := range reply.ToolCalls {
			result, err := o.executeTool(ctx, tk, call)
			if err != nil {
				return "", err
			}
			messages = append(messages, llm.ChatMessage{
				Role:       "tool",
				Content:    result,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
			})
		}

		log.Debug().
			Str("run", runID).
			Int("round", round).
			Int("tool_calls", len(reply.ToolCalls)).
			Msg("Agent loop continuing")
	}

	log.Warn().
		Str("run", runID).
		Str("toolkit", toolkitName).
		Msg("Agent hit round limit")
	return "", &MaxRoundsError{}
}

// executeTool runs one requested tool call and string-coerces the outcome.
// An unknown tool name feeds a "tool not found" result back to the model;
// malformed argument JSON is terminal.
func (o *Orchestrator) executeTool(ctx context.Context, tk *toolkit.Toolkit, call llm.ToolCall) (string, error) {
	name := call.Function.Name

	var args map[string]any
	if call.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
			return "", &BadToolArgsError{Tool: name, Err: err}
		}
	}

	tool, ok := tk.Lookup(name)
	if !ok {
		return "Error: tool not found: " + name, nil
	}

	result, err := tool.Invoke(ctx, args)
	if err != nil {
		// Feed the failure back so the model can correct itself.
		return "Error: " + err.Error(), nil
	}
	return result, nil
}
