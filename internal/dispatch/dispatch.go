// Package dispatch is the entry point for formula invocations. It resolves
// argument-shape ambiguity, checks the cache, picks the agentic or direct
// completion path, and maps every failure to the stable textual error codes
// the spreadsheet displays.
package dispatch

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/seosiju/sheetgpt/internal/agent"
	"github.com/seosiju/sheetgpt/internal/cache"
	"github.com/seosiju/sheetgpt/internal/grid"
	"github.com/seosiju/sheetgpt/internal/llm"
	"github.com/seosiju/sheetgpt/internal/options"
	"github.com/seosiju/sheetgpt/internal/store"
	"github.com/seosiju/sheetgpt/internal/toolkit"
)

var tracer = otel.Tracer("sheetgpt")

// Service wires the normalization, caching, completion, and agent
// components behind the two formula entry points.
type Service struct {
	store        store.Store
	cache        *cache.Gateway
	client       *llm.Client
	orchestrator *agent.Orchestrator
}

// New creates the dispatch service.
func New(st store.Store, gw *cache.Gateway, client *llm.Client, registry *toolkit.Registry) *Service {
	return &Service{
		store:        st,
		cache:        gw,
		client:       client,
		orchestrator: agent.New(client, registry),
	}
}

// canonicalRequest is one fully disambiguated invocation. Immutable after
// construction.
type canonicalRequest struct {
	Prompt  string
	Context string
	Sheet   string
	Toolkit string
	Options options.Resolved
}

// GPT evaluates the primary formula. It accepts the 1–4 positional argument
// shapes and always returns displayable text, never an error.
func (s *Service) GPT(ctx context.Context, args ...any) string {
	return s.run(ctx, "dispatch.GPT", func() (RequestInputs, error) {
		return Disambiguate(args)
	})
}

// GPTJSON evaluates the JSON-output variant. Its second argument is always
// range input, never a toolkit name, and options are forced to JSON format,
// so the call can never take the agent path.
func (s *Service) GPTJSON(ctx context.Context, prompt, rangeInput any) string {
	return s.run(ctx, "dispatch.GPTJSON", func() (RequestInputs, error) {
		p := promptText(prompt)
		if p == "" {
			return RequestInputs{}, ErrMissingPrompt
		}
		return RequestInputs{
			Prompt:         p,
			RangeInput:     rangeInput,
			OptionsPayload: map[string]any{"format": "json"},
		}, nil
	})
}

// run wraps one formula evaluation with its span, outcome log, and the
// panic barrier, then hands the built inputs to the pipeline.
func (s *Service) run(ctx context.Context, spanName string, build func() (RequestInputs, error)) (result string) {
	ctx, span := tracer.Start(ctx, spanName)
	defer span.End()

	start := time.Now()

	// The formula boundary must never throw; a bug anywhere below becomes
	// an error cell, not a crashed evaluation.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("Dispatch panicked")
			result = gptError("internal error")
		}
		span.SetAttributes(attribute.String("gpt.result_class", classify(result)))
		log.Info().
			Str("result_class", classify(result)).
			Dur("duration", time.Since(start)).
			Msg("Formula evaluated")
	}()

	in, err := build()
	if err != nil {
		return gptError(err.Error())
	}
	return s.evaluate(ctx, span, in)
}

// evaluate is the shared pipeline behind both formula variants.
func (s *Service) evaluate(ctx context.Context, span trace.Span, in RequestInputs) string {
	apiKey, err := s.store.GetSecret(ctx, store.APIKeySecret)
	if err != nil || apiKey == "" {
		return gptError("API_KEY_MISSING")
	}

	req := canonicalRequest{
		Prompt:  in.Prompt,
		Toolkit: in.ToolkitName,
		Options: options.Resolve(options.ParseOverrides(in.OptionsPayload)),
	}
	rows := grid.Normalize(in.RangeInput)
	req.Context = grid.Serialize(rows)
	req.Sheet = grid.SheetIdentity(in.RangeInput)

	version, err := s.store.CacheVersion(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Cache version unavailable, proceeding uncached")
	}
	key := cache.Key(req.Prompt, req.Context, req.Sheet, req.Options, req.Toolkit, version)

	if version != "" {
		if cached, hit := s.cache.Read(ctx, key); hit {
			span.SetAttributes(attribute.Bool("gpt.cache_hit", true))
			return cached
		}
	}
	span.SetAttributes(attribute.Bool("gpt.cache_hit", false))

	var answer string
	if req.Toolkit != "" {
		answer, err = s.orchestrator.Run(ctx, apiKey, req.Prompt, req.Context, req.Toolkit, req.Options)
		if err != nil {
			return agentErrorText(err)
		}
	} else {
		estimated := llm.EstimateTokens(req.Prompt, req.Context, req.Options)
		if estimated > llm.EffectiveTokenLimit(req.Options) {
			return tokenLimitError(estimated)
		}
		answer, err = s.client.Complete(ctx, apiKey, req.Prompt, req.Context, req.Options)
		if err != nil {
			return completionErrorText(err)
		}
	}

	if version != "" {
		s.cache.Write(ctx, key, answer, req.Options.CacheTTLSeconds)
	}
	return answer
}

// ── Admin operations ────────────────────────────────────────

// SetAPIKey stores the upstream credential.
func (s *Service) SetAPIKey(ctx context.Context, key string) error {
	return s.store.SetSecret(ctx, store.APIKeySecret, key)
}

// ClearAPIKey removes the upstream credential.
func (s *Service) ClearAPIKey(ctx context.Context) error {
	return s.store.DeleteSecret(ctx, store.APIKeySecret)
}

// FlushCache invalidates every cached response by rotating the version
// stamp embedded in each key. Old entries simply age out.
func (s *Service) FlushCache(ctx context.Context) (string, error) {
	return s.store.RotateCacheVersion(ctx)
}

// classify buckets a result for logs and spans without leaking its content.
func classify(result string) string {
	switch {
	case len(result) >= len(gptErrorPrefix) && result[:len(gptErrorPrefix)] == gptErrorPrefix:
		return "gpt_error"
	case len(result) >= len(agentErrorPrefix) && result[:len(agentErrorPrefix)] == agentErrorPrefix:
		return "agent_error"
	default:
		return "ok"
	}
}
