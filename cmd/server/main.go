// SheetGPT server — the backend for the spreadsheet GPT formula.
//
// It turns loosely-typed formula calls into canonical chat-completion
// requests, caches deterministic responses, and runs a bounded agentic
// tool loop when a toolkit is named.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/seosiju/sheetgpt/internal/api"
	"github.com/seosiju/sheetgpt/internal/cache"
	"github.com/seosiju/sheetgpt/internal/config"
	"github.com/seosiju/sheetgpt/internal/dispatch"
	"github.com/seosiju/sheetgpt/internal/llm"
	"github.com/seosiju/sheetgpt/internal/store"
	"github.com/seosiju/sheetgpt/internal/telemetry"
	"github.com/seosiju/sheetgpt/internal/toolkit"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	log.Info().Msg("SheetGPT starting...")

	cfg := config.Load()

	shutdownTelemetry, err := telemetry.Init(cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	settings := store.NewMemoryStore(cfg.DataDir)
	defer settings.Close()

	ctx := context.Background()
	defer shutdownTelemetry(ctx)

	// An env-provided credential seeds the store; the admin API can still
	// overwrite or clear it later.
	if cfg.OpenAI.APIKey != "" {
		if err := settings.SetSecret(ctx, store.APIKeySecret, cfg.OpenAI.APIKey); err != nil {
			log.Warn().Err(err).Msg("Failed to seed API key from environment")
		}
	}

	responseCache := cache.NewMemoryCache()
	defer responseCache.Close()

	svc := dispatch.New(
		settings,
		cache.NewGateway(responseCache),
		llm.NewClient(cfg.OpenAI.Endpoint),
		toolkit.DefaultRegistry(),
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(cfg, svc),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().
		Int("port", cfg.Port).
		Str("endpoint", cfg.OpenAI.Endpoint).
		Msg("SheetGPT ready")

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
