package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/seosiju/sheetgpt/internal/api/middleware"
	"github.com/seosiju/sheetgpt/internal/config"
	"github.com/seosiju/sheetgpt/internal/dispatch"
)

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(cfg *config.Config, svc *dispatch.Service) http.Handler {
	h := NewHandlers(svc)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", healthHandler)
	r.Get("/version", versionHandler(cfg))

	r.Route("/v1", func(r chi.Router) {
		r.Route("/functions", func(r chi.Router) {
			r.Post("/gpt", h.EvaluateGPT)
			r.Post("/gpt_json", h.EvaluateGPTJSON)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Put("/apikey", h.SetAPIKey)
			r.Delete("/apikey", h.ClearAPIKey)
			r.Post("/cache/flush", h.FlushCache)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "sheetgpt",
	})
}

func versionHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{
			"version": cfg.Version,
			"service": "sheetgpt",
		})
	}
}
