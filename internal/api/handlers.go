// Package api exposes the formula and admin operations over HTTP. Formula
// endpoints always answer 200 with the formula-style text; the error surface
// is the text itself (`#GPT_ERROR:` / `#AGENT_ERROR:`), never an HTTP fault.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/seosiju/sheetgpt/internal/dispatch"
)

// Handlers holds the handler dependencies.
type Handlers struct {
	Service *dispatch.Service
}

// NewHandlers creates a Handlers instance.
func NewHandlers(svc *dispatch.Service) *Handlers {
	return &Handlers{Service: svc}
}

type gptRequest struct {
	Args []any `json:"args"`
}

type gptJSONRequest struct {
	Prompt any `json:"prompt"`
	Range  any `json:"range"`
}

type gptResponse struct {
	Result string `json:"result"`
}

// EvaluateGPT runs the primary formula with 1–4 positional arguments.
func (h *Handlers) EvaluateGPT(w http.ResponseWriter, r *http.Request) {
	var req gptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := h.Service.GPT(r.Context(), req.Args...)
	respondJSON(w, http.StatusOK, gptResponse{Result: result})
}

// EvaluateGPTJSON runs the JSON-output variant.
func (h *Handlers) EvaluateGPTJSON(w http.ResponseWriter, r *http.Request) {
	var req gptJSONRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result := h.Service.GPTJSON(r.Context(), req.Prompt, req.Range)
	respondJSON(w, http.StatusOK, gptResponse{Result: result})
}

type apiKeyRequest struct {
	APIKey string `json:"api_key"`
}

// SetAPIKey stores the upstream credential.
func (h *Handlers) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req apiKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" {
		respondError(w, http.StatusBadRequest, "api_key is required")
		return
	}

	if err := h.Service.SetAPIKey(r.Context(), req.APIKey); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().Msg("API key stored")
	w.WriteHeader(http.StatusNoContent)
}

// ClearAPIKey removes the upstream credential.
func (h *Handlers) ClearAPIKey(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ClearAPIKey(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	log.Info().Msg("API key cleared")
	w.WriteHeader(http.StatusNoContent)
}

// FlushCache rotates the cache-version stamp, invalidating all entries.
func (h *Handlers) FlushCache(w http.ResponseWriter, r *http.Request) {
	version, err := h.Service.FlushCache(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"version": version})
}

// ── Response helpers ────────────────────────────────────────

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
