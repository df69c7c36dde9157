package handlers

import (
	"net/http"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/llm"
)

// CompletionHandler exposes the gateway directly. Every response, including
// rejected input, has the {ok, text, error} shape.
type CompletionHandler struct {
	client domain.CompletionClient
}

func NewCompletionHandler(client domain.CompletionClient) *CompletionHandler {
	return &CompletionHandler{client: client}
}

type completionRequest struct {
	System      string           `json:"system,omitempty"`
	Messages    []domain.Message `json:"messages"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
	Temperature *float64         `json:"temperature,omitempty"`
}

func (h *CompletionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, domain.CompletionResult{Error: "invalid request body"})
		return
	}
	if len(req.Messages) == 0 {
		writeJSON(w, http.StatusBadRequest, domain.CompletionResult{Error: "messages are required"})
		return
	}
	if h.client == nil {
		writeJSON(w, http.StatusOK, domain.CompletionResult{Error: llm.ErrNoBackends.Error()})
		return
	}

	temperature := llm.DefaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	result := h.client.Complete(r.Context(), domain.CompletionRequest{
		System:      req.System,
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: temperature,
	})
	writeJSON(w, http.StatusOK, result)
}
