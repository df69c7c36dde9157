package handlers

import (
	"errors"
	"net/http"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/service"
	"github.com/go-chi/chi/v5"
)

const maxSessionIDLen = 128

type SessionHandler struct {
	assistant *service.Assistant
}

func NewSessionHandler(assistant *service.Assistant) *SessionHandler {
	return &SessionHandler{assistant: assistant}
}

type askRequest struct {
	User    string `json:"user,omitempty"`
	Message string `json:"message"`
}

type transcriptResponse struct {
	SessionID string        `json:"session_id"`
	Turns     []domain.Turn `json:"turns"`
}

func sessionID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	return id, id != "" && len(id) <= maxSessionIDLen
}

func (h *SessionHandler) Ask(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	var req askRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.assistant.Ask(r.Context(), service.AskRequest{
		SessionID: id,
		User:      req.User,
		Message:   req.Message,
	})
	if err != nil {
		if errors.Is(err, service.ErrMessageEmpty) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to answer message")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *SessionHandler) Transcript(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	turns, found := h.assistant.Transcript(id)
	if !found {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	if turns == nil {
		turns = []domain.Turn{}
	}

	writeJSON(w, http.StatusOK, transcriptResponse{SessionID: id, Turns: turns})
}

func (h *SessionHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session id")
		return
	}

	if !h.assistant.Dismiss(id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
