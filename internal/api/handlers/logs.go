package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/service"
)

type LogHandler struct {
	svc *service.LogService
}

func NewLogHandler(svc *service.LogService) *LogHandler {
	return &LogHandler{svc: svc}
}

type listLogsResponse struct {
	Entries []domain.ConversationLogEntry `json:"entries"`
}

func (h *LogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.LogRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := h.svc.Record(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrLogMessageRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to record log")
		return
	}

	writeJSON(w, http.StatusCreated, entry)
}

func (h *LogHandler) ListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.svc.ListRecent(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list logs")
		return
	}
	if entries == nil {
		entries = []domain.ConversationLogEntry{}
	}

	writeJSON(w, http.StatusOK, listLogsResponse{Entries: entries})
}
