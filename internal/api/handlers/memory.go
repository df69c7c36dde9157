package handlers

import (
	"errors"
	"net/http"

	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/domain"
	"github.com/abolfazl2800140/Gym-handler-Desktop/internal/service"
)

type MemoryHandler struct {
	svc *service.KnowledgeService
}

func NewMemoryHandler(svc *service.KnowledgeService) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

type listMemoryResponse struct {
	Records []domain.MemoryRecord `json:"records"`
}

func (h *MemoryHandler) Teach(w http.ResponseWriter, r *http.Request) {
	var req domain.TeachRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.svc.Teach(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrMemoryPatternOrIntentRequired) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store memory record")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list memory records")
		return
	}
	if records == nil {
		records = []domain.MemoryRecord{}
	}

	writeJSON(w, http.StatusOK, listMemoryResponse{Records: records})
}
