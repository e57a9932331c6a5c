package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guardian-ai/apiserver/internal/services"
	"github.com/guardian-ai/apiserver/types"
)

// DecomposeHandler serves task decomposition requests.
type DecomposeHandler struct {
	decomposeService *services.DecomposeService
}

// NewDecomposeHandler constructs a handler over the decompose service.
func NewDecomposeHandler(decomposeService *services.DecomposeService) *DecomposeHandler {
	return &DecomposeHandler{decomposeService: decomposeService}
}

// DecomposeRouter registers decomposition routes on the given router.
// All routes require authentication.
func DecomposeRouter(r chi.Router, decomposeService *services.DecomposeService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewDecomposeHandler(decomposeService)

	if authMiddleware != nil {
		r.With(authMiddleware).Post("/", handler.Decompose)
	} else {
		r.Post("/", handler.Decompose)
	}
}

// Decompose accepts a task description and returns steps plus an
// encouragement. Provider failures surface as a generic 503; the caller
// should simply try again later.
func (h *DecomposeHandler) Decompose(w http.ResponseWriter, r *http.Request) {
	var req types.DecompositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := h.decomposeService.Decompose(r.Context(), req.TaskDescription)
	if err != nil {
		if errors.Is(err, services.ErrEmptyTask) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusServiceUnavailable, services.ErrCompletionUnavailable.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
