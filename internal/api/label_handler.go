package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/api/middleware"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/service"
)

// LabelHandler serves the label endpoints.
type LabelHandler struct {
	labels *service.LabelService
	logger *slog.Logger
}

// NewLabelHandler creates a new LabelHandler with the given dependencies.
func NewLabelHandler(labels *service.LabelService, logger *slog.Logger) *LabelHandler {
	if labels == nil {
		panic("labels cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LabelHandler{
		labels: labels,
		logger: logger.With(slog.String("component", "label_handler")),
	}
}

// List handles GET /api/labels.
func (h *LabelHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	labels, err := h.labels.ListLabels(r.Context(), userID)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, labels)
}

// Create handles POST /api/labels.
func (h *LabelHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateLabelRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	label, err := h.labels.CreateLabel(r.Context(), userID, req.Name, req.Color)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, label)
}

// Delete handles DELETE /api/labels/{id}.
func (h *LabelHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	labelID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid label ID")
		return
	}

	if err := h.labels.DeleteLabel(r.Context(), userID, labelID); err != nil {
		RespondServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
