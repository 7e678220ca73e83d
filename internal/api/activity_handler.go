package api

import (
	"log/slog"
	"net/http"

	"github.com/taskwell/taskwell-api/internal/api/middleware"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/service"
)

// ActivityHandler serves the activity feed endpoint.
type ActivityHandler struct {
	activity *service.ActivityService
	logger   *slog.Logger
}

// NewActivityHandler creates a new ActivityHandler with the given dependencies.
func NewActivityHandler(activity *service.ActivityService, logger *slog.Logger) *ActivityHandler {
	if activity == nil {
		panic("activity cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ActivityHandler{
		activity: activity,
		logger:   logger.With(slog.String("component", "activity_handler")),
	}
}

// List handles GET /api/activity.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, err := parseIntParam(r.URL.Query().Get("limit"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
		return
	}
	offset, err := parseIntParam(r.URL.Query().Get("offset"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid offset")
		return
	}

	entries, err := h.activity.ListRecent(r.Context(), userID, limit, offset)
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}
