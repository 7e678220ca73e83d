package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskwell/taskwell-api/internal/api/middleware"
	"github.com/taskwell/taskwell-api/internal/api/shared"
	"github.com/taskwell/taskwell-api/internal/service"
)

// NotificationHandler serves the manual overdue-scan trigger.
type NotificationHandler struct {
	notifier *service.Notifier
	logger   *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifier *service.Notifier, logger *slog.Logger) *NotificationHandler {
	if notifier == nil {
		panic("notifier cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationHandler{
		notifier: notifier,
		logger:   logger.With(slog.String("component", "notification_handler")),
	}
}

// CheckOverdue handles POST /api/notifications/check-overdue.
func (h *NotificationHandler) CheckOverdue(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r); !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	sent, err := h.notifier.CheckOverdue(r.Context(), time.Now().UTC())
	if err != nil {
		RespondServiceError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, OverdueCheckResponse{
		NotificationsSent: sent,
	})
}
