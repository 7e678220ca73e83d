package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// ActivityService exposes the read side of the audit trail. Writes go
// through the Recorder inside mutation transactions; this service only
// lists what was recorded.
type ActivityService struct {
	activities store.ActivityLogStore
	logger     *slog.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(activities store.ActivityLogStore, logger *slog.Logger) *ActivityService {
	if activities == nil {
		panic("activities cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &ActivityService{
		activities: activities,
		logger:     logger.With(slog.String("component", "activity_service")),
	}
}

// ListRecent returns the user's most recent activity entries, newest first.
// Non-positive limits fall back to the store default.
func (s *ActivityService) ListRecent(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ActivityLogEntry, error) {
	entries, err := s.activities.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, NewTaskServiceError("list_activity", "failed to list activity", err)
	}
	return entries, nil
}
