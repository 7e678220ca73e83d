package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// Recorder appends immutable audit trail entries for task mutations.
//
// Unlike cache invalidation, recording is NOT best-effort: a failed append
// fails the mutation that triggered it, because the trail is the
// user-facing history of the task. Callers therefore invoke Record inside
// the mutation's transaction, passing the transaction-bound store.
type Recorder struct {
	logger *slog.Logger
}

// NewRecorder creates an activity Recorder. If logger is nil, the default
// logger is used.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		logger: logger.With(slog.String("component", "activity_recorder")),
	}
}

// Record appends one entry describing a mutation of the given task by the
// given user. The entries store is supplied per call so the append can join
// the caller's transaction.
func (r *Recorder) Record(
	ctx context.Context,
	entries store.ActivityLogStore,
	taskID, userID uuid.UUID,
	action domain.ActivityAction,
	description string,
) (*domain.ActivityLogEntry, error) {
	entry, err := domain.NewActivityLogEntry(taskID, userID, action, description)
	if err != nil {
		return nil, err
	}

	if err := entries.Create(ctx, entry); err != nil {
		r.logger.Error("failed to append activity entry",
			slog.String("task_id", taskID.String()),
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
		return nil, err
	}

	return entry, nil
}
