package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// LabelService manages user-created labels. Label mutations never touch the
// listing cache: cached listings hold task IDs only, and labels are
// rehydrated fresh from the store on every cache hit.
type LabelService struct {
	labels store.LabelStore
	logger *slog.Logger
}

// NewLabelService creates a new LabelService.
func NewLabelService(labels store.LabelStore, logger *slog.Logger) *LabelService {
	if labels == nil {
		panic("labels cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &LabelService{
		labels: labels,
		logger: logger.With(slog.String("component", "label_service")),
	}
}

// CreateLabel creates a label owned by the given user. An empty color falls
// back to the domain default.
func (s *LabelService) CreateLabel(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Label, error) {
	label, err := domain.NewLabel(userID, name, color)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.labels.Create(ctx, label); err != nil {
		return nil, NewTaskServiceError("create_label", "failed to create label", err)
	}

	return label, nil
}

// ListLabels returns all labels created by the given user.
func (s *LabelService) ListLabels(ctx context.Context, userID uuid.UUID) ([]*domain.Label, error) {
	labels, err := s.labels.ListByCreator(ctx, userID)
	if err != nil {
		return nil, NewTaskServiceError("list_labels", "failed to list labels", err)
	}
	return labels, nil
}

// DeleteLabel removes one of the user's labels. The schema cascade drops the
// task associations; the tasks themselves are untouched. A label created by
// someone else yields ErrLabelNotFound, same as a missing one.
func (s *LabelService) DeleteLabel(ctx context.Context, userID, labelID uuid.UUID) error {
	found, err := s.labels.GetByIDs(ctx, []uuid.UUID{labelID})
	if err != nil {
		return NewTaskServiceError("delete_label", "failed to load label", err)
	}
	if len(found) == 0 || found[0].CreatedBy != userID {
		return ErrLabelNotFound
	}

	if err := s.labels.Delete(ctx, labelID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrLabelNotFound
		}
		return NewTaskServiceError("delete_label", "failed to delete label", err)
	}

	return nil
}
