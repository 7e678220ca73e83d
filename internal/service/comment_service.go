package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// CommentService manages comments on tasks. Adding a comment records a
// "comment_added" audit entry in the same transaction but does NOT touch
// the listing cache: cached listing payloads carry task IDs and totals
// only, neither of which a comment can change.
type CommentService struct {
	txRunner   TxRunner
	tasks      store.TaskStore
	comments   store.CommentStore
	activities store.ActivityLogStore
	recorder   *Recorder
	logger     *slog.Logger
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	txRunner TxRunner,
	tasks store.TaskStore,
	comments store.CommentStore,
	activities store.ActivityLogStore,
	recorder *Recorder,
	logger *slog.Logger,
) *CommentService {
	if txRunner == nil {
		panic("txRunner cannot be nil")
	}
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if comments == nil {
		panic("comments cannot be nil")
	}
	if activities == nil {
		panic("activities cannot be nil")
	}
	if recorder == nil {
		panic("recorder cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &CommentService{
		txRunner:   txRunner,
		tasks:      tasks,
		comments:   comments,
		activities: activities,
		recorder:   recorder,
		logger:     logger.With(slog.String("component", "comment_service")),
	}
}

// AddComment attaches a comment to a live task and records the audit entry
// atomically. Commenting on a missing or soft-deleted task yields
// ErrTaskNotFound.
func (s *CommentService) AddComment(ctx context.Context, userID, taskID uuid.UUID, content string) (*domain.Comment, error) {
	comment, err := domain.NewComment(taskID, userID, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		task, err := s.tasks.WithTx(tx).GetByID(ctx, taskID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrTaskNotFound
			}
			return err
		}
		if task.IsDeleted {
			return ErrTaskNotFound
		}

		if err := s.comments.WithTx(tx).Create(ctx, comment); err != nil {
			return err
		}

		description := fmt.Sprintf("Comment added on task '%s'", task.Title)
		_, err = s.recorder.Record(ctx, s.activities.WithTx(tx),
			task.ID, userID, domain.ActivityActionCommentAdded, description)
		return err
	})
	if err != nil {
		return nil, NewTaskServiceError("add_comment", "failed to add comment", err)
	}

	return comment, nil
}

// ListComments returns all comments on a task, newest first. The task must
// exist and be live.
func (s *CommentService) ListComments(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, NewTaskServiceError("list_comments", "failed to load task", err)
	}
	if task.IsDeleted {
		return nil, ErrTaskNotFound
	}

	comments, err := s.comments.ListByTask(ctx, taskID)
	if err != nil {
		return nil, NewTaskServiceError("list_comments", "failed to list comments", err)
	}
	return comments, nil
}

// DeleteComment removes a comment. Only its author may delete it; anyone
// else gets ErrNotCommentAuthor.
func (s *CommentService) DeleteComment(ctx context.Context, userID, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return ErrCommentNotFound
		}
		return NewTaskServiceError("delete_comment", "failed to load comment", err)
	}
	if comment.UserID != userID {
		return ErrNotCommentAuthor
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		if store.IsNotFoundError(err) {
			return ErrCommentNotFound
		}
		return NewTaskServiceError("delete_comment", "failed to delete comment", err)
	}

	return nil
}
