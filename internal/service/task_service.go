package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/service/taskcache"
	"github.com/taskwell/taskwell-api/internal/store"
)

// TaskCreate carries the caller-supplied fields for a new task. Status and
// Priority may be empty; domain defaults apply.
type TaskCreate struct {
	Title       string
	Description string
	Status      domain.TaskStatus
	Priority    domain.TaskPriority
	DueDate     *time.Time
	LabelIDs    []uuid.UUID
}

// TaskUpdate describes a partial update. Nil pointers mean "leave the field
// untouched". DueDate only applies when it is non-nil or ClearDueDate is
// set. LabelIDs follows the same convention at the slice level: nil leaves
// the associations alone, while a non-nil slice (including an empty one)
// replaces them wholesale.
type TaskUpdate struct {
	Title        *string
	Description  *string
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	DueDate      *time.Time
	ClearDueDate bool
	LabelIDs     []uuid.UUID
}

// TaskService coordinates task mutations: each write runs the store change
// and its audit trail append in one transaction, then drops the owner's
// cached listings after commit. Reads for listings go through the cache
// manager.
type TaskService struct {
	txRunner   TxRunner
	tasks      store.TaskStore
	labels     store.LabelStore
	activities store.ActivityLogStore
	recorder   *Recorder
	cache      *taskcache.Manager
	logger     *slog.Logger
}

// NewTaskService creates a new TaskService with its dependencies.
func NewTaskService(
	txRunner TxRunner,
	tasks store.TaskStore,
	labels store.LabelStore,
	activities store.ActivityLogStore,
	recorder *Recorder,
	cache *taskcache.Manager,
	logger *slog.Logger,
) *TaskService {
	if txRunner == nil {
		panic("txRunner cannot be nil")
	}
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if labels == nil {
		panic("labels cannot be nil")
	}
	if activities == nil {
		panic("activities cannot be nil")
	}
	if recorder == nil {
		panic("recorder cannot be nil")
	}
	if cache == nil {
		panic("cache cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskService{
		txRunner:   txRunner,
		tasks:      tasks,
		labels:     labels,
		activities: activities,
		recorder:   recorder,
		cache:      cache,
		logger:     logger.With(slog.String("component", "task_service")),
	}
}

// CreateTask creates a task for the owner, attaches any requested labels,
// and records a "created" audit entry, all in one transaction. The owner's
// cached listings are invalidated after the transaction commits.
func (s *TaskService) CreateTask(ctx context.Context, ownerID uuid.UUID, in TaskCreate) (*domain.Task, error) {
	task, err := domain.NewTask(ownerID, in.Title, in.Description, in.Status, in.Priority, in.DueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	err = s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		if err := txTasks.Create(ctx, task); err != nil {
			return err
		}

		if len(in.LabelIDs) > 0 {
			if err := s.attachLabels(ctx, tx, task, in.LabelIDs); err != nil {
				return err
			}
		}

		description := fmt.Sprintf("Task '%s' created", task.Title)
		_, err := s.recorder.Record(ctx, s.activities.WithTx(tx),
			task.ID, ownerID, domain.ActivityActionCreated, description)
		return err
	})
	if err != nil {
		return nil, NewTaskServiceError("create_task", "failed to create task", err)
	}

	s.cache.InvalidateOwner(ctx, ownerID)

	s.logger.Debug("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID.String()))

	return task, nil
}

// GetTask returns the owner's task by ID. A task that does not exist,
// belongs to someone else, or has been soft-deleted yields ErrTaskNotFound;
// the caller cannot tell these cases apart.
func (s *TaskService) GetTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.loadOwned(ctx, s.tasks, ownerID, taskID)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to get task", err)
	}
	return task, nil
}

// ListTasks returns one page of the owner's tasks plus the total match
// count. The query is normalized and validated here; unfiltered requests
// are served through the listing cache.
func (s *TaskService) ListTasks(ctx context.Context, ownerID uuid.UUID, q store.TaskListQuery) ([]*domain.Task, int, error) {
	q.Normalize()
	if err := q.Validate(); err != nil {
		return nil, 0, err
	}

	tasks, total, err := s.cache.GetListing(ctx, ownerID, q)
	if err != nil {
		return nil, 0, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, total, nil
}

// UpdateTask applies a partial update to the owner's task, records an
// "updated" audit entry describing the changed fields, and invalidates the
// owner's cached listings after commit.
func (s *TaskService) UpdateTask(ctx context.Context, ownerID, taskID uuid.UUID, in TaskUpdate) (*domain.Task, error) {
	var task *domain.Task

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		var err error
		task, err = s.loadOwned(ctx, txTasks, ownerID, taskID)
		if err != nil {
			return err
		}

		changes := applyUpdate(task, in)
		if err := task.Validate(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}
		task.UpdatedAt = time.Now().UTC()

		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}

		if in.LabelIDs != nil {
			if err := s.attachLabels(ctx, tx, task, in.LabelIDs); err != nil {
				return err
			}
		}

		description := fmt.Sprintf("Task '%s' updated", task.Title)
		if len(changes) > 0 {
			description = strings.Join(changes, ", ")
		}
		_, err = s.recorder.Record(ctx, s.activities.WithTx(tx),
			task.ID, ownerID, domain.ActivityActionUpdated, description)
		return err
	})
	if err != nil {
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	s.cache.InvalidateOwner(ctx, ownerID)

	return task, nil
}

// DeleteTask soft-deletes the owner's task and records a "deleted" audit
// entry. An already-deleted task yields ErrTaskNotFound, same as a missing
// one. The row and its comments survive for a later restore.
func (s *TaskService) DeleteTask(ctx context.Context, ownerID, taskID uuid.UUID) error {
	var task *domain.Task

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		var err error
		task, err = s.loadOwned(ctx, txTasks, ownerID, taskID)
		if err != nil {
			return err
		}

		task.SoftDelete()
		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}

		description := fmt.Sprintf("Task '%s' deleted", task.Title)
		_, err = s.recorder.Record(ctx, s.activities.WithTx(tx),
			task.ID, ownerID, domain.ActivityActionDeleted, description)
		return err
	})
	if err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.cache.InvalidateOwner(ctx, ownerID)

	return nil
}

// RestoreTask brings a soft-deleted task back and records a "restored"
// audit entry. Restoring a task that is not deleted is a validation error,
// not a NotFound: the caller can see the live task.
func (s *TaskService) RestoreTask(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	var task *domain.Task

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		var err error
		task, err = txTasks.GetByID(ctx, taskID)
		if err != nil {
			if store.IsNotFoundError(err) {
				return ErrTaskNotFound
			}
			return err
		}
		if task.OwnerID != ownerID {
			return ErrTaskNotFound
		}

		if err := task.Restore(); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrValidation, err)
		}

		if err := txTasks.Update(ctx, task); err != nil {
			return err
		}

		description := fmt.Sprintf("Task '%s' restored", task.Title)
		_, err = s.recorder.Record(ctx, s.activities.WithTx(tx),
			task.ID, ownerID, domain.ActivityActionRestored, description)
		return err
	})
	if err != nil {
		return nil, NewTaskServiceError("restore_task", "failed to restore task", err)
	}

	s.cache.InvalidateOwner(ctx, ownerID)

	return task, nil
}

// loadOwned fetches a task and enforces the visibility rule shared by every
// read and mutation path: missing, foreign-owned and soft-deleted tasks all
// collapse into ErrTaskNotFound.
func (s *TaskService) loadOwned(ctx context.Context, tasks store.TaskStore, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	if task.OwnerID != ownerID || task.IsDeleted {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

// attachLabels replaces the task's label set wholesale inside the caller's
// transaction and refreshes task.Labels. Unknown label IDs fail the whole
// mutation with ErrLabelNotFound.
func (s *TaskService) attachLabels(ctx context.Context, tx *sql.Tx, task *domain.Task, labelIDs []uuid.UUID) error {
	txLabels := s.labels.WithTx(tx)
	txTasks := s.tasks.WithTx(tx)

	resolved := []*domain.Label{}
	if len(labelIDs) > 0 {
		var err error
		resolved, err = txLabels.GetByIDs(ctx, labelIDs)
		if err != nil {
			return err
		}
		if len(resolved) != len(labelIDs) {
			return ErrLabelNotFound
		}
	}

	if err := txTasks.ReplaceLabels(ctx, task.ID, labelIDs); err != nil {
		return err
	}

	labels := make([]domain.Label, len(resolved))
	for i, l := range resolved {
		labels[i] = *l
	}
	task.Labels = labels
	return nil
}

// applyUpdate copies the set fields of the update onto the task and returns
// one human-readable "field: old → new" entry per actual change, in a fixed
// field order. Fields set to their current value produce no entry.
func applyUpdate(task *domain.Task, in TaskUpdate) []string {
	var changes []string

	if in.Title != nil && *in.Title != task.Title {
		changes = append(changes, fmt.Sprintf("title: %s → %s", task.Title, *in.Title))
		task.Title = *in.Title
	}
	if in.Description != nil && *in.Description != task.Description {
		changes = append(changes, "description updated")
		task.Description = *in.Description
	}
	if in.Status != nil && *in.Status != task.Status {
		changes = append(changes, fmt.Sprintf("status: %s → %s", task.Status, *in.Status))
		task.Status = *in.Status
	}
	if in.Priority != nil && *in.Priority != task.Priority {
		changes = append(changes, fmt.Sprintf("priority: %s → %s", task.Priority, *in.Priority))
		task.Priority = *in.Priority
	}

	switch {
	case in.ClearDueDate:
		if task.DueDate != nil {
			changes = append(changes, fmt.Sprintf("due_date: %s → none", formatDueDate(task.DueDate)))
			task.DueDate = nil
		}
	case in.DueDate != nil:
		if task.DueDate == nil || !task.DueDate.Equal(*in.DueDate) {
			changes = append(changes, fmt.Sprintf("due_date: %s → %s",
				formatDueDate(task.DueDate), formatDueDate(in.DueDate)))
			task.DueDate = in.DueDate
		}
	}

	return changes
}

// formatDueDate renders a due date for audit descriptions.
func formatDueDate(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.UTC().Format("2006-01-02")
}
