package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task if data is invalid.
	// Returns ErrInvalidEntity if the owner does not exist (foreign key violation).
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, with its labels populated.
	// Soft-deleted tasks are returned too; callers decide how to treat them.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetByIDs retrieves the non-deleted tasks matching the given IDs, with
	// labels populated. The result carries NO ordering guarantee and silently
	// omits IDs that no longer resolve; callers that need an order must
	// impose it themselves.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Task, error)

	// Search returns one page of the owner's non-deleted tasks matching the
	// query's filters, plus the total number of matching rows. Sorting
	// follows the query contract: created_at by default, priority by its
	// low<medium<high ordinal, due_date with NULLs last regardless of
	// direction. Ties are broken by creation order.
	Search(ctx context.Context, ownerID uuid.UUID, q TaskListQuery) ([]*domain.Task, int, error)

	// Update persists the current state of the task, including the
	// soft-delete flags. Label associations are managed separately via
	// ReplaceLabels. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// ReplaceLabels replaces the task's label associations wholesale with
	// the given set. An empty slice clears all labels.
	ReplaceLabels(ctx context.Context, taskID uuid.UUID, labelIDs []uuid.UUID) error

	// ListOverdue returns every non-deleted, non-completed task across all
	// owners whose due date is before the given instant.
	ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error)

	// WithTx returns a new TaskStore instance bound to the provided
	// transaction, so multiple operations can commit atomically.
	WithTx(tx *sql.Tx) TaskStore
}
