package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// LabelStore defines the interface for label data persistence.
type LabelStore interface {
	// Create saves a new label to the store.
	Create(ctx context.Context, label *domain.Label) error

	// GetByIDs retrieves the labels matching the given IDs, in no particular
	// order. Unknown IDs are silently omitted.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Label, error)

	// ListByCreator returns all labels created by the given user.
	ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*domain.Label, error)

	// Delete removes a label. Associations to tasks are removed by the
	// schema's cascade on the join table; the tasks themselves are untouched.
	// Returns ErrLabelNotFound if the label does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new LabelStore instance bound to the provided transaction.
	WithTx(tx *sql.Tx) LabelStore
}
