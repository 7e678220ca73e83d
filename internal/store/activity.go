package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
)

// ActivityLogStore defines the interface for the append-only audit trail.
// Entries are never updated or deleted through this interface.
type ActivityLogStore interface {
	// Create appends a new activity entry.
	Create(ctx context.Context, entry *domain.ActivityLogEntry) error

	// ListByUser returns the user's activity entries, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ActivityLogEntry, error)

	// WithTx returns a new ActivityLogStore instance bound to the provided transaction.
	WithTx(tx *sql.Tx) ActivityLogStore
}
