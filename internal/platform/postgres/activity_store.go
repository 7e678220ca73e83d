package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

// PostgresActivityLogStore implements the store.ActivityLogStore interface
// using a PostgreSQL database as the storage backend. The table is
// append-only: this type exposes no update or delete path.
type PostgresActivityLogStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresActivityLogStore creates a new PostgreSQL implementation of
// the ActivityLogStore interface.
func NewPostgresActivityLogStore(db store.DBTX, logger *slog.Logger) *PostgresActivityLogStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresActivityLogStore{
		db:     db,
		logger: logger.With(slog.String("component", "activity_store")),
	}
}

// Ensure PostgresActivityLogStore implements store.ActivityLogStore interface
var _ store.ActivityLogStore = (*PostgresActivityLogStore)(nil)

// WithTx implements store.ActivityLogStore.WithTx
func (s *PostgresActivityLogStore) WithTx(tx *sql.Tx) store.ActivityLogStore {
	return &PostgresActivityLogStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.ActivityLogStore.Create
func (s *PostgresActivityLogStore) Create(ctx context.Context, entry *domain.ActivityLogEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("activity entry validation failed",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return err
	}

	query := `
		INSERT INTO activity_logs (id, task_id, user_id, action, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.TaskID, entry.UserID, entry.Action,
		entry.Description, entry.CreatedAt)

	if err != nil {
		log.Error("failed to append activity entry",
			slog.String("error", err.Error()),
			slog.String("task_id", entry.TaskID.String()),
			slog.String("action", string(entry.Action)))
		return MapError(err)
	}

	return nil
}

// ListByUser implements store.ActivityLogStore.ListByUser
// Entries are returned newest first.
func (s *PostgresActivityLogStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ActivityLogEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, task_id, user_id, action, description, created_at
		FROM activity_logs
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		log.Error("failed to list activity entries",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	entries := []*domain.ActivityLogEntry{}
	for rows.Next() {
		var entry domain.ActivityLogEntry
		var action string
		if err := rows.Scan(&entry.ID, &entry.TaskID, &entry.UserID,
			&action, &entry.Description, &entry.CreatedAt); err != nil {
			log.Error("failed to scan activity row", slog.String("error", err.Error()))
			return nil, err
		}
		entry.Action = domain.ActivityAction(action)
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
