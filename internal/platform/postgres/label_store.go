package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

// PostgresLabelStore implements the store.LabelStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLabelStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresLabelStore creates a new PostgreSQL implementation of the
// LabelStore interface.
func NewPostgresLabelStore(db store.DBTX, logger *slog.Logger) *PostgresLabelStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresLabelStore{
		db:     db,
		logger: logger.With(slog.String("component", "label_store")),
	}
}

// Ensure PostgresLabelStore implements store.LabelStore interface
var _ store.LabelStore = (*PostgresLabelStore)(nil)

// WithTx implements store.LabelStore.WithTx
func (s *PostgresLabelStore) WithTx(tx *sql.Tx) store.LabelStore {
	return &PostgresLabelStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.LabelStore.Create
func (s *PostgresLabelStore) Create(ctx context.Context, label *domain.Label) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := label.Validate(); err != nil {
		log.Warn("label validation failed during create",
			slog.String("error", err.Error()),
			slog.String("label_id", label.ID.String()))
		return err
	}

	query := `
		INSERT INTO labels (id, name, color, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		label.ID, label.Name, label.Color, label.CreatedBy, label.CreatedAt)

	if err != nil {
		log.Error("failed to create label",
			slog.String("error", err.Error()),
			slog.String("label_id", label.ID.String()))
		return MapError(err)
	}

	log.Info("label created",
		slog.String("label_id", label.ID.String()),
		slog.String("name", label.Name))
	return nil
}

// GetByIDs implements store.LabelStore.GetByIDs
// Unknown IDs are silently omitted from the result.
func (s *PostgresLabelStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.Label{}, nil
	}

	query := fmt.Sprintf(`
		SELECT id, name, color, created_by, created_at
		FROM labels WHERE id IN (%s)
	`, placeholders(1, len(ids)))
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query labels by IDs", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	return collectLabels(rows)
}

// ListByCreator implements store.LabelStore.ListByCreator
func (s *PostgresLabelStore) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, name, color, created_by, created_at
		FROM labels WHERE created_by = $1
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, createdBy)
	if err != nil {
		log.Error("failed to list labels",
			slog.String("error", err.Error()),
			slog.String("created_by", createdBy.String()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	return collectLabels(rows)
}

// Delete implements store.LabelStore.Delete
// Task associations are removed by the join table's ON DELETE CASCADE.
// Returns store.ErrLabelNotFound if the label does not exist.
func (s *PostgresLabelStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM labels WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete label",
			slog.String("error", err.Error()),
			slog.String("label_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "label"); err != nil {
		return store.ErrLabelNotFound
	}

	return nil
}

func collectLabels(rows *sql.Rows) ([]*domain.Label, error) {
	labels := []*domain.Label{}
	for rows.Next() {
		var label domain.Label
		if err := rows.Scan(&label.ID, &label.Name, &label.Color,
			&label.CreatedBy, &label.CreatedAt); err != nil {
			return nil, err
		}
		labels = append(labels, &label)
	}
	return labels, rows.Err()
}
