package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/platform/logger"
	"github.com/taskwell/taskwell-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx implements store.TaskStore.WithTx
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return &PostgresTaskStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owner doesn't exist.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, description, status, priority,
			due_date, is_deleted, deleted_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.IsDeleted,
		task.DeletedAt,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return MapError(err)
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// taskColumns is the select list shared by every task query.
const taskColumns = `id, owner_id, title, description, status, priority,
	due_date, is_deleted, deleted_at, created_at, updated_at`

// scanTask scans one task row from a *sql.Row or *sql.Rows.
func scanTask(scanner interface{ Scan(dest ...any) error }) (*domain.Task, error) {
	var task domain.Task
	var status, priority string

	err := scanner.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.DueDate,
		&task.IsDeleted,
		&task.DeletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	task.Priority = domain.TaskPriority(priority)
	return &task, nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID with its labels populated.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`SELECT %s FROM tasks WHERE id = $1`, taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	if err := s.attachLabels(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// GetByIDs implements store.TaskStore.GetByIDs
// It retrieves the non-deleted tasks matching the given IDs with labels
// populated. The result carries no ordering guarantee and unknown IDs are
// silently omitted.
func (s *PostgresTaskStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(ids) == 0 {
		return []*domain.Task{}, nil
	}

	query := fmt.Sprintf(
		`SELECT %s FROM tasks WHERE is_deleted = FALSE AND id IN (%s)`,
		taskColumns, placeholders(1, len(ids)),
	)
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks by IDs",
			slog.String("error", err.Error()),
			slog.Int("id_count", len(ids)))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	tasks, err := collectTasks(rows)
	if err != nil {
		log.Error("failed to scan task rows", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.attachLabels(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Search implements store.TaskStore.Search
// It returns one page of the owner's non-deleted tasks matching the query
// plus the total match count, sorted per the listing contract.
func (s *PostgresTaskStore) Search(ctx context.Context, ownerID uuid.UUID, q store.TaskListQuery) ([]*domain.Task, int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	where, args := buildTaskFilter(ownerID, q)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks t ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, 0, MapError(err)
	}

	pageQuery := fmt.Sprintf(
		`SELECT %s FROM tasks t %s %s LIMIT $%d OFFSET $%d`,
		taskColumns, where, orderClause(q), len(args)+1, len(args)+2,
	)
	pageArgs := append(args, q.PageSize, q.Offset())

	rows, err := s.db.QueryContext(ctx, pageQuery, pageArgs...)
	if err != nil {
		log.Error("failed to query tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, 0, MapError(err)
	}
	defer closeRows(rows, log)

	tasks, err := collectTasks(rows)
	if err != nil {
		log.Error("failed to scan task rows", slog.String("error", err.Error()))
		return nil, 0, err
	}

	if err := s.attachLabels(ctx, tasks); err != nil {
		return nil, 0, err
	}

	log.Debug("task search completed",
		slog.String("owner_id", ownerID.String()),
		slog.Int("page_count", len(tasks)),
		slog.Int("total", total))
	return tasks, total, nil
}

// buildTaskFilter renders the WHERE clause for Search and its arguments.
// The owner and soft-delete predicates are always present; the optional
// filters are appended only when set.
func buildTaskFilter(ownerID uuid.UUID, q store.TaskListQuery) (string, []any) {
	conditions := []string{"t.owner_id = $1", "t.is_deleted = FALSE"}
	args := []any{ownerID}

	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		conditions = append(conditions,
			fmt.Sprintf("(t.title ILIKE $%d OR t.description ILIKE $%d)", n, n))
	}

	if q.Status != "" {
		args = append(args, string(q.Status))
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
	}

	if q.Priority != "" {
		args = append(args, string(q.Priority))
		conditions = append(conditions, fmt.Sprintf("t.priority = $%d", len(args)))
	}

	if len(q.LabelIDs) > 0 {
		start := len(args) + 1
		for _, id := range q.LabelIDs {
			args = append(args, id)
		}
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM task_labels tl WHERE tl.task_id = t.id AND tl.label_id IN (%s))",
			placeholders(start, len(q.LabelIDs)),
		))
	}

	if q.OverdueOnly {
		conditions = append(conditions,
			"t.due_date < NOW()", "t.status <> 'completed'")
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}

// orderClause renders the ORDER BY for the listing contract: created_at by
// default, priority by its low<medium<high ordinal, due_date with NULLs
// last regardless of direction. created_at breaks ties in insertion order.
func orderClause(q store.TaskListQuery) string {
	dir := "DESC"
	if q.SortOrder == store.SortOrderAsc {
		dir = "ASC"
	}

	switch q.SortBy {
	case store.SortByPriority:
		return fmt.Sprintf(
			`ORDER BY CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END %s, created_at ASC`, dir)
	case store.SortByDueDate:
		return fmt.Sprintf(`ORDER BY due_date %s NULLS LAST, created_at ASC`, dir)
	default:
		return fmt.Sprintf(`ORDER BY created_at %s, id ASC`, dir)
	}
}

// Update implements store.TaskStore.Update
// It persists all mutable task fields including the soft-delete flags.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during update",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
			due_date = $5, is_deleted = $6, deleted_at = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.IsDeleted,
		task.DeletedAt,
		task.UpdatedAt,
		task.ID,
	)

	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for update", slog.String("task_id", task.ID.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task updated",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// ReplaceLabels implements store.TaskStore.ReplaceLabels
// It replaces the task's label associations wholesale; an empty set clears
// all labels. Unknown label IDs surface as store.ErrInvalidEntity via the
// join table's foreign key.
func (s *PostgresTaskStore) ReplaceLabels(ctx context.Context, taskID uuid.UUID, labelIDs []uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM task_labels WHERE task_id = $1`, taskID); err != nil {
		log.Error("failed to clear task labels",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return MapError(err)
	}

	for _, labelID := range labelIDs {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO task_labels (task_id, label_id) VALUES ($1, $2)`,
			taskID, labelID); err != nil {
			log.Error("failed to attach label",
				slog.String("error", err.Error()),
				slog.String("task_id", taskID.String()),
				slog.String("label_id", labelID.String()))
			return MapError(err)
		}
	}

	return nil
}

// ListOverdue implements store.TaskStore.ListOverdue
// It returns every non-deleted, non-completed task across all owners whose
// due date is before the given instant.
func (s *PostgresTaskStore) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT %s FROM tasks
		WHERE is_deleted = FALSE AND due_date < $1 AND status <> 'completed'
		ORDER BY due_date ASC
	`, taskColumns)

	rows, err := s.db.QueryContext(ctx, query, now)
	if err != nil {
		log.Error("failed to query overdue tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer closeRows(rows, log)

	tasks, err := collectTasks(rows)
	if err != nil {
		log.Error("failed to scan task rows", slog.String("error", err.Error()))
		return nil, err
	}

	return tasks, nil
}

// attachLabels populates the Labels field of the given tasks in one query
// over the join table.
func (s *PostgresTaskStore) attachLabels(ctx context.Context, tasks []*domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if len(tasks) == 0 {
		return nil
	}

	args := make([]any, len(tasks))
	index := make(map[uuid.UUID]*domain.Task, len(tasks))
	for i, t := range tasks {
		args[i] = t.ID
		index[t.ID] = t
		t.Labels = nil
	}

	query := fmt.Sprintf(`
		SELECT tl.task_id, l.id, l.name, l.color, l.created_by, l.created_at
		FROM task_labels tl
		JOIN labels l ON l.id = tl.label_id
		WHERE tl.task_id IN (%s)
		ORDER BY l.name ASC
	`, placeholders(1, len(tasks)))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query task labels", slog.String("error", err.Error()))
		return MapError(err)
	}
	defer closeRows(rows, log)

	for rows.Next() {
		var taskID uuid.UUID
		var label domain.Label
		if err := rows.Scan(&taskID, &label.ID, &label.Name, &label.Color,
			&label.CreatedBy, &label.CreatedAt); err != nil {
			log.Error("failed to scan label row", slog.String("error", err.Error()))
			return err
		}
		if t, ok := index[taskID]; ok {
			t.Labels = append(t.Labels, label)
		}
	}

	return rows.Err()
}

// collectTasks drains rows into a task slice, returning an empty slice
// rather than nil when there are no rows.
func collectTasks(rows *sql.Rows) ([]*domain.Task, error) {
	tasks := []*domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// closeRows closes rows and logs a failure instead of silently dropping it.
func closeRows(rows *sql.Rows, log *slog.Logger) {
	if err := rows.Close(); err != nil {
		log.Error("failed to close rows", slog.String("error", err.Error()))
	}
}
