package postgres

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

func normalized(mutate func(*store.TaskListQuery)) store.TaskListQuery {
	q := store.TaskListQuery{}
	q.Normalize()
	if mutate != nil {
		mutate(&q)
	}
	return q
}

func TestBuildTaskFilterUnfiltered(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	where, args := buildTaskFilter(ownerID, normalized(nil))

	assert.Equal(t, "WHERE t.owner_id = $1 AND t.is_deleted = FALSE", where)
	require.Len(t, args, 1)
	assert.Equal(t, ownerID, args[0])
}

func TestBuildTaskFilterWithPredicates(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	labelA, labelB := uuid.New(), uuid.New()

	q := normalized(func(q *store.TaskListQuery) {
		q.Search = "report"
		q.Status = domain.TaskStatusTodo
		q.Priority = domain.TaskPriorityHigh
		q.LabelIDs = []uuid.UUID{labelA, labelB}
		q.OverdueOnly = true
	})

	where, args := buildTaskFilter(ownerID, q)

	assert.Contains(t, where, "t.title ILIKE $2 OR t.description ILIKE $2")
	assert.Contains(t, where, "t.status = $3")
	assert.Contains(t, where, "t.priority = $4")
	assert.Contains(t, where, "tl.label_id IN ($5, $6)")
	assert.Contains(t, where, "t.due_date < NOW()")
	assert.Contains(t, where, "t.status <> 'completed'")

	require.Len(t, args, 6)
	assert.Equal(t, "%report%", args[1])
	assert.Equal(t, "todo", args[2])
	assert.Equal(t, "high", args[3])
	assert.Equal(t, labelA, args[4])
	assert.Equal(t, labelB, args[5])
}

func TestOrderClause(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ORDER BY created_at DESC, id ASC",
		orderClause(normalized(nil)))

	assert.Equal(t, "ORDER BY created_at ASC, id ASC",
		orderClause(normalized(func(q *store.TaskListQuery) {
			q.SortOrder = store.SortOrderAsc
		})))

	assert.Equal(t,
		"ORDER BY CASE priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END ASC, created_at ASC",
		orderClause(normalized(func(q *store.TaskListQuery) {
			q.SortBy = store.SortByPriority
			q.SortOrder = store.SortOrderAsc
		})))

	// NULL due dates always sort last, whatever the direction.
	assert.Equal(t, "ORDER BY due_date DESC NULLS LAST, created_at ASC",
		orderClause(normalized(func(q *store.TaskListQuery) {
			q.SortBy = store.SortByDueDate
		})))
	assert.Equal(t, "ORDER BY due_date ASC NULLS LAST, created_at ASC",
		orderClause(normalized(func(q *store.TaskListQuery) {
			q.SortBy = store.SortByDueDate
			q.SortOrder = store.SortOrderAsc
		})))
}
