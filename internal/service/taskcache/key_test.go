package taskcache_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/taskwell/taskwell-api/internal/service/taskcache"
	"github.com/taskwell/taskwell-api/internal/store"
)

func baseQuery() store.TaskListQuery {
	q := store.TaskListQuery{}
	q.Normalize()
	return q
}

func TestKeyIsDeterministic(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	q := baseQuery()

	assert.Equal(t, taskcache.Key(ownerID, q), taskcache.Key(ownerID, q))
}

func TestKeyFormat(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	q := store.TaskListQuery{
		Page:      2,
		PageSize:  50,
		SortBy:    store.SortByDueDate,
		SortOrder: store.SortOrderAsc,
	}

	want := fmt.Sprintf("tasks:user:%s:page:2:size:50:sort:due_date:asc", ownerID)
	assert.Equal(t, want, taskcache.Key(ownerID, q))
}

func TestKeyDiffersPerParameter(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	base := baseQuery()

	variants := map[string]store.TaskListQuery{}

	q := base
	q.Page = base.Page + 1
	variants["page"] = q

	q = base
	q.PageSize = base.PageSize + 10
	variants["page size"] = q

	q = base
	q.SortBy = store.SortByPriority
	variants["sort field"] = q

	q = base
	q.SortOrder = store.SortOrderAsc
	variants["sort order"] = q

	baseKey := taskcache.Key(ownerID, base)
	for name, variant := range variants {
		assert.NotEqual(t, baseKey, taskcache.Key(ownerID, variant),
			"changing %s must change the key", name)
	}

	assert.NotEqual(t, baseKey, taskcache.Key(uuid.New(), base),
		"changing the owner must change the key")
}

func TestOwnerPrefixCoversOnlyThatOwner(t *testing.T) {
	t.Parallel()

	ownerA := uuid.New()
	ownerB := uuid.New()
	q := baseQuery()

	prefix := taskcache.OwnerPrefix(ownerA)
	assert.True(t, strings.HasPrefix(taskcache.Key(ownerA, q), prefix))
	assert.False(t, strings.HasPrefix(taskcache.Key(ownerB, q), prefix))
}
