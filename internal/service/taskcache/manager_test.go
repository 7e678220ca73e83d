package taskcache_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/mocks"
	"github.com/taskwell/taskwell-api/internal/service/taskcache"
	"github.com/taskwell/taskwell-api/internal/store"
)

const testTTL = 5 * time.Minute

func newFixture(t *testing.T) (*taskcache.Manager, *mocks.SpyCacheBackend, *mocks.MemoryTaskStore) {
	t.Helper()

	backend := mocks.NewSpyCacheBackend()
	tasks := mocks.NewMemoryTaskStore()
	manager := taskcache.NewManager(backend, tasks, testTTL, nil)
	return manager, backend, tasks
}

func seedTask(t *testing.T, tasks *mocks.MemoryTaskStore, ownerID uuid.UUID, title string, createdAt time.Time) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(ownerID, title, "", "", "", nil)
	require.NoError(t, err)
	task.CreatedAt = createdAt
	require.NoError(t, tasks.Create(context.Background(), task))
	return task
}

func TestGetListingCachesUnfilteredRequests(t *testing.T) {
	t.Parallel()

	manager, backend, tasks := newFixture(t)
	ownerID := uuid.New()
	now := time.Now().UTC()

	first := seedTask(t, tasks, ownerID, "first", now.Add(-2*time.Hour))
	second := seedTask(t, tasks, ownerID, "second", now.Add(-1*time.Hour))

	q := baseQuery()

	got, total, err := manager.GetListing(context.Background(), ownerID, q)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	// Default sort: created_at descending.
	require.Equal(t, second.ID, got[0].ID)
	require.Equal(t, first.ID, got[1].ID)
	require.Equal(t, 1, tasks.SearchCalls)

	// The result page was written back under the canonical key.
	key := taskcache.Key(ownerID, q)
	require.Contains(t, backend.Contents(), key)

	// Second request is a hit: no further Search, same order.
	got, total, err = manager.GetListing(context.Background(), ownerID, q)
	require.NoError(t, err)
	require.Equal(t, 2, total)
	require.Equal(t, second.ID, got[0].ID)
	require.Equal(t, first.ID, got[1].ID)
	require.Equal(t, 1, tasks.SearchCalls)
}

func TestGetListingSkipsCacheForFilteredRequests(t *testing.T) {
	t.Parallel()

	manager, backend, tasks := newFixture(t)
	ownerID := uuid.New()
	seedTask(t, tasks, ownerID, "meeting notes", time.Now().UTC())

	filters := []store.TaskListQuery{
		{Search: "meeting"},
		{Status: domain.TaskStatusTodo},
		{Priority: domain.TaskPriorityHigh},
		{LabelIDs: []uuid.UUID{uuid.New()}},
		{OverdueOnly: true},
	}

	for _, q := range filters {
		q.Normalize()
		_, _, err := manager.GetListing(context.Background(), ownerID, q)
		require.NoError(t, err)
	}

	require.Equal(t, 0, backend.CallCount(),
		"filtered requests must generate zero cache traffic")
	require.Equal(t, len(filters), tasks.SearchCalls)
}

func TestGetListingFallsBackOnBackendError(t *testing.T) {
	t.Parallel()

	manager, backend, tasks := newFixture(t)
	ownerID := uuid.New()
	task := seedTask(t, tasks, ownerID, "resilient", time.Now().UTC())

	backend.GetErr = errors.New("connection refused")
	backend.SetErr = errors.New("connection refused")

	got, total, err := manager.GetListing(context.Background(), ownerID, baseQuery())
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, task.ID, got[0].ID)
}

func TestGetListingTreatsCorruptPayloadAsMiss(t *testing.T) {
	t.Parallel()

	manager, backend, tasks := newFixture(t)
	ownerID := uuid.New()
	task := seedTask(t, tasks, ownerID, "survivor", time.Now().UTC())

	q := baseQuery()
	backend.Put(taskcache.Key(ownerID, q), []byte("{not json"))

	got, total, err := manager.GetListing(context.Background(), ownerID, q)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, task.ID, got[0].ID)
	require.Equal(t, 1, tasks.SearchCalls)
}

func TestGetListingPreservesCachedOrderAndDropsDanglingIDs(t *testing.T) {
	t.Parallel()

	manager, backend, tasks := newFixture(t)
	ownerID := uuid.New()
	now := time.Now().UTC()

	a := seedTask(t, tasks, ownerID, "a", now)
	b := seedTask(t, tasks, ownerID, "b", now)
	c := seedTask(t, tasks, ownerID, "c", now)

	// Seed a cached page in a specific order, then delete the middle task.
	q := baseQuery()
	payload, err := json.Marshal(map[string]interface{}{
		"tasks": []uuid.UUID{a.ID, b.ID, c.ID},
		"total": 3,
	})
	require.NoError(t, err)
	backend.Put(taskcache.Key(ownerID, q), payload)

	b.SoftDelete()
	require.NoError(t, tasks.Update(context.Background(), b))

	got, total, err := manager.GetListing(context.Background(), ownerID, q)
	require.NoError(t, err)
	require.Equal(t, 3, total, "total comes from the cached payload")
	require.Len(t, got, 2)
	require.Equal(t, a.ID, got[0].ID)
	require.Equal(t, c.ID, got[1].ID)
	require.Equal(t, 0, tasks.SearchCalls, "hit must not query the listing")
}

func TestGetListingEmptyCachedPageSkipsStore(t *testing.T) {
	t.Parallel()

	manager, backend, tasks := newFixture(t)
	ownerID := uuid.New()

	q := baseQuery()
	q.Page = 7
	backend.Put(taskcache.Key(ownerID, q), []byte(`{"tasks":[],"total":42}`))

	got, total, err := manager.GetListing(context.Background(), ownerID, q)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Equal(t, 42, total)
	require.Equal(t, 0, tasks.SearchCalls)
	require.Equal(t, 0, tasks.GetByIDsCalls)
}

func TestGetListingToleratesWriteFailure(t *testing.T) {
	t.Parallel()

	manager, backend, tasks := newFixture(t)
	ownerID := uuid.New()
	task := seedTask(t, tasks, ownerID, "still works", time.Now().UTC())

	backend.SetErr = errors.New("write refused")

	got, total, err := manager.GetListing(context.Background(), ownerID, baseQuery())
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, task.ID, got[0].ID)
}

func TestGetListingWithNilBackendGoesStraightToStore(t *testing.T) {
	t.Parallel()

	tasks := mocks.NewMemoryTaskStore()
	manager := taskcache.NewManager(nil, tasks, testTTL, nil)
	ownerID := uuid.New()
	seedTask(t, tasks, ownerID, "uncached", time.Now().UTC())

	_, total, err := manager.GetListing(context.Background(), ownerID, baseQuery())
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, 1, tasks.SearchCalls)
}

func TestInvalidateOwnerDeletesExactPrefix(t *testing.T) {
	t.Parallel()

	manager, backend, _ := newFixture(t)
	ownerID := uuid.New()

	manager.InvalidateOwner(context.Background(), ownerID)

	require.Equal(t, []string{taskcache.OwnerPrefix(ownerID)}, backend.DeletedPrefixes)
}

func TestInvalidateOwnerAbsorbsBackendErrors(t *testing.T) {
	t.Parallel()

	manager, backend, _ := newFixture(t)
	backend.DeleteErr = errors.New("connection refused")

	// Must not panic or propagate the failure.
	manager.InvalidateOwner(context.Background(), uuid.New())
	require.Len(t, backend.DeletedPrefixes, 1)
}

func TestGetListingPropagatesStoreError(t *testing.T) {
	t.Parallel()

	manager, _, tasks := newFixture(t)
	tasks.SearchErr = errors.New("database down")

	_, _, err := manager.GetListing(context.Background(), uuid.New(), baseQuery())
	require.Error(t, err)
}
