package taskcache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// TaskReader is the slice of store.TaskStore the cache manager needs:
// the authoritative listing query and the batch fetch used for rehydration.
type TaskReader interface {
	Search(ctx context.Context, ownerID uuid.UUID, q store.TaskListQuery) ([]*domain.Task, int, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Task, error)
}

// listingPayload is the wire format of a cached listing: the ordered task
// IDs of one page plus the total match count. Nothing else is ever cached.
type listingPayload struct {
	Tasks []uuid.UUID `json:"tasks"`
	Total int         `json:"total"`
}

// Manager serves paginated task listings through the cache backend.
// The backend is strictly an optimization; the Manager must produce a
// correct listing whenever the store is reachable, regardless of what the
// backend does.
type Manager struct {
	backend Backend
	tasks   TaskReader
	ttl     time.Duration
	logger  *slog.Logger
}

// NewManager creates a cache manager over the given backend and task
// reader. A nil backend disables caching entirely: every request goes to
// the store. If logger is nil, the default logger is used.
func NewManager(backend Backend, tasks TaskReader, ttl time.Duration, logger *slog.Logger) *Manager {
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		backend: backend,
		tasks:   tasks,
		ttl:     ttl,
		logger:  logger.With(slog.String("component", "task_cache")),
	}
}

// GetListing returns one page of the owner's tasks plus the total count.
//
// The query must already be normalized and validated. Cacheable requests
// (no filter predicates) are served from the backend when possible; on a
// hit, the cached ID sequence is rehydrated against the store, preserving
// the cached order and dropping IDs that no longer resolve. On a miss or
// any backend failure the store is queried directly and, when cacheable,
// the result is written back best-effort.
func (m *Manager) GetListing(ctx context.Context, ownerID uuid.UUID, q store.TaskListQuery) ([]*domain.Task, int, error) {
	cacheable := m.backend != nil && !q.HasFilters()

	if cacheable {
		if tasks, total, ok := m.readCached(ctx, ownerID, q); ok {
			return tasks, total, nil
		}
	}

	tasks, total, err := m.tasks.Search(ctx, ownerID, q)
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		m.writeCached(ctx, ownerID, q, tasks, total)
	}

	return tasks, total, nil
}

// readCached attempts to serve the listing from the backend. The boolean
// result reports whether the caller can use the returned values; false
// means miss, backend failure, or a rehydration error, all of which fall
// through to the store.
func (m *Manager) readCached(ctx context.Context, ownerID uuid.UUID, q store.TaskListQuery) ([]*domain.Task, int, bool) {
	key := Key(ownerID, q)

	data, err := m.backend.Get(ctx, key)
	if err != nil {
		if err != ErrCacheMiss {
			m.logger.Warn("cache read failed, falling back to store",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return nil, 0, false
	}

	var payload listingPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		m.logger.Warn("corrupt cache payload, falling back to store",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, 0, false
	}

	// An empty page is a valid cached result; don't touch the store for it.
	if len(payload.Tasks) == 0 {
		return []*domain.Task{}, payload.Total, true
	}

	fetched, err := m.tasks.GetByIDs(ctx, payload.Tasks)
	if err != nil {
		m.logger.Warn("rehydration fetch failed, falling back to store",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, 0, false
	}

	// The batch fetch carries no ordering guarantee: the cached ID sequence
	// owns the order. IDs that no longer resolve (deleted since caching)
	// are dropped silently.
	byID := make(map[uuid.UUID]*domain.Task, len(fetched))
	for _, t := range fetched {
		byID[t.ID] = t
	}

	tasks := make([]*domain.Task, 0, len(payload.Tasks))
	for _, id := range payload.Tasks {
		if t, ok := byID[id]; ok {
			tasks = append(tasks, t)
		}
	}

	return tasks, payload.Total, true
}

// writeCached stores the listing result best-effort. Failures are logged
// and dropped; the caller already has a correct result from the store.
func (m *Manager) writeCached(ctx context.Context, ownerID uuid.UUID, q store.TaskListQuery, tasks []*domain.Task, total int) {
	ids := make([]uuid.UUID, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}

	data, err := json.Marshal(listingPayload{Tasks: ids, Total: total})
	if err != nil {
		m.logger.Warn("failed to encode cache payload",
			slog.String("error", err.Error()))
		return
	}

	key := Key(ownerID, q)
	if err := m.backend.Set(ctx, key, data, m.ttl); err != nil {
		m.logger.Warn("cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// InvalidateOwner deletes every cached listing belonging to the owner.
// It is coarse-grained on purpose: after any mutation of any of the owner's
// tasks, all of their pages are dropped rather than tracking which pages
// the mutation touched. Backend failures are logged and absorbed: the
// mutation that triggered the invalidation has already committed, and the
// TTL bounds how long a missed invalidation can serve stale data.
func (m *Manager) InvalidateOwner(ctx context.Context, ownerID uuid.UUID) {
	if m.backend == nil {
		return
	}

	prefix := OwnerPrefix(ownerID)
	if err := m.backend.DeleteByPrefix(ctx, prefix); err != nil {
		m.logger.Warn("cache invalidation failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()))
	}
}
