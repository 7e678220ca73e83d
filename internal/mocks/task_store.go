package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MemoryTaskStore is an in-memory store.TaskStore for tests. It mirrors
// the SQL store's filter and sort contract so service and cache tests can
// assert real listing behavior without a database.
type MemoryTaskStore struct {
	mu     sync.Mutex
	tasks  map[uuid.UUID]*domain.Task
	seq    map[uuid.UUID]int
	nextSq int

	Labels *MemoryLabelStore // optional, resolves label objects for tasks

	CreateErr error
	GetErr    error
	SearchErr error
	UpdateErr error

	SearchCalls   int
	GetByIDsCalls int
}

var _ store.TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
		seq:   make(map[uuid.UUID]int),
	}
}

func (s *MemoryTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *task
	s.tasks[task.ID] = &copied
	s.seq[task.ID] = s.nextSq
	s.nextSq++
	return nil
}

func (s *MemoryTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

// GetByIDs deliberately returns tasks in reverse ID order so callers that
// rely on it being ordered fail loudly in tests.
func (s *MemoryTaskStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Task, error) {
	s.mu.Lock()
	s.GetByIDsCalls++
	defer s.mu.Unlock()

	if s.GetErr != nil {
		return nil, s.GetErr
	}

	var result []*domain.Task
	for i := len(ids) - 1; i >= 0; i-- {
		if task, ok := s.tasks[ids[i]]; ok && !task.IsDeleted {
			copied := *task
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *MemoryTaskStore) Search(ctx context.Context, ownerID uuid.UUID, q store.TaskListQuery) ([]*domain.Task, int, error) {
	s.mu.Lock()
	s.SearchCalls++
	defer s.mu.Unlock()

	if s.SearchErr != nil {
		return nil, 0, s.SearchErr
	}

	var matched []*domain.Task
	for _, task := range s.tasks {
		if task.OwnerID != ownerID || task.IsDeleted {
			continue
		}
		if !s.matches(task, q) {
			continue
		}
		copied := *task
		matched = append(matched, &copied)
	}

	s.sortTasks(matched, q)

	total := len(matched)
	start := q.Offset()
	if start > total {
		start = total
	}
	end := start + q.PageSize
	if end > total {
		end = total
	}

	page := make([]*domain.Task, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func (s *MemoryTaskStore) matches(task *domain.Task, q store.TaskListQuery) bool {
	if q.Search != "" {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(task.Title), needle) &&
			!strings.Contains(strings.ToLower(task.Description), needle) {
			return false
		}
	}
	if q.Status != "" && task.Status != q.Status {
		return false
	}
	if q.Priority != "" && task.Priority != q.Priority {
		return false
	}
	if len(q.LabelIDs) > 0 {
		found := false
		for _, want := range q.LabelIDs {
			for _, l := range task.Labels {
				if l.ID == want {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if q.OverdueOnly && !task.IsOverdue(time.Now().UTC()) {
		return false
	}
	return true
}

func (s *MemoryTaskStore) sortTasks(tasks []*domain.Task, q store.TaskListQuery) {
	desc := q.SortOrder == store.SortOrderDesc

	// Stable base order: creation sequence.
	sort.SliceStable(tasks, func(i, j int) bool {
		return s.seq[tasks[i].ID] < s.seq[tasks[j].ID]
	})

	switch q.SortBy {
	case store.SortByPriority:
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].Priority.Ordinal(), tasks[j].Priority.Ordinal()
			if desc {
				return a > b
			}
			return a < b
		})
	case store.SortByDueDate:
		sort.SliceStable(tasks, func(i, j int) bool {
			a, b := tasks[i].DueDate, tasks[j].DueDate
			// NULLs sort last regardless of direction.
			if a == nil {
				return false
			}
			if b == nil {
				return true
			}
			if desc {
				return a.After(*b)
			}
			return a.Before(*b)
		})
	default:
		sort.SliceStable(tasks, func(i, j int) bool {
			if desc {
				return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
			}
			return tasks[i].CreatedAt.Before(tasks[j].CreatedAt)
		})
	}
}

func (s *MemoryTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if s.UpdateErr != nil {
		return s.UpdateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[task.ID]; !ok {
		return store.ErrTaskNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *MemoryTaskStore) ReplaceLabels(ctx context.Context, taskID uuid.UUID, labelIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return store.ErrTaskNotFound
	}

	task.Labels = nil
	if s.Labels == nil {
		return nil
	}
	for _, id := range labelIDs {
		if label := s.Labels.get(id); label != nil {
			task.Labels = append(task.Labels, *label)
		}
	}
	return nil
}

func (s *MemoryTaskStore) ListOverdue(ctx context.Context, now time.Time) ([]*domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*domain.Task
	for _, task := range s.tasks {
		if task.IsDeleted || !task.IsOverdue(now) {
			continue
		}
		copied := *task
		result = append(result, &copied)
	}
	return result, nil
}

func (s *MemoryTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return s
}
