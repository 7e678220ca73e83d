package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MemoryLabelStore is an in-memory store.LabelStore for tests.
type MemoryLabelStore struct {
	mu     sync.Mutex
	labels map[uuid.UUID]*domain.Label
}

var _ store.LabelStore = (*MemoryLabelStore)(nil)

// NewMemoryLabelStore creates an empty in-memory label store.
func NewMemoryLabelStore() *MemoryLabelStore {
	return &MemoryLabelStore{labels: make(map[uuid.UUID]*domain.Label)}
}

func (s *MemoryLabelStore) Create(ctx context.Context, label *domain.Label) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *label
	s.labels[label.ID] = &copied
	return nil
}

func (s *MemoryLabelStore) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*domain.Label
	for _, id := range ids {
		if label, ok := s.labels[id]; ok {
			copied := *label
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *MemoryLabelStore) ListByCreator(ctx context.Context, createdBy uuid.UUID) ([]*domain.Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*domain.Label
	for _, label := range s.labels {
		if label.CreatedBy == createdBy {
			copied := *label
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (s *MemoryLabelStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.labels[id]; !ok {
		return store.ErrLabelNotFound
	}
	delete(s.labels, id)
	return nil
}

func (s *MemoryLabelStore) WithTx(tx *sql.Tx) store.LabelStore {
	return s
}

// get returns the stored label without copying, for use by MemoryTaskStore.
func (s *MemoryLabelStore) get(id uuid.UUID) *domain.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.labels[id]
}
