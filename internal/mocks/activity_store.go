package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MemoryActivityLogStore is an in-memory store.ActivityLogStore for tests.
// Entries accumulate in append order.
type MemoryActivityLogStore struct {
	mu      sync.Mutex
	entries []*domain.ActivityLogEntry

	CreateErr error
}

var _ store.ActivityLogStore = (*MemoryActivityLogStore)(nil)

// NewMemoryActivityLogStore creates an empty in-memory activity store.
func NewMemoryActivityLogStore() *MemoryActivityLogStore {
	return &MemoryActivityLogStore{}
}

func (s *MemoryActivityLogStore) Create(ctx context.Context, entry *domain.ActivityLogEntry) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *entry
	s.entries = append(s.entries, &copied)
	return nil
}

func (s *MemoryActivityLogStore) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.ActivityLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*domain.ActivityLogEntry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].UserID == userID {
			copied := *s.entries[i]
			result = append(result, &copied)
		}
	}

	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	if limit > 0 && limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryActivityLogStore) WithTx(tx *sql.Tx) store.ActivityLogStore {
	return s
}

// Entries returns a snapshot of everything appended so far, oldest first.
func (s *MemoryActivityLogStore) Entries() []*domain.ActivityLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := make([]*domain.ActivityLogEntry, len(s.entries))
	copy(snapshot, s.entries)
	return snapshot
}
