package mocks

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/taskwell/taskwell-api/internal/domain"
	"github.com/taskwell/taskwell-api/internal/store"
)

// MemoryCommentStore is an in-memory store.CommentStore for tests.
type MemoryCommentStore struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*domain.Comment
}

var _ store.CommentStore = (*MemoryCommentStore)(nil)

// NewMemoryCommentStore creates an empty in-memory comment store.
func NewMemoryCommentStore() *MemoryCommentStore {
	return &MemoryCommentStore{comments: make(map[uuid.UUID]*domain.Comment)}
}

func (s *MemoryCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *comment
	s.comments[comment.ID] = &copied
	return nil
}

func (s *MemoryCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, store.ErrCommentNotFound
	}
	copied := *comment
	return &copied, nil
}

func (s *MemoryCommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result []*domain.Comment
	for _, comment := range s.comments {
		if comment.TaskID == taskID {
			copied := *comment
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (s *MemoryCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return store.ErrCommentNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *MemoryCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return s
}
