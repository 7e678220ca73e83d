package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/taskwell/taskwell-api/internal/service/taskcache"
)

// SpyCacheBackend is an in-memory taskcache.Backend that records every
// call, so tests can assert both cache contents and cache traffic.
type SpyCacheBackend struct {
	mu   sync.Mutex
	data map[string][]byte

	GetErr    error
	SetErr    error
	DeleteErr error

	GetCalls        []string
	SetCalls        []string
	DeletedPrefixes []string
}

var _ taskcache.Backend = (*SpyCacheBackend)(nil)

// NewSpyCacheBackend creates an empty spy backend.
func NewSpyCacheBackend() *SpyCacheBackend {
	return &SpyCacheBackend{data: make(map[string][]byte)}
}

func (b *SpyCacheBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.GetCalls = append(b.GetCalls, key)
	if b.GetErr != nil {
		return nil, b.GetErr
	}

	data, ok := b.data[key]
	if !ok {
		return nil, taskcache.ErrCacheMiss
	}
	return data, nil
}

func (b *SpyCacheBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.SetCalls = append(b.SetCalls, key)
	if b.SetErr != nil {
		return b.SetErr
	}

	b.data[key] = value
	return nil
}

func (b *SpyCacheBackend) DeleteByPrefix(ctx context.Context, prefix string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.DeletedPrefixes = append(b.DeletedPrefixes, prefix)
	if b.DeleteErr != nil {
		return b.DeleteErr
	}

	for key := range b.data {
		if strings.HasPrefix(key, prefix) {
			delete(b.data, key)
		}
	}
	return nil
}

// Put seeds a cache entry directly.
func (b *SpyCacheBackend) Put(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = value
}

// Contents returns a snapshot of the stored keys.
func (b *SpyCacheBackend) Contents() map[string][]byte {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := make(map[string][]byte, len(b.data))
	for k, v := range b.data {
		snapshot[k] = v
	}
	return snapshot
}

// CallCount reports total cache traffic across all operations.
func (b *SpyCacheBackend) CallCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.GetCalls) + len(b.SetCalls) + len(b.DeletedPrefixes)
}
