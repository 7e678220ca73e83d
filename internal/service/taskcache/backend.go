package taskcache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Backend.Get when the key is absent.
// Any other error from a Backend call signals a backend failure and is
// treated by the Manager exactly like a miss.
var ErrCacheMiss = errors.New("cache miss")

// Backend is the key-value capability the cache manager needs. It is
// implemented by the Redis client in internal/platform/redis and by
// in-memory fakes in tests. Implementations must bound every call with a
// short timeout and return promptly on backend unavailability.
type Backend interface {
	// Get returns the value stored under key, or ErrCacheMiss if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// DeleteByPrefix removes every key starting with prefix. The prefix is
	// always scoped to a single owner; implementations must never touch
	// keys outside it.
	DeleteByPrefix(ctx context.Context, prefix string) error
}
