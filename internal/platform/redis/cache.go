// Package redis provides the Redis implementation of the listing cache backend.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/taskwell/taskwell-api/internal/config"
	"github.com/taskwell/taskwell-api/internal/service/taskcache"
)

// scanBatchSize bounds how many keys a single SCAN iteration returns
// during prefix deletion.
const scanBatchSize = 100

// Cache implements taskcache.Backend over a Redis client. Every call is
// bounded by a per-call timeout so an unavailable backend stalls the
// caller for at most that long.
type Cache struct {
	client  *redis.Client
	timeout time.Duration
	logger  *slog.Logger
}

// Ensure Cache implements taskcache.Backend
var _ taskcache.Backend = (*Cache)(nil)

// New creates a Cache from configuration. It does not dial eagerly; use
// Ping to verify connectivity at startup. If logger is nil, the default
// logger is used.
func New(cfg config.CacheConfig, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &Cache{
		client:  client,
		timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		logger:  logger.With(slog.String("component", "redis_cache")),
	}
}

// Get implements taskcache.Backend.Get.
// Returns taskcache.ErrCacheMiss when the key is absent.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, taskcache.ErrCacheMiss
		}
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	return data, nil
}

// Set implements taskcache.Backend.Set.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set error: %w", err)
	}

	return nil
}

// DeleteByPrefix implements taskcache.Backend.DeleteByPrefix.
// It walks the keyspace with SCAN and deletes matches in batches, so large
// keyspaces never block the server the way KEYS would.
func (c *Cache) DeleteByPrefix(ctx context.Context, prefix string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	pattern := prefix + "*"

	var cursor uint64
	for {
		keys, nextCursor, err := c.client.Scan(ctx, cursor, pattern, scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("cache scan error: %w", err)
		}

		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache delete error: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}

	return nil
}

// Ping checks connectivity to the Redis server.
func (c *Cache) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}
