package dedup

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

var _ driven.DedupCache = (*RedisCache)(nil)

const dedupKeyPrefix = "noor:dedup:"

// RedisCache persists seen (scope, hash) pairs as Redis keys, so
// dedup survives process restarts across multiple ingestion workers.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Seen(ctx context.Context, scope, hash string) (bool, error) {
	n, err := c.client.Exists(ctx, dedupKeyPrefix+key(scope, hash)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup seen: %w", err)
	}
	return n > 0, nil
}

func (c *RedisCache) Mark(ctx context.Context, scope, hash string) error {
	err := c.client.Set(ctx, dedupKeyPrefix+key(scope, hash), 1, 0).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("dedup mark: %w", err)
	}
	return nil
}
