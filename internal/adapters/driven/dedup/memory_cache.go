// Package dedup implements driven.DedupCache (§4.K, §9): an in-memory
// variant for single-process deployments and a Redis-backed variant
// for multi-process ones.
package dedup

import (
	"context"
	"sync"

	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

var _ driven.DedupCache = (*MemoryCache)(nil)

// MemoryCache tracks seen (scope, hash) pairs in a process-local set.
// It does not survive a restart, which is acceptable for a single
// long-lived process - durability across restarts is the Redis
// variant's job.
type MemoryCache struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{seen: make(map[string]struct{})}
}

func (c *MemoryCache) Seen(_ context.Context, scope, hash string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.seen[key(scope, hash)]
	return ok, nil
}

func (c *MemoryCache) Mark(_ context.Context, scope, hash string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seen[key(scope, hash)] = struct{}{}
	return nil
}

func key(scope, hash string) string {
	return scope + "|" + hash
}
