package fakes

import (
	"context"
	"sync"
)

// DedupCache is an in-memory fake of driven.DedupCache.
type DedupCache struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedupCache() *DedupCache {
	return &DedupCache{seen: make(map[string]struct{})}
}

func (d *DedupCache) Seen(_ context.Context, scope, hash string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.seen[scope+"|"+hash]
	return ok, nil
}

func (d *DedupCache) Mark(_ context.Context, scope, hash string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[scope+"|"+hash] = struct{}{}
	return nil
}
