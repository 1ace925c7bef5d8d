package fakes

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

type fakeCollection struct {
	dimension int
	distance  driven.Distance
	points    map[string]driven.Point
}

// VectorStore is an in-memory fake of driven.VectorStore. It implements
// exact brute-force cosine search, which is correct (if not sub-linear)
// for the small fixtures unit tests use.
type VectorStore struct {
	mu          sync.RWMutex
	collections map[string]*fakeCollection
}

func NewVectorStore() *VectorStore {
	return &VectorStore{collections: make(map[string]*fakeCollection)}
}

func (s *VectorStore) EnsureCollection(_ context.Context, name string, dimension int, distance driven.Distance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[name]; ok {
		return nil
	}
	s.collections[name] = &fakeCollection{
		dimension: dimension,
		distance:  distance,
		points:    make(map[string]driven.Point),
	}
	return nil
}

func (s *VectorStore) collection(name string) (*fakeCollection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("collection %q: %w", name, driven.ErrNoSuchCollection)
	}
	return c, nil
}

func (s *VectorStore) Upsert(_ context.Context, collection string, points []driven.Point) error {
	c, err := s.collection(collection)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range points {
		if c.dimension > 0 && len(p.Vector) != c.dimension {
			return fmt.Errorf("point %s: vector dimension %d != collection dimension %d", p.ID, len(p.Vector), c.dimension)
		}
		c.points[p.ID] = p
	}
	return nil
}

func (s *VectorStore) Search(_ context.Context, collection string, queryVector []float32, k int, filter driven.Filter) ([]driven.SearchHit, error) {
	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var hits []driven.SearchHit
	for _, p := range c.points {
		if !matches(p.Payload, filter) {
			continue
		}
		hits = append(hits, driven.SearchHit{
			ID:      p.ID,
			Score:   cosine(queryVector, p.Vector),
			Payload: p.Payload,
		})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k > 0 && k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (s *VectorStore) Scroll(_ context.Context, collection string, filter driven.Filter, limit int, offset int) ([]driven.ScrollResult, error) {
	c, err := s.collection(collection)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []driven.ScrollResult
	var ids []string
	for id, p := range c.points {
		if matches(p.Payload, filter) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		results = append(results, driven.ScrollResult{ID: id, Payload: c.points[id].Payload})
	}
	if offset > 0 {
		if offset >= len(results) {
			return nil, nil
		}
		results = results[offset:]
	}
	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	return results, nil
}

func (s *VectorStore) Delete(_ context.Context, collection string, filter driven.Filter) error {
	c, err := s.collection(collection)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range c.points {
		if matches(p.Payload, filter) {
			delete(c.points, id)
		}
	}
	return nil
}

func (s *VectorStore) Drop(_ context.Context, collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, collection)
	return nil
}

func (s *VectorStore) Count(_ context.Context, collection string, filter driven.Filter) (int64, error) {
	c, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if filter == nil {
		return int64(len(c.points)), nil
	}
	var n int64
	for _, p := range c.points {
		if matches(p.Payload, filter) {
			n++
		}
	}
	return n, nil
}

func (s *VectorStore) HealthCheck(context.Context) error { return nil }
func (s *VectorStore) Close() error                      { return nil }

func matches(payload map[string]any, filter driven.Filter) bool {
	for k, v := range filter {
		if payload[k] != v {
			return false
		}
	}
	return true
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
