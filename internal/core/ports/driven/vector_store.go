package driven

import (
	"context"
	"errors"
)

// ErrNoSuchCollection is returned by store operations addressed at a
// collection that was never created via EnsureCollection.
var ErrNoSuchCollection = errors.New("vector store: no such collection")

// Distance identifies the similarity metric a collection is configured
// with. The core only ever uses cosine (§3, §4.E).
type Distance string

const DistanceCosine Distance = "cosine"

// Point is a single stored (id, vector, payload) triple. The vector
// and payload are written atomically: a point never exists with one
// but not the other (§3).
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// Filter is an equality filter over payload fields, ANDed together.
// It is the only filter shape the core needs: metadata-equality scroll
// and search (§4.E).
type Filter map[string]any

// SearchHit is one ANN search result.
type SearchHit struct {
	ID      string
	Score   float64
	Payload map[string]any
}

// ScrollResult is one exact-listing result (no vector needed).
type ScrollResult struct {
	ID      string
	Payload map[string]any
}

// VectorStore is the black-box persistence contract the core consumes
// (§4.E). Any implementation - Qdrant, or something else - must honor
// the atomicity, idempotence, and filter-equality contracts below.
type VectorStore interface {
	// EnsureCollection idempotently creates a collection with the given
	// vector dimension and distance metric.
	EnsureCollection(ctx context.Context, name string, dimension int, distance Distance) error

	// Upsert writes points to a collection. A batch is atomic at the
	// store level: it either all applies or none does.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search performs ANN search for the k nearest points to
	// queryVector, optionally restricted by an equality filter.
	Search(ctx context.Context, collection string, queryVector []float32, k int, filter Filter) ([]SearchHit, error)

	// Scroll lists points matching filter exactly, without ranking.
	Scroll(ctx context.Context, collection string, filter Filter, limit int, offset int) ([]ScrollResult, error)

	// Delete removes every point matching filter.
	Delete(ctx context.Context, collection string, filter Filter) error

	// Drop removes a collection entirely.
	Drop(ctx context.Context, collection string) error

	// Count returns the number of points matching filter (nil filter
	// counts the whole collection).
	Count(ctx context.Context, collection string, filter Filter) (int64, error)

	// HealthCheck verifies the store is reachable.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the store client.
	Close() error
}
