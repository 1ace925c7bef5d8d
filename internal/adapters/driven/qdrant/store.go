// Package qdrant implements driven.VectorStore (§4.E) on top of the
// Qdrant gRPC client, the pack's concrete vector-database dependency.
package qdrant

import (
	"context"
	"fmt"

	qc "github.com/qdrant/go-client/qdrant"

	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

var _ driven.VectorStore = (*Store)(nil)

// Config holds connection parameters for a Qdrant instance.
type Config struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// Store implements driven.VectorStore over a single Qdrant client.
// Collections are created lazily by EnsureCollection, never implicitly.
type Store struct {
	client *qc.Client
}

// New dials Qdrant and returns a ready-to-use Store. It does not create
// any collection - callers call EnsureCollection per collection name.
func New(cfg Config) (*Store, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}
	port := cfg.Port
	if port == 0 {
		port = 6334
	}
	client, err := qc.NewClient(&qc.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: dial: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) EnsureCollection(ctx context.Context, name string, dimension int, distance driven.Distance) error {
	exists, err := s.client.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("qdrant: check collection %q: %w", name, err)
	}
	if exists {
		return nil
	}
	dist := qc.Distance_Cosine
	if distance != driven.DistanceCosine {
		return fmt.Errorf("qdrant: unsupported distance %q", distance)
	}
	err = s.client.CreateCollection(ctx, &qc.CreateCollection{
		CollectionName: name,
		VectorsConfig: qc.NewVectorsConfig(&qc.VectorParams{
			Size:     uint64(dimension),
			Distance: dist,
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %q: %w", name, err)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, collection string, points []driven.Point) error {
	if len(points) == 0 {
		return nil
	}
	out := make([]*qc.PointStruct, len(points))
	for i, p := range points {
		out[i] = &qc.PointStruct{
			Id:      qc.NewIDUUID(p.ID),
			Vectors: qc.NewVectors(p.Vector...),
			Payload: qc.NewValueMap(p.Payload),
		}
	}
	_, err := s.client.Upsert(ctx, &qc.UpsertPoints{
		CollectionName: collection,
		Points:         out,
	})
	if err != nil {
		return s.wrapMissing(collection, fmt.Errorf("qdrant: upsert into %q: %w", collection, err))
	}
	return nil
}

func (s *Store) Search(ctx context.Context, collection string, queryVector []float32, k int, filter driven.Filter) ([]driven.SearchHit, error) {
	limit := uint64(k)
	query := &qc.QueryPoints{
		CollectionName: collection,
		Query:          qc.NewQuery(queryVector...),
		Limit:          &limit,
		WithPayload:    qc.NewWithPayload(true),
	}
	if f := toQdrantFilter(filter); f != nil {
		query.Filter = f
	}
	results, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, s.wrapMissing(collection, fmt.Errorf("qdrant: search %q: %w", collection, err))
	}
	hits := make([]driven.SearchHit, len(results))
	for i, r := range results {
		hits[i] = driven.SearchHit{
			ID:      pointIDString(r.Id),
			Score:   float64(r.Score),
			Payload: fromValueMap(r.Payload),
		}
	}
	return hits, nil
}

func (s *Store) Scroll(ctx context.Context, collection string, filter driven.Filter, limit int, offset int) ([]driven.ScrollResult, error) {
	req := &qc.ScrollPoints{
		CollectionName: collection,
		WithPayload:    qc.NewWithPayload(true),
	}
	if f := toQdrantFilter(filter); f != nil {
		req.Filter = f
	}
	if limit > 0 {
		l := uint32(limit)
		req.Limit = &l
	}
	points, err := s.client.Scroll(ctx, req)
	if err != nil {
		return nil, s.wrapMissing(collection, fmt.Errorf("qdrant: scroll %q: %w", collection, err))
	}
	if offset > 0 && offset < len(points) {
		points = points[offset:]
	}
	results := make([]driven.ScrollResult, len(points))
	for i, p := range points {
		results[i] = driven.ScrollResult{
			ID:      pointIDString(p.Id),
			Payload: fromValueMap(p.Payload),
		}
	}
	return results, nil
}

func (s *Store) Delete(ctx context.Context, collection string, filter driven.Filter) error {
	f := toQdrantFilter(filter)
	if f == nil {
		f = &qc.Filter{}
	}
	_, err := s.client.Delete(ctx, &qc.DeletePoints{
		CollectionName: collection,
		Points:         qc.NewPointsSelectorFilter(f),
	})
	if err != nil {
		return s.wrapMissing(collection, fmt.Errorf("qdrant: delete from %q: %w", collection, err))
	}
	return nil
}

func (s *Store) Drop(ctx context.Context, collection string) error {
	if err := s.client.DeleteCollection(ctx, collection); err != nil {
		return fmt.Errorf("qdrant: drop collection %q: %w", collection, err)
	}
	return nil
}

func (s *Store) Count(ctx context.Context, collection string, filter driven.Filter) (int64, error) {
	req := &qc.CountPoints{CollectionName: collection}
	if f := toQdrantFilter(filter); f != nil {
		req.Filter = f
	}
	n, err := s.client.Count(ctx, req)
	if err != nil {
		return 0, s.wrapMissing(collection, fmt.Errorf("qdrant: count %q: %w", collection, err))
	}
	return int64(n), nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	_, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("qdrant: health check: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// wrapMissing turns a "not found" style gRPC error from an operation
// against a never-created collection into the documented sentinel so
// callers can distinguish it with errors.Is, per the port's contract.
func (s *Store) wrapMissing(collection string, err error) error {
	if err == nil {
		return nil
	}
	exists, existsErr := s.client.CollectionExists(context.Background(), collection)
	if existsErr == nil && !exists {
		return driven.ErrNoSuchCollection
	}
	return err
}

func toQdrantFilter(filter driven.Filter) *qc.Filter {
	if len(filter) == 0 {
		return nil
	}
	conditions := make([]*qc.Condition, 0, len(filter))
	for key, value := range filter {
		conditions = append(conditions, qc.NewMatch(key, fmt.Sprint(value)))
	}
	return &qc.Filter{Must: conditions}
}

func fromValueMap(payload map[string]*qc.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qc.Value) any {
	switch kind := v.GetKind().(type) {
	case *qc.Value_StringValue:
		return kind.StringValue
	case *qc.Value_IntegerValue:
		return kind.IntegerValue
	case *qc.Value_DoubleValue:
		return kind.DoubleValue
	case *qc.Value_BoolValue:
		return kind.BoolValue
	default:
		return nil
	}
}

func pointIDString(id *qc.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return fmt.Sprint(id.GetNum())
}
