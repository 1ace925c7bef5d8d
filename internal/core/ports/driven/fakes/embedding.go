package fakes

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedding is a deterministic fake of driven.EmbeddingService. Vectors
// are a hash of the input text, not semantically meaningful, but stable
// across calls - good enough to exercise dimension and ordering
// invariants without a real model.
type Embedding struct {
	Dim      int
	FailNext bool
}

// NewEmbedding creates a fake embedding service of the given dimension.
func NewEmbedding(dim int) *Embedding {
	return &Embedding{Dim: dim}
}

func (e *Embedding) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if e.FailNext {
		e.FailNext = false
		return nil, errTransient
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = vectorOf(t, e.Dim)
	}
	return out, nil
}

func (e *Embedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *Embedding) Dimensions() int                   { return e.Dim }
func (e *Embedding) Model() string                     { return "fake-embedding" }
func (e *Embedding) HealthCheck(context.Context) error { return nil }
func (e *Embedding) Close() error                      { return nil }

func vectorOf(text string, dim int) []float32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum32()
	v := make([]float32, dim)
	var sumSq float64
	for i := range v {
		seed = seed*1103515245 + 12345
		val := float32(seed%1000)/1000.0 - 0.5
		v[i] = val
		sumSq += float64(val) * float64(val)
	}
	// L2-normalize, matching the real embedding contract (§4.C).
	if sumSq > 0 {
		norm := 1.0 / math.Sqrt(sumSq)
		for i := range v {
			v[i] = float32(float64(v[i]) * norm)
		}
	}
	return v
}
