package fakes

import (
	"context"
	"sort"
	"strings"

	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

// Reranker is a fake of driven.RerankerService. It scores a candidate
// by counting query-token overlaps, which is enough to exercise
// reordering without a real cross-encoder.
type Reranker struct {
	FailNext bool
}

func NewReranker() *Reranker { return &Reranker{} }

func (r *Reranker) Rerank(_ context.Context, query string, candidates []string, topN int) ([]driven.ScoredCandidate, error) {
	if r.FailNext {
		r.FailNext = false
		return nil, errTransient
	}
	qTokens := strings.Fields(strings.ToLower(query))
	scored := make([]driven.ScoredCandidate, len(candidates))
	for i, c := range candidates {
		scored[i] = driven.ScoredCandidate{Index: i, Score: overlapScore(qTokens, c)}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Index < scored[j].Index
	})
	if topN > 0 && topN < len(scored) {
		scored = scored[:topN]
	}
	return scored, nil
}

func (r *Reranker) HealthCheck(context.Context) error { return nil }
func (r *Reranker) Close() error                      { return nil }

func overlapScore(qTokens []string, candidate string) float64 {
	cLower := strings.ToLower(candidate)
	var score float64
	for _, t := range qTokens {
		if t == "" {
			continue
		}
		if strings.Contains(cLower, t) {
			score++
		}
	}
	return score
}
