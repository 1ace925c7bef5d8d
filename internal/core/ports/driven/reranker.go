package driven

import "context"

// ScoredCandidate is one reranked candidate: its original index into
// the input slice, and the cross-encoder relevance score (higher is
// more relevant). Scores are comparable within a single call only.
type ScoredCandidate struct {
	Index int
	Score float64
}

// RerankerService implements the cross-encoder rerank stage (§4.D).
// Candidates are passed verbatim - no renormalization.
type RerankerService interface {
	// Rerank scores candidates against query and returns the top-n in
	// descending score order, ties broken by ascending original index.
	Rerank(ctx context.Context, query string, candidates []string, topN int) ([]ScoredCandidate, error)

	// HealthCheck verifies the reranker service is available.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the reranker service.
	Close() error
}
