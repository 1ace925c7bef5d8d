package domain

// ScoredChunk pairs a chunk with a relevance score from either the
// dense-recall stage (cosine similarity) or the rerank stage
// (cross-encoder score). Scores from the two stages are never compared
// directly against each other.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// RetrievalResult is the output of the two-stage retrieval engine (§4.H).
type RetrievalResult struct {
	Candidates []ScoredChunk
	OrderOnly  bool // true when the reranker failed and dense order was kept
}
