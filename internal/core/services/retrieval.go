package services

import (
	"context"
	"errors"

	"github.com/noor-rag/noor-core/internal/core/domain"
	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

// RetrievalEngine implements the two-stage dense-recall-then-rerank
// retrieval flow (§4.H). It is not itself exposed through a driving
// port - the RAG pipeline is its only caller.
type RetrievalEngine struct {
	embedding driven.EmbeddingService
	reranker  driven.RerankerService
	store     driven.VectorStore

	documentsCollection string
	topK                int
	topN                int
}

func NewRetrievalEngine(
	embedding driven.EmbeddingService,
	reranker driven.RerankerService,
	store driven.VectorStore,
	documentsCollection string,
	topK, topN int,
) *RetrievalEngine {
	if topK <= 0 {
		topK = 15
	}
	if topN <= 0 {
		topN = 5
	}
	return &RetrievalEngine{
		embedding:           embedding,
		reranker:            reranker,
		store:               store,
		documentsCollection: documentsCollection,
		topK:                topK,
		topN:                topN,
	}
}

// Retrieve runs stage 1 (dense recall) then stage 2 (cross-encoder
// rerank) over normalizedQuery. A blank query short-circuits both
// stages (§4.H edge case). A reranker failure falls back to dense
// order with RetrievalResult.OrderOnly set (§4.D, §4.H).
func (r *RetrievalEngine) Retrieve(ctx context.Context, normalizedQuery string) (*domain.RetrievalResult, error) {
	if isBlank(normalizedQuery) {
		return &domain.RetrievalResult{}, nil
	}

	queryVector, err := r.embedding.EmbedQuery(ctx, normalizedQuery)
	if err != nil {
		return nil, domain.NewError(domain.KindModelTransient, "embed query", err)
	}

	hits, err := r.store.Search(ctx, r.documentsCollection, queryVector, r.topK, nil)
	if errors.Is(err, driven.ErrNoSuchCollection) {
		return &domain.RetrievalResult{}, nil // nothing ingested yet: zero candidates
	}
	if err != nil {
		return nil, domain.NewError(domain.KindStore, "dense search", err)
	}
	if len(hits) == 0 {
		return &domain.RetrievalResult{}, nil
	}

	candidates := make([]domain.ScoredChunk, len(hits))
	texts := make([]string, len(hits))
	for i, h := range hits {
		candidates[i] = scoredChunkFromHit(h)
		texts[i] = candidates[i].Chunk.Content
	}

	scored, err := r.reranker.Rerank(ctx, normalizedQuery, texts, r.topN)
	if err != nil {
		return &domain.RetrievalResult{
			Candidates: truncate(candidates, r.topN),
			OrderOnly:  true,
		}, nil
	}

	reranked := make([]domain.ScoredChunk, 0, len(scored))
	for _, sc := range scored {
		if sc.Index < 0 || sc.Index >= len(candidates) {
			continue
		}
		reranked = append(reranked, domain.ScoredChunk{
			Chunk: candidates[sc.Index].Chunk,
			Score: sc.Score,
		})
	}
	return &domain.RetrievalResult{Candidates: reranked}, nil
}

func truncate(chunks []domain.ScoredChunk, n int) []domain.ScoredChunk {
	if n > 0 && n < len(chunks) {
		return chunks[:n]
	}
	return chunks
}

func scoredChunkFromHit(h driven.SearchHit) domain.ScoredChunk {
	return domain.ScoredChunk{
		Chunk: chunkFromPayload(h.Payload),
		Score: h.Score,
	}
}

func chunkFromPayload(p map[string]any) domain.Chunk {
	c := domain.Chunk{}
	if v, ok := p["content"].(string); ok {
		c.Content = v
	}
	if v, ok := p["source_name"].(string); ok {
		c.Document.SourceName = v
	}
	if v, ok := p["source_format"].(string); ok {
		c.Document.SourceFormat = domain.SourceFormat(v)
	}
	if v, ok := p["content_type"].(string); ok {
		c.ContentType = domain.ContentType(v)
	}
	c.ChunkIndex = intFromPayload(p["chunk_index"])
	c.TotalChunks = intFromPayload(p["total_chunks"])
	return c
}

// intFromPayload normalizes a payload integer field that may arrive as
// a plain int (the in-memory fakes, which store driven.Point
// unserialized) or as int64 (Qdrant's protobuf IntegerValue, per
// valueToAny in the qdrant adapter).
func intFromPayload(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	default:
		return 0
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
