package ai

import (
	"context"
	"fmt"

	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

var _ driven.RerankerService = (*Reranker)(nil)

// Reranker implements driven.RerankerService against a Cohere-shaped
// /rerank endpoint (§4.D): POST {query, documents, top_n} returns
// {results: [{index, relevance_score}]} already sorted descending.
type Reranker struct {
	http  *httpClient
	model string
}

func NewReranker(baseURL, apiKey, model string) *Reranker {
	return &Reranker{http: newHTTPClient(baseURL, apiKey, nil), model: model}
}

type rerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n"`
}

type rerankResponse struct {
	Results []struct {
		Index          int     `json:"index"`
		RelevanceScore float64 `json:"relevance_score"`
	} `json:"results"`
}

func (r *Reranker) Rerank(ctx context.Context, query string, candidates []string, topN int) ([]driven.ScoredCandidate, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	req := rerankRequest{Model: r.model, Query: query, Documents: candidates, TopN: topN}
	var resp rerankResponse
	if err := r.http.postJSON(ctx, "/rerank", req, &resp); err != nil {
		return nil, fmt.Errorf("rerank: %w", err)
	}
	out := make([]driven.ScoredCandidate, len(resp.Results))
	for i, r := range resp.Results {
		out[i] = driven.ScoredCandidate{Index: r.Index, Score: r.RelevanceScore}
	}
	return out, nil
}

func (r *Reranker) HealthCheck(ctx context.Context) error {
	_, err := r.Rerank(ctx, "health check", []string{"ping"}, 1)
	return err
}

func (r *Reranker) Close() error { return r.http.close() }
