package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*Embedding)(nil)

// Embedding implements driven.EmbeddingService against any
// OpenAI-compatible /embeddings endpoint (§4.C). Query and document
// embedding share one model, per the port contract.
type Embedding struct {
	http       *httpClient
	model      string
	dimensions int
}

// NewEmbedding builds an Embedding client. baseURL must include the
// version path (e.g. "https://api.openai.com/v1").
// Each embedding call is bounded at 10s.
func NewEmbedding(baseURL, apiKey, model string, dimensions int) *Embedding {
	client := newHTTPClient(baseURL, apiKey, nil)
	client.client.Timeout = 10 * time.Second
	return &Embedding{
		http:       client,
		model:      model,
		dimensions: dimensions,
	}
}

type embeddingRequest struct {
	Input any    `json:"input"`
	Model string `json:"model"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (e *Embedding) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var resp embeddingResponse
	err := e.http.postJSON(ctx, "/embeddings", embeddingRequest{Input: texts, Model: e.model}, &resp)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < len(out) {
			out[d.Index] = d.Embedding
		}
	}
	return out, nil
}

func (e *Embedding) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{query})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embed query: no embedding returned")
	}
	return vecs[0], nil
}

func (e *Embedding) Dimensions() int { return e.dimensions }
func (e *Embedding) Model() string   { return e.model }

func (e *Embedding) HealthCheck(ctx context.Context) error {
	_, err := e.EmbedQuery(ctx, "health check")
	return err
}

func (e *Embedding) Close() error { return e.http.close() }
