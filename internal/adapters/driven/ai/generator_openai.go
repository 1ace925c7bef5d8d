package ai

import (
	"context"
	"fmt"

	"github.com/noor-rag/noor-core/internal/core/domain"
	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

var _ driven.GeneratorService = (*OpenAIGenerator)(nil)

// OpenAIGenerator implements driven.GeneratorService against any
// OpenAI-compatible /chat/completions endpoint (§4.I). It is the base
// for the OpenRouter and local-server variants, which differ only in
// base URL and extra headers.
type OpenAIGenerator struct {
	http  *httpClient
	model string
}

// NewOpenAIGenerator builds a generator against baseURL (must include
// the version path) using apiKey for bearer auth.
func NewOpenAIGenerator(baseURL, apiKey, model string) *OpenAIGenerator {
	return &OpenAIGenerator{http: newHTTPClient(baseURL, apiKey, nil), model: model}
}

// newOpenAICompatible lets OpenRouter/local variants inject extra
// headers (e.g. OpenRouter's HTTP-Referer/X-Title attribution).
func newOpenAICompatible(baseURL, apiKey, model string, extraHeaders map[string]string) *OpenAIGenerator {
	return &OpenAIGenerator{http: newHTTPClient(baseURL, apiKey, extraHeaders), model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func toChatMessages(messages []domain.ChatMessage) []chatMessage {
	out := make([]chatMessage, len(messages))
	for i, m := range messages {
		out[i] = chatMessage{Role: string(m.Role), Content: m.Content}
	}
	return out
}

func (g *OpenAIGenerator) Generate(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	messages = truncateContextWindow(messages)
	req := chatCompletionRequest{Model: g.model, Messages: toChatMessages(messages)}
	var resp chatCompletionResponse
	if err := g.http.postJSON(ctx, "/chat/completions", req, &resp); err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generate: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) Model() string { return g.model }

func (g *OpenAIGenerator) HealthCheck(ctx context.Context) error {
	_, err := g.Generate(ctx, []domain.ChatMessage{{Role: domain.RoleUser, Content: "ping"}})
	return err
}

func (g *OpenAIGenerator) Close() error { return g.http.close() }
