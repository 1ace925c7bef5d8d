package ai

import (
	"context"
	"fmt"

	"github.com/noor-rag/noor-core/internal/core/domain"
	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

var _ driven.GeneratorService = (*GeminiGenerator)(nil)

// GeminiGenerator implements driven.GeneratorService against Google's
// generateContent REST API, whose request/response shape differs from
// the OpenAI chat-completions convention (§4.I backend variant): the
// system message is a separate field, and roles use "model" rather
// than "assistant".
type GeminiGenerator struct {
	http   *httpClient
	apiKey string
	model  string
}

// Gemini authenticates via a "key" query parameter rather than a
// bearer header, so apiKey is held separately and appended per call.
func NewGeminiGenerator(apiKey, model string) *GeminiGenerator {
	return &GeminiGenerator{
		http:   newHTTPClient("https://generativelanguage.googleapis.com/v1beta", "", nil),
		apiKey: apiKey,
		model:  model,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func geminiRole(r domain.Role) string {
	if r == domain.RoleAssistant {
		return "model"
	}
	return "user"
}

func (g *GeminiGenerator) Generate(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	messages = truncateContextWindow(messages)
	req := geminiRequest{}
	for _, m := range messages {
		if m.Role == domain.RoleSystem {
			req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: m.Content}}}
			continue
		}
		req.Contents = append(req.Contents, geminiContent{
			Role:  geminiRole(m.Role),
			Parts: []geminiPart{{Text: m.Content}},
		})
	}

	var resp geminiResponse
	path := fmt.Sprintf("/models/%s:generateContent?key=%s", g.model, g.apiKey)
	if err := g.http.postJSON(ctx, path, req, &resp); err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini generate: no candidates returned")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (g *GeminiGenerator) Model() string { return g.model }

func (g *GeminiGenerator) HealthCheck(ctx context.Context) error {
	_, err := g.Generate(ctx, []domain.ChatMessage{{Role: domain.RoleUser, Content: "ping"}})
	return err
}

func (g *GeminiGenerator) Close() error { return g.http.close() }
