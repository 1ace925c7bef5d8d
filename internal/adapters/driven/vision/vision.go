// Package vision implements driven.VisionService (§4.K) over an
// OpenAI-compatible vision-capable chat-completions endpoint, reusing
// the same multipart-content message shape the Generator Adapter uses.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/noor-rag/noor-core/internal/core/domain"
	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

var _ driven.VisionService = (*Service)(nil)

// Service calls a vision-capable chat-completions backend with an
// image content part alongside a text prompt.
type Service struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func New(baseURL, apiKey, model string) *Service {
	return &Service{baseURL: baseURL, apiKey: apiKey, model: model, client: &http.Client{Timeout: 90 * time.Second}}
}

const classifyPrompt = "Reply with exactly one word: TEXT if this image is predominantly printed or handwritten text (a scanned page, a screenshot of a document), or PICTURE if it is predominantly a photograph, diagram, or illustration."
const extractPrompt = "Transcribe every word of readable text in this image, preserving reading order. Reply with the transcription only."
const describePrompt = "Describe the visual content of this image in a few sentences, suitable as document context for a retrieval system."

func (s *Service) Classify(ctx context.Context, imageBytes []byte, mimeType string) (domain.VisionMode, error) {
	reply, err := s.complete(ctx, classifyPrompt, imageBytes, mimeType)
	if err != nil {
		return "", fmt.Errorf("vision classify: %w", err)
	}
	if strings.Contains(strings.ToUpper(reply), "PICTURE") {
		return domain.VisionModeDescribe, nil
	}
	return domain.VisionModeExtractText, nil
}

func (s *Service) ExtractText(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	reply, err := s.complete(ctx, extractPrompt, imageBytes, mimeType)
	if err != nil {
		return "", fmt.Errorf("vision extract text: %w", err)
	}
	return reply, nil
}

func (s *Service) Describe(ctx context.Context, imageBytes []byte, mimeType string) (string, error) {
	reply, err := s.complete(ctx, describePrompt, imageBytes, mimeType)
	if err != nil {
		return "", fmt.Errorf("vision describe: %w", err)
	}
	return reply, nil
}

func (s *Service) HealthCheck(ctx context.Context) error {
	_, err := s.complete(ctx, "ping", nil, "")
	return err
}

func (s *Service) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

type visionContentPart struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *visionImageURL `json:"image_url,omitempty"`
}

type visionImageURL struct {
	URL string `json:"url"`
}

type visionMessage struct {
	Role    string              `json:"role"`
	Content []visionContentPart `json:"content"`
}

type visionRequest struct {
	Model    string          `json:"model"`
	Messages []visionMessage `json:"messages"`
}

type visionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *Service) complete(ctx context.Context, prompt string, imageBytes []byte, mimeType string) (string, error) {
	parts := []visionContentPart{{Type: "text", Text: prompt}}
	if len(imageBytes) > 0 {
		dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(imageBytes))
		parts = append(parts, visionContentPart{Type: "image_url", ImageURL: &visionImageURL{URL: dataURL}})
	}
	req := visionRequest{
		Model:    s.model,
		Messages: []visionMessage{{Role: "user", Content: parts}},
	}

	var resp visionResponse
	// Two retries after the first try: at most 3 attempts in all.
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	err := backoff.Retry(func() error {
		return s.post(ctx, req, &resp)
	}, policy)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

func (s *Service) post(ctx context.Context, req visionRequest, resp *visionResponse) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if httpResp.StatusCode >= 500 {
		return fmt.Errorf("backend returned status %d: %s", httpResp.StatusCode, string(data))
	}
	if httpResp.StatusCode >= 400 {
		return backoff.Permanent(fmt.Errorf("backend returned status %d: %s", httpResp.StatusCode, string(data)))
	}
	return json.Unmarshal(data, resp)
}
