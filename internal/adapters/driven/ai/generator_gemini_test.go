package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

func TestGeminiGeneratorGenerate_AuthAndRoleMapping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, ":generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "gk-test" {
			t.Errorf("expected key query param, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("gemini must not use bearer auth")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != "be helpful" {
			t.Errorf("expected system instruction to be extracted, got %+v", req.SystemInstruction)
		}
		if len(req.Contents) != 2 || req.Contents[0].Role != "user" || req.Contents[1].Role != "model" {
			t.Errorf("unexpected role mapping: %+v", req.Contents)
		}
		resp := geminiResponse{Candidates: []struct {
			Content geminiContent `json:"content"`
		}{{Content: geminiContent{Parts: []geminiPart{{Text: "ok"}}}}}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	g := NewGeminiGenerator("gk-test", "gemini-1.5-flash")
	g.http.baseURL = server.URL

	out, err := g.Generate(context.Background(), []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be helpful"},
		{Role: domain.RoleUser, Content: "hi"},
		{Role: domain.RoleAssistant, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "ok" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestGeminiGeneratorGenerate_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(geminiResponse{})
	}))
	defer server.Close()

	g := NewGeminiGenerator("gk-test", "m")
	g.http.baseURL = server.URL

	_, err := g.Generate(context.Background(), []domain.ChatMessage{{Role: domain.RoleUser, Content: "hi"}})
	if err == nil {
		t.Error("expected error when no candidates are returned")
	}
}

func TestGeminiGeneratorModel(t *testing.T) {
	g := NewGeminiGenerator("gk-test", "gemini-1.5-pro")
	if g.Model() != "gemini-1.5-pro" {
		t.Errorf("unexpected model %q", g.Model())
	}
}
