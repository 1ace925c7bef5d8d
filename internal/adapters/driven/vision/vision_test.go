package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

func encodeResponse(w http.ResponseWriter, content string) {
	resp := visionResponse{Choices: []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}{{Message: struct {
		Content string `json:"content"`
	}{Content: content}}}}
	json.NewEncoder(w).Encode(resp)
}

func TestServiceClassify_Picture(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req visionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages[0].Content) != 2 {
			t.Errorf("expected text and image parts, got %d", len(req.Messages[0].Content))
		}
		if !strings.HasPrefix(req.Messages[0].Content[1].ImageURL.URL, "data:image/png;base64,") {
			t.Errorf("unexpected data URL: %s", req.Messages[0].Content[1].ImageURL.URL)
		}
		encodeResponse(w, "PICTURE")
	}))
	defer server.Close()

	s := New(server.URL, "sk-test", "gpt-4o-mini")
	mode, err := s.Classify(context.Background(), []byte{0x89, 'P', 'N', 'G'}, "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != domain.VisionModeDescribe {
		t.Errorf("expected describe mode, got %s", mode)
	}
}

func TestServiceClassify_Text(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encodeResponse(w, "TEXT")
	}))
	defer server.Close()

	s := New(server.URL, "sk-test", "gpt-4o-mini")
	mode, err := s.Classify(context.Background(), []byte{1, 2, 3}, "image/png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mode != domain.VisionModeExtractText {
		t.Errorf("expected extract-text mode, got %s", mode)
	}
}

func TestServiceExtractText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encodeResponse(w, "hello world")
	}))
	defer server.Close()

	s := New(server.URL, "sk-test", "gpt-4o-mini")
	out, err := s.ExtractText(context.Background(), []byte{1, 2, 3}, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "hello world" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestServiceDescribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		encodeResponse(w, "a photograph of a cat")
	}))
	defer server.Close()

	s := New(server.URL, "sk-test", "gpt-4o-mini")
	out, err := s.Describe(context.Background(), []byte{1, 2, 3}, "image/jpeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "a photograph of a cat" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestServiceHealthCheck_NoImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req visionRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages[0].Content) != 1 {
			t.Errorf("expected no image part for health check, got %d parts", len(req.Messages[0].Content))
		}
		encodeResponse(w, "pong")
	}))
	defer server.Close()

	s := New(server.URL, "sk-test", "gpt-4o-mini")
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestServicePost_4xxIsNotRetried(t *testing.T) {
	var attempts int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	s := New(server.URL, "bad-key", "gpt-4o-mini")
	_, err := s.ExtractText(context.Background(), []byte{1}, "image/png")
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
	if attempts != 1 {
		t.Errorf("expected exactly 1 attempt, got %d", attempts)
	}
}

func TestServiceClose(t *testing.T) {
	s := New("http://example.invalid", "sk-test", "m")
	if err := s.Close(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
