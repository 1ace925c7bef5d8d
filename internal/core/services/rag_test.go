package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/noor-rag/noor-core/internal/core/domain"
	"github.com/noor-rag/noor-core/internal/core/ports/driven"
	"github.com/noor-rag/noor-core/internal/core/ports/driven/fakes"
	"github.com/noor-rag/noor-core/internal/core/ports/driving"
	"github.com/noor-rag/noor-core/internal/ingest"
)

func newTestService(t *testing.T) (driving.RAGService, *fakes.Generator, *fakes.VectorStore) {
	t.Helper()
	embedding := fakes.NewEmbedding(16)
	reranker := fakes.NewReranker()
	generator := fakes.NewGenerator()
	store := fakes.NewVectorStore()
	dedup := fakes.NewDedupCache()
	vision := fakes.NewVision()
	frontend := ingest.NewFrontend(vision)

	cfg := domain.Config{
		DocumentsCollection:        "arabic_documents",
		MemoryCollection:           "conversation_memory",
		EmbeddingDim:               16,
		RetrievalTopK:              15,
		RerankerTopN:               5,
		ChunkSize:                  350,
		ChunkOverlap:               50,
		MaxHistory:                 10,
		MemoryTTLHours:             24,
		MaxFileSizeBytes:           26214400,
		MaxBatchSizeBytes:          52428800,
		RouterSimpleTokenThreshold: 8,
	}

	svc := NewRAGService(embedding, reranker, generator, store, dedup, frontend, cfg)
	return svc, generator, store
}

// Scenario 1: greeting query.
func TestQueryGreeting(t *testing.T) {
	svc, generator, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Query(ctx, "مرحبا", "s1", true)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if result.QueryType != domain.QueryTypeGreeting {
		t.Errorf("QueryType = %q, want greeting", result.QueryType)
	}
	if len(result.Sources) != 0 {
		t.Errorf("expected no sources for greeting, got %d", len(result.Sources))
	}
	if generator.CallCount() != 0 {
		t.Errorf("greeting should not call the generator, got %d calls", generator.CallCount())
	}

	history, err := svc.History(ctx, "s1", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages in memory, got %d", len(history))
	}
}

// Scenario 2/3: ingest then rag query with follow-up referencing history.
func TestQueryRAGWithHistory(t *testing.T) {
	svc, generator, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.IngestTexts(ctx, driving.IngestTextsRequest{
		Texts: []string{"القاهرة هي عاصمة مصر."},
	})
	if err != nil {
		t.Fatalf("IngestTexts: %v", err)
	}

	result, err := svc.Query(ctx, "ما هي عاصمة مصر؟", "s2", true)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if result.QueryType != domain.QueryTypeRAG {
		t.Fatalf("QueryType = %q, want rag", result.QueryType)
	}
	if len(result.Sources) == 0 {
		t.Fatalf("expected at least one source")
	}
	if !strings.Contains(result.Sources[0].Content, "القاهرة") {
		t.Errorf("expected source to mention القاهرة, got %q", result.Sources[0].Content)
	}

	if _, err := svc.Query(ctx, "وما عدد سكانها؟", "s2", true); err != nil {
		t.Fatalf("follow-up Query: %v", err)
	}
	lastCall := generator.Calls[len(generator.Calls)-1]
	foundPrior := false
	for _, m := range lastCall {
		if strings.Contains(m.Content, "عاصمة مصر") {
			foundPrior = true
		}
	}
	if !foundPrior {
		t.Errorf("follow-up generator call did not include prior turn: %+v", lastCall)
	}
}

// Scenario 4: calculator query.
func TestQueryCalculator(t *testing.T) {
	svc, generator, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Query(ctx, "1 + 1", "s3", true)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if result.QueryType != domain.QueryTypeCalculator {
		t.Errorf("QueryType = %q, want calculator", result.QueryType)
	}
	if result.Answer != "2" {
		t.Errorf("Answer = %q, want 2", result.Answer)
	}
	if generator.CallCount() != 0 {
		t.Errorf("calculator should not call the generator")
	}
}

// Scenario 5: multiple documents ingested, collection count accumulates.
func TestIngestTextsAccumulatesCount(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	texts := []string{"نص أول للاختبار.", "نص ثاني للاختبار.", "نص ثالث للاختبار."}
	result, err := svc.IngestTexts(ctx, driving.IngestTextsRequest{Texts: texts})
	if err != nil {
		t.Fatalf("IngestTexts: %v", err)
	}
	if result.Documents != 3 {
		t.Errorf("Documents = %d, want 3", result.Documents)
	}

	info, err := svc.CollectionInfo(ctx, "arabic_documents")
	if err != nil {
		t.Fatalf("CollectionInfo: %v", err)
	}
	if info.Count != int64(result.Chunks) {
		t.Errorf("collection count = %d, want %d", info.Count, result.Chunks)
	}
}

// Oversized ingest-texts batch is rejected before any chunking,
// embedding, or store work happens (§6 config table's aggregate
// per-batch size limit).
func TestIngestTextsRejectsOversizedBatch(t *testing.T) {
	embedding := fakes.NewEmbedding(16)
	reranker := fakes.NewReranker()
	generator := fakes.NewGenerator()
	store := fakes.NewVectorStore()
	dedup := fakes.NewDedupCache()
	frontend := ingest.NewFrontend(fakes.NewVision())

	cfg := domain.Config{
		DocumentsCollection: "arabic_documents",
		MemoryCollection:    "conversation_memory",
		EmbeddingDim:        16,
		RetrievalTopK:       15,
		RerankerTopN:        5,
		ChunkSize:           350,
		ChunkOverlap:        50,
		MaxFileSizeBytes:    26214400,
		MaxBatchSizeBytes:   10,
	}
	svc := NewRAGService(embedding, reranker, generator, store, dedup, frontend, cfg)
	ctx := context.Background()

	_, err := svc.IngestTexts(ctx, driving.IngestTextsRequest{Texts: []string{strings.Repeat("a", 11)}})
	if err == nil {
		t.Fatal("expected an error for a batch over MaxBatchSizeBytes")
	}
	if !errors.Is(err, domain.ErrBatchTooLarge) {
		t.Errorf("expected domain.ErrBatchTooLarge, got %v", err)
	}

	_, countErr := store.Count(ctx, "arabic_documents", nil)
	if !errors.Is(countErr, driven.ErrNoSuchCollection) {
		t.Errorf("expected the documents collection to never have been created, got err=%v", countErr)
	}
}

// Scenario 6: oversize file is rejected before extraction.
func TestIngestFileRejectsOversize(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	oversized := make([]byte, 26*1024*1024+1)
	_, err := svc.IngestFile(ctx, driving.IngestFileRequest{Bytes: oversized, Filename: "big.txt"})
	if err == nil {
		t.Fatal("expected an error for oversize file")
	}
	if domain.KindOf(err) != domain.KindValidation {
		t.Errorf("error kind = %q, want validation", domain.KindOf(err))
	}
}

func TestClearHistoryThenHistoryIsEmpty(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Query(ctx, "مرحبا", "s5", true); err != nil {
		t.Fatalf("Query: %v", err)
	}
	deleted, err := svc.ClearHistory(ctx, "s5")
	if err != nil {
		t.Fatalf("ClearHistory: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	history, err := svc.History(ctx, "s5", 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history after clear, got %d", len(history))
	}
}

func TestQueryEmptyAfterNormalizationIsSimple(t *testing.T) {
	svc, generator, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Query(ctx, "   ", "s6", true)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if result.QueryType != domain.QueryTypeSimple {
		t.Errorf("QueryType = %q, want simple", result.QueryType)
	}
	if generator.CallCount() != 0 {
		t.Errorf("blank query should not call the generator")
	}
}

func TestRAGQueryOnEmptyCollectionReturnsNoSources(t *testing.T) {
	svc, generator, _ := newTestService(t)
	ctx := context.Background()

	result, err := svc.Query(ctx, "ما هي عاصمة اليابان؟", "s7", true)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(result.Sources) != 0 {
		t.Errorf("expected no sources on empty collection, got %d", len(result.Sources))
	}
	if generator.CallCount() != 1 {
		t.Errorf("expected a generator call even with no sources, got %d", generator.CallCount())
	}
}
