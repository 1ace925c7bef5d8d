package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"github.com/noor-rag/noor-core/internal/chunking"
	"github.com/noor-rag/noor-core/internal/core/domain"
	"github.com/noor-rag/noor-core/internal/core/ports/driven"
	"github.com/noor-rag/noor-core/internal/core/ports/driving"
	"github.com/noor-rag/noor-core/internal/ingest"
	"github.com/noor-rag/noor-core/internal/normalize"
	"github.com/noor-rag/noor-core/internal/router"
)

// Ensure ragService implements driving.RAGService.
var _ driving.RAGService = (*ragService)(nil)

const systemPrompt = "You are a helpful Arabic-first assistant. Answer the user's question using only the provided context. If the context does not contain the answer, say so plainly."

// ragService composes components A-I into the end-to-end query and
// ingestion flows (§4.J).
type ragService struct {
	embedding driven.EmbeddingService
	generator driven.GeneratorService
	store     driven.VectorStore
	dedup     driven.DedupCache

	memory    *Memory
	retrieval *RetrievalEngine
	frontend  *ingest.Frontend

	cfg domain.Config
}

func NewRAGService(
	embedding driven.EmbeddingService,
	reranker driven.RerankerService,
	generator driven.GeneratorService,
	store driven.VectorStore,
	dedup driven.DedupCache,
	frontend *ingest.Frontend,
	cfg domain.Config,
) driving.RAGService {
	memory := NewMemory(store, cfg.MemoryCollection, cfg.EmbeddingDim)
	retrieval := NewRetrievalEngine(embedding, reranker, store, cfg.DocumentsCollection, cfg.RetrievalTopK, cfg.RerankerTopN)
	return &ragService{
		embedding: embedding,
		generator: generator,
		store:     store,
		dedup:     dedup,
		memory:    memory,
		retrieval: retrieval,
		frontend:  frontend,
		cfg:       cfg,
	}
}

// Query implements the §4.J query flow.
func (s *ragService) Query(ctx context.Context, text, sessionID string, useRAG bool) (*domain.QueryResult, error) {
	start := time.Now()
	if sessionID == "" {
		return nil, domain.NewError(domain.KindValidation, "session_id is required", nil)
	}

	normalized := normalize.Normalize(text)
	if normalized == "" {
		return &domain.QueryResult{
			Answer:           "الرجاء كتابة سؤال.",
			Sources:          []domain.Source{},
			QueryType:        domain.QueryTypeSimple,
			SessionID:        sessionID,
			ProcessingTimeMS: elapsedMS(start),
		}, nil
	}

	history, err := s.memory.History(ctx, sessionID, s.cfg.MaxHistory)
	if err != nil {
		history = nil // memory read failures never block a query
	}

	route := router.Classify(normalized, router.Options{SimpleTokenThreshold: s.cfg.RouterSimpleTokenThreshold})
	if !useRAG && route == domain.QueryTypeRAG {
		route = domain.QueryTypeSimple
	}

	var answer string
	var sources []domain.Source
	var orderOnly bool

	switch route {
	case domain.QueryTypeGreeting:
		answer = "مرحبا! كيف يمكنني مساعدتك اليوم؟"
	case domain.QueryTypeCalculator:
		answer, err = s.handleCalculator(normalized)
		if err != nil {
			answer = "لم أتمكن من حساب هذا التعبير."
		}
	case domain.QueryTypeSimple:
		answer, err = s.generate(ctx, append(historyMessages(history), domain.ChatMessage{Role: domain.RoleUser, Content: normalized}))
		if err != nil {
			return nil, err
		}
	default: // rag
		result, rErr := s.retrieval.Retrieve(ctx, normalized)
		if rErr != nil {
			return nil, rErr
		}
		orderOnly = result.OrderOnly
		sources = sourcesFromCandidates(result.Candidates)
		messages := s.buildRAGPrompt(result, history, normalized)
		answer, err = s.generate(ctx, messages)
		if err != nil {
			return nil, err
		}
	}
	if sources == nil {
		sources = []domain.Source{}
	}

	if _, appendErr := s.memory.Append(ctx, sessionID, domain.RoleUser, text); appendErr != nil {
		// best-effort per §4.J step 5 and §7 user-visible behavior
	}
	if _, appendErr := s.memory.Append(ctx, sessionID, domain.RoleAssistant, answer); appendErr != nil {
		// best-effort
	}

	return &domain.QueryResult{
		Answer:           answer,
		Sources:          sources,
		QueryType:        route,
		SessionID:        sessionID,
		ProcessingTimeMS: elapsedMS(start),
		OrderOnly:        orderOnly,
	}, nil
}

func (s *ragService) handleCalculator(normalized string) (string, error) {
	value, err := EvaluateArithmetic(normalized)
	if err != nil {
		return "", err
	}
	return FormatResult(value), nil
}

func (s *ragService) generate(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	full := append([]domain.ChatMessage{{Role: domain.RoleSystem, Content: systemPrompt}}, messages...)
	answer, err := s.generator.Generate(ctx, full)
	if err != nil {
		return "", domain.NewError(domain.KindModelTransient, "generate answer", err)
	}
	return answer, nil
}

func (s *ragService) buildRAGPrompt(result *domain.RetrievalResult, history []domain.HistoryEntry, query string) []domain.ChatMessage {
	messages := historyMessages(history)
	if len(result.Candidates) > 0 {
		context := formatContext(result.Candidates)
		messages = append(messages, domain.ChatMessage{
			Role:    domain.RoleSystem,
			Content: "Context:\n" + context,
		})
	}
	messages = append(messages, domain.ChatMessage{Role: domain.RoleUser, Content: query})
	return messages
}

func formatContext(candidates []domain.ScoredChunk) string {
	var b []byte
	for i, c := range candidates {
		b = append(b, []byte("--- source "+itoa(i+1)+" ---\n")...)
		b = append(b, []byte(c.Chunk.Content)...)
		b = append(b, '\n')
	}
	return string(b)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func historyMessages(history []domain.HistoryEntry) []domain.ChatMessage {
	messages := make([]domain.ChatMessage, 0, len(history))
	for _, h := range history {
		messages = append(messages, domain.ChatMessage{Role: h.Role, Content: h.Content})
	}
	return messages
}

func sourcesFromCandidates(candidates []domain.ScoredChunk) []domain.Source {
	sources := make([]domain.Source, 0, len(candidates))
	for _, c := range candidates {
		sources = append(sources, domain.Source{
			Content: c.Chunk.Content,
			Score:   c.Score,
			Metadata: map[string]any{
				"source_name":  c.Chunk.Document.SourceName,
				"content_type": string(c.Chunk.ContentType),
			},
		})
	}
	return sources
}

func elapsedMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

// IngestTexts implements the §4.J ingestion flow for caller-supplied
// raw text documents.
func (s *ragService) IngestTexts(ctx context.Context, req driving.IngestTextsRequest) (*domain.IngestResult, error) {
	start := time.Now()
	if len(req.Texts) == 0 {
		return nil, domain.NewError(domain.KindValidation, "texts must not be empty", nil)
	}
	if batchSizeBytes(req.Texts) > s.cfg.MaxBatchSizeBytes {
		return nil, domain.NewError(domain.KindValidation, "batch exceeds maximum aggregate size", domain.ErrBatchTooLarge)
	}

	var allChunks []*domain.Chunk
	documentsIngested := 0

	for i, text := range req.Texts {
		meta := map[string]string{}
		if i < len(req.Metadatas) {
			meta = req.Metadatas[i]
		}
		doc := domain.Document{
			SourceName:         sourceNameFor(meta, i),
			SourceFormat:       domain.SourceFormatText,
			IngestionTimestamp: time.Now().UTC(),
			FileHash:           hashOf(text),
			CustomMetadata:     meta,
		}

		if s.cfg.DedupOnHash && doc.FileHash != "" {
			seen, err := s.dedup.Seen(ctx, s.dedupScope(), doc.FileHash)
			if err == nil && seen {
				documentsIngested++
				continue
			}
		}

		normalized := normalize.Normalize(text)
		chunks := chunking.Sentence(doc, normalized, chunking.Options{
			MaxChunkSize: s.cfg.ChunkSize,
			Overlap:      s.cfg.ChunkOverlap,
		})
		allChunks = append(allChunks, chunks...)
		documentsIngested++

		if s.cfg.DedupOnHash && doc.FileHash != "" {
			_ = s.dedup.Mark(ctx, s.dedupScope(), doc.FileHash)
		}
	}

	if len(allChunks) == 0 {
		return &domain.IngestResult{Documents: documentsIngested, Chunks: 0, TimeMS: elapsedMS(start)}, nil
	}

	if err := s.upsertChunks(ctx, allChunks); err != nil {
		return nil, err
	}

	return &domain.IngestResult{
		Documents: documentsIngested,
		Chunks:    len(allChunks),
		TimeMS:    elapsedMS(start),
	}, nil
}

func (s *ragService) dedupScope() string {
	if s.cfg.DedupGlobal {
		return "global"
	}
	return s.cfg.DocumentsCollection
}

func sourceNameFor(meta map[string]string, index int) string {
	if name, ok := meta["source_name"]; ok && name != "" {
		return name
	}
	return "text-" + itoa(index)
}

func hashOf(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// batchSizeBytes sums the raw byte size of an ingest-texts batch,
// enforced against MaxBatchSizeBytes before any chunking/embedding
// work begins (§6 config table, spec.md:205's "50 MB aggregate per
// batch").
func batchSizeBytes(texts []string) int64 {
	var total int64
	for _, t := range texts {
		total += int64(len(t))
	}
	return total
}

// upsertChunks embeds and upserts chunks as one atomic batch; any
// embedding failure fails the whole batch (§4.J step 2, §7 store kind).
func (s *ragService) upsertChunks(ctx context.Context, chunks []*domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := s.embedding.Embed(ctx, texts)
	if err != nil {
		return domain.NewError(domain.KindModelTransient, "embed chunks", err)
	}
	if len(vectors) != len(chunks) {
		return domain.NewError(domain.KindFatal, "embedding count mismatch", nil)
	}

	if err := s.store.EnsureCollection(ctx, s.cfg.DocumentsCollection, s.cfg.EmbeddingDim, driven.DistanceCosine); err != nil {
		return domain.NewError(domain.KindStore, "ensure documents collection", err)
	}

	points := make([]driven.Point, len(chunks))
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		id := uuid.NewString()
		c.ID = id
		ids[i] = id
		points[i] = driven.Point{ID: id, Vector: vectors[i], Payload: c.Payload()}
	}

	if err := s.store.Upsert(ctx, s.cfg.DocumentsCollection, points); err != nil {
		return domain.NewError(domain.KindStore, "upsert chunks", err)
	}
	return nil
}

// IngestFile implements the §4.K + §4.J file ingestion flow: detect
// format, extract, then delegate to the same chunk/embed/upsert path
// as IngestTexts.
func (s *ragService) IngestFile(ctx context.Context, req driving.IngestFileRequest) (*domain.IngestResult, error) {
	start := time.Now()
	if int64(len(req.Bytes)) > s.cfg.MaxFileSizeBytes {
		return nil, domain.NewError(domain.KindValidation, "file exceeds maximum size", domain.ErrFileTooLarge)
	}

	docs, format, err := s.frontend.Extract(ctx, req.Filename, req.DeclaredMIME, req.Bytes, req.ImageMode)
	if err != nil {
		return nil, err
	}

	var allChunks []*domain.Chunk
	fileHash := hashOf(string(req.Bytes))

	for _, extracted := range docs {
		doc := domain.Document{
			SourceName:         extracted.SourceName,
			SourceFormat:       format,
			IngestionTimestamp: time.Now().UTC(),
			FileHash:           fileHash,
			CustomMetadata:     mergeMetadata(req.CustomMetadata, extracted.CustomMetadata),
		}
		chunks := chunking.Structured(doc, extracted.Blocks, chunking.Options{
			MaxChunkSize: s.cfg.ChunkSize,
			Overlap:      s.cfg.ChunkOverlap,
		})
		for _, c := range chunks {
			c.Content = normalize.Normalize(c.Content)
		}
		allChunks = append(allChunks, chunks...)
	}

	if len(allChunks) == 0 {
		return &domain.IngestResult{Documents: len(docs), Chunks: 0, TimeMS: elapsedMS(start), Format: format}, nil
	}

	if err := s.upsertChunks(ctx, allChunks); err != nil {
		return nil, err
	}

	return &domain.IngestResult{
		Documents: len(docs),
		Chunks:    len(allChunks),
		TimeMS:    elapsedMS(start),
		Format:    format,
	}, nil
}

func mergeMetadata(base, extra map[string]string) map[string]string {
	merged := map[string]string{}
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}

// History implements the history procedure.
func (s *ragService) History(ctx context.Context, sessionID string, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = s.cfg.MaxHistory
	}
	return s.memory.History(ctx, sessionID, limit)
}

// ClearHistory implements the clear_history procedure.
func (s *ragService) ClearHistory(ctx context.Context, sessionID string) (int, error) {
	return s.memory.Clear(ctx, sessionID)
}

// CollectionInfo implements the collection_info procedure.
func (s *ragService) CollectionInfo(ctx context.Context, collectionName string) (*domain.CollectionInfo, error) {
	count, err := s.store.Count(ctx, collectionName, nil)
	if err != nil {
		return nil, domain.NewError(domain.KindNotFound, "collection not found", err)
	}
	return &domain.CollectionInfo{
		Count:     count,
		Dimension: s.cfg.EmbeddingDim,
		Distance:  string(driven.DistanceCosine),
	}, nil
}
