package driving

import (
	"context"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

// IngestTextsRequest is the input to the ingest_texts procedure (§6).
type IngestTextsRequest struct {
	Texts        []string
	Metadatas    []map[string]string
	DocumentType string // source format hint, "" means auto
}

// IngestFileRequest is the input to the ingest_file procedure (§6).
type IngestFileRequest struct {
	Bytes          []byte
	Filename       string
	DeclaredMIME   string
	CustomMetadata map[string]string
	ImageMode      domain.VisionMode // "" means auto for image uploads
}

// RAGService is the Core API Surface (§4.L, §6): every operation the
// presentation layer may call, named exactly as the procedure table.
type RAGService interface {
	// Query answers a user query within a session, optionally skipping
	// retrieval (use_rag=false forces the non-rag handlers only).
	Query(ctx context.Context, text, sessionID string, useRAG bool) (*domain.QueryResult, error)

	// IngestTexts ingests caller-supplied raw text documents.
	IngestTexts(ctx context.Context, req IngestTextsRequest) (*domain.IngestResult, error)

	// IngestFile detects the format of an uploaded artifact, extracts,
	// and ingests it.
	IngestFile(ctx context.Context, req IngestFileRequest) (*domain.IngestResult, error)

	// History returns a session's messages in chronological order.
	History(ctx context.Context, sessionID string, limit int) ([]domain.HistoryEntry, error)

	// ClearHistory deletes all messages for a session.
	ClearHistory(ctx context.Context, sessionID string) (int, error)

	// CollectionInfo reports count/dimension/distance for a collection.
	CollectionInfo(ctx context.Context, collectionName string) (*domain.CollectionInfo, error)
}
