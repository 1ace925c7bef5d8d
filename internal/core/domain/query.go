package domain

import "time"

// QueryType is the closed set of routes the query router can select.
// Adding a route means extending this enum and the router's switch,
// never adding a new implementation of some handler interface.
type QueryType string

const (
	QueryTypeGreeting   QueryType = "greeting"
	QueryTypeSimple     QueryType = "simple"
	QueryTypeCalculator QueryType = "calculator"
	QueryTypeRAG        QueryType = "rag"
)

// Source is one retrieved chunk surfaced alongside a RAG answer.
type Source struct {
	Content  string         `json:"content"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// QueryResult is the return value of the query procedure.
type QueryResult struct {
	Answer           string    `json:"answer"`
	Sources          []Source  `json:"sources"`
	QueryType        QueryType `json:"query_type"`
	SessionID        string    `json:"session_id"`
	ProcessingTimeMS int64     `json:"processing_time_ms"`
	OrderOnly        bool      `json:"order_only,omitempty"`
}

// IngestResult is the return value of the ingestion procedures.
type IngestResult struct {
	Documents  int               `json:"documents"`
	Chunks     int               `json:"chunks"`
	TimeMS     int64             `json:"time_ms"`
	Format     SourceFormat      `json:"format,omitempty"`
	PerFileErr map[string]string `json:"per_file_errors,omitempty"`
}

// CollectionInfo describes a vector store collection.
type CollectionInfo struct {
	Count     int64  `json:"count"`
	Dimension int    `json:"dimension"`
	Distance  string `json:"distance"`
}

// HistoryEntry is one message as returned by the history procedure.
type HistoryEntry struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}
