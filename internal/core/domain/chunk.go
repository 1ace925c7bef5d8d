package domain

import "time"

// SourceFormat identifies the original format of an ingested document.
type SourceFormat string

const (
	SourceFormatPDF           SourceFormat = "pdf"
	SourceFormatHTML          SourceFormat = "html"
	SourceFormatMarkdown      SourceFormat = "markdown"
	SourceFormatDOCX          SourceFormat = "docx"
	SourceFormatText          SourceFormat = "text"
	SourceFormatImage         SourceFormat = "image"
	SourceFormatJSONFirecrawl SourceFormat = "json-firecrawl"
	SourceFormatJSONGeneric   SourceFormat = "json-generic"
)

// ContentType classifies a chunk's structural role within its document.
type ContentType string

const (
	ContentTypeText             ContentType = "text"
	ContentTypeHeading          ContentType = "heading"
	ContentTypeTable            ContentType = "table"
	ContentTypeCode             ContentType = "code"
	ContentTypeList             ContentType = "list"
	ContentTypeImageText        ContentType = "image_text"
	ContentTypeImageDescription ContentType = "image_description"
)

// VisionMode selects how the vision-LLM adapter treats an image (§4.K).
type VisionMode string

const (
	VisionModeExtractText VisionMode = "text"
	VisionModeDescribe    VisionMode = "description"
	VisionModeAuto        VisionMode = "auto"
)

// Document is the metadata shared by every chunk derived from one
// logical source. It is never persisted as a standalone entity -
// it only exists as the common fields copied onto each Chunk.
type Document struct {
	SourceName         string            `json:"source_name"`
	SourceFormat       SourceFormat      `json:"source_format"`
	IngestionTimestamp time.Time         `json:"ingestion_timestamp"`
	FileHash           string            `json:"file_hash,omitempty"`
	CustomMetadata     map[string]string `json:"custom_metadata,omitempty"`
}

// Chunk is the atomic unit of retrieval: a slice of document text plus
// the document-level metadata it was cut from.
type Chunk struct {
	ID             string            `json:"id"`
	Content        string            `json:"content"`
	ChunkIndex     int               `json:"chunk_index"`
	TotalChunks    int               `json:"total_chunks"`
	ContentType    ContentType       `json:"content_type"`
	Document       Document          `json:"document"`
	FormatMetadata map[string]string `json:"format_metadata,omitempty"`
}

// Payload flattens a Chunk into the key/value map written to the
// documents collection alongside its vector. Keys match §6's
// documents collection payload contract.
func (c *Chunk) Payload() map[string]any {
	p := map[string]any{
		"content":             c.Content,
		"source_name":         c.Document.SourceName,
		"source_format":       string(c.Document.SourceFormat),
		"chunk_index":         c.ChunkIndex,
		"total_chunks":        c.TotalChunks,
		"content_type":        string(c.ContentType),
		"ingestion_timestamp": c.Document.IngestionTimestamp.UTC().Format(time.RFC3339Nano),
	}
	if c.Document.FileHash != "" {
		p["file_hash"] = c.Document.FileHash
	}
	for k, v := range c.Document.CustomMetadata {
		p["meta_"+k] = v
	}
	for k, v := range c.FormatMetadata {
		p["fmt_"+k] = v
	}
	return p
}
