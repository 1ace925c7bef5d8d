// Package ingest implements the Ingestion Frontend (§4.K): format
// detection and format-specific extraction dispatch, turning a raw
// uploaded artifact into the typed block stream the chunker consumes.
package ingest

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/noor-rag/noor-core/internal/chunking"
	"github.com/noor-rag/noor-core/internal/core/domain"
	"github.com/noor-rag/noor-core/internal/core/ports/driven"
)

// ExtractedDocument is one logical document produced by an extractor.
// Most formats produce exactly one per uploaded file; the json
// extractors may produce many from a single file.
type ExtractedDocument struct {
	SourceName     string
	Blocks         []chunking.Block
	CustomMetadata map[string]string
}

// Frontend dispatches a raw artifact through format detection and the
// matching extractor.
type Frontend struct {
	vision driven.VisionService
}

func NewFrontend(vision driven.VisionService) *Frontend {
	return &Frontend{vision: vision}
}

// Extract detects format and runs the matching extractor (§4.K).
func (f *Frontend) Extract(ctx context.Context, filename, declaredMIME string, data []byte, imageMode domain.VisionMode) ([]ExtractedDocument, domain.SourceFormat, error) {
	format := DetectFormat(filename, declaredMIME, data)

	var (
		docs []ExtractedDocument
		err  error
	)
	switch format {
	case domain.SourceFormatText:
		docs, err = extractText(filename, data)
	case domain.SourceFormatPDF:
		docs, err = extractPDF(filename, data)
	case domain.SourceFormatHTML:
		docs, err = extractHTML(filename, data)
	case domain.SourceFormatMarkdown:
		docs, err = extractMarkdown(filename, data)
	case domain.SourceFormatDOCX:
		docs, err = extractDOCX(filename, data)
	case domain.SourceFormatImage:
		docs, err = f.extractImage(ctx, filename, data, imageMode)
	case domain.SourceFormatJSONFirecrawl:
		docs, err = extractJSONFirecrawl(filename, data)
	case domain.SourceFormatJSONGeneric:
		docs, err = extractJSONGeneric(filename, data)
	default:
		docs, err = extractText(filename, data)
	}
	if err != nil {
		return nil, format, err
	}
	return docs, format, nil
}

// DetectFormat applies the §4.K detection order: declared MIME type,
// then magic bytes over the leading ~2KB, then filename extension,
// then a fallback to plain text.
func DetectFormat(filename, declaredMIME string, data []byte) domain.SourceFormat {
	if f, ok := formatFromMIME(declaredMIME); ok {
		return f
	}
	if f, ok := formatFromMagic(data); ok {
		return f
	}
	if f, ok := formatFromExtension(filename); ok {
		return f
	}
	return domain.SourceFormatText
}

func formatFromMIME(mime string) (domain.SourceFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "application/pdf":
		return domain.SourceFormatPDF, true
	case "text/html", "application/xhtml+xml":
		return domain.SourceFormatHTML, true
	case "text/markdown", "text/x-markdown":
		return domain.SourceFormatMarkdown, true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return domain.SourceFormatDOCX, true
	case "image/png", "image/jpeg", "image/tiff", "image/webp", "image/gif":
		return domain.SourceFormatImage, true
	case "application/json":
		return "", false // json shape determines firecrawl vs generic, decided by content
	case "text/plain":
		return domain.SourceFormatText, true
	}
	return "", false
}

var magicSignatures = []struct {
	prefix []byte
	format domain.SourceFormat
}{
	{[]byte("%PDF-"), domain.SourceFormatPDF},
	{[]byte("PK\x03\x04"), domain.SourceFormatDOCX}, // docx is a zip container
	{[]byte{0xFF, 0xD8, 0xFF}, domain.SourceFormatImage},
	{[]byte("\x89PNG\r\n\x1a\n"), domain.SourceFormatImage},
	{[]byte("II*\x00"), domain.SourceFormatImage}, // little-endian TIFF
	{[]byte("MM\x00*"), domain.SourceFormatImage}, // big-endian TIFF
}

func formatFromMagic(data []byte) (domain.SourceFormat, bool) {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	for _, sig := range magicSignatures {
		if bytes.HasPrefix(head, sig.prefix) {
			return sig.format, true
		}
	}
	trimmed := bytes.TrimSpace(head)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		if looksLikeFirecrawl(data) {
			return domain.SourceFormatJSONFirecrawl, true
		}
		return domain.SourceFormatJSONGeneric, true
	}
	return "", false
}

func formatFromExtension(filename string) (domain.SourceFormat, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return domain.SourceFormatPDF, true
	case ".html", ".htm":
		return domain.SourceFormatHTML, true
	case ".md", ".markdown":
		return domain.SourceFormatMarkdown, true
	case ".docx":
		return domain.SourceFormatDOCX, true
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".webp", ".gif":
		return domain.SourceFormatImage, true
	case ".json":
		return domain.SourceFormatJSONGeneric, true
	case ".txt":
		return domain.SourceFormatText, true
	}
	return "", false
}
