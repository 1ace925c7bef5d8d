package ingest

import (
	"testing"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

func TestDetectFormatByMIME(t *testing.T) {
	if got := DetectFormat("f", "application/pdf", nil); got != domain.SourceFormatPDF {
		t.Errorf("DetectFormat by mime = %q, want pdf", got)
	}
}

func TestDetectFormatByMagicBytes(t *testing.T) {
	if got := DetectFormat("unnamed", "", []byte("%PDF-1.7 ...")); got != domain.SourceFormatPDF {
		t.Errorf("DetectFormat by magic = %q, want pdf", got)
	}
}

func TestDetectFormatByExtension(t *testing.T) {
	if got := DetectFormat("notes.md", "", []byte("# hello")); got != domain.SourceFormatMarkdown {
		t.Errorf("DetectFormat by extension = %q, want markdown", got)
	}
}

func TestDetectFormatFallsBackToText(t *testing.T) {
	if got := DetectFormat("mystery", "", []byte("plain content")); got != domain.SourceFormatText {
		t.Errorf("DetectFormat fallback = %q, want text", got)
	}
}

func TestDetectFormatJSONFirecrawlVsGeneric(t *testing.T) {
	firecrawl := []byte(`{"pages":[{"url":"a","text":"b"}]}`)
	if got := DetectFormat("x.json", "", firecrawl); got != domain.SourceFormatJSONFirecrawl {
		t.Errorf("DetectFormat(firecrawl) = %q, want json-firecrawl", got)
	}
	generic := []byte(`[{"text":"b"}]`)
	if got := DetectFormat("x.json", "", generic); got != domain.SourceFormatJSONGeneric {
		t.Errorf("DetectFormat(generic) = %q, want json-generic", got)
	}
}

func TestExtractTextPassesThroughUTF8(t *testing.T) {
	docs, err := extractText("doc.txt", []byte("القاهرة هي عاصمة مصر."))
	if err != nil {
		t.Fatalf("extractText: %v", err)
	}
	if len(docs) != 1 || len(docs[0].Blocks) != 1 {
		t.Fatalf("expected 1 document with 1 block, got %+v", docs)
	}
	if docs[0].Blocks[0].Text != "القاهرة هي عاصمة مصر." {
		t.Errorf("unexpected extracted text: %q", docs[0].Blocks[0].Text)
	}
}

func TestExtractTextStripsBOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello")...)
	docs, err := extractText("doc.txt", data)
	if err != nil {
		t.Fatalf("extractText: %v", err)
	}
	if docs[0].Blocks[0].Text != "hello" {
		t.Errorf("BOM not stripped: %q", docs[0].Blocks[0].Text)
	}
}

func TestExtractJSONGeneric(t *testing.T) {
	docs, err := extractJSONGeneric("arr.json", []byte(`[{"text":"one"},{"text":"two"}]`))
	if err != nil {
		t.Fatalf("extractJSONGeneric: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestExtractJSONFirecrawl(t *testing.T) {
	docs, err := extractJSONFirecrawl("crawl.json", []byte(`{"pages":[{"url":"http://a","text":"hello"}]}`))
	if err != nil {
		t.Fatalf("extractJSONFirecrawl: %v", err)
	}
	if len(docs) != 1 || docs[0].SourceName != "http://a" {
		t.Fatalf("unexpected firecrawl result: %+v", docs)
	}
}
