package ingest

import (
	"encoding/json"

	"github.com/noor-rag/noor-core/internal/chunking"
)

// firecrawlDocument is the shape of one element in a Firecrawl crawl
// result's top-level "pages" array.
type firecrawlDocument struct {
	URL      string            `json:"url"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

type firecrawlPayload struct {
	Pages []firecrawlDocument `json:"pages"`
}

func looksLikeFirecrawl(data []byte) bool {
	var probe struct {
		Pages []json.RawMessage `json:"pages"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Pages != nil
}

// extractJSONFirecrawl turns each element of pages[] into one document
// (§4.K json firecrawl extractor).
func extractJSONFirecrawl(filename string, data []byte) ([]ExtractedDocument, error) {
	var payload firecrawlPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, stageErr("json.firecrawl.unmarshal", err)
	}

	docs := make([]ExtractedDocument, 0, len(payload.Pages))
	for i, page := range payload.Pages {
		name := page.URL
		if name == "" {
			name = filename + "#" + itoaSimple(i)
		}
		docs = append(docs, ExtractedDocument{
			SourceName:     name,
			Blocks:         []chunking.Block{{Type: chunking.BlockParagraph, Text: page.Text}},
			CustomMetadata: page.Metadata,
		})
	}
	return docs, nil
}

// genericElement is the shape of one element in a generic JSON array
// upload: any object carrying at least a "text" field.
type genericElement struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
}

// extractJSONGeneric turns each array element into one document
// (§4.K json generic extractor).
func extractJSONGeneric(filename string, data []byte) ([]ExtractedDocument, error) {
	var elements []genericElement
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, stageErr("json.generic.unmarshal", err)
	}

	docs := make([]ExtractedDocument, 0, len(elements))
	for i, el := range elements {
		docs = append(docs, ExtractedDocument{
			SourceName:     filename + "#" + itoaSimple(i),
			Blocks:         []chunking.Block{{Type: chunking.BlockParagraph, Text: el.Text}},
			CustomMetadata: el.Metadata,
		})
	}
	return docs, nil
}

func itoaSimple(n int) string {
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
