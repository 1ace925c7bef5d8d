package ingest

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/noor-rag/noor-core/internal/chunking"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText detects and decodes plain text, trying UTF-8 first, then
// Windows-1256 (the common legacy Arabic encoding), then UTF-8 with
// replacement as the last resort (§4.K plain text extractor).
func decodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data)
	}

	if decoded, err := charmap.Windows1256.NewDecoder().Bytes(data); err == nil && utf8.Valid(decoded) {
		return string(decoded)
	}

	return strings.ToValidUTF8(string(data), "�")
}

func extractText(filename string, data []byte) ([]ExtractedDocument, error) {
	text := decodeText(data)
	return []ExtractedDocument{{
		SourceName: filename,
		Blocks:     []chunking.Block{{Type: chunking.BlockParagraph, Text: text}},
	}}, nil
}
