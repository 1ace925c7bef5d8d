package ingest

import (
	"bytes"
	"context"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/tiff"

	"github.com/noor-rag/noor-core/internal/chunking"
	"github.com/noor-rag/noor-core/internal/core/domain"
)

// extractImage delegates to the vision-LLM adapter with one of three
// modes (§4.K image extractor). TIFF input decodes its first page
// only; see tiffPages.
func (f *Frontend) extractImage(ctx context.Context, filename string, data []byte, mode domain.VisionMode) ([]ExtractedDocument, error) {
	mimeType := http.DetectContentType(data)
	if bytes.HasPrefix(data, []byte("II*\x00")) || bytes.HasPrefix(data, []byte("MM\x00*")) {
		mimeType = "image/tiff" // net/http's sniffer has no TIFF signature
	}

	pages, err := tiffPages(data, mimeType)
	if err != nil {
		return nil, stageErr("image.decode", err)
	}
	if len(pages) == 0 {
		pages = [][]byte{data}
	} else {
		mimeType = "image/png" // tiffPages re-encodes the page as PNG
	}

	var blocks []chunking.Block
	for _, page := range pages {
		block, err := f.extractImagePage(ctx, page, mimeType, mode)
		if err != nil {
			return nil, stageErr("image.vision", err)
		}
		blocks = append(blocks, block)
	}

	return []ExtractedDocument{{SourceName: filename, Blocks: blocks}}, nil
}

func (f *Frontend) extractImagePage(ctx context.Context, page []byte, mimeType string, mode domain.VisionMode) (chunking.Block, error) {
	effectiveMode := mode
	if effectiveMode == "" || effectiveMode == domain.VisionModeAuto {
		classified, err := f.vision.Classify(ctx, page, mimeType)
		if err != nil {
			return chunking.Block{}, err
		}
		effectiveMode = classified
	}

	switch effectiveMode {
	case domain.VisionModeDescribe:
		text, err := f.vision.Describe(ctx, page, mimeType)
		if err != nil {
			return chunking.Block{}, err
		}
		return chunking.Block{Type: chunking.BlockParagraph, Text: text}, nil
	default:
		text, err := f.vision.ExtractText(ctx, page, mimeType)
		if err != nil {
			return chunking.Block{}, err
		}
		return chunking.Block{Type: chunking.BlockParagraph, Text: text}, nil
	}
}

// tiffPages re-encodes a TIFF's first page as a standalone PNG so it
// can be sent to the vision adapter like any other image. Non-TIFF
// input returns (nil, nil).
//
// golang.org/x/image/tiff's Decode only ever reads the IFD at the
// header's offset and never follows the next-IFD chain that a
// multi-page TIFF uses for its later pages, and the package exposes
// no lower-level frame iterator. A multi-page TIFF is therefore
// processed as a single page; callers that need every page would have
// to pre-split the file with an external tool before ingestion.
func tiffPages(data []byte, mimeType string) ([][]byte, error) {
	if mimeType != "image/tiff" {
		return nil, nil
	}
	img, err := tiff.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return [][]byte{buf.Bytes()}, nil
}
