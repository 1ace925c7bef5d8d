package ingest

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/gomutex/godocx"

	"github.com/noor-rag/noor-core/internal/chunking"
)

// headingStyleLevel maps a DOCX paragraph style name to a heading
// level, or 0 if the style is not a heading style (§4.K DOCX extractor).
func headingStyleLevel(styleName string) int {
	lower := strings.ToLower(strings.TrimSpace(styleName))
	const prefix = "heading"
	if !strings.HasPrefix(lower, prefix) {
		if lower == "title" {
			return 1
		}
		return 0
	}
	rest := strings.TrimSpace(lower[len(prefix):])
	level, err := strconv.Atoi(rest)
	if err != nil || level < 1 {
		return 0
	}
	return level
}

// extractDOCX walks the document body, mapping paragraph style names
// to heading levels and emitting tables as single blocks (§4.K).
func extractDOCX(filename string, data []byte) ([]ExtractedDocument, error) {
	doc, err := godocx.OpenBytes(data)
	if err != nil {
		return nil, stageErr("docx.open", err)
	}
	defer func() { _ = bytes.NewReader(nil) }() // no explicit close method on the reader-backed document

	var blocks []chunking.Block
	for _, child := range doc.Document.Body.Children {
		switch {
		case child.Paragraph != nil:
			p := child.Paragraph
			text := strings.TrimSpace(paragraphText(p))
			if text == "" {
				continue
			}
			if level := headingStyleLevel(paragraphStyleName(p)); level > 0 {
				blocks = append(blocks, chunking.Block{Type: chunking.BlockHeading, Text: text, Level: level})
				continue
			}
			blocks = append(blocks, chunking.Block{Type: chunking.BlockParagraph, Text: text})
		case child.Table != nil:
			text := tableText(child.Table)
			if text != "" {
				blocks = append(blocks, chunking.Block{Type: chunking.BlockTable, Text: text})
			}
		}
	}

	return []ExtractedDocument{{SourceName: filename, Blocks: blocks}}, nil
}

// paragraphText concatenates the run text of a DOCX paragraph.
func paragraphText(p *godocx.Paragraph) string {
	var b strings.Builder
	for _, run := range p.Runs() {
		b.WriteString(run.Text())
	}
	return b.String()
}

// paragraphStyleName returns the named style applied to a paragraph,
// or "" when the paragraph uses the document default style.
func paragraphStyleName(p *godocx.Paragraph) string {
	if style := p.Style(); style != nil {
		return style.Name()
	}
	return ""
}

// tableText linearizes a DOCX table into the same "cell|cell" row
// format the HTML extractor uses, for a consistent structure-aware
// chunker input across formats.
func tableText(t *godocx.Table) string {
	var rows []string
	for _, row := range t.Rows() {
		var cells []string
		for _, cell := range row.Cells() {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		}
		rows = append(rows, strings.Join(cells, "|"))
	}
	return strings.Join(rows, "\n")
}
