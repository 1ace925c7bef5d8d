package ingest

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/noor-rag/noor-core/internal/chunking"
)

// extractPDF extracts per-page text, strips page numbers and repeated
// headers/footers (strings appearing verbatim on >= 3 pages), and
// tags each blank-line-separated paragraph as a heading, table, or
// plain paragraph block, the same "walk to typed blocks" convention
// html.go and docx.go use (§4.K PDF extractor).
func extractPDF(filename string, data []byte) ([]ExtractedDocument, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, stageErr("pdf.open", err)
	}

	numPages := reader.NumPage()
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue // a single unreadable page does not fail the document
		}
		pages = append(pages, text)
	}
	if len(pages) == 0 {
		return nil, stageErr("pdf.extract", errNoExtractableText)
	}

	lineCounts := countRepeatedLines(pages)
	var blocks []chunking.Block
	for _, page := range pages {
		cleaned := stripRepeatedLines(page, lineCounts, len(pages))
		cleaned = collapseBlankLines(cleaned)
		blocks = append(blocks, paragraphsToBlocks(cleaned)...)
	}

	return []ExtractedDocument{{SourceName: filename, Blocks: blocks}}, nil
}

// paragraphsToBlocks splits a cleaned page's text on blank lines and
// tags each resulting paragraph as a table, heading, or plain block.
func paragraphsToBlocks(text string) []chunking.Block {
	var blocks []chunking.Block
	var para []string
	flush := func() {
		if len(para) == 0 {
			return
		}
		blocks = append(blocks, paragraphBlock(para))
		para = nil
	}
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		para = append(para, line)
	}
	flush()
	return blocks
}

func paragraphBlock(lines []string) chunking.Block {
	if isTableParagraph(lines) {
		rows := make([]string, len(lines))
		for i, l := range lines {
			rows[i] = tableRowText(l)
		}
		return chunking.Block{Type: chunking.BlockTable, Text: strings.Join(rows, "\n")}
	}
	if len(lines) == 1 {
		trimmed := strings.TrimSpace(lines[0])
		if headingLine(trimmed) {
			return chunking.Block{Type: chunking.BlockHeading, Text: trimmed, Level: 1}
		}
	}
	joined := strings.TrimSpace(strings.Join(lines, " "))
	return chunking.Block{Type: chunking.BlockParagraph, Text: joined}
}

// columnGap matches the multi-space column separators a PDF text
// layer leaves behind where a table's cell borders used to be.
var columnGap = regexp.MustCompile(`\s{2,}`)

// isTableParagraph reports whether every line of a paragraph looks
// like a table row - at least two columns separated by a run of
// whitespace wide enough to have been a cell gap in the original
// layout. A single matching line is too weak a signal on its own.
func isTableParagraph(lines []string) bool {
	if len(lines) < 2 {
		return false
	}
	for _, l := range lines {
		if len(columnGap.Split(strings.TrimSpace(l), -1)) < 2 {
			return false
		}
	}
	return true
}

// tableRowText rewrites a column-gapped PDF line into the same
// "cell|cell" row format tableText in docx.go produces, so the
// structure-aware chunker sees one table convention across formats.
func tableRowText(line string) string {
	fields := columnGap.Split(strings.TrimSpace(line), -1)
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return strings.Join(fields, "|")
}

// headingLine applies a short-line heuristic in place of the style
// metadata DOCX/HTML headings carry, since a PDF text layer has none:
// a standalone paragraph line, at most 10 words and 80 runes, not
// ending in sentence punctuation. Latin-scripted lines additionally
// have to be all-caps, since case carries no such signal in Arabic.
func headingLine(line string) bool {
	runes := []rune(line)
	if len(runes) == 0 || len(runes) > 80 {
		return false
	}
	if words := strings.Fields(line); len(words) == 0 || len(words) > 10 {
		return false
	}
	if strings.ContainsRune(".,،؛?!؟", runes[len(runes)-1]) {
		return false
	}
	hasLetter := false
	hasLatinLower := false
	for _, r := range runes {
		if unicode.IsLetter(r) {
			hasLetter = true
		}
		if unicode.IsLower(r) && unicode.Is(unicode.Latin, r) {
			hasLatinLower = true
		}
	}
	return hasLetter && !hasLatinLower
}

var errNoExtractableText = errNoText{}

type errNoText struct{}

func (errNoText) Error() string { return "no extractable text in document" }

// countRepeatedLines counts, across all pages, how many distinct pages
// each trimmed line appears on verbatim - used to detect running
// headers/footers and page-number lines.
func countRepeatedLines(pages []string) map[string]int {
	counts := map[string]int{}
	for _, page := range pages {
		seen := map[string]struct{}{}
		for _, line := range strings.Split(page, "\n") {
			trimmed := strings.TrimSpace(line)
			if trimmed == "" {
				continue
			}
			if _, dup := seen[trimmed]; dup {
				continue
			}
			seen[trimmed] = struct{}{}
			counts[trimmed]++
		}
	}
	return counts
}

func stripRepeatedLines(page string, counts map[string]int, totalPages int) string {
	lines := strings.Split(page, "\n")
	var kept []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			kept = append(kept, line)
			continue
		}
		if isPageNumberLine(trimmed) {
			continue
		}
		if totalPages >= 3 && counts[trimmed] >= 3 {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func isPageNumberLine(line string) bool {
	if len(line) > 12 {
		return false
	}
	hasDigit := false
	for _, r := range line {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r == '-' || r == '/' || r == ' ' || r == '.':
			// permitted separators in "Page 3", "3/10", "- 3 -"
		default:
			if !strings.ContainsRune("صفحة Page page of", r) {
				return false
			}
		}
	}
	return hasDigit
}

func collapseBlankLines(text string) string {
	lines := strings.Split(text, "\n")
	var out []string
	blankRun := false
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if blankRun {
				continue
			}
			blankRun = true
		} else {
			blankRun = false
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
