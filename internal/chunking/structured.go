package chunking

import (
	"strings"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

// BlockType tags a pre-parsed structural unit produced by an
// extractor (§4.K) before it reaches the structure-aware chunker.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockTable     BlockType = "table"
	BlockList      BlockType = "list"
	BlockCode      BlockType = "code"
)

// Block is one typographically distinct unit of an extracted document,
// e.g. one HTML heading, one Markdown paragraph, one DOCX table.
type Block struct {
	Type  BlockType
	Text  string
	Level int // heading level, 1-based; 0 for non-headings
}

// targetSize is the dynamic per-content-type budget consulted before
// the greedy packer's MaxChunkSize cap (§4.B structure-aware rules).
var targetSize = map[BlockType]int{
	BlockHeading:   150,
	BlockTable:     250,
	BlockList:      300,
	BlockParagraph: 400,
	BlockCode:      400,
}

func blockContentType(t BlockType) domain.ContentType {
	switch t {
	case BlockHeading:
		return domain.ContentTypeHeading
	case BlockTable:
		return domain.ContentTypeTable
	case BlockList:
		return domain.ContentTypeList
	case BlockCode:
		return domain.ContentTypeCode
	default:
		return domain.ContentTypeText
	}
}

// Structured chunks a sequence of pre-parsed blocks, tracking the
// active section header in FormatMetadata["section_header"] and
// splitting oversize tables row-wise while retaining the header row.
func Structured(doc domain.Document, blocks []Block, opts Options) []*domain.Chunk {
	opts = opts.withDefaults()
	if len(blocks) == 0 {
		return nil
	}

	var chunks []*domain.Chunk
	sectionHeader := ""

	emit := func(text string, ct domain.ContentType) {
		text = strings.TrimSpace(text)
		if text == "" {
			return
		}
		c := &domain.Chunk{
			Document:    doc,
			Content:     text,
			ContentType: ct,
		}
		if sectionHeader != "" {
			c.FormatMetadata = map[string]string{"section_header": sectionHeader}
		}
		chunks = append(chunks, c)
	}

	for _, block := range blocks {
		text := strings.TrimSpace(block.Text)
		if text == "" {
			continue
		}

		if block.Type == BlockHeading {
			sectionHeader = text
			emit(text, domain.ContentTypeHeading)
			continue
		}

		if block.Type == BlockTable {
			emitTable(text, opts.MaxChunkSize, emit)
			continue
		}

		budget := targetSize[block.Type]
		if budget <= 0 || budget > opts.MaxChunkSize {
			budget = opts.MaxChunkSize
		}
		for _, part := range packToSize(text, budget) {
			emit(part, blockContentType(block.Type))
		}
	}

	for i, c := range chunks {
		c.ChunkIndex = i
		c.TotalChunks = len(chunks)
	}
	return chunks
}

// emitTable keeps a table whole when it fits within 1.5x the chunk
// size budget, otherwise splits it row-wise, repeating the header row
// in every fragment (§4.B).
func emitTable(text string, maxChunkSize int, emit func(string, domain.ContentType)) {
	if runeLen(text) <= (maxChunkSize*3)/2 {
		emit(text, domain.ContentTypeTable)
		return
	}

	rows := strings.Split(text, "\n")
	if len(rows) <= 1 {
		emit(text, domain.ContentTypeTable)
		return
	}
	header := rows[0]
	tableBudget := targetSize[BlockTable]
	if tableBudget <= 0 {
		tableBudget = maxChunkSize
	}

	var cur strings.Builder
	cur.WriteString(header)
	flush := func() {
		if s := cur.String(); strings.TrimSpace(s) != header {
			emit(s, domain.ContentTypeTable)
		}
		cur.Reset()
		cur.WriteString(header)
	}
	for _, row := range rows[1:] {
		if runeLen(cur.String())+1+runeLen(row) > tableBudget {
			flush()
		}
		cur.WriteByte('\n')
		cur.WriteString(row)
	}
	flush()
}

// packToSize greedily packs whitespace-delimited words into fragments
// no longer than budget, for non-table block types.
func packToSize(text string, budget int) []string {
	if runeLen(text) <= budget {
		return []string{text}
	}
	return splitOnWhitespace(text, budget)
}
