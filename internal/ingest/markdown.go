package ingest

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/noor-rag/noor-core/internal/chunking"
)

// extractMarkdown walks the goldmark AST, emitting headers as heading
// blocks, fenced code blocks as code blocks (with language attribute),
// lists as list blocks, and paragraphs as text blocks (§4.K Markdown
// extractor).
func extractMarkdown(filename string, data []byte) ([]ExtractedDocument, error) {
	md := goldmark.New()
	source := data
	reader := text.NewReader(source)
	root := md.Parser().Parse(reader)

	var blocks []chunking.Block
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading:
			headingText := strings.TrimSpace(string(node.Text(source)))
			if headingText != "" {
				blocks = append(blocks, chunking.Block{Type: chunking.BlockHeading, Text: headingText, Level: node.Level})
			}
			return ast.WalkSkipChildren, nil
		case *ast.FencedCodeBlock:
			lang := string(node.Language(source))
			var body strings.Builder
			for i := 0; i < node.Lines().Len(); i++ {
				seg := node.Lines().At(i)
				body.Write(seg.Value(source))
			}
			content := body.String()
			if lang != "" {
				content = lang + "\n" + content
			}
			blocks = append(blocks, chunking.Block{Type: chunking.BlockCode, Text: content})
			return ast.WalkSkipChildren, nil
		case *ast.List:
			var items []string
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				itemText := strings.TrimSpace(string(extractPlainText(item, source)))
				if itemText != "" {
					items = append(items, "- "+itemText)
				}
			}
			if len(items) > 0 {
				blocks = append(blocks, chunking.Block{Type: chunking.BlockList, Text: strings.Join(items, "\n")})
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			paragraphText := strings.TrimSpace(string(extractPlainText(node, source)))
			if paragraphText != "" {
				blocks = append(blocks, chunking.Block{Type: chunking.BlockParagraph, Text: paragraphText})
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, stageErr("markdown.walk", err)
	}

	return []ExtractedDocument{{SourceName: filename, Blocks: blocks}}, nil
}

// extractPlainText concatenates the text of every text-bearing
// descendant of n in document order.
func extractPlainText(n ast.Node, source []byte) []byte {
	var out []byte
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			out = append(out, t.Segment.Value(source)...)
			if t.SoftLineBreak() || t.HardLineBreak() {
				out = append(out, ' ')
			}
			continue
		}
		out = append(out, extractPlainText(c, source)...)
	}
	return out
}
