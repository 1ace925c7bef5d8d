package ingest

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/noor-rag/noor-core/internal/chunking"
)

var droppedSubtrees = map[atom.Atom]struct{}{
	atom.Script: {}, atom.Style: {}, atom.Nav: {}, atom.Footer: {}, atom.Noscript: {},
}

// extractHTML walks a lenient-parsed HTML tree, drops script/style/nav/
// footer subtrees, linearizes tables row-by-row, and tags headings with
// their level (§4.K HTML extractor).
func extractHTML(filename string, data []byte) ([]ExtractedDocument, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, stageErr("html.parse", err)
	}

	var blocks []chunking.Block
	walkHTML(doc, &blocks)

	return []ExtractedDocument{{SourceName: filename, Blocks: blocks}}, nil
}

func walkHTML(n *html.Node, blocks *[]chunking.Block) {
	if n.Type == html.ElementNode {
		if _, drop := droppedSubtrees[n.DataAtom]; drop {
			return
		}
		if level, ok := headingLevel(n.DataAtom); ok {
			text := strings.TrimSpace(textContent(n))
			if text != "" {
				*blocks = append(*blocks, chunking.Block{Type: chunking.BlockHeading, Text: text, Level: level})
			}
			return
		}
		if n.DataAtom == atom.Table {
			text := linearizeTable(n)
			if text != "" {
				*blocks = append(*blocks, chunking.Block{Type: chunking.BlockTable, Text: text})
			}
			return
		}
		if n.DataAtom == atom.Ul || n.DataAtom == atom.Ol {
			text := linearizeList(n)
			if text != "" {
				*blocks = append(*blocks, chunking.Block{Type: chunking.BlockList, Text: text})
			}
			return
		}
		if n.DataAtom == atom.P || n.DataAtom == atom.Div {
			text := strings.TrimSpace(directTextContent(n))
			if text != "" {
				*blocks = append(*blocks, chunking.Block{Type: chunking.BlockParagraph, Text: text})
			}
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTML(c, blocks)
	}
}

func headingLevel(a atom.Atom) (int, bool) {
	switch a {
	case atom.H1:
		return 1, true
	case atom.H2:
		return 2, true
	case atom.H3:
		return 3, true
	case atom.H4:
		return 4, true
	case atom.H5:
		return 5, true
	case atom.H6:
		return 6, true
	}
	return 0, false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// directTextContent avoids descending into nested block elements so a
// <div> containing a <table> does not duplicate the table's text.
func directTextContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			b.WriteString(c.Data)
		case html.ElementNode:
			if _, drop := droppedSubtrees[c.DataAtom]; drop {
				continue
			}
			if c.DataAtom == atom.Table || c.DataAtom == atom.Ul || c.DataAtom == atom.Ol {
				continue
			}
			b.WriteString(textContent(c))
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func linearizeTable(table *html.Node) string {
	var rows []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Tr {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					cells = append(cells, strings.TrimSpace(textContent(c)))
				}
			}
			if len(cells) > 0 {
				rows = append(rows, strings.Join(cells, "|"))
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)
	return strings.Join(rows, "\n")
}

func linearizeList(list *html.Node) string {
	var items []string
	i := 0
	for c := list.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			i++
			text := strings.TrimSpace(textContent(c))
			if text != "" {
				items = append(items, strconv.Itoa(i)+". "+text)
			}
		}
	}
	return strings.Join(items, "\n")
}
