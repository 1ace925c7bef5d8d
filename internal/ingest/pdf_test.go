package ingest

import (
	"strings"
	"testing"

	"github.com/noor-rag/noor-core/internal/chunking"
)

func TestParagraphsToBlocksTagsHeading(t *testing.T) {
	text := "INTRODUCTION\n\nThis is a regular paragraph sentence that runs on.\n"
	blocks := paragraphsToBlocks(text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %+v", len(blocks), blocks)
	}
	if blocks[0].Type != chunking.BlockHeading || blocks[0].Text != "INTRODUCTION" {
		t.Errorf("blocks[0] = %+v, want heading %q", blocks[0], "INTRODUCTION")
	}
	if blocks[1].Type != chunking.BlockParagraph {
		t.Errorf("blocks[1].Type = %q, want paragraph", blocks[1].Type)
	}
}

func TestParagraphsToBlocksTagsArabicHeading(t *testing.T) {
	text := "الفصل الأول\n\nهذه فقرة طويلة نسبيا تشرح محتوى الفصل الأول بالتفصيل.\n"
	blocks := paragraphsToBlocks(text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2: %+v", len(blocks), blocks)
	}
	if blocks[0].Type != chunking.BlockHeading {
		t.Errorf("blocks[0].Type = %q, want heading", blocks[0].Type)
	}
}

func TestParagraphsToBlocksDoesNotTagLongLineAsHeading(t *testing.T) {
	text := "This sentence has more than ten words in it and ends with a period."
	blocks := paragraphsToBlocks(text)
	if len(blocks) != 1 || blocks[0].Type != chunking.BlockParagraph {
		t.Errorf("got %+v, want a single paragraph block", blocks)
	}
}

func TestParagraphsToBlocksTagsTableRows(t *testing.T) {
	text := "Name     Score     Rank\nAhmed    91        1\nSara     88        2\n"
	blocks := paragraphsToBlocks(text)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %+v", len(blocks), blocks)
	}
	if blocks[0].Type != chunking.BlockTable {
		t.Fatalf("blocks[0].Type = %q, want table", blocks[0].Type)
	}
	rows := strings.Split(blocks[0].Text, "\n")
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3: %+v", len(rows), rows)
	}
	if rows[0] != "Name|Score|Rank" {
		t.Errorf("rows[0] = %q, want %q", rows[0], "Name|Score|Rank")
	}
}

func TestParagraphsToBlocksMergesWrappedParagraph(t *testing.T) {
	text := "This paragraph was\nwrapped across several\nvisual lines by the layout."
	blocks := paragraphsToBlocks(text)
	if len(blocks) != 1 || blocks[0].Type != chunking.BlockParagraph {
		t.Fatalf("got %+v, want a single merged paragraph block", blocks)
	}
	want := "This paragraph was wrapped across several visual lines by the layout."
	if blocks[0].Text != want {
		t.Errorf("Text = %q, want %q", blocks[0].Text, want)
	}
}
