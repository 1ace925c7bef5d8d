package dedup

import (
	"context"
	"testing"
)

func TestMemoryCacheSeenAndMark(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	seen, _ := cache.Seen(ctx, "docs", "hash-1")
	if seen {
		t.Fatal("expected unseen hash before Mark")
	}

	if err := cache.Mark(ctx, "docs", "hash-1"); err != nil {
		t.Fatalf("Mark: %v", err)
	}

	seen, _ = cache.Seen(ctx, "docs", "hash-1")
	if !seen {
		t.Fatal("expected hash to be seen after Mark")
	}
}
