package ai

import (
	"strings"
	"testing"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

func TestTruncateContextWindow_UnderBudgetIsUnchanged(t *testing.T) {
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be helpful"},
		{Role: domain.RoleUser, Content: "hi"},
	}
	out := truncateContextWindow(messages)
	if len(out) != 2 {
		t.Fatalf("expected messages to pass through unchanged, got %d", len(out))
	}
}

func TestTruncateContextWindow_DropsOldestNonSystemFirst(t *testing.T) {
	big := strings.Repeat("a", maxContextChars/3)
	messages := []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: "be helpful"},
		{Role: domain.RoleUser, Content: big},
		{Role: domain.RoleAssistant, Content: big},
		{Role: domain.RoleUser, Content: big},
		{Role: domain.RoleAssistant, Content: big},
	}
	out := truncateContextWindow(messages)

	if out[0].Role != domain.RoleSystem {
		t.Fatalf("expected system message to be kept first, got %+v", out[0])
	}
	total := 0
	for _, m := range out {
		total += len(m.Content)
	}
	if total > maxContextChars {
		t.Errorf("truncated window still exceeds budget: %d chars", total)
	}
	if out[len(out)-1].Content != big || out[len(out)-1].Role != domain.RoleAssistant {
		t.Errorf("expected the most recent turn to survive truncation, got %+v", out[len(out)-1])
	}
}

func TestTruncateContextWindow_AlwaysKeepsMostRecentTurnEvenIfOversized(t *testing.T) {
	oversized := strings.Repeat("a", maxContextChars*2)
	messages := []domain.ChatMessage{
		{Role: domain.RoleUser, Content: "earlier turn"},
		{Role: domain.RoleUser, Content: oversized},
	}
	out := truncateContextWindow(messages)
	if len(out) != 1 || out[0].Content != oversized {
		t.Errorf("expected only the oversized most recent turn to survive, got %+v", out)
	}
}
