package ai

import "github.com/noor-rag/noor-core/internal/core/domain"

// maxContextChars bounds the request sent to the backend. Exact
// tokenization is backend-specific and none of these HTTP adapters
// carries a tokenizer, so character count stands in as the budget,
// the same heuristic internal/chunking uses for MaxChunkSize.
const maxContextChars = 24000

// truncateContextWindow drops the oldest non-system messages first
// once the combined content length exceeds maxContextChars, per the
// Generator Adapter's context-window contract (§4.I). The leading
// system message, if any, is always kept.
func truncateContextWindow(messages []domain.ChatMessage) []domain.ChatMessage {
	total := 0
	for _, m := range messages {
		total += len(m.Content)
	}
	if total <= maxContextChars {
		return messages
	}

	var system *domain.ChatMessage
	rest := make([]domain.ChatMessage, 0, len(messages))
	for i := range messages {
		if messages[i].Role == domain.RoleSystem && system == nil {
			m := messages[i]
			system = &m
			continue
		}
		rest = append(rest, messages[i])
	}

	budget := maxContextChars
	if system != nil {
		budget -= len(system.Content)
	}

	start := 0
	kept := 0
	for i := len(rest) - 1; i >= 0; i-- {
		kept += len(rest[i].Content)
		if kept > budget && i != len(rest)-1 {
			start = i + 1
			break
		}
	}
	rest = rest[start:]

	out := make([]domain.ChatMessage, 0, len(rest)+1)
	if system != nil {
		out = append(out, *system)
	}
	out = append(out, rest...)
	return out
}
