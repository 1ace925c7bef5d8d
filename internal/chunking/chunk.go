// Package chunking splits extracted document text into retrieval-sized
// units, respecting sentence and structural boundaries (§4.B).
package chunking

import (
	"strings"
	"unicode"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

// Options bounds a chunking run. A zero MaxChunkSize falls back to the
// package default of 512 (§4.B). A zero Overlap means no overlap; a
// negative Overlap, or one not below MaxChunkSize, falls back to 50.
type Options struct {
	MaxChunkSize int
	Overlap      int
}

const (
	defaultMaxChunkSize = 512
	defaultOverlap      = 50
)

func (o Options) withDefaults() Options {
	if o.MaxChunkSize <= 0 {
		o.MaxChunkSize = defaultMaxChunkSize
	}
	if o.Overlap < 0 || o.Overlap >= o.MaxChunkSize {
		o.Overlap = defaultOverlap
	}
	return o
}

// sentenceTerminators are the Arabic and Latin sentence-ending runes
// the sentence-aware splitter breaks on (§4.B step 1).
var sentenceTerminators = map[rune]struct{}{
	'.': {}, '؟': {}, '!': {}, '?': {},
}

// SplitSentences breaks text into sentence-terminated segments,
// keeping the terminator attached to its sentence.
func SplitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	for _, r := range text {
		cur.WriteRune(r)
		if _, ok := sentenceTerminators[r]; ok {
			if s := strings.TrimSpace(cur.String()); s != "" {
				sentences = append(sentences, s)
			}
			cur.Reset()
		}
	}
	if s := strings.TrimSpace(cur.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Sentence is the default chunker: it packs whole sentences into
// chunks up to opts.MaxChunkSize, carrying an overlap tail forward.
// Empty or whitespace-only input yields zero chunks, never an error.
func Sentence(doc domain.Document, text string, opts Options) []*domain.Chunk {
	opts = opts.withDefaults()
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var bodies []string
	var cur strings.Builder

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			bodies = append(bodies, s)
		}
		cur.Reset()
	}

	for _, sentence := range sentences {
		if runeLen(sentence) > opts.MaxChunkSize {
			flush()
			bodies = append(bodies, splitOnWhitespace(sentence, opts.MaxChunkSize)...)
			continue
		}
		candidateLen := runeLen(cur.String())
		if candidateLen > 0 {
			candidateLen++ // joining space
		}
		candidateLen += runeLen(sentence)

		if candidateLen > opts.MaxChunkSize && cur.Len() > 0 {
			flush()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(sentence)
	}
	flush()

	return packWithOverlap(doc, bodies, opts.Overlap, domain.ContentTypeText)
}

// splitOnWhitespace breaks a single oversized sentence at whitespace
// boundaries so no fragment exceeds maxSize (§4.B: "never split within
// a sentence unless [it] exceeds max_chunk_size").
func splitOnWhitespace(sentence string, maxSize int) []string {
	words := strings.Fields(sentence)
	if len(words) == 0 {
		return nil
	}

	var fragments []string
	var cur strings.Builder
	for _, w := range words {
		wl := runeLen(w)
		if wl > maxSize {
			// A single "word" longer than the budget is still emitted
			// whole rather than mangled mid-rune.
			if cur.Len() > 0 {
				fragments = append(fragments, cur.String())
				cur.Reset()
			}
			fragments = append(fragments, w)
			continue
		}
		curLen := runeLen(cur.String())
		next := curLen
		if curLen > 0 {
			next++
		}
		next += wl
		if next > maxSize && cur.Len() > 0 {
			fragments = append(fragments, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
	}
	if cur.Len() > 0 {
		fragments = append(fragments, cur.String())
	}
	return fragments
}

// packWithOverlap turns chunk bodies into domain.Chunk values, carrying
// the tail of each body forward as a prefix of the next (§4.B overlap).
func packWithOverlap(doc domain.Document, bodies []string, overlap int, ct domain.ContentType) []*domain.Chunk {
	if len(bodies) == 0 {
		return nil
	}

	chunks := make([]*domain.Chunk, 0, len(bodies))
	var prevTail string
	for i, body := range bodies {
		content := body
		if prevTail != "" {
			content = prevTail + " " + body
		}
		chunks = append(chunks, &domain.Chunk{
			Document:    doc,
			Content:     content,
			ChunkIndex:  i,
			ContentType: ct,
		})
		prevTail = tailRunes(body, overlap)
	}
	for _, c := range chunks {
		c.TotalChunks = len(chunks)
	}
	return chunks
}

func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// IsBlank reports whether text contains no non-whitespace characters.
func IsBlank(text string) bool {
	for _, r := range text {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
