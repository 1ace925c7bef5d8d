// Package router classifies a normalized query into one of the four
// closed route tags the RAG pipeline dispatches on (§4.G). Routing is
// rule-based and deterministic, never polymorphic.
package router

import (
	"strings"
	"unicode"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

// greetings is the fixed Arabic and Latin greeting phrase set matched,
// after punctuation stripping, case-insensitively for Latin phrases.
var greetings = map[string]struct{}{
	"مرحبا":        {},
	"مرحبا بك":     {},
	"اهلا":         {},
	"اهلا وسهلا":   {},
	"السلام عليكم": {},
	"صباح الخير":   {},
	"مساء الخير":   {},
	"hello":        {},
	"hi":           {},
	"hey":          {},
	"good morning": {},
	"good evening": {},
}

// calculatorVerbs are optional leading verbs that mark a query as
// arithmetic even when followed only by a single operand.
var calculatorVerbs = []string{"احسب", "calculate", "compute"}

// questionWords signal factual lookup and disqualify the "simple" route.
var questionWords = []string{
	"ما", "ماذا", "متى", "اين", "كيف", "لماذا", "من", "هل",
	"why", "when", "where", "what is", "what's", "who", "how",
}

// Options configures the thresholds the classifier uses. The
// §9 open question leaves SimpleTokenThreshold uniform across
// languages and configurable rather than per-language.
type Options struct {
	SimpleTokenThreshold int
}

const defaultSimpleTokenThreshold = 8

func (o Options) withDefaults() Options {
	if o.SimpleTokenThreshold <= 0 {
		o.SimpleTokenThreshold = defaultSimpleTokenThreshold
	}
	return o
}

// Classify assigns a route to an already-normalized query. Classification
// never fails; empty input returns domain.QueryTypeSimple so the
// pipeline can produce a help message (§4.G).
func Classify(normalizedQuery string, opts Options) domain.QueryType {
	opts = opts.withDefaults()

	trimmed := strings.TrimSpace(normalizedQuery)
	if trimmed == "" {
		return domain.QueryTypeSimple
	}

	stripped := stripPunctuation(trimmed)
	if isGreeting(stripped) {
		return domain.QueryTypeGreeting
	}
	if isCalculatorExpression(stripped) {
		return domain.QueryTypeCalculator
	}
	if isSimple(trimmed, opts) {
		return domain.QueryTypeSimple
	}
	return domain.QueryTypeRAG
}

func isGreeting(stripped string) bool {
	lower := strings.ToLower(stripped)
	_, ok := greetings[lower]
	return ok
}

// maxCalculatorTerms bounds the grammar to short expressions. A pure
// arithmetic string past this many operator/operand terms stops
// looking like a one-line calculation and falls through to rag (§8).
const maxCalculatorTerms = 12

// isCalculatorExpression checks the bounded arithmetic grammar: ASCII/Arabic
// digits, the four operators, parentheses, decimal point, whitespace.
func isCalculatorExpression(stripped string) bool {
	body := stripped
	for _, verb := range calculatorVerbs {
		if strings.HasPrefix(strings.ToLower(body), verb) {
			body = strings.TrimSpace(body[len(verb):])
			break
		}
	}
	if body == "" {
		return false
	}

	hasDigit := false
	terms := 0
	prevWasDigit := false
	for _, r := range body {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
			if !prevWasDigit {
				terms++
			}
			prevWasDigit = true
			continue
		case r == '+' || r == '-' || r == '*' || r == '/' ||
			r == '×' || r == '÷' || r == '(' || r == ')':
			terms++
		case r == '.' || r == ' ':
			// permitted, not a term boundary
		default:
			return false
		}
		prevWasDigit = false
	}
	if terms > maxCalculatorTerms {
		return false
	}
	return hasDigit
}

func isSimple(trimmed string, opts Options) bool {
	tokens := strings.Fields(trimmed)
	if len(tokens) >= opts.SimpleTokenThreshold {
		return false
	}
	lower := strings.ToLower(trimmed)
	for _, qw := range questionWords {
		if containsWord(lower, qw) {
			return false
		}
	}
	return true
}

func containsWord(haystack, needle string) bool {
	return strings.Contains(" "+haystack+" ", " "+needle+" ") ||
		strings.Contains(haystack, needle)
}

func stripPunctuation(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
