package router

import (
	"strings"
	"testing"

	"github.com/noor-rag/noor-core/internal/core/domain"
)

func TestClassifyEmptyIsSimple(t *testing.T) {
	if got := Classify("", Options{}); got != domain.QueryTypeSimple {
		t.Errorf("Classify(\"\") = %q, want simple", got)
	}
}

func TestClassifyGreetings(t *testing.T) {
	cases := []string{"مرحبا", "اهلا", "hello", "hi", "good morning", "Hello!"}
	for _, q := range cases {
		if got := Classify(q, Options{}); got != domain.QueryTypeGreeting {
			t.Errorf("Classify(%q) = %q, want greeting", q, got)
		}
	}
}

func TestClassifyCalculator(t *testing.T) {
	cases := []string{"1 + 1", "احسب 5 * 3", "calculate (2+3)/5", "٢+٣"}
	for _, q := range cases {
		if got := Classify(q, Options{}); got != domain.QueryTypeCalculator {
			t.Errorf("Classify(%q) = %q, want calculator", q, got)
		}
	}
}

func TestClassifySimple(t *testing.T) {
	if got := Classify("شكرا جزيلا", Options{}); got != domain.QueryTypeSimple {
		t.Errorf("Classify(short, no question word) = %q, want simple", got)
	}
}

func TestClassifyRAGForQuestionWords(t *testing.T) {
	cases := []string{
		"ما هي عاصمة مصر؟",
		"what is the capital of Egypt",
		"متى تأسست الشركة",
	}
	for _, q := range cases {
		if got := Classify(q, Options{}); got != domain.QueryTypeRAG {
			t.Errorf("Classify(%q) = %q, want rag", q, got)
		}
	}
}

func TestClassifyLongQueryIsRAG(t *testing.T) {
	long := strings.Repeat("word ", 20)
	if got := Classify(long, Options{}); got != domain.QueryTypeRAG {
		t.Errorf("Classify(long) = %q, want rag", got)
	}
}

func TestClassifyLongArithmeticStringIsRAGNotCalculator(t *testing.T) {
	// §8 boundary: a pure arithmetic string past the grammar's term cap
	// stops looking like a one-line calculation and falls to rag, even
	// with no question word in sight.
	pureLong := "1 + 1 + 1 + 1 + 1 + 1 + 1 + 1 + 1 + 1 + 1 + 1 + 1"
	if got := Classify(pureLong, Options{}); got != domain.QueryTypeRAG {
		t.Errorf("Classify(long pure arithmetic) = %q, want rag", got)
	}

	mixed := "ما هو حاصل جمع 1 + 1 + 1 + 1 + 1 + 1 + 1 + 1"
	if got := Classify(mixed, Options{}); got != domain.QueryTypeRAG {
		t.Errorf("Classify(mixed question+arithmetic) = %q, want rag", got)
	}
}

func TestClassifyNeverPanics(t *testing.T) {
	weird := []string{"\x00\x01", "🎉", "   ", "++++", "()()()"}
	for _, q := range weird {
		_ = Classify(q, Options{})
	}
}
