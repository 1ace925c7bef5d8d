package normalize

import "testing"

func TestNormalizeEmpty(t *testing.T) {
	if got := Normalize(""); got != "" {
		t.Fatalf("Normalize(\"\") = %q, want \"\"", got)
	}
}

func TestNormalizeAlefVariants(t *testing.T) {
	cases := []struct{ in, want string }{
		{"أحمد", "احمد"},
		{"إبراهيم", "ابراهيم"},
		{"آمنة", "امنه"},
		{"ٱلرحمن", "الرحمن"},
	}
	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeYaaAndTaaMarbuta(t *testing.T) {
	if got := Normalize("مستشفى"); got != "مستشفي" {
		t.Errorf("alef-maksura: Normalize(مستشفى) = %q, want مستشفي", got)
	}
	if got := Normalize("مدرسة"); got != "مدرسه" {
		t.Errorf("taa-marbuta: Normalize(مدرسة) = %q, want مدرسه", got)
	}
}

func TestNormalizeStripsDiacritics(t *testing.T) {
	got := Normalize("الْعَرَبِيَّة")
	want := Normalize("العربيه")
	if got != want {
		t.Errorf("Normalize with diacritics = %q, want %q", got, want)
	}
}

func TestNormalizeStripsTatweel(t *testing.T) {
	if got := Normalize("مرحـــبا"); got != "مرحبا" {
		t.Errorf("Normalize(tatweel) = %q, want مرحبا", got)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	if got := Normalize("  مرحبا   بك  "); got != "مرحبا بك" {
		t.Errorf("Normalize(whitespace) = %q, want %q", got, "مرحبا بك")
	}
	if got := Normalize("line one\n\tline two"); got != "line one line two" {
		t.Errorf("Normalize(mixed whitespace) = %q", got)
	}
}

func TestNormalizePassesThroughLatin(t *testing.T) {
	if got := Normalize("Hello, World!"); got != "Hello, World!" {
		t.Errorf("Normalize(latin) = %q, want unchanged", got)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"أحمد ذهب إلى المدرسة",
		"الْقَاهِرَةُ مدينة كبيرة",
		"  مرحـــبا   بكم  ",
		"plain english text",
		"mixed عربي and English 123",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: once=%q twice=%q", in, once, twice)
		}
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	weird := []string{
		"\x00\x01\x02",
		"🎉🎉🎉",
		string([]byte{0xff, 0xfe}),
	}
	for _, in := range weird {
		_ = Normalize(in)
	}
}
