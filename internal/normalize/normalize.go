// Package normalize implements the Arabic text canonicalization
// transform (§4.A). It is a pure, idempotent function applied to both
// ingested chunks and user queries before embedding or routing.
package normalize

import (
	"strings"
	"unicode"
)

const (
	alefHamzaAbove = 'أ'
	alefHamzaBelow = 'إ'
	alefMadda      = 'آ'
	alefWasla      = 'ٱ'
	bareAlef       = 'ا'

	alefMaksura = 'ى'
	yaa         = 'ي'

	taaMarbuta = 'ة'
	haa        = 'ه'

	tatweel = 'ـ'
)

// diacritics are the short-vowel (harakat) and gemination (shadda) and
// related combining marks stripped in step 4 (Unicode Arabic
// diacritics block, U+064B-U+0652, plus the superscript alef and small
// high marks occasionally used in Qur'anic/poetic orthography).
var diacritics = map[rune]struct{}{
	0x064B: {}, // fathatan
	0x064C: {}, // dammatan
	0x064D: {}, // kasratan
	0x064E: {}, // fatha
	0x064F: {}, // damma
	0x0650: {}, // kasra
	0x0651: {}, // shadda
	0x0652: {}, // sukun
	0x0653: {}, // maddah above
	0x0654: {}, // hamza above
	0x0655: {}, // hamza below
	0x0656: {}, // subscript alef
	0x0657: {}, // inverted damma
	0x0658: {}, // mark noon ghunna
	0x0670: {}, // superscript alef
}

// Normalize canonicalizes Arabic (and passes through non-Arabic) text:
// it unifies Alef and Yaa orthographic variants, unifies Taa-marbuta,
// strips diacritics and the Tatweel elongation character, and collapses
// whitespace. It never raises and returns "" for "".
//
// Normalize is idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(text))

	for _, r := range text {
		switch r {
		case alefHamzaAbove, alefHamzaBelow, alefMadda, alefWasla:
			b.WriteRune(bareAlef)
		case alefMaksura:
			b.WriteRune(yaa)
		case taaMarbuta:
			b.WriteRune(haa)
		case tatweel:
			// dropped entirely, not replaced
		default:
			if _, isDiacritic := diacritics[r]; isDiacritic {
				continue
			}
			b.WriteRune(r)
		}
	}

	return collapseWhitespace(b.String())
}

// collapseWhitespace runs of whitespace to a single space and trims
// leading/trailing whitespace, matching step 6.
func collapseWhitespace(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	inSpace := false
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteRune(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
