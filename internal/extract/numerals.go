package extract

import (
	"strings"
	"unicode"
)

// zeroRunes lists the zero digit of every script the extractor folds to
// ASCII before pattern matching. Each block is a contiguous 0-9 run.
var zeroRunes = []rune{
	0x0660, // Arabic-Indic
	0x06F0, // Extended Arabic-Indic (Persian/Urdu)
	0x0966, // Devanagari
	0x09E6, // Bengali
	0x0A66, // Gurmukhi
	0x0AE6, // Gujarati
	0x0B66, // Oriya
	0x0BE6, // Tamil
	0x0C66, // Telugu
	0x0CE6, // Kannada
	0x0D66, // Malayalam
	0xFF10, // Fullwidth
}

// FoldNumerals rewrites digits from non-Latin scripts to their ASCII
// equivalents, leaving every other rune untouched.
func FoldNumerals(s string) string {
	if !hasNonASCIIDigit(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteRune(foldDigit(r))
	}
	return b.String()
}

func foldDigit(r rune) rune {
	if r < 0x80 || !unicode.IsDigit(r) {
		return r
	}
	for _, zero := range zeroRunes {
		if r >= zero && r <= zero+9 {
			return '0' + (r - zero)
		}
	}
	return r
}

func hasNonASCIIDigit(s string) bool {
	for _, r := range s {
		if r >= 0x80 && unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
