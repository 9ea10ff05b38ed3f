package engine

import (
	"unicode"
)

var scriptTags = []struct {
	rt  *unicode.RangeTable
	tag string
}{
	{unicode.Devanagari, "hi"},
	{unicode.Bengali, "bn"},
	{unicode.Tamil, "ta"},
	{unicode.Telugu, "te"},
	{unicode.Kannada, "kn"},
	{unicode.Malayalam, "ml"},
	{unicode.Gujarati, "gu"},
	{unicode.Gurmukhi, "pa"},
	{unicode.Arabic, "ur"},
}

// detectLanguage returns the caller's hint when present, otherwise a
// coarse tag from the dominant non-Latin script, defaulting to "en".
func detectLanguage(text, hint string) string {
	if hint != "" {
		return hint
	}
	counts := make(map[string]int)
	for _, r := range text {
		for _, s := range scriptTags {
			if unicode.Is(s.rt, r) {
				counts[s.tag]++
				break
			}
		}
	}
	best, bestCount := "en", 0
	for tag, n := range counts {
		if n > bestCount {
			best, bestCount = tag, n
		}
	}
	// A handful of stray characters does not flip the language.
	if bestCount < 3 {
		return "en"
	}
	return best
}
