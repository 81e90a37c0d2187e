package gematria

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize strips combining marks (Hebrew niqqud and cantillation, Greek
// accents and breathings, Arabic harakat) so only base letters remain.
func Normalize(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// prepare normalizes text and, for case-insensitive scripts, lowers it.
func prepare(text string, foldCase bool) []rune {
	rs := []rune(Normalize(text))
	if foldCase {
		for i, r := range rs {
			rs[i] = unicode.ToLower(r)
		}
	}
	return rs
}
