// Package grapheme measures user-perceived characters with uniseg.
package grapheme

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Split returns the grapheme clusters of text.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, utf8.RuneCountInString(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	return uniseg.GraphemeClusterCount(text)
}

// FirstRunes returns the rune length of the first cluster of text.
func FirstRunes(text string) int {
	if text == "" {
		return 0
	}
	g := uniseg.NewGraphemes(text)
	g.Next()
	return len(g.Runes())
}

// LastRunes returns the rune length of the last cluster of text.
func LastRunes(text string) int {
	n := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		n = len(g.Runes())
	}
	return n
}

// Width returns the monospace cell width of text.
func Width(text string) int {
	return uniseg.StringWidth(text)
}
