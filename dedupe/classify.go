package dedupe

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/width"
)

// Classifier reports whether r is a wide character subject to filtering.
type Classifier func(rune) bool

// WideClassifier treats East Asian Wide and Fullwidth runes as wide.
func WideClassifier(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}

// Range is an inclusive code point range.
type Range struct {
	Lo, Hi rune
}

func (r Range) String() string {
	return fmt.Sprintf("%04X-%04X", r.Lo, r.Hi)
}

// DefaultRanges covers CJK symbols and punctuation, halfwidth and
// fullwidth forms, and CJK compatibility forms.
var DefaultRanges = []Range{
	{0x3000, 0x303F},
	{0xFF00, 0xFFEF},
	{0xFE30, 0xFE4F},
}

// RangeClassifier returns a Classifier matching any of ranges.
func RangeClassifier(ranges []Range) Classifier {
	rs := append([]Range(nil), ranges...)
	return func(r rune) bool {
		for _, rg := range rs {
			if r >= rg.Lo && r <= rg.Hi {
				return true
			}
		}
		return false
	}
}

// ParseRanges parses entries like "3000-303F" or "FF0C" (hex, optional
// "U+" prefix).
func ParseRanges(specs []string) ([]Range, error) {
	out := make([]Range, 0, len(specs))
	for _, s := range specs {
		rg, err := parseRange(s)
		if err != nil {
			return nil, err
		}
		out = append(out, rg)
	}
	return out, nil
}

func parseRange(s string) (Range, error) {
	lo, hi, found := strings.Cut(strings.TrimSpace(s), "-")
	a, err := parseCodePoint(lo)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	if !found {
		return Range{Lo: a, Hi: a}, nil
	}
	b, err := parseCodePoint(hi)
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	if b < a {
		return Range{}, fmt.Errorf("range %q: end before start", s)
	}
	return Range{Lo: a, Hi: b}, nil
}

func parseCodePoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "U+"), "u+")
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	if v > 0x10FFFF {
		return 0, fmt.Errorf("code point %X out of range", v)
	}
	return rune(v), nil
}
