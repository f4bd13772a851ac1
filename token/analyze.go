// Package token finds bracket-delimited formatting tokens in a document's
// flattened text, derives overlay decorations for them, and answers which
// region a backspace or delete at a caret should remove atomically.
package token

import (
	"unicode/utf8"

	"github.com/iw2rmb/textfield/posmap"
)

const (
	indentWidgetText = "\u00a0"
	caretAnchorText  = "\u200b"
)

// Region is a half-open character-index range.
type Region struct {
	Start int
	End   int
}

// SingleRegion is the span of one single token.
type SingleRegion struct {
	Start int
	End   int
}

// PairedRegion is a matched open/close pair. The whole pair, including the
// enclosed text, is one deletion unit: [OpenStart, CloseEnd).
type PairedRegion struct {
	OpenStart  int
	OpenEnd    int
	CloseStart int
	CloseEnd   int
}

// Result is everything derived from one snapshot.
type Result struct {
	Decorations []Decoration
	Singles     []SingleRegion
	Pairs       []PairedRegion
	Hidden      []Region
}

// Analyze scans snap once and derives decorations and deletion regions.
// Unmatched opening delimiters stay literal: they are hidden but produce no
// widget and no region.
func Analyze(snap posmap.Snapshot, syntax Syntax) Result {
	var m posmap.Mapper
	text := m.Text(snap)
	mt := syntax.compile()
	idx := newRuneIndex(text)

	var res Result

	var stack []Region
	for _, loc := range mt.pair.FindAllStringIndex(text, -1) {
		from, to := idx.at(loc[0]), idx.at(loc[1])
		res.Hidden = append(res.Hidden, Region{Start: from, End: to})

		if text[loc[0]+1] != '/' {
			stack = append(stack, Region{Start: from, End: to})
			continue
		}
		if len(stack) == 0 {
			continue
		}
		open := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		res.Pairs = append(res.Pairs, PairedRegion{
			OpenStart:  open.Start,
			OpenEnd:    open.End,
			CloseStart: from,
			CloseEnd:   to,
		})
		res.Decorations = append(res.Decorations, Decoration{
			Kind:            Widget,
			From:            m.Position(snap, open.End),
			To:              m.Position(snap, open.End),
			Side:            SideBefore,
			Class:           ClassBlank,
			IgnoreSelection: true,
		})
	}

	total := m.Len(snap)
	for _, loc := range mt.single.FindAllStringIndex(text, -1) {
		start, end := idx.at(loc[0]), idx.at(loc[1])
		res.Hidden = append(res.Hidden, Region{Start: start, End: end})
		res.Singles = append(res.Singles, SingleRegion{Start: start, End: end})

		pos := m.Position(snap, end)
		res.Decorations = append(res.Decorations, Decoration{
			Kind:            Widget,
			From:            pos,
			To:              pos,
			Side:            SideBefore,
			Class:           ClassIndent,
			Text:            indentWidgetText,
			IgnoreSelection: true,
		})

		// A token ending its paragraph needs something after it for the caret
		// to rest on.
		if end >= total || text[loc[1]] == '\n' {
			res.Decorations = append(res.Decorations, Decoration{
				Kind:  Widget,
				From:  pos,
				To:    pos,
				Side:  SideAfter,
				Class: ClassCaretAnchor,
				Text:  caretAnchorText,
			})
		}
	}

	for _, h := range res.Hidden {
		res.Decorations = append(res.Decorations, Decoration{
			Kind:  Inline,
			From:  m.Position(snap, h.Start),
			To:    m.Position(snap, h.End),
			Class: ClassHidden,
		})
	}
	sortDecorations(res.Decorations)
	return res
}

// runeIndex converts ascending byte offsets of one string to rune offsets.
type runeIndex struct {
	text     string
	lastByte int
	lastRune int
}

func newRuneIndex(text string) *runeIndex { return &runeIndex{text: text} }

func (r *runeIndex) at(byteOff int) int {
	if byteOff < r.lastByte {
		r.lastByte, r.lastRune = 0, 0
	}
	r.lastRune += utf8.RuneCountInString(r.text[r.lastByte:byteOff])
	r.lastByte = byteOff
	return r.lastRune
}
