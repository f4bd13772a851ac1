package editor

import (
	"sort"
	"strings"

	"github.com/iw2rmb/textfield/document"
	"github.com/iw2rmb/textfield/token"
)

type VirtualRole int

const (
	VirtualRoleIndent  VirtualRole = iota // glyph standing in for a single token
	VirtualRoleBlank                      // glyph marking a paired token
	VirtualRoleOverlay                    // any other widget text
)

// VirtualDeletion hides a half-open rune range [StartCol, EndCol) within a single block.
//
// Columns are rune offsets in the block content (before any deletions).
type VirtualDeletion struct {
	StartCol int
	EndCol   int
}

// VirtualInsertion inserts view-only text at a rune column within a single block.
type VirtualInsertion struct {
	Col  int
	Text string
	Role VirtualRole
}

type VirtualText struct {
	Insertions []VirtualInsertion
	Deletions  []VirtualDeletion
}

// virtualTextFor splits token decorations into per-block virtual text.
// Hidden inline ranges become deletions and widgets become insertions.
func virtualTextFor(doc *document.Doc, decos []token.Decoration, st Style) []VirtualText {
	out := make([]VirtualText, doc.BlockCount())
	for _, d := range decos {
		switch d.Kind {
		case token.Widget:
			text, role, ok := widgetText(d, st)
			if !ok {
				continue
			}
			b, off := doc.Resolve(d.From)
			out[b].Insertions = append(out[b].Insertions, VirtualInsertion{Col: off, Text: text, Role: role})
		case token.Inline:
			if d.Class != token.ClassHidden {
				continue
			}
			fb, fo := doc.Resolve(d.From)
			tb, to := doc.Resolve(d.To)
			for b := fb; b <= tb; b++ {
				start, end := 0, doc.Block(b).Len()
				if b == fb {
					start = fo
				}
				if b == tb {
					end = to
				}
				out[b].Deletions = append(out[b].Deletions, VirtualDeletion{StartCol: start, EndCol: end})
			}
		}
	}
	for i := range out {
		out[i] = normalizeVirtualText(out[i], doc.Block(i).Len())
	}
	return out
}

// widgetText picks the terminal glyph for a widget. The caret anchor only
// exists to give a browser caret somewhere to rest; a terminal cursor
// needs none.
func widgetText(d token.Decoration, st Style) (string, VirtualRole, bool) {
	switch d.Class {
	case token.ClassIndent:
		return st.indentGlyph(), VirtualRoleIndent, true
	case token.ClassBlank:
		return st.blankGlyph(), VirtualRoleBlank, true
	case token.ClassCaretAnchor:
		return "", 0, false
	}
	return d.Text, VirtualRoleOverlay, d.Text != ""
}

func normalizeVirtualText(vt VirtualText, rawLineLen int) VirtualText {
	rawLineLen = maxInt(rawLineLen, 0)

	// Deletions: clamp, drop empty, sort, merge.
	if len(vt.Deletions) > 0 {
		dels := make([]VirtualDeletion, 0, len(vt.Deletions))
		for _, d := range vt.Deletions {
			start := clampInt(d.StartCol, 0, rawLineLen)
			end := clampInt(d.EndCol, 0, rawLineLen)
			if end < start {
				start, end = end, start
			}
			if start == end {
				continue
			}
			dels = append(dels, VirtualDeletion{StartCol: start, EndCol: end})
		}
		sort.Slice(dels, func(i, j int) bool {
			if dels[i].StartCol != dels[j].StartCol {
				return dels[i].StartCol < dels[j].StartCol
			}
			return dels[i].EndCol < dels[j].EndCol
		})
		merged := make([]VirtualDeletion, 0, len(dels))
		for _, d := range dels {
			if len(merged) == 0 {
				merged = append(merged, d)
				continue
			}
			last := &merged[len(merged)-1]
			if d.StartCol <= last.EndCol {
				last.EndCol = maxInt(last.EndCol, d.EndCol)
				continue
			}
			merged = append(merged, d)
		}
		vt.Deletions = merged
	}

	// Insertions: clamp cols, enforce single-line, stable sort by col.
	if len(vt.Insertions) > 0 {
		ins := make([]VirtualInsertion, 0, len(vt.Insertions))
		for _, in := range vt.Insertions {
			col := clampInt(in.Col, 0, rawLineLen)
			text := sanitizeSingleLine(in.Text)
			if text == "" {
				continue
			}
			ins = append(ins, VirtualInsertion{Col: col, Text: text, Role: in.Role})
		}

		// An anchor inside a deleted range moves to the range start.
		for i := range ins {
			for _, d := range vt.Deletions {
				if ins[i].Col > d.StartCol && ins[i].Col < d.EndCol {
					ins[i].Col = d.StartCol
					break
				}
			}
		}

		sort.SliceStable(ins, func(i, j int) bool {
			return ins[i].Col < ins[j].Col
		})
		vt.Insertions = ins
	}

	return vt
}

func (vt VirtualText) deleted(col int) bool {
	for _, d := range vt.Deletions {
		if col >= d.StartCol && col < d.EndCol {
			return true
		}
	}
	return false
}

func sanitizeSingleLine(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}

func clampInt(v, min, max int) int {
	if max < min {
		return min
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
