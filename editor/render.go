package editor

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/textfield/document"
	graphemeutil "github.com/iw2rmb/textfield/internal/grapheme"
)

// lineInput is everything needed to draw one block.
type lineInput struct {
	Block   document.Block
	Ordinal int
	VT      VirtualText

	// Cursor is a rune column, or -1 when the line has no cursor.
	Cursor int
	// SelStart == SelEnd means no selection on this line.
	SelStart int
	SelEnd   int
}

type renderedLine struct {
	Text       string
	Cells      int
	CursorCell int // -1 when no cursor was drawn
}

// layout is the per-frame projection of the document onto screen rows.
type layout struct {
	doc      *document.Doc
	vts      []VirtualText
	ordinals []int

	curRow, curCol int

	selFromRow, selFromCol int
	selToRow, selToCol     int
	hasSel                 bool
}

func (m *Model) layout() layout {
	st := m.view.State()
	doc := st.Doc()
	sel := st.Selection()

	l := layout{
		doc:      doc,
		vts:      virtualTextFor(doc, m.field.Tokens().Decorations, m.cfg.Style),
		ordinals: ordinals(doc),
	}
	l.curRow, l.curCol = doc.Resolve(sel.Head)
	if !sel.Empty() {
		l.hasSel = true
		l.selFromRow, l.selFromCol = doc.Resolve(sel.From())
		l.selToRow, l.selToCol = doc.Resolve(sel.To())
	}
	return l
}

func (l layout) line(row int, focused bool) lineInput {
	blk := l.doc.Block(row)
	in := lineInput{
		Block:   blk,
		Ordinal: l.ordinals[row],
		VT:      l.vts[row],
		Cursor:  -1,
	}
	if focused && row == l.curRow {
		in.Cursor = l.curCol
	}
	if l.hasSel && row >= l.selFromRow && row <= l.selToRow {
		in.SelStart, in.SelEnd = 0, blk.Len()
		if row == l.selFromRow {
			in.SelStart = l.selFromCol
		}
		if row == l.selToRow {
			in.SelEnd = l.selToCol
		}
	}
	return in
}

func ordinals(doc *document.Doc) []int {
	out := make([]int, doc.BlockCount())
	n := 0
	for i, b := range doc.Blocks() {
		if b.Kind != document.OrderedItem {
			n = 0
			continue
		}
		n++
		out[i] = n
	}
	return out
}

func (m *Model) renderContent() string {
	l := m.layout()
	count := l.doc.BlockCount()
	digitCount := gutterDigits(count)

	out := make([]string, 0, count)
	for row := 0; row < count; row++ {
		var sb strings.Builder
		if m.cfg.ShowLineNums {
			sb.WriteString(m.renderGutter(row, digitCount, m.focused && row == l.curRow))
		}
		sb.WriteString(renderLine(m.cfg.Style, l.line(row, m.focused)).Text)
		out = append(out, sb.String())
	}
	return strings.Join(out, "\n")
}

func (m *Model) renderGutter(row, digitCount int, active bool) string {
	numStyle := m.cfg.Style.LineNum
	if active {
		numStyle = m.cfg.Style.LineNumActive
	}
	return numStyle.Render(fmt.Sprintf("%*d", digitCount, row+1)) + m.cfg.Style.Gutter.Render(" ")
}

func gutterDigits(lines int) int {
	return len(strconv.Itoa(maxInt(lines, 1)))
}

func gutterCells(lines int) int { return gutterDigits(lines) + 1 }

// lineWriter accumulates styled output and counts cells. A pending cursor
// lands on the next visible grapheme, whether text or glyph.
type lineWriter struct {
	st      Style
	sb      strings.Builder
	cells   int
	cursor  int
	pending bool
}

func (w *lineWriter) write(text string, style lipgloss.Style) {
	if text == "" {
		return
	}
	if w.pending {
		first := graphemeutil.Split(text)[0]
		shown, n := displayText(first, w.cells)
		w.sb.WriteString(w.st.Cursor.Render(shown))
		w.cursor = w.cells
		w.cells += n
		w.pending = false
		text = text[len(first):]
		if text == "" {
			return
		}
	}
	var shown strings.Builder
	for _, g := range graphemeutil.Split(text) {
		s, n := displayText(g, w.cells)
		shown.WriteString(s)
		w.cells += n
	}
	w.sb.WriteString(style.Render(shown.String()))
}

func renderLine(st Style, in lineInput) renderedLine {
	w := &lineWriter{st: st, cursor: -1}
	blk := in.Block

	base := st.Text
	switch blk.Kind {
	case document.Heading:
		base = st.Heading.Inherit(st.Text)
		w.write(strings.Repeat("#", clampInt(blk.Level, 1, 6))+" ", st.Heading)
	case document.BulletItem:
		w.write(strings.Repeat("  ", maxInt(blk.Level, 0))+"• ", st.ListMark)
	case document.OrderedItem:
		w.write(strings.Repeat("  ", maxInt(blk.Level, 0))+strconv.Itoa(in.Ordinal)+". ", st.ListMark)
	}

	marks := marksByCol(blk)
	ins := in.VT.Insertions
	next := 0
	flush := func(col int) {
		for next < len(ins) && ins[next].Col <= col {
			w.write(ins[next].Text, insertionStyle(st, ins[next].Role))
			next++
		}
	}

	for _, c := range splitClusters(blk.Text()) {
		flush(c.StartCol)
		if in.Cursor >= c.StartCol && in.Cursor < c.EndCol {
			w.pending = true
		}
		if in.VT.deleted(c.StartCol) {
			continue
		}
		style := markStyle(st, base, marks[c.StartCol])
		if c.StartCol >= in.SelStart && c.StartCol < in.SelEnd {
			style = st.Selection.Inherit(style)
		}
		w.write(c.Text, style)
	}
	flush(blk.Len())
	if in.Cursor == blk.Len() {
		w.pending = true
	}
	if w.pending {
		w.write(" ", st.Text)
	}

	return renderedLine{Text: w.sb.String(), Cells: w.cells, CursorCell: w.cursor}
}

func marksByCol(b document.Block) []document.Mark {
	marks := make([]document.Mark, 0, b.Len())
	for _, s := range b.Spans {
		for i := utf8.RuneCountInString(s.Text); i > 0; i-- {
			marks = append(marks, s.Marks)
		}
	}
	return marks
}

func markStyle(st Style, base lipgloss.Style, m document.Mark) lipgloss.Style {
	style := base
	if m.Has(document.MarkStrong) {
		style = st.Strong.Inherit(style)
	}
	if m.Has(document.MarkEmphasis) {
		style = st.Emphasis.Inherit(style)
	}
	if m.Has(document.MarkCode) {
		style = st.Code.Inherit(style)
	}
	return style
}

func insertionStyle(st Style, role VirtualRole) lipgloss.Style {
	switch role {
	case VirtualRoleIndent:
		return st.Indent
	case VirtualRoleBlank:
		return st.Blank
	default:
		return st.Text
	}
}
