package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/textfield/field"
	graphemeutil "github.com/iw2rmb/textfield/internal/grapheme"
	"github.com/iw2rmb/textfield/posmap"
	"github.com/iw2rmb/textfield/token"
)

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.SetSize(msg.Width, msg.Height), nil
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		// Allow manual scrolling; only redraw.
		m.syncFromDocument()
		return m, cmd
	case tea.KeyMsg:
		m.updateKey(msg)
	case CompositionStartMsg:
		m.field.CompositionStart()
	case CompositionEndMsg:
		m.field.CompositionEnd()
	}
	if m.syncFromDocument() {
		m.followCursor()
	}
	return m, nil
}

func (m *Model) updateKey(msg tea.KeyMsg) {
	if !m.focused {
		return
	}
	km := m.cfg.KeyMap

	switch {
	case msg.Paste:
		m.field.HandleTextInput(normalizeNewlines(string(msg.Runes)))

	case key.Matches(msg, km.Left):
		m.moveHorizontal(-1, false)
	case key.Matches(msg, km.Right):
		m.moveHorizontal(1, false)
	case key.Matches(msg, km.ShiftLeft):
		m.moveHorizontal(-1, true)
	case key.Matches(msg, km.ShiftRight):
		m.moveHorizontal(1, true)
	case key.Matches(msg, km.Up):
		m.moveVertical(-1)
	case key.Matches(msg, km.Down):
		m.moveVertical(1)
	case key.Matches(msg, km.Home):
		m.moveLineEdge(false)
	case key.Matches(msg, km.End):
		m.moveLineEdge(true)

	case key.Matches(msg, km.Backspace):
		m.field.HandleKey(field.KeyBackspace)
	case key.Matches(msg, km.Delete):
		m.field.HandleKey(field.KeyDelete)
	case key.Matches(msg, km.Enter):
		m.field.HandleTextInput("\n")
	case key.Matches(msg, km.Indent):
		m.field.HandleTextInput(m.field.Syntax().SingleToken())
	case key.Matches(msg, km.Blank):
		m.wrapBlank()

	case key.Matches(msg, km.Submit):
		m.field.HandleKey(field.KeySubmit)
	case key.Matches(msg, km.Cancel):
		m.field.HandleKey(field.KeyCancel)
	case key.Matches(msg, km.Undo):
		m.field.HandleKey(field.KeyUndo)
	case key.Matches(msg, km.Redo):
		m.field.HandleKey(field.KeyRedo)

	case msg.Type == tea.KeySpace:
		m.field.HandleTextInput(" ")
	case msg.Type == tea.KeyRunes:
		m.field.HandleTextInput(string(msg.Runes))
	}
}

// wrapBlank surrounds the selection with the paired token.
func (m *Model) wrapBlank() {
	if m.view.Disabled() {
		return
	}
	syn := m.field.Syntax()
	start, end := m.field.SelectionRange()
	runes := []rune(m.field.Value())
	start = clampInt(start, 0, len(runes))
	end = clampInt(end, start, len(runes))
	m.field.SetRangeText(syn.OpenToken() + string(runes[start:end]) + syn.CloseToken())
}

func (m *Model) moveHorizontal(dir int, extend bool) {
	st := m.view.State()
	sel := st.Selection()
	if !extend && !sel.Empty() {
		pos := sel.From()
		if dir > 0 {
			pos = sel.To()
		}
		m.view.Dispatch(st.Tr().SetSelection(pos, pos))
		return
	}

	head := posmap.CharIndex(st, sel.Head)
	next := stepCaret(posmap.Text(st), head, dir, m.field.Tokens().Hidden)
	headPos := posmap.Position(st, next)
	anchor := sel.Anchor
	if !extend {
		anchor = headPos
	}
	m.view.Dispatch(st.Tr().SetSelection(anchor, headPos))
}

func (m *Model) moveVertical(dir int) {
	st := m.view.State()
	doc := st.Doc()
	row, col := doc.Resolve(st.Selection().Head)
	last := doc.BlockCount() - 1

	var pos int
	switch target := row + dir; {
	case target < 0:
		pos = doc.PosAt(0, 0)
	case target > last:
		pos = doc.PosAt(last, doc.Block(last).Len())
	default:
		pos = doc.PosAt(target, col)
	}
	idx := snapOutOfHidden(posmap.CharIndex(st, pos), 1, m.field.Tokens().Hidden)
	pos = posmap.Position(st, idx)
	m.view.Dispatch(st.Tr().SetSelection(pos, pos))
}

func (m *Model) moveLineEdge(end bool) {
	st := m.view.State()
	doc := st.Doc()
	row, _ := doc.Resolve(st.Selection().Head)
	pos := doc.PosAt(row, 0)
	if end {
		pos = doc.PosAt(row, doc.Block(row).Len())
	}
	m.view.Dispatch(st.Tr().SetSelection(pos, pos))
}

// stepCaret moves idx one grapheme in dir, jumping over hidden token text.
func stepCaret(text string, idx, dir int, hidden []token.Region) int {
	runes := []rune(text)
	idx = clampInt(idx, 0, len(runes))
	if dir < 0 {
		if idx == 0 {
			return 0
		}
		idx -= graphemeutil.LastRunes(string(runes[:idx]))
	} else {
		if idx >= len(runes) {
			return len(runes)
		}
		idx += graphemeutil.FirstRunes(string(runes[idx:]))
	}
	return snapOutOfHidden(idx, dir, hidden)
}

func snapOutOfHidden(idx, dir int, hidden []token.Region) int {
	for _, h := range hidden {
		if idx > h.Start && idx < h.End {
			if dir < 0 {
				return h.Start
			}
			return h.End
		}
	}
	return idx
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
