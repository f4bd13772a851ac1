package field

import (
	"go.uber.org/zap"

	"github.com/iw2rmb/textfield/internal/grapheme"
	"github.com/iw2rmb/textfield/token"
)

// Key is an editing key the field handles itself.
type Key uint8

const (
	KeyBackspace Key = iota
	KeyDelete
	KeySubmit
	KeyCancel
	KeyUndo
	KeyRedo
)

func (k Key) String() string {
	switch k {
	case KeyBackspace:
		return "backspace"
	case KeyDelete:
		return "delete"
	case KeySubmit:
		return "submit"
	case KeyCancel:
		return "cancel"
	case KeyUndo:
		return "undo"
	case KeyRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// HandleTextInput inserts text over the selection. Outside composition the
// duplicate-input filter may drop it; HandleTextInput then reports false.
func (f *Field) HandleTextInput(text string) bool {
	if f.destroyed || f.disabled() || text == "" {
		return false
	}
	st := f.host.State()
	sel := st.Selection()

	if !f.guard.Active() {
		idx := f.mapper.CharIndex(st, sel.From())
		if !f.filter.Allow(text, idx, f.runeBefore(st, idx)) {
			return false
		}
	}
	f.host.Dispatch(st.Tr().InsertText(text, sel.From(), sel.To()).CursorAfterInsert())
	return true
}

// HandleKey performs k and reports whether it was handled. Backspace and
// delete remove a token next to the caret as one unit, otherwise one
// grapheme cluster, otherwise the selection.
func (f *Field) HandleKey(k Key) bool {
	if f.destroyed {
		return false
	}
	switch k {
	case KeyBackspace:
		return f.deleteAtCaret(token.Backward)
	case KeyDelete:
		return f.deleteAtCaret(token.Forward)
	case KeySubmit:
		f.Submit()
		return true
	case KeyCancel:
		f.Cancel()
		return true
	case KeyUndo:
		return f.Undo()
	case KeyRedo:
		return f.Redo()
	}
	return false
}

func (f *Field) deleteAtCaret(dir token.Direction) bool {
	if f.disabled() {
		return false
	}
	st := f.host.State()
	sel := st.Selection()
	if !sel.Empty() {
		f.host.Dispatch(st.Tr().Delete(sel.From(), sel.To()))
		return true
	}

	caret := f.mapper.CharIndex(st, sel.Head)
	if region, ok := f.tokens.Result(st).Deletion(caret, dir); ok {
		f.log.Debug("deleting token",
			zap.Stringer("direction", dir),
			zap.Int("start", region.Start),
			zap.Int("end", region.End))
		from, to := f.mapper.Range(st, region.Start, region.End)
		f.host.Dispatch(st.Tr().Delete(from, to))
		return true
	}

	start, end := caret, caret
	if dir == token.Backward {
		if caret == 0 {
			return false
		}
		start = caret - grapheme.LastRunes(f.mapper.Slice(st, 0, caret))
	} else {
		n := f.mapper.Len(st)
		if caret >= n {
			return false
		}
		end = caret + grapheme.FirstRunes(f.mapper.Slice(st, caret, n))
	}
	from, to := f.mapper.Range(st, start, end)
	f.host.Dispatch(st.Tr().Delete(from, to))
	return true
}

// CompositionStart marks the beginning of an input method composition.
// Edits keep applying, but change notifications wait until it settles.
func (f *Field) CompositionStart() {
	if f.destroyed {
		return
	}
	f.guard.Start()
}

// CompositionEnd marks the end of a composition.
func (f *Field) CompositionEnd() {
	if f.destroyed {
		return
	}
	f.guard.End()
}

func (f *Field) disabled() bool {
	d, ok := f.host.(Disabler)
	return ok && d.Disabled()
}
