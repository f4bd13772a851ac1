package field

import (
	"strings"

	"go.uber.org/zap"

	"github.com/iw2rmb/textfield/document"
)

// MoveCursorTo puts a cursor at idx and focuses the host.
func (f *Field) MoveCursorTo(idx int) {
	f.SetSelectionRange(idx, idx)
}

// SelectionRange returns the selection as character offsets.
func (f *Field) SelectionRange() (start, end int) {
	return f.SelectionStart(), f.SelectionEnd()
}

// LastNChars returns up to n characters before the selection start within
// its block.
func (f *Field) LastNChars(n int) string {
	if n <= 0 {
		return ""
	}
	st := f.host.State()
	doc := st.Doc()
	b, off := doc.Resolve(st.Selection().From())
	runes := []rune(doc.Block(b).Text())
	if off > len(runes) {
		off = len(runes)
	}
	start := off - n
	if start < 0 {
		start = 0
	}
	return string(runes[start:off])
}

// InsertAtCursor inserts text at the selection start.
func (f *Field) InsertAtCursor(text string) {
	start := f.SelectionStart()
	f.InsertBetween(start, start, text)
}

// InsertAt inserts text at idx.
func (f *Field) InsertAt(idx int, text string) {
	f.InsertBetween(idx, idx, text)
}

// InsertBetween replaces [start, end) with text and moves the cursor
// after it.
func (f *Field) InsertBetween(start, end int, text string) {
	if f.destroyed {
		return
	}
	st := f.host.State()
	from, to := f.mapper.Range(st, start, end)
	f.host.Dispatch(st.Tr().InsertText(text, from, to).CursorAfterInsert())
	f.host.Focus()
}

// InsertMarkupBetween replaces [start, end) with text parsed by the
// configured parser, keeping its marks and block kinds, and moves the cursor
// after it. Trailing newlines open empty blocks the way Enter would. Text
// that fails to parse is inserted literally.
func (f *Field) InsertMarkupBetween(start, end int, text string) {
	if f.destroyed {
		return
	}
	st := f.host.State()
	from, to := f.mapper.Range(st, start, end)
	tr := st.Tr()

	body := strings.TrimRight(text, "\n")
	doc, err := f.cfg.Parser.Parse(body)
	if err != nil {
		f.log.Debug("markup did not parse; inserting literally", zap.Error(err))
		tr.InsertText(text, from, to)
	} else {
		tr.InsertDoc(withTrailingBreaks(doc, len(text)-len(body)), from, to)
	}
	f.host.Dispatch(tr.CursorAfterInsert())
	f.host.Focus()
}

// InsertMarkupAtCursor is InsertMarkupBetween over the current selection.
func (f *Field) InsertMarkupAtCursor(text string) {
	start, end := f.SelectionRange()
	f.InsertMarkupBetween(start, end, text)
}

// withTrailingBreaks appends n empty blocks to doc. A trailing list item
// continues as an empty item of the same kind.
func withTrailingBreaks(doc *document.Doc, n int) *document.Doc {
	if n == 0 {
		return doc
	}
	blocks := doc.Blocks()
	last := blocks[len(blocks)-1]
	next := document.Block{Kind: document.Paragraph}
	if last.Kind.IsListItem() {
		next = document.Block{Kind: last.Kind, Level: last.Level}
	}
	for i := 0; i < n; i++ {
		blocks = append(blocks, next)
	}
	return document.NewDoc(blocks...)
}

// ReplaceBeforeCursor replaces the text from start up to the selection
// start with text.
func (f *Field) ReplaceBeforeCursor(start int, text string) {
	f.InsertBetween(start, f.SelectionStart(), text)
}

// SetDisabled toggles user input on hosts that support it.
func (f *Field) SetDisabled(disabled bool) {
	if f.destroyed {
		return
	}
	if d, ok := f.host.(Disabler); ok {
		d.SetDisabled(disabled)
	}
}

// Undo reverts the last change on hosts with history.
func (f *Field) Undo() bool {
	h, ok := f.host.(History)
	if f.destroyed || !ok {
		return false
	}
	return h.Undo()
}

// Redo reapplies the last undone change on hosts with history.
func (f *Field) Redo() bool {
	h, ok := f.host.(History)
	if f.destroyed || !ok {
		return false
	}
	return h.Redo()
}
