package document

type stepKind uint8

const (
	stepReplaceText stepKind = iota
	stepReplaceDoc
	stepSetSelection
	stepCollapse
	stepCursorAfterInsert
	stepReplaceBlocks
)

type step struct {
	kind   stepKind
	from   int
	to     int
	text   string
	doc    *Doc
	anchor int
	head   int
}

// Transaction describes edits against one State. Steps apply in order and
// each step's positions refer to the document produced by the steps before
// it.
type Transaction struct {
	base  *State
	steps []step
	meta  map[string]any
}

// InsertText replaces the structural range [from, to) with text. Newlines
// in text split blocks.
func (tr *Transaction) InsertText(text string, from, to int) *Transaction {
	tr.steps = append(tr.steps, step{kind: stepReplaceText, from: from, to: to, text: text})
	return tr
}

// InsertDoc replaces the structural range [from, to) with the blocks of
// frag, keeping their kinds and marks.
func (tr *Transaction) InsertDoc(frag *Doc, from, to int) *Transaction {
	if frag == nil {
		frag = NewDoc()
	}
	tr.steps = append(tr.steps, step{kind: stepReplaceBlocks, from: from, to: to, doc: frag})
	return tr
}

// Delete removes the structural range [from, to).
func (tr *Transaction) Delete(from, to int) *Transaction {
	return tr.InsertText("", from, to)
}

// ReplaceDoc swaps the whole document and puts the cursor at its start.
func (tr *Transaction) ReplaceDoc(doc *Doc) *Transaction {
	if doc == nil {
		doc = NewDoc()
	}
	tr.steps = append(tr.steps, step{kind: stepReplaceDoc, doc: doc})
	return tr
}

// SetSelection sets the selection; positions snap into block content.
func (tr *Transaction) SetSelection(anchor, head int) *Transaction {
	tr.steps = append(tr.steps, step{kind: stepSetSelection, anchor: anchor, head: head})
	return tr
}

// CollapseSelection collapses the selection to its far end. After an
// InsertText over the selected range this leaves the cursor after the
// inserted text.
func (tr *Transaction) CollapseSelection() *Transaction {
	tr.steps = append(tr.steps, step{kind: stepCollapse})
	return tr
}

// CursorAfterInsert puts a cursor right after the content inserted by the
// most recent InsertText or InsertDoc step. Without one it does nothing.
func (tr *Transaction) CursorAfterInsert() *Transaction {
	tr.steps = append(tr.steps, step{kind: stepCursorAfterInsert})
	return tr
}

// SetMeta attaches metadata for listeners.
func (tr *Transaction) SetMeta(key string, v any) *Transaction {
	if tr.meta == nil {
		tr.meta = make(map[string]any)
	}
	tr.meta[key] = v
	return tr
}

// Meta returns metadata set with SetMeta.
func (tr *Transaction) Meta(key string) (any, bool) {
	v, ok := tr.meta[key]
	return v, ok
}

// Base returns the state the transaction was built against.
func (tr *Transaction) Base() *State { return tr.base }

// Empty reports whether the transaction has no steps.
func (tr *Transaction) Empty() bool { return len(tr.steps) == 0 }

// MetaAddToHistory set to false keeps a transaction out of undo history.
const MetaAddToHistory = "addToHistory"
