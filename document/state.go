package document

import "github.com/google/uuid"

// State is an immutable document snapshot: content, selection and versions.
//
// Version changes only when content changes; SelectionVersion changes when
// either content or selection does. ID identifies the editing session and
// is carried over by Apply.
type State struct {
	id         string
	doc        *Doc
	sel        Selection
	version    uint64
	selVersion uint64
}

// NewState returns a fresh state for doc with the cursor at its start.
func NewState(doc *Doc) *State {
	if doc == nil {
		doc = NewDoc()
	}
	return &State{
		id:  uuid.NewString(),
		doc: doc,
		sel: Cursor(doc.Start()),
	}
}

func (s *State) ID() string               { return s.id }
func (s *State) Doc() *Doc                { return s.doc }
func (s *State) Selection() Selection     { return s.sel }
func (s *State) Version() uint64          { return s.version }
func (s *State) SelectionVersion() uint64 { return s.selVersion }

// Size returns the document's structural size.
func (s *State) Size() int { return s.doc.Size() }

// TextBetween projects the structural range [from, to) to flat text.
func (s *State) TextBetween(from, to int, sep string) string {
	return s.doc.TextBetween(from, to, sep)
}

// Tr starts a transaction against s.
func (s *State) Tr() *Transaction { return &Transaction{base: s} }

// Apply runs tr and returns the resulting state and change record. It panics
// if tr was built against another state: positions would be meaningless.
func (s *State) Apply(tr *Transaction) (*State, Change) {
	if tr.base != s {
		panic("document: transaction applied to a state it was not built against")
	}

	change := Change{
		Source:          ChangeSourceLocal,
		VersionBefore:   s.version,
		VersionAfter:    s.version,
		SelectionBefore: s.sel,
	}

	doc, sel := s.doc, s.sel
	docChanged := false
	insertEnd := -1
	for _, st := range tr.steps {
		switch st.kind {
		case stepReplaceText, stepReplaceBlocks:
			var (
				next       *Doc
				edit       AppliedEdit
				insertSize int
				ok         bool
			)
			if st.kind == stepReplaceText {
				next, edit, insertSize, ok = doc.replace(st.from, st.to, st.text)
			} else {
				next, edit, insertSize, ok = doc.replaceBlocks(st.from, st.to, st.doc)
			}
			if !ok {
				insertEnd = doc.Normalize(max(st.from, st.to))
				continue
			}
			insertEnd = edit.From + insertSize
			sel = Selection{
				Anchor: mapPos(sel.Anchor, edit.From, edit.To, insertSize),
				Head:   mapPos(sel.Head, edit.From, edit.To, insertSize),
			}
			doc = next
			docChanged = true
			change.AppliedEdits = append(change.AppliedEdits, edit)
		case stepReplaceDoc:
			if doc.Equal(st.doc) {
				continue
			}
			change.AppliedEdits = append(change.AppliedEdits, AppliedEdit{
				From:        0,
				To:          doc.Size(),
				InsertText:  st.doc.Text(),
				DeletedText: doc.Text(),
			})
			doc = st.doc
			sel = Cursor(doc.Start())
			insertEnd = -1
			docChanged = true
		case stepSetSelection:
			sel = Selection{Anchor: st.anchor, Head: st.head}
		case stepCollapse:
			sel = Cursor(sel.To())
		case stepCursorAfterInsert:
			if insertEnd >= 0 {
				sel = Cursor(insertEnd)
			}
		}
		sel = Selection{Anchor: doc.Normalize(sel.Anchor), Head: doc.Normalize(sel.Head)}
	}

	if !docChanged && sel == s.sel {
		change.SelectionAfter = s.sel
		return s, change
	}

	next := &State{
		id:         s.id,
		doc:        doc,
		sel:        sel,
		version:    s.version,
		selVersion: s.selVersion + 1,
	}
	if docChanged {
		next.version++
	}
	change.VersionAfter = next.version
	change.SelectionAfter = next.sel
	return next, change
}

// mapPos maps pos through the replacement of [from, to) by insertSize
// structural positions. Positions at or after to shift; positions inside
// the replaced range move to the end of the insertion.
func mapPos(pos, from, to, insertSize int) int {
	switch {
	case pos >= to:
		return pos + insertSize - (to - from)
	case pos <= from:
		return pos
	default:
		return from + insertSize
	}
}
