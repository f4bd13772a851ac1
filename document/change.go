package document

// ChangeSource identifies where a change originated.
type ChangeSource uint8

const (
	ChangeSourceLocal ChangeSource = iota
	ChangeSourceHistory
	ChangeSourceReset
)

// AppliedEdit describes one effective text replacement. From and To are
// structural positions in the document the edit was applied to.
type AppliedEdit struct {
	From        int
	To          int
	InsertText  string
	DeletedText string
}

// Change is a normalized, versioned record of one applied transaction.
type Change struct {
	Source          ChangeSource
	VersionBefore   uint64
	VersionAfter    uint64
	SelectionBefore Selection
	SelectionAfter  Selection
	AppliedEdits    []AppliedEdit
}

// DocChanged reports whether the change altered document content.
func (c Change) DocChanged() bool { return c.VersionAfter != c.VersionBefore }

// SelectionChanged reports whether the selection moved.
func (c Change) SelectionChanged() bool { return c.SelectionBefore != c.SelectionAfter }

func cloneChange(in Change) Change {
	out := in
	out.AppliedEdits = append([]AppliedEdit(nil), in.AppliedEdits...)
	return out
}
