package token

// Direction is the direction of a deletion key.
type Direction uint8

const (
	Backward Direction = iota // backspace
	Forward                   // delete
)

func (d Direction) String() string {
	if d == Forward {
		return "forward"
	}
	return "backward"
}

// Deletion returns the region a deletion from caret should remove as a
// unit. Backspace matches a caret sitting right after a single token or a
// paired region's close; delete matches a caret right before a single
// token or a paired region's open. Single tokens win over pairs.
func (r Result) Deletion(caret int, dir Direction) (Region, bool) {
	for _, s := range r.Singles {
		if (dir == Backward && caret == s.End) || (dir == Forward && caret == s.Start) {
			return Region{Start: s.Start, End: s.End}, true
		}
	}
	for _, p := range r.Pairs {
		if (dir == Backward && caret == p.CloseEnd) || (dir == Forward && caret == p.OpenStart) {
			return Region{Start: p.OpenStart, End: p.CloseEnd}, true
		}
	}
	return Region{}, false
}
