package token

import "sort"

// DecorationKind distinguishes point widgets from inline ranges.
type DecorationKind uint8

const (
	// Widget is a view-only element anchored at one structural position.
	Widget DecorationKind = iota
	// Inline styles the structural range [From, To).
	Inline
)

// Side tells the view which way a widget leans relative to a cursor at the
// same position: SideBefore keeps it left of the cursor, so backspace from
// just after the token reaches it.
type Side int8

const (
	SideBefore Side = -1
	SideAfter  Side = 1
)

// Class names carried by decorations.
const (
	ClassIndent      = "lb-i"
	ClassBlank       = "lb-blank"
	ClassHidden      = "lbmf-tag-hidden"
	ClassCaretAnchor = "lb-caret-anchor"
)

// Decoration is presentation geometry for one overlay. It carries no
// rendering; the host view decides what a class looks like.
type Decoration struct {
	Kind            DecorationKind
	From            int // structural position
	To              int // equals From for widgets
	Side            Side
	Class           string
	Text            string // widget content, if any
	IgnoreSelection bool
}

func sortDecorations(decos []Decoration) {
	sort.SliceStable(decos, func(i, j int) bool {
		if decos[i].From != decos[j].From {
			return decos[i].From < decos[j].From
		}
		if decos[i].Kind != decos[j].Kind {
			return decos[i].Kind < decos[j].Kind
		}
		return decos[i].Side < decos[j].Side
	})
}
