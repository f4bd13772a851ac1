package document

import "unicode/utf8"

// BlockKind identifies the structural role of a block.
type BlockKind uint8

const (
	Paragraph BlockKind = iota
	Heading
	BulletItem
	OrderedItem
)

func (k BlockKind) String() string {
	switch k {
	case Paragraph:
		return "paragraph"
	case Heading:
		return "heading"
	case BulletItem:
		return "bullet_item"
	case OrderedItem:
		return "ordered_item"
	default:
		return "unknown"
	}
}

// IsListItem reports whether blocks of this kind continue a list when split.
func (k BlockKind) IsListItem() bool {
	return k == BulletItem || k == OrderedItem
}

// Mark is a bit set of inline formatting marks.
type Mark uint8

const (
	MarkStrong Mark = 1 << iota
	MarkEmphasis
	MarkCode
)

// Has reports whether all bits of o are set in m.
func (m Mark) Has(o Mark) bool { return m&o == o }

// Span is a run of text sharing one set of marks.
type Span struct {
	Text  string
	Marks Mark
}

// Block is a text block: a paragraph, heading or list item.
//
// Level is the heading level (1..6) for headings and the nesting depth
// (0-based) for list items.
type Block struct {
	Kind  BlockKind
	Level int
	Spans []Span
}

// Text returns the concatenated text of all spans.
func (b Block) Text() string {
	if len(b.Spans) == 1 {
		return b.Spans[0].Text
	}
	n := 0
	for _, s := range b.Spans {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range b.Spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}

// Len returns the rune length of the block content.
func (b Block) Len() int {
	n := 0
	for _, s := range b.Spans {
		n += utf8.RuneCountInString(s.Text)
	}
	return n
}

// nodeSize is the number of structural positions the block occupies:
// one for the opening boundary, its content, one for the closing boundary.
func (b Block) nodeSize() int { return b.Len() + 2 }

// Selection is an anchor/head pair of structural positions.
type Selection struct {
	Anchor int
	Head   int
}

// Cursor returns an empty selection at pos.
func Cursor(pos int) Selection { return Selection{Anchor: pos, Head: pos} }

// From returns the smaller end of the selection.
func (s Selection) From() int {
	if s.Anchor < s.Head {
		return s.Anchor
	}
	return s.Head
}

// To returns the larger end of the selection.
func (s Selection) To() int {
	if s.Anchor > s.Head {
		return s.Anchor
	}
	return s.Head
}

func (s Selection) Empty() bool { return s.Anchor == s.Head }

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
