package document

import (
	"strings"
	"unicode/utf8"
)

// BlockSeparator is the character a block boundary contributes to the
// flattened projection.
const BlockSeparator = "\n"

// Doc is an immutable, non-empty sequence of text blocks.
//
// Structural positions follow the block layout: block i starting at
// position s occupies [s, s+Len+2); its content spans (s, s+1+Len].
type Doc struct {
	blocks []Block
	size   int
}

// NewDoc builds a Doc from blocks. The input is copied; spans are
// normalized and an empty input yields one empty paragraph.
func NewDoc(blocks ...Block) *Doc {
	out := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, Block{Kind: b.Kind, Level: b.Level, Spans: normalizeSpans(b.Spans)})
	}
	if len(out) == 0 {
		out = append(out, Block{Kind: Paragraph})
	}
	return newDocNoCopy(out)
}

func newDocNoCopy(blocks []Block) *Doc {
	size := 0
	for _, b := range blocks {
		size += b.nodeSize()
	}
	return &Doc{blocks: blocks, size: size}
}

// FromText builds a Doc of plain paragraphs, one per line of text.
func FromText(text string) *Doc {
	lines := strings.Split(text, "\n")
	blocks := make([]Block, 0, len(lines))
	for _, line := range lines {
		blocks = append(blocks, Block{Kind: Paragraph, Spans: []Span{{Text: line}}})
	}
	return NewDoc(blocks...)
}

// Size returns the number of structural positions in the document content.
func (d *Doc) Size() int { return d.size }

// BlockCount returns the number of blocks.
func (d *Doc) BlockCount() int { return len(d.blocks) }

// Block returns a copy of block i.
func (d *Doc) Block(i int) Block {
	b := d.blocks[i]
	b.Spans = append([]Span(nil), b.Spans...)
	return b
}

// Blocks returns a copy of all blocks.
func (d *Doc) Blocks() []Block {
	out := make([]Block, len(d.blocks))
	for i := range d.blocks {
		out[i] = d.Block(i)
	}
	return out
}

// BlockStart returns the structural position of block i's opening boundary.
func (d *Doc) BlockStart(i int) int {
	pos := 0
	for j := 0; j < i && j < len(d.blocks); j++ {
		pos += d.blocks[j].nodeSize()
	}
	return pos
}

// Text returns the flattened projection of the whole document.
func (d *Doc) Text() string {
	return d.TextBetween(0, d.size, BlockSeparator)
}

// TextBetween returns the text of the structural range [from, to). Every
// block touched by the range after the first contributes sep before its
// own text, including empty blocks.
func (d *Doc) TextBetween(from, to int, sep string) string {
	from = clampInt(from, 0, d.size)
	to = clampInt(to, 0, d.size)
	if from >= to {
		return ""
	}

	var sb strings.Builder
	first := true
	start := 0
	for _, b := range d.blocks {
		end := start + b.nodeSize()
		if start >= to {
			break
		}
		if end > from {
			if first {
				first = false
			} else {
				sb.WriteString(sep)
			}
			n := b.Len()
			a := clampInt(from-start-1, 0, n)
			z := clampInt(to-start-1, 0, n)
			if a < z {
				sb.WriteString(runeSlice(b.Text(), a, z))
			}
		}
		start = end
	}
	return sb.String()
}

// Resolve maps a structural position to a block index and a rune offset
// inside that block. Positions on a boundary between blocks resolve to the
// start of the following block; the document end resolves to the end of
// the last block.
func (d *Doc) Resolve(pos int) (block, offset int) {
	pos = clampInt(pos, 0, d.size)
	start := 0
	for i, b := range d.blocks {
		n := b.Len()
		if pos <= start {
			return i, 0
		}
		if pos <= start+1+n {
			return i, pos - start - 1
		}
		start += n + 2
	}
	last := len(d.blocks) - 1
	return last, d.blocks[last].Len()
}

// PosAt returns the structural position of rune offset offset in block.
func (d *Doc) PosAt(block, offset int) int {
	block = clampInt(block, 0, len(d.blocks)-1)
	offset = clampInt(offset, 0, d.blocks[block].Len())
	return d.BlockStart(block) + 1 + offset
}

// Normalize snaps pos to the nearest position inside block content.
func (d *Doc) Normalize(pos int) int {
	b, off := d.Resolve(pos)
	return d.PosAt(b, off)
}

// Start returns the first content position.
func (d *Doc) Start() int { return 1 }

// End returns the last content position.
func (d *Doc) End() int { return d.size - 1 }

// Equal reports whether both documents have the same blocks and marks.
func (d *Doc) Equal(o *Doc) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil || len(d.blocks) != len(o.blocks) {
		return false
	}
	for i := range d.blocks {
		a, b := d.blocks[i], o.blocks[i]
		if a.Kind != b.Kind || a.Level != b.Level || len(a.Spans) != len(b.Spans) {
			return false
		}
		for j := range a.Spans {
			if a.Spans[j] != b.Spans[j] {
				return false
			}
		}
	}
	return true
}

// replace swaps the structural range [from, to) for text, splitting text on
// newlines into blocks. It returns the new document, the resolved range,
// the structural size of the inserted content, and false when nothing
// changed.
func (d *Doc) replace(from, to int, text string) (next *Doc, edit AppliedEdit, insertSize int, changed bool) {
	bi, oi, bj, oj := d.resolveRange(from, to)
	from, to = d.PosAt(bi, oi), d.PosAt(bj, oj)

	deleted := d.TextBetween(from, to, BlockSeparator)
	if deleted == text {
		return d, AppliedEdit{}, 0, false
	}

	first, last := d.blocks[bi], d.blocks[bj]
	marks := marksAt(first.Spans, oi)
	prefix := sliceSpans(first.Spans, 0, oi)
	suffix := sliceSpans(last.Spans, oj, last.Len())

	parts := strings.Split(text, "\n")
	repl := make([]Block, 0, len(parts))
	for i, part := range parts {
		b := Block{Kind: first.Kind, Level: first.Level}
		if i > 0 && !first.Kind.IsListItem() {
			b = Block{Kind: Paragraph}
		}
		var spans []Span
		if i == 0 {
			spans = append(spans, prefix...)
		}
		spans = append(spans, Span{Text: part, Marks: marks})
		if i == len(parts)-1 {
			spans = append(spans, suffix...)
		}
		b.Spans = normalizeSpans(spans)
		repl = append(repl, b)
	}

	blocks := make([]Block, 0, len(d.blocks)-(bj-bi)+len(repl)-1)
	blocks = append(blocks, d.blocks[:bi]...)
	blocks = append(blocks, repl...)
	blocks = append(blocks, d.blocks[bj+1:]...)

	insertSize = utf8.RuneCountInString(text) + len(parts) - 1
	edit = AppliedEdit{From: from, To: to, InsertText: text, DeletedText: deleted}
	return newDocNoCopy(blocks), edit, insertSize, true
}

func (d *Doc) resolveRange(from, to int) (bi, oi, bj, oj int) {
	if from > to {
		from, to = to, from
	}
	bi, oi = d.Resolve(from)
	bj, oj = d.Resolve(to)
	if bj < bi || (bj == bi && oj < oi) {
		bj, oj = bi, oi
	}
	return bi, oi, bj, oj
}

// replaceBlocks swaps the structural range [from, to) for the blocks of
// frag, keeping their kinds and marks. The first fragment block joins the
// text before from and the last one takes the text after to, so a
// one-block fragment is an inline insertion. The first block keeps the
// kind of the block it lands in unless that block is empty.
func (d *Doc) replaceBlocks(from, to int, frag *Doc) (next *Doc, edit AppliedEdit, insertSize int, changed bool) {
	bi, oi, bj, oj := d.resolveRange(from, to)
	from, to = d.PosAt(bi, oi), d.PosAt(bj, oj)

	first, last := d.blocks[bi], d.blocks[bj]
	prefix := sliceSpans(first.Spans, 0, oi)
	suffix := sliceSpans(last.Spans, oj, last.Len())

	repl := make([]Block, 0, len(frag.blocks))
	for i, fb := range frag.blocks {
		b := Block{Kind: fb.Kind, Level: fb.Level}
		if i == 0 && first.Len() > 0 {
			b.Kind, b.Level = first.Kind, first.Level
		}
		var spans []Span
		if i == 0 {
			spans = append(spans, prefix...)
		}
		spans = append(spans, fb.Spans...)
		if i == len(frag.blocks)-1 {
			spans = append(spans, suffix...)
		}
		b.Spans = normalizeSpans(spans)
		repl = append(repl, b)
		insertSize += fb.Len()
	}
	insertSize += 2 * (len(frag.blocks) - 1)

	blocks := make([]Block, 0, len(d.blocks)-(bj-bi)+len(repl)-1)
	blocks = append(blocks, d.blocks[:bi]...)
	blocks = append(blocks, repl...)
	blocks = append(blocks, d.blocks[bj+1:]...)

	next = newDocNoCopy(blocks)
	if next.Equal(d) {
		return d, AppliedEdit{}, 0, false
	}
	edit = AppliedEdit{
		From:        from,
		To:          to,
		InsertText:  frag.Text(),
		DeletedText: d.TextBetween(from, to, BlockSeparator),
	}
	return next, edit, insertSize, true
}
