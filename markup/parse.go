// Package markup converts between Markdown text and document.Doc.
//
// The document model is flat: headings, paragraphs and list items are
// blocks; strong, emphasis and inline code are marks. Constructs the model
// cannot express are kept as their text content.
package markup

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/iw2rmb/textfield/document"
)

// ErrInvalidText is returned for input that is not valid UTF-8.
var ErrInvalidText = errors.New("markup: invalid UTF-8 text")

var md = goldmark.New()

// Parse parses Markdown source into a Doc. Line breaks inside a paragraph
// start a new block, so every source line keeps its own line in the
// flattened text.
func Parse(src string) (*document.Doc, error) {
	if !utf8.ValidString(src) {
		return nil, ErrInvalidText
	}
	if strings.TrimSpace(src) == "" {
		return document.FromText(""), nil
	}

	source := []byte(src)
	root := md.Parser().Parse(text.NewReader(source))

	b := &builder{source: source}
	err := ast.Walk(root, b.walk)
	if err != nil {
		return nil, err
	}
	b.flush()
	return document.NewDoc(b.blocks...), nil
}

type builder struct {
	source []byte
	blocks []document.Block

	cur    *document.Block
	kind   document.BlockKind
	level  int
	lists  []bool // ordered flag per open list
	strong int
	emph   int
	code   int
}

func (b *builder) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := n.(type) {
	case *ast.List:
		if entering {
			b.lists = append(b.lists, n.IsOrdered())
		} else {
			b.lists = b.lists[:len(b.lists)-1]
		}

	case *ast.Heading:
		if entering {
			b.open(document.Heading, n.Level)
		} else {
			b.flush()
		}

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			b.open(b.blockKind(), 0)
		} else {
			b.flush()
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		if entering {
			b.lines(n.Lines(), document.MarkCode)
		}
		return ast.WalkSkipChildren, nil

	case *ast.ThematicBreak:
		return ast.WalkSkipChildren, nil

	case *ast.Emphasis:
		d := 1
		if !entering {
			d = -1
		}
		if n.Level >= 2 {
			b.strong += d
		} else {
			b.emph += d
		}

	case *ast.CodeSpan:
		if entering {
			b.code++
		} else {
			b.code--
		}

	case *ast.Text:
		if !entering {
			break
		}
		v := n.Segment.Value(b.source)
		if b.code == 0 {
			v = util.ResolveEntityNames(util.ResolveNumericReferences(util.UnescapePunctuations(v)))
		}
		b.write(string(v))
		if n.SoftLineBreak() || n.HardLineBreak() {
			b.breakLine()
		}

	case *ast.String:
		if entering {
			b.write(string(n.Value))
		}

	case *ast.AutoLink:
		if entering {
			b.write(string(n.URL(b.source)))
		}
		return ast.WalkSkipChildren, nil

	case *ast.RawHTML:
		if entering {
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				b.write(string(seg.Value(b.source)))
			}
		}
		return ast.WalkSkipChildren, nil
	}
	return ast.WalkContinue, nil
}

func (b *builder) blockKind() document.BlockKind {
	if len(b.lists) == 0 {
		return document.Paragraph
	}
	if b.lists[len(b.lists)-1] {
		return document.OrderedItem
	}
	return document.BulletItem
}

func (b *builder) marks() document.Mark {
	var m document.Mark
	if b.strong > 0 {
		m |= document.MarkStrong
	}
	if b.emph > 0 {
		m |= document.MarkEmphasis
	}
	if b.code > 0 {
		m |= document.MarkCode
	}
	return m
}

func (b *builder) open(kind document.BlockKind, level int) {
	b.flush()
	b.kind = kind
	b.level = level
	b.cur = &document.Block{Kind: kind, Level: level}
}

func (b *builder) write(s string) {
	if s == "" {
		return
	}
	if b.cur == nil {
		b.open(b.blockKind(), 0)
	}
	b.cur.Spans = append(b.cur.Spans, document.Span{Text: s, Marks: b.marks()})
}

// breakLine continues the current block kind on a new block.
func (b *builder) breakLine() {
	kind, level := b.kind, b.level
	b.flush()
	b.open(kind, level)
}

func (b *builder) flush() {
	if b.cur == nil {
		return
	}
	b.blocks = append(b.blocks, *b.cur)
	b.cur = nil
}

func (b *builder) lines(segs *text.Segments, marks document.Mark) {
	if segs == nil {
		return
	}
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		line := strings.TrimRight(string(seg.Value(b.source)), "\r\n")
		b.open(document.Paragraph, 0)
		b.cur.Spans = append(b.cur.Spans, document.Span{Text: line, Marks: marks})
		b.flush()
	}
}
