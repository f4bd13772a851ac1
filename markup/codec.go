package markup

import (
	"unicode/utf8"

	"github.com/iw2rmb/textfield/document"
)

// Codec parses and serializes Markdown.
type Codec struct{}

func (Codec) Parse(src string) (*document.Doc, error) { return Parse(src) }
func (Codec) Serialize(doc *document.Doc) string      { return Serialize(doc) }

// Plain maps text to plain paragraphs, one per line, and back.
type Plain struct{}

func (Plain) Parse(src string) (*document.Doc, error) {
	if !utf8.ValidString(src) {
		return nil, ErrInvalidText
	}
	return document.FromText(src), nil
}

func (Plain) Serialize(doc *document.Doc) string { return doc.Text() }
