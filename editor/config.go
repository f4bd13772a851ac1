package editor

import "github.com/iw2rmb/textfield/field"

// Config configures the editor Model.
type Config struct {
	// Initial document text, parsed with Field.Parser.
	Text string

	// Field configures the underlying field. Its callbacks may run on a
	// timer goroutine; use Notify to turn OnChange into messages.
	Field field.Config

	// HistoryLimit is forwarded to document.Options.
	HistoryLimit int

	ShowLineNums bool
	ReadOnly     bool
	Style        Style
	KeyMap       KeyMap
}
