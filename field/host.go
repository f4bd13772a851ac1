package field

import "github.com/iw2rmb/textfield/document"

// Host is the document view the field drives. document.View implements it.
type Host interface {
	State() *document.State
	Dispatch(tr *document.Transaction)
	Focus()
	Subscribe(fn document.Listener) (unsubscribe func())
}

// History is implemented by hosts with undo support.
type History interface {
	Undo() bool
	Redo() bool
}

// Disabler is implemented by hosts that can refuse user input.
type Disabler interface {
	SetDisabled(disabled bool)
	Disabled() bool
}

// Parser turns text into a document.
type Parser interface {
	Parse(text string) (*document.Doc, error)
}

// Serializer renders a document as the text handed to OnChange.
type Serializer interface {
	Serialize(doc *document.Doc) string
}
