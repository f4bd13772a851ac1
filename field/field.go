// Package field exposes a document view through the string-indexed API of
// a plain text field: a value, a selection given as character offsets, and
// range replacement.
//
// Character offsets index the flattened text, where each block boundary
// counts as one "\n". Out-of-range offsets are clamped. Every method issues
// at most one transaction.
package field

import (
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/iw2rmb/textfield/compose"
	"github.com/iw2rmb/textfield/dedupe"
	"github.com/iw2rmb/textfield/document"
	"github.com/iw2rmb/textfield/notify"
	"github.com/iw2rmb/textfield/posmap"
	"github.com/iw2rmb/textfield/token"
)

// Event is delivered to Listen callbacks after every transaction the host
// applies.
type Event struct {
	State  *document.State
	Change document.Change
}

type listener struct {
	id uint64
	fn func(Event)
}

// Field is not safe for concurrent use, except that its timers run on the
// clock's goroutine and only touch internally synchronized parts.
type Field struct {
	host Host
	cfg  Config
	log  *zap.Logger

	mapper   posmap.Mapper
	tokens   *token.Engine
	guard    *compose.Guard
	filter   *dedupe.Filter
	notifier *notify.Notifier[*document.State]

	unsubscribe func()
	listeners   []listener
	nextID      uint64
	destroyed   bool
}

// New attaches a Field to host. The host must outlive the Field or be
// released with Destroy.
func New(host Host, cfg Config) *Field {
	cfg = cfg.withDefaults()
	f := &Field{
		host:   host,
		cfg:    cfg,
		log:    cfg.Logger.Named("field"),
		tokens: token.NewEngine(cfg.Syntax, cfg.Logger),
	}
	f.notifier = notify.New(f.emitChange, notify.Config{
		Window: cfg.Throttle,
		Clock:  cfg.Clock,
		Logger: cfg.Logger,
	})
	f.filter = dedupe.New(dedupe.Config{
		Window:     cfg.DedupeWindow,
		Classifier: cfg.Classifier,
		Clock:      cfg.Clock,
		Logger:     cfg.Logger,
	})
	f.guard = compose.New(compose.Config{
		Watchdog: cfg.Watchdog,
		Settle:   cfg.Settle,
		OnStart:  f.onCompositionStart,
		OnSettle: f.onCompositionSettle,
		Clock:    cfg.Clock,
		Logger:   cfg.Logger,
	})
	f.unsubscribe = host.Subscribe(f.onHostEvent)
	f.tokens.Result(host.State())
	return f
}

// Value returns the flattened text.
func (f *Field) Value() string {
	return f.mapper.Text(f.host.State())
}

// Len returns the length of Value in characters.
func (f *Field) Len() int {
	return f.mapper.Len(f.host.State())
}

// SetValue replaces the whole document with text parsed by the configured
// parser. Text that fails to parse is inserted literally instead.
func (f *Field) SetValue(text string) {
	if f.destroyed {
		return
	}
	st := f.host.State()
	tr := st.Tr()
	doc, err := f.cfg.Parser.Parse(text)
	if err != nil {
		f.log.Debug("value did not parse; inserting literally", zap.Error(err))
		from, to := f.mapper.Range(st, 0, f.mapper.Len(st))
		tr.InsertText(text, from, to)
	} else {
		tr.ReplaceDoc(doc)
	}
	f.host.Dispatch(tr)
	f.host.Focus()
}

// SelectionStart returns the selection start as a character offset.
func (f *Field) SelectionStart() int {
	st := f.host.State()
	return f.mapper.CharIndex(st, st.Selection().From())
}

// SelectionEnd returns the selection end as a character offset.
func (f *Field) SelectionEnd() int {
	st := f.host.State()
	return f.mapper.CharIndex(st, st.Selection().To())
}

// SetSelectionStart moves the selection start, pushing the end along if
// it would precede the start.
func (f *Field) SetSelectionStart(idx int) {
	end := f.SelectionEnd()
	if end < idx {
		end = idx
	}
	f.setSelection(idx, end)
}

// SetSelectionEnd moves the selection end, pulling the start along if it
// would follow the end.
func (f *Field) SetSelectionEnd(idx int) {
	start := f.SelectionStart()
	if start > idx {
		start = idx
	}
	f.setSelection(start, idx)
}

// SetSelectionRange selects [start, end) and focuses the host.
func (f *Field) SetSelectionRange(start, end int) {
	if f.destroyed {
		return
	}
	f.setSelection(start, end)
	f.host.Focus()
}

func (f *Field) setSelection(start, end int) {
	if f.destroyed {
		return
	}
	st := f.host.State()
	if start > end {
		start = end
	}
	f.host.Dispatch(st.Tr().SetSelection(f.mapper.Position(st, start), f.mapper.Position(st, end)))
}

// SetRangeText replaces the current selection with text and leaves the
// cursor after it.
func (f *Field) SetRangeText(text string) {
	if f.destroyed {
		return
	}
	st := f.host.State()
	sel := st.Selection()
	f.host.Dispatch(st.Tr().InsertText(text, sel.From(), sel.To()).CursorAfterInsert())
	f.host.Focus()
}

// SetRangeTextAt replaces the characters [start, end) with text. A cursor
// inside the replaced range ends up after the new text; a selection
// elsewhere is mapped through the edit.
func (f *Field) SetRangeTextAt(text string, start, end int) {
	if f.destroyed {
		return
	}
	st := f.host.State()
	from, to := f.mapper.Range(st, start, end)
	tr := st.Tr().InsertText(text, from, to)
	if sel := st.Selection(); sel.From() >= from && sel.To() <= to {
		tr.CursorAfterInsert()
	}
	f.host.Dispatch(tr)
	f.host.Focus()
}

// Focus focuses the host.
func (f *Field) Focus() {
	if f.destroyed {
		return
	}
	f.host.Focus()
}

// DispatchEvent accepts and ignores synthetic DOM-style events that
// callers of a plain text field send after editing it.
func (f *Field) DispatchEvent(any) bool { return true }

// Tokens returns the token analysis of the current document.
func (f *Field) Tokens() token.Result {
	return f.tokens.Result(f.host.State())
}

// Syntax returns the token syntax in use.
func (f *Field) Syntax() token.Syntax { return f.tokens.Syntax() }

// Composing reports whether an input method composition is in progress.
func (f *Field) Composing() bool { return f.guard.Active() }

// Listen registers fn for every transaction the host applies and returns
// a function that removes it.
func (f *Field) Listen(fn func(Event)) (unsubscribe func()) {
	f.nextID++
	id := f.nextID
	f.listeners = append(f.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range f.listeners {
			if l.id == id {
				f.listeners = append(f.listeners[:i:i], f.listeners[i+1:]...)
				return
			}
		}
	}
}

func (f *Field) onHostEvent(ev document.Event) {
	if f.destroyed {
		return
	}
	if ev.Change.DocChanged() {
		f.tokens.Result(ev.New)
		f.notifier.Schedule(ev.New)
	}
	for _, l := range append([]listener(nil), f.listeners...) {
		l.fn(Event{State: ev.New, Change: ev.Change})
	}
}

func (f *Field) emitChange(st *document.State) {
	if st == nil || f.cfg.OnChange == nil {
		return
	}
	f.cfg.OnChange(f.cfg.Serializer.Serialize(st.Doc()))
}

func (f *Field) onCompositionStart() {
	f.notifier.SetSuppressed(true)
	f.filter.Reset()
}

func (f *Field) onCompositionSettle() {
	f.notifier.SetSuppressed(false)
	f.notifier.Flush()
}

// runeBefore returns the character before idx, or 0 at the start.
func (f *Field) runeBefore(st *document.State, idx int) rune {
	if idx <= 0 {
		return 0
	}
	s := f.mapper.Slice(st, idx-1, idx)
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0
	}
	return r
}
