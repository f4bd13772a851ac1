package document

import "go.uber.org/zap"

type Options struct {
	HistoryLimit int // default: 1000; negative disables history
	Logger       *zap.Logger
}

// Event is delivered to subscribers after the view's state changes.
type Event struct {
	Old         *State
	New         *State
	Change      Change
	Transaction *Transaction // nil for undo/redo
}

// Listener observes view state changes.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// View owns the current State of one editing session and applies
// transactions to it. It is not safe for concurrent use; the host drives it
// from a single goroutine.
type View struct {
	state *State
	opt   Options
	hist  historyState
	log   *zap.Logger

	subs   []subscription
	nextID int

	focused  bool
	disabled bool
}

func NewView(st *State, opt Options) *View {
	if st == nil {
		st = NewState(nil)
	}
	if opt.HistoryLimit == 0 {
		opt.HistoryLimit = 1000
	}
	log := opt.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &View{
		state: st,
		opt:   opt,
		log:   log.Named("view").With(zap.String("doc", st.ID())),
	}
}

func (v *View) State() *State { return v.state }

// Dispatch applies tr to the current state and notifies subscribers when
// anything changed.
func (v *View) Dispatch(tr *Transaction) {
	prev := v.state
	next, change := prev.Apply(tr)
	if next == prev {
		return
	}
	v.state = next

	if change.DocChanged() {
		if add, ok := tr.Meta(MetaAddToHistory); !ok || add != false {
			v.recordUndo(prev)
		}
		v.log.Debug("content changed",
			zap.Uint64("version", next.version),
			zap.Int("edits", len(change.AppliedEdits)))
	}
	v.emit(Event{Old: prev, New: next, Change: change, Transaction: tr})
}

// UpdateState replaces the state without notifying subscribers or touching
// history.
func (v *View) UpdateState(st *State) {
	if st == nil {
		return
	}
	v.state = st
}

// Subscribe registers fn and returns a function that removes it.
func (v *View) Subscribe(fn Listener) (unsubscribe func()) {
	v.nextID++
	id := v.nextID
	v.subs = append(v.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range v.subs {
			if s.id == id {
				v.subs = append(v.subs[:i:i], v.subs[i+1:]...)
				return
			}
		}
	}
}

func (v *View) emit(ev Event) {
	ev.Change = cloneChange(ev.Change)
	subs := append([]subscription(nil), v.subs...)
	for _, s := range subs {
		s.fn(ev)
	}
}

func (v *View) Focus()        { v.focused = true }
func (v *View) Blur()         { v.focused = false }
func (v *View) Focused() bool { return v.focused }

// SetDisabled marks the view read-only for user input. Programmatic
// dispatches still apply.
func (v *View) SetDisabled(disabled bool) { v.disabled = disabled }
func (v *View) Disabled() bool            { return v.disabled }
