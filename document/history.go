package document

type historyState struct {
	undo []*State
	redo []*State
}

func (v *View) recordUndo(prev *State) {
	limit := v.opt.HistoryLimit
	if limit <= 0 {
		return
	}

	v.hist.undo = append(v.hist.undo, prev)
	if len(v.hist.undo) > limit {
		v.hist.undo = v.hist.undo[len(v.hist.undo)-limit:]
	}
	v.hist.redo = nil
}

func (v *View) CanUndo() bool { return len(v.hist.undo) > 0 }

func (v *View) CanRedo() bool { return len(v.hist.redo) > 0 }

// Undo restores the state before the last recorded content change.
func (v *View) Undo() bool {
	if len(v.hist.undo) == 0 {
		return false
	}

	i := len(v.hist.undo) - 1
	prev := v.hist.undo[i]
	v.hist.undo = v.hist.undo[:i]
	v.hist.redo = append(v.hist.redo, v.state)

	v.restore(prev)
	return true
}

// Redo reapplies the last undone change.
func (v *View) Redo() bool {
	if len(v.hist.redo) == 0 {
		return false
	}

	i := len(v.hist.redo) - 1
	next := v.hist.redo[i]
	v.hist.redo = v.hist.redo[:i]

	limit := v.opt.HistoryLimit
	if limit > 0 {
		v.hist.undo = append(v.hist.undo, v.state)
		if len(v.hist.undo) > limit {
			v.hist.undo = v.hist.undo[len(v.hist.undo)-limit:]
		}
	}

	v.restore(next)
	return true
}

// restore swaps in a historical snapshot as a new content version so that
// version-keyed caches downstream never mistake it for the current one.
func (v *View) restore(target *State) {
	cur := v.state
	next := &State{
		id:         cur.id,
		doc:        target.doc,
		sel:        target.sel,
		version:    cur.version + 1,
		selVersion: cur.selVersion + 1,
	}
	change := Change{
		Source:          ChangeSourceHistory,
		VersionBefore:   cur.version,
		VersionAfter:    next.version,
		SelectionBefore: cur.sel,
		SelectionAfter:  next.sel,
		AppliedEdits: []AppliedEdit{{
			From:        0,
			To:          cur.doc.Size(),
			InsertText:  next.doc.Text(),
			DeletedText: cur.doc.Text(),
		}},
	}
	v.state = next
	v.emit(Event{Old: cur, New: next, Change: change})
}
