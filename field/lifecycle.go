package field

// Submit flushes the current document to OnChange and calls OnSubmit.
func (f *Field) Submit() {
	if f.destroyed {
		return
	}
	f.notifier.ForceFlush(f.host.State())
	if f.cfg.OnSubmit != nil {
		f.cfg.OnSubmit()
	}
}

// Cancel flushes the current document to OnChange and calls OnCancel.
func (f *Field) Cancel() {
	if f.destroyed {
		return
	}
	f.notifier.ForceFlush(f.host.State())
	if f.cfg.OnCancel != nil {
		f.cfg.OnCancel()
	}
}

// Destroy flushes the current document once, stops every timer and
// detaches from the host. Later calls on the Field are no-ops.
func (f *Field) Destroy() {
	if f.destroyed {
		return
	}
	f.destroyed = true
	f.notifier.Close(f.host.State())
	f.guard.Stop()
	if f.unsubscribe != nil {
		f.unsubscribe()
		f.unsubscribe = nil
	}
	f.listeners = nil
	f.log.Debug("field destroyed")
}
