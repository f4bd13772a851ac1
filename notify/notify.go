// Package notify throttles outward change notifications.
//
// At most one notification is emitted per window. Snapshots scheduled while
// the window is closed are coalesced: the trailing emission carries only the
// latest one. A forced flush emits at once and cancels the pending timer.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iw2rmb/textfield/internal/clock"
)

const DefaultWindow = 250 * time.Millisecond

type Config struct {
	Window time.Duration // default: DefaultWindow
	Clock  clock.Clock   // default: clock.Real()
	Logger *zap.Logger
}

// Notifier emits snapshots of type S to a callback with bounded frequency.
//
// Methods are safe for concurrent use; timer callbacks run on the clock's
// goroutine. Emissions are delivered one at a time and in the order they were
// taken; one overtaken by a newer emission while waiting is dropped, so the
// last snapshot delivered is always the newest. The callback may call
// Schedule but must not call Flush, ForceFlush or Close synchronously.
type Notifier[S any] struct {
	mu     sync.Mutex
	emitMu sync.Mutex // held across the callback
	window time.Duration
	clock  clock.Clock
	log    *zap.Logger
	emit   func(S)

	latest        S
	pending       bool
	suppressed    bool
	timer         clock.Timer
	seq           uint64
	lastEmittedAt time.Time
	closed        bool
	emissions     uint64
	emitSeq       uint64
	delivering    bool
}

// New returns a Notifier. The throttle baseline starts now, so snapshots
// scheduled within the first window are coalesced as well.
func New[S any](emit func(S), cfg Config) *Notifier[S] {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Notifier[S]{
		window:        cfg.Window,
		clock:         cfg.Clock,
		log:           cfg.Logger.Named("notify"),
		emit:          emit,
		lastEmittedAt: cfg.Clock.Now(),
	}
}

// Schedule records snap as the latest state and emits it now if the window
// since the last emission has passed; otherwise it makes sure one timer is
// armed for the rest of the window.
func (n *Notifier[S]) Schedule(snap S) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.latest = snap
	n.pending = true
	if n.suppressed {
		n.mu.Unlock()
		return
	}

	elapsed := n.clock.Now().Sub(n.lastEmittedAt)
	if elapsed >= n.window && !n.delivering {
		n.emitLocked("immediate")
		return
	}
	if n.timer == nil {
		n.armLocked(max(n.window-elapsed, 0))
	}
	n.mu.Unlock()
}

// Flush emits the latest snapshot if one is pending.
func (n *Notifier[S]) Flush() {
	n.mu.Lock()
	if n.closed || !n.pending {
		n.mu.Unlock()
		return
	}
	n.emitLocked("flush")
}

// ForceFlush cancels any pending timer and emits snap immediately, even if
// nothing was pending. Use it before commit-like actions.
func (n *Notifier[S]) ForceFlush(snap S) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.latest = snap
	n.emitLocked("force")
}

// SetSuppressed toggles suppression. While suppressed, schedules and timer
// fires only remember the latest snapshot; lifting suppression does not
// emit by itself.
func (n *Notifier[S]) SetSuppressed(suppressed bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.suppressed = suppressed
}

// Pending reports whether a snapshot is waiting to be emitted.
func (n *Notifier[S]) Pending() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pending
}

// Emissions returns the number of delivered notifications.
func (n *Notifier[S]) Emissions() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.emissions
}

// Close force-flushes snap once and stops the notifier. Later calls to any
// method are no-ops.
func (n *Notifier[S]) Close(snap S) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.latest = snap
	n.closed = true
	n.emitLocked("close")
}

func (n *Notifier[S]) armLocked(d time.Duration) {
	n.seq++
	seq := n.seq
	n.timer = n.clock.AfterFunc(d, func() { n.fire(seq) })
	n.log.Debug("notification armed", zap.Duration("in", d))
}

func (n *Notifier[S]) fire(seq uint64) {
	n.mu.Lock()
	if seq != n.seq {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	if n.closed || n.suppressed || !n.pending {
		n.mu.Unlock()
		return
	}
	n.emitLocked("trailing")
}

func (n *Notifier[S]) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.seq++
}

// emitLocked must be called with n.mu held; it releases the lock before
// invoking the callback.
func (n *Notifier[S]) emitLocked(reason string) {
	n.stopTimerLocked()
	snap := n.latest
	n.pending = false
	n.lastEmittedAt = n.clock.Now()
	n.emitSeq++
	seq := n.emitSeq
	n.mu.Unlock()

	n.emitMu.Lock()
	defer n.emitMu.Unlock()

	n.mu.Lock()
	if seq != n.emitSeq {
		n.mu.Unlock()
		n.log.Debug("notification overtaken", zap.String("reason", reason))
		return
	}
	n.emissions++
	n.delivering = true
	emit := n.emit
	n.mu.Unlock()

	n.log.Debug("notification emitted", zap.String("reason", reason))
	if emit != nil {
		emit(snap)
	}

	n.mu.Lock()
	n.delivering = false
	n.mu.Unlock()
}
