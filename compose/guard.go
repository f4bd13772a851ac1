// Package compose tracks IME composition sessions.
//
// While a session is active, content changes still apply but outward change
// notifications are held back. Ending a session, normally or through the
// watchdog, schedules one settle callback after a short delay so the host
// can finish committing the composed text first.
package compose

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/iw2rmb/textfield/internal/clock"
)

const (
	DefaultWatchdog = 10 * time.Second
	DefaultSettle   = 30 * time.Millisecond
)

// State is the guard's state.
type State uint8

const (
	Idle State = iota
	Composing
)

func (s State) String() string {
	if s == Composing {
		return "composing"
	}
	return "idle"
}

type Config struct {
	// Watchdog bounds a session whose end event never arrives.
	Watchdog time.Duration
	// Settle delays the settle callback after a session ends.
	Settle time.Duration

	// OnStart runs when the guard leaves Idle.
	OnStart func()
	// OnSettle runs once per ended session, Settle after the end.
	OnSettle func()

	Clock  clock.Clock
	Logger *zap.Logger
}

// Session describes the current or most recent composition session.
type Session struct {
	Active    bool
	StartedAt time.Time
	EndedAt   time.Time
}

// Guard is the composition state machine:
//
//	Idle --Start--> Composing --End or watchdog--> Idle (+ settle)
//
// Methods are safe for concurrent use; hooks run without the lock held.
type Guard struct {
	mu  sync.Mutex
	cfg Config
	log *zap.Logger

	state     State
	startedAt time.Time
	endedAt   time.Time

	watchdog    clock.Timer
	watchdogSeq uint64
	settle      clock.Timer
	settleSeq   uint64

	stopped bool
}

func New(cfg Config) *Guard {
	if cfg.Watchdog <= 0 {
		cfg.Watchdog = DefaultWatchdog
	}
	if cfg.Settle <= 0 {
		cfg.Settle = DefaultSettle
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.Real()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Guard{cfg: cfg, log: cfg.Logger.Named("compose")}
}

// Start begins a session. Starting while composing only re-arms the
// watchdog. A pending settle from a previous session is cancelled: the new
// session's end will settle instead.
func (g *Guard) Start() {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return
	}
	g.cancelSettleLocked()
	entered := g.state == Idle
	if entered {
		g.state = Composing
		g.startedAt = g.cfg.Clock.Now()
	}
	g.armWatchdogLocked()
	onStart := g.cfg.OnStart
	g.mu.Unlock()

	if entered {
		g.log.Debug("composition started")
		if onStart != nil {
			onStart()
		}
	}
}

// End finishes the active session. It is a no-op while idle.
func (g *Guard) End() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped || g.state != Composing {
		return
	}
	g.finishLocked()
	g.log.Debug("composition ended", zap.Duration("took", g.endedAt.Sub(g.startedAt)))
}

// Active reports whether a session is in progress.
func (g *Guard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state == Composing
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Settling reports whether a settle callback is scheduled.
func (g *Guard) Settling() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.settle != nil
}

// Session returns the current or last session.
func (g *Guard) Session() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return Session{Active: g.state == Composing, StartedAt: g.startedAt, EndedAt: g.endedAt}
}

// Stop cancels every timer and makes later calls no-ops. No settle
// callback runs after Stop returns.
func (g *Guard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.stopped = true
	g.state = Idle
	g.cancelWatchdogLocked()
	g.cancelSettleLocked()
}

func (g *Guard) finishLocked() {
	g.cancelWatchdogLocked()
	g.state = Idle
	g.endedAt = g.cfg.Clock.Now()
	g.cancelSettleLocked()

	seq := g.settleSeq
	g.settle = g.cfg.Clock.AfterFunc(g.cfg.Settle, func() { g.fireSettle(seq) })
}

func (g *Guard) armWatchdogLocked() {
	g.cancelWatchdogLocked()
	seq := g.watchdogSeq
	g.watchdog = g.cfg.Clock.AfterFunc(g.cfg.Watchdog, func() { g.fireWatchdog(seq) })
}

func (g *Guard) cancelWatchdogLocked() {
	if g.watchdog != nil {
		g.watchdog.Stop()
		g.watchdog = nil
	}
	g.watchdogSeq++
}

func (g *Guard) cancelSettleLocked() {
	if g.settle != nil {
		g.settle.Stop()
		g.settle = nil
	}
	g.settleSeq++
}

func (g *Guard) fireWatchdog(seq uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stopped || seq != g.watchdogSeq || g.state != Composing {
		return
	}
	g.watchdog = nil
	g.finishLocked()
	g.log.Warn("composition end never arrived; forcing end",
		zap.Duration("watchdog", g.cfg.Watchdog))
}

func (g *Guard) fireSettle(seq uint64) {
	g.mu.Lock()
	if g.stopped || seq != g.settleSeq {
		g.mu.Unlock()
		return
	}
	g.settle = nil
	onSettle := g.cfg.OnSettle
	g.mu.Unlock()

	g.log.Debug("composition settled")
	if onSettle != nil {
		onSettle()
	}
}
