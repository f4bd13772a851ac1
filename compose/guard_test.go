package compose

import (
	"testing"
	"time"

	"github.com/iw2rmb/textfield/internal/clock"
)

type hooks struct {
	starts  int
	settles int
}

func newTestGuard() (*Guard, *hooks, *clock.Fake) {
	c := clock.NewFake(time.Unix(0, 0))
	h := &hooks{}
	g := New(Config{
		Watchdog: time.Second,
		Settle:   30 * time.Millisecond,
		OnStart:  func() { h.starts++ },
		OnSettle: func() { h.settles++ },
		Clock:    c,
	})
	return g, h, c
}

func TestGuard_StartEndSettles(t *testing.T) {
	g, h, c := newTestGuard()

	g.Start()
	if !g.Active() || g.State() != Composing {
		t.Fatalf("state after Start: %v", g.State())
	}
	if h.starts != 1 {
		t.Fatalf("OnStart calls: got %d, want 1", h.starts)
	}

	c.Advance(100 * time.Millisecond)
	g.End()
	if g.Active() {
		t.Fatalf("still active after End")
	}
	if !g.Settling() {
		t.Fatalf("settle not scheduled after End")
	}
	c.Advance(29 * time.Millisecond)
	if h.settles != 0 {
		t.Fatalf("settled early")
	}
	c.Advance(time.Millisecond)
	if h.settles != 1 {
		t.Fatalf("OnSettle calls: got %d, want 1", h.settles)
	}
	if c.Pending() != 0 {
		t.Fatalf("timers left armed: %d", c.Pending())
	}

	s := g.Session()
	if s.Active || s.EndedAt.Sub(s.StartedAt) != 100*time.Millisecond {
		t.Fatalf("session: %+v", s)
	}
}

func TestGuard_EndWhileIdleIsIgnored(t *testing.T) {
	g, h, c := newTestGuard()
	g.End()
	c.Advance(time.Second)
	if h.settles != 0 || g.Settling() {
		t.Fatalf("stray End settled")
	}
}

func TestGuard_RestartKeepsSessionAndRearmsWatchdog(t *testing.T) {
	g, h, c := newTestGuard()
	g.Start()
	c.Advance(900 * time.Millisecond)
	g.Start()
	if h.starts != 1 {
		t.Fatalf("OnStart calls: got %d, want 1", h.starts)
	}

	// Old watchdog deadline passes without ending the session.
	c.Advance(200 * time.Millisecond)
	if !g.Active() {
		t.Fatalf("stale watchdog ended the session")
	}
	c.Advance(800 * time.Millisecond)
	if g.Active() {
		t.Fatalf("watchdog did not fire")
	}
}

func TestGuard_WatchdogForcesEnd(t *testing.T) {
	g, h, c := newTestGuard()
	g.Start()
	c.Advance(time.Second)
	if g.Active() {
		t.Fatalf("still composing after watchdog")
	}
	c.Advance(30 * time.Millisecond)
	if h.settles != 1 {
		t.Fatalf("OnSettle calls: got %d, want 1", h.settles)
	}

	// A late End from the host changes nothing.
	g.End()
	c.Advance(time.Second)
	if h.settles != 1 {
		t.Fatalf("late End settled again")
	}
}

func TestGuard_StartCancelsPendingSettle(t *testing.T) {
	g, h, c := newTestGuard()
	g.Start()
	g.End()
	c.Advance(10 * time.Millisecond)
	g.Start()
	c.Advance(100 * time.Millisecond)
	if h.settles != 0 {
		t.Fatalf("settle ran during the next session")
	}
	g.End()
	c.Advance(30 * time.Millisecond)
	if h.settles != 1 {
		t.Fatalf("OnSettle calls: got %d, want 1", h.settles)
	}
	if h.starts != 2 {
		t.Fatalf("OnStart calls: got %d, want 2", h.starts)
	}
}

func TestGuard_StopCancelsTimers(t *testing.T) {
	g, h, c := newTestGuard()
	g.Start()
	g.Stop()
	if c.Pending() != 0 {
		t.Fatalf("timers left armed: %d", c.Pending())
	}
	g.Start()
	c.Advance(2 * time.Second)
	if h.starts != 1 || h.settles != 0 || g.Active() {
		t.Fatalf("guard acted after Stop: starts=%d settles=%d", h.starts, h.settles)
	}

	g2, h2, c2 := newTestGuard()
	g2.Start()
	g2.End()
	g2.Stop()
	c2.Advance(time.Second)
	if h2.settles != 0 {
		t.Fatalf("settle ran after Stop")
	}
}
