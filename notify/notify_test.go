package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/iw2rmb/textfield/internal/clock"
)

type recorder struct{ got []int }

func (r *recorder) emit(v int) { r.got = append(r.got, v) }

func newTestNotifier(window time.Duration) (*Notifier[int], *recorder, *clock.Fake) {
	c := clock.NewFake(time.Unix(1000, 0))
	r := &recorder{}
	return New(r.emit, Config{Window: window, Clock: c}), r, c
}

func TestNotifier_CoalescesRapidSchedules(t *testing.T) {
	n, r, c := newTestNotifier(100 * time.Millisecond)
	for i := 1; i <= 5; i++ {
		n.Schedule(i)
		c.Advance(10 * time.Millisecond)
	}
	if len(r.got) != 0 {
		t.Fatalf("emitted inside window: %v", r.got)
	}
	c.Advance(60 * time.Millisecond)
	if len(r.got) != 1 || r.got[0] != 5 {
		t.Fatalf("emissions: got %v, want [5]", r.got)
	}
	if c.Pending() != 0 {
		t.Fatalf("timers left armed: %d", c.Pending())
	}
}

func TestNotifier_EmitsImmediatelyAfterQuietWindow(t *testing.T) {
	n, r, c := newTestNotifier(100 * time.Millisecond)
	c.Advance(150 * time.Millisecond)
	n.Schedule(1)
	if len(r.got) != 1 || r.got[0] != 1 {
		t.Fatalf("emissions: got %v, want [1]", r.got)
	}

	// The next schedule falls inside the new window and waits for it.
	c.Advance(30 * time.Millisecond)
	n.Schedule(2)
	if len(r.got) != 1 {
		t.Fatalf("emitted inside window: %v", r.got)
	}
	c.Advance(69 * time.Millisecond)
	if len(r.got) != 1 {
		t.Fatalf("emitted before window end: %v", r.got)
	}
	c.Advance(time.Millisecond)
	if len(r.got) != 2 || r.got[1] != 2 {
		t.Fatalf("emissions: got %v, want [1 2]", r.got)
	}
}

func TestNotifier_ForceFlushCancelsPendingTimer(t *testing.T) {
	n, r, c := newTestNotifier(100 * time.Millisecond)
	n.Schedule(1)
	n.Schedule(2)
	n.ForceFlush(3)
	if len(r.got) != 1 || r.got[0] != 3 {
		t.Fatalf("emissions: got %v, want [3]", r.got)
	}
	c.Advance(time.Second)
	if len(r.got) != 1 {
		t.Fatalf("double emission after force flush: %v", r.got)
	}
	if n.Pending() {
		t.Fatalf("pending after force flush")
	}
}

func TestNotifier_ForceFlushEmitsWithoutPending(t *testing.T) {
	n, r, _ := newTestNotifier(100 * time.Millisecond)
	n.ForceFlush(7)
	if len(r.got) != 1 || r.got[0] != 7 {
		t.Fatalf("emissions: got %v, want [7]", r.got)
	}
}

func TestNotifier_SuppressedRemembersLatest(t *testing.T) {
	n, r, c := newTestNotifier(100 * time.Millisecond)
	n.SetSuppressed(true)
	n.Schedule(1)
	n.Schedule(2)
	n.Schedule(3)
	c.Advance(time.Second)
	if len(r.got) != 0 {
		t.Fatalf("emitted while suppressed: %v", r.got)
	}
	n.SetSuppressed(false)
	if len(r.got) != 0 {
		t.Fatalf("lifting suppression emitted: %v", r.got)
	}
	n.Flush()
	if len(r.got) != 1 || r.got[0] != 3 {
		t.Fatalf("emissions: got %v, want [3]", r.got)
	}
	n.Flush()
	if len(r.got) != 1 {
		t.Fatalf("flush without pending emitted: %v", r.got)
	}
}

func TestNotifier_TimerFiringWhileSuppressedDoesNotEmit(t *testing.T) {
	n, r, c := newTestNotifier(100 * time.Millisecond)
	n.Schedule(1)
	n.SetSuppressed(true)
	n.Schedule(2)
	c.Advance(200 * time.Millisecond)
	if len(r.got) != 0 {
		t.Fatalf("emitted while suppressed: %v", r.got)
	}
	if !n.Pending() {
		t.Fatalf("suppressed snapshot was dropped")
	}
	n.SetSuppressed(false)
	n.Flush()
	if len(r.got) != 1 || r.got[0] != 2 {
		t.Fatalf("emissions: got %v, want [2]", r.got)
	}
}

func TestNotifier_CloseEmitsOnceAndStops(t *testing.T) {
	n, r, c := newTestNotifier(100 * time.Millisecond)
	n.Schedule(1)
	n.Close(2)
	if len(r.got) != 1 || r.got[0] != 2 {
		t.Fatalf("emissions: got %v, want [2]", r.got)
	}
	if c.Pending() != 0 {
		t.Fatalf("timers left armed after close: %d", c.Pending())
	}
	n.Schedule(3)
	n.ForceFlush(4)
	n.Close(5)
	c.Advance(time.Second)
	if len(r.got) != 1 {
		t.Fatalf("emissions after close: %v", r.got)
	}
}

// blockingRecorder records snapshots and parks the callback on block until
// release is closed.
type blockingRecorder struct {
	mu      sync.Mutex
	got     []string
	block   string
	entered chan struct{}
	release chan struct{}
}

func newBlockingRecorder(block string) *blockingRecorder {
	return &blockingRecorder{
		block:   block,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (r *blockingRecorder) emit(v string) {
	r.mu.Lock()
	r.got = append(r.got, v)
	r.mu.Unlock()
	if v == r.block {
		close(r.entered)
		<-r.release
	}
}

func (r *blockingRecorder) values() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.got...)
}

func TestNotifier_ForceFlushWaitsForTrailingDelivery(t *testing.T) {
	r := newBlockingRecorder("A")
	n := New(r.emit, Config{Window: 20 * time.Millisecond})

	n.Schedule("A")
	select {
	case <-r.entered:
	case <-time.After(time.Second):
		t.Fatalf("trailing emission never delivered")
	}

	done := make(chan struct{})
	go func() {
		n.ForceFlush("B")
		close(done)
	}()
	select {
	case <-done:
		t.Fatalf("ForceFlush returned while an earlier delivery was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(r.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("ForceFlush never returned")
	}
	if got := r.values(); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Fatalf("emissions: got %v, want [A B]", got)
	}
}

func TestNotifier_DropsEmissionOvertakenWhileWaiting(t *testing.T) {
	r := newBlockingRecorder("X")
	n := New(r.emit, Config{Window: 20 * time.Millisecond})

	go n.ForceFlush("X")
	select {
	case <-r.entered:
	case <-time.After(time.Second):
		t.Fatalf("forced emission never delivered")
	}

	// The trailing timer for A fires and queues behind X; B overtakes it.
	n.Schedule("A")
	time.Sleep(60 * time.Millisecond)
	done := make(chan struct{})
	go func() {
		n.ForceFlush("B")
		close(done)
	}()
	time.Sleep(20 * time.Millisecond)

	close(r.release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("ForceFlush never returned")
	}
	if got := r.values(); len(got) != 2 || got[0] != "X" || got[1] != "B" {
		t.Fatalf("emissions: got %v, want [X B]", got)
	}
	if got := n.Emissions(); got != 2 {
		t.Fatalf("Emissions: got %d, want 2", got)
	}
}

func TestNotifier_ScheduleFromCallbackDefersToTimer(t *testing.T) {
	c := clock.NewFake(time.Unix(1000, 0))
	var got []int
	var n *Notifier[int]
	n = New(func(v int) {
		got = append(got, v)
		if v == 1 {
			c.Advance(time.Millisecond)
			n.Schedule(2)
		}
	}, Config{Window: time.Millisecond, Clock: c})

	c.Advance(time.Millisecond)
	n.Schedule(1)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("emissions: got %v, want [1]", got)
	}
	c.Advance(0)
	if len(got) != 2 || got[1] != 2 {
		t.Fatalf("emissions: got %v, want [1 2]", got)
	}
}
