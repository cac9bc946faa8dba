package schedule

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestUpdateBatchDrainsInPriorityOrder(t *testing.T) {
	b := NewUpdateBatch(8)
	var order []string
	b.Enqueue(func() { order = append(order, "low") }, Low)
	b.Enqueue(func() { order = append(order, "normal") }, Normal)
	b.Enqueue(func() { order = append(order, "critical") }, Critical)
	b.Enqueue(func() { order = append(order, "high") }, High)

	ran := b.Drain(0)
	if ran != 4 {
		t.Fatalf("expected 4 updates run, got %d", ran)
	}
	want := []string{"critical", "high", "normal", "low"}
	for i, w := range want {
		if order[i] != w {
			t.Fatalf("order[%d] = %s, want %s", i, order[i], w)
		}
	}
	if b.Pending() != 0 {
		t.Fatalf("expected empty batch, %d pending", b.Pending())
	}
}

func TestUpdateBatchFIFOWithinTier(t *testing.T) {
	b := NewUpdateBatch(8)
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		b.Enqueue(func() { order = append(order, i) }, Normal)
	}
	b.Drain(0)
	for i := 0; i < 5; i++ {
		if order[i] != i {
			t.Fatalf("tier not FIFO: %v", order)
		}
	}
}

func TestUpdateBatchDropsWhenTierFull(t *testing.T) {
	b := NewUpdateBatch(2)
	if !b.Enqueue(func() {}, Normal) || !b.Enqueue(func() {}, Normal) {
		t.Fatalf("first two enqueues should succeed")
	}
	if b.Enqueue(func() {}, Normal) {
		t.Fatalf("third enqueue should be dropped")
	}
	if b.Dropped() != 1 {
		t.Fatalf("expected 1 dropped, got %d", b.Dropped())
	}
	// other tiers unaffected
	if !b.Enqueue(func() {}, Low) {
		t.Fatalf("low tier should accept")
	}
}

func TestUpdateBatchRejectsInvalid(t *testing.T) {
	b := NewUpdateBatch(4)
	if b.Enqueue(nil, Normal) {
		t.Fatalf("nil update accepted")
	}
	if b.Enqueue(func() {}, Priority(99)) {
		t.Fatalf("out-of-range priority accepted")
	}
	if b.Pending() != 0 {
		t.Fatalf("invalid enqueues queued work")
	}
}

func TestUpdateBatchBudgetStopsDrain(t *testing.T) {
	clk := newFakeClock()
	b := NewUpdateBatch(8)
	b.SetClock(clk.now)

	ran := 0
	for i := 0; i < 5; i++ {
		b.Enqueue(func() {
			ran++
			clk.advance(2 * time.Millisecond)
		}, Normal)
	}

	got := b.Drain(3 * time.Millisecond)
	if got != 2 {
		t.Fatalf("expected 2 updates within budget, got %d", got)
	}
	if b.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", b.Pending())
	}

	// zero budget means unbounded
	if got := b.Drain(0); got != 3 {
		t.Fatalf("unbounded drain ran %d", got)
	}
}

func TestUpdateBatchPanicIsolated(t *testing.T) {
	b := NewUpdateBatch(8)
	ran := false
	b.Enqueue(func() { panic("boom") }, Critical)
	b.Enqueue(func() { ran = true }, Normal)

	got := b.Drain(0)
	if got != 2 {
		t.Fatalf("expected both updates consumed, got %d", got)
	}
	if !ran {
		t.Fatalf("panic stopped the drain")
	}
}
