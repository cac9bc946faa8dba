package sim

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

func newTestPoller(t *testing.T) (*Poller, *fakeClock) {
	t.Helper()
	p := NewPoller(250 * time.Millisecond)
	clk := newFakeClock()
	p.SetClock(clk.now)
	return p, clk
}

func TestPollerFirstSampleAlwaysFires(t *testing.T) {
	p, _ := newTestPoller(t)
	w := NewWorld(1, 10, 1000, 1000)

	fired := 0
	p.OnChange(func(Snapshot) { fired++ })
	if !p.Poll(w) {
		t.Fatalf("first poll did not fire")
	}
	if fired != 1 {
		t.Fatalf("observer fired %d times", fired)
	}
}

func TestPollerIntervalGate(t *testing.T) {
	p, clk := newTestPoller(t)
	w := NewWorld(1, 10, 1000, 1000)

	p.Poll(w)
	w.Advance(10) // plenty of visible change

	clk.advance(100 * time.Millisecond)
	if p.Poll(w) {
		t.Fatalf("poll fired inside the interval")
	}
	clk.advance(200 * time.Millisecond)
	if !p.Poll(w) {
		t.Fatalf("poll did not fire after the interval")
	}
}

func TestPollerIgnoresSubDisplayJitter(t *testing.T) {
	p, clk := newTestPoller(t)
	w := NewWorld(1, 10, 1000, 1000)
	p.Poll(w)

	// an untouched world reads back identical at display resolution
	clk.advance(time.Second)
	if p.Poll(w) {
		t.Fatalf("identical snapshot reported as change")
	}
}

func TestPollerFiresOnDisplayedChange(t *testing.T) {
	p, clk := newTestPoller(t)
	w := NewWorld(1, 50, 1000, 1000)
	p.Poll(w)

	// drive the world until something crosses a display threshold
	var got Snapshot
	fired := false
	p.OnChange(func(s Snapshot) { fired = true; got = s })
	for i := 0; i < 100 && !fired; i++ {
		w.Advance(5)
		clk.advance(time.Second)
		p.Poll(w)
	}
	if !fired {
		t.Fatalf("no displayed change after 100 steps")
	}
	if got.Tick == 0 {
		t.Fatalf("snapshot not carried to observer")
	}
}

func TestDisplayChangedThresholds(t *testing.T) {
	base := Snapshot{
		Environment: Environment{TempC: 24, Humidity: 0.55},
		Economy:     Economy{Cash: 10000},
		AvgHealth:   0.8,
		Research:    Research{Progress: 0.2},
	}

	mod := func(f func(*Snapshot)) Snapshot {
		s := base
		f(&s)
		return s
	}

	if displayChanged(base, base) {
		t.Fatalf("identical snapshots changed")
	}
	if displayChanged(base, mod(func(s *Snapshot) { s.Environment.TempC += 0.05 })) {
		t.Fatalf("sub-0.1C drift counted")
	}
	if !displayChanged(base, mod(func(s *Snapshot) { s.Environment.TempC += 0.1 })) {
		t.Fatalf("0.1C drift missed")
	}
	if displayChanged(base, mod(func(s *Snapshot) { s.Economy.Cash += 0.5 })) {
		t.Fatalf("sub-dollar drift counted")
	}
	if !displayChanged(base, mod(func(s *Snapshot) { s.Economy.Cash += 1 })) {
		t.Fatalf("dollar drift missed")
	}
	if !displayChanged(base, mod(func(s *Snapshot) { s.Flowering++ })) {
		t.Fatalf("stage count change missed")
	}
	if !displayChanged(base, mod(func(s *Snapshot) { s.Economy.Harvests++ })) {
		t.Fatalf("harvest count change missed")
	}
	if !displayChanged(base, mod(func(s *Snapshot) { s.Research.Unlocked++ })) {
		t.Fatalf("research unlock missed")
	}
}

func TestWorldAdvanceProgression(t *testing.T) {
	w := NewWorld(7, 100, 1000, 1000)
	first := w.Snapshot()
	if len(first.Plants) != 100 {
		t.Fatalf("plant count %d", len(first.Plants))
	}

	// enough simulated time for full grow cycles and harvests
	for i := 0; i < 500; i++ {
		w.Advance(1)
	}
	snap := w.Snapshot()
	if snap.Tick != 500 {
		t.Fatalf("tick %d", snap.Tick)
	}
	if snap.Economy.Harvests == 0 {
		t.Fatalf("no harvests after 500s of growth")
	}
	if snap.Economy.Cash <= first.Economy.Cash {
		t.Fatalf("harvest income missing: %.2f -> %.2f", first.Economy.Cash, snap.Economy.Cash)
	}
	if snap.AvgHealth < 0 || snap.AvgHealth > 1 {
		t.Fatalf("avg health %v out of range", snap.AvgHealth)
	}
}
