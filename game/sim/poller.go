package sim

import (
	"math"
	"time"
)

// Poller samples the world on a fixed interval and notifies observers only
// when the displayed values actually changed, so HUD refreshes are not
// enqueued for identical frames.
type Poller struct {
	interval time.Duration
	now      func() time.Time
	last     time.Time
	prev     Snapshot
	seeded   bool
	onChange []func(Snapshot)
}

func NewPoller(interval time.Duration) *Poller {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Poller{interval: interval, now: time.Now}
}

// SetClock swaps the time source for tests.
func (p *Poller) SetClock(now func() time.Time) {
	if now != nil {
		p.now = now
	}
}

// OnChange registers an observer called with each changed snapshot.
func (p *Poller) OnChange(fn func(Snapshot)) {
	p.onChange = append(p.onChange, fn)
}

// Poll samples w if the interval elapsed. Reports whether observers fired.
func (p *Poller) Poll(w *World) bool {
	t := p.now()
	if p.seeded && t.Sub(p.last) < p.interval {
		return false
	}
	p.last = t

	snap := w.Snapshot()
	if p.seeded && !displayChanged(p.prev, snap) {
		return false
	}
	p.prev = snap
	p.seeded = true
	for _, fn := range p.onChange {
		fn(snap)
	}
	return true
}

// displayChanged compares at the resolution the HUD renders; sub-display
// jitter does not count as a change.
func displayChanged(a, b Snapshot) bool {
	if a.Flowering != b.Flowering || a.Harvestable != b.Harvestable {
		return true
	}
	if a.Economy.Harvests != b.Economy.Harvests {
		return true
	}
	if a.Research.Unlocked != b.Research.Unlocked {
		return true
	}
	if math.Abs(a.Environment.TempC-b.Environment.TempC) >= 0.1 {
		return true
	}
	if math.Abs(a.Environment.Humidity-b.Environment.Humidity) >= 0.01 {
		return true
	}
	if math.Abs(a.Economy.Cash-b.Economy.Cash) >= 1 {
		return true
	}
	if math.Abs(a.AvgHealth-b.AvgHealth) >= 0.01 {
		return true
	}
	if math.Abs(a.Research.Progress-b.Research.Progress) >= 0.01 {
		return true
	}
	return false
}
