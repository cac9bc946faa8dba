// Package schedule provides the frame loop's deferred-work plumbing: a
// priority-tiered batch of UI refresh callbacks and a bounded queue of
// optimization tasks, both drained under wall-clock budgets.
package schedule

import (
	"log"
	"time"
)

// Priority orders update tiers. Critical drains first.
type Priority int

const (
	Critical Priority = iota
	High
	Normal
	Low
	numPriorities
)

func (p Priority) String() string {
	switch p {
	case Critical:
		return "critical"
	case High:
		return "high"
	case Normal:
		return "normal"
	case Low:
		return "low"
	}
	return "unknown"
}

// UpdateBatch defers non-critical UI refreshes into per-priority FIFO
// queues drained within a time budget each frame. Tiers are bounded;
// enqueueing into a full tier drops the update rather than growing or
// blocking.
type UpdateBatch struct {
	tiers   [numPriorities][]func()
	maxTier int
	dropped uint64
	now     func() time.Time
}

// NewUpdateBatch builds a batch whose tiers each hold at most maxPerTier
// pending updates.
func NewUpdateBatch(maxPerTier int) *UpdateBatch {
	if maxPerTier < 1 {
		maxPerTier = 1
	}
	return &UpdateBatch{maxTier: maxPerTier, now: time.Now}
}

// SetClock replaces the batch's time source for tests.
func (b *UpdateBatch) SetClock(now func() time.Time) {
	if now != nil {
		b.now = now
	}
}

// Enqueue queues fn at the given priority. It reports false when the tier
// is full and the update was dropped.
func (b *UpdateBatch) Enqueue(fn func(), p Priority) bool {
	if fn == nil || p < Critical || p >= numPriorities {
		return false
	}
	if len(b.tiers[p]) >= b.maxTier {
		b.dropped++
		return false
	}
	b.tiers[p] = append(b.tiers[p], fn)
	return true
}

// Pending reports queued updates across all tiers.
func (b *UpdateBatch) Pending() int {
	n := 0
	for i := range b.tiers {
		n += len(b.tiers[i])
	}
	return n
}

// Dropped reports updates discarded because their tier was full.
func (b *UpdateBatch) Dropped() uint64 { return b.dropped }

// Drain executes queued updates in priority order until the budget is
// spent or the queues are empty, returning how many ran. A panicking
// update is logged and skipped; the rest of the drain continues.
func (b *UpdateBatch) Drain(budget time.Duration) int {
	deadline := b.now().Add(budget)
	ran := 0
	for p := Critical; p < numPriorities; p++ {
		for len(b.tiers[p]) > 0 {
			if budget > 0 && !b.now().Before(deadline) {
				return ran
			}
			fn := b.tiers[p][0]
			copy(b.tiers[p], b.tiers[p][1:])
			b.tiers[p] = b.tiers[p][:len(b.tiers[p])-1]
			runIsolated(fn, p)
			ran++
		}
	}
	return ran
}

func runIsolated(fn func(), p Priority) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("schedule: %s update panicked: %v", p, r)
		}
	}()
	fn()
}
