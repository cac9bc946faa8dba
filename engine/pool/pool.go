// Package pool recycles UI element instances of a single registered kind,
// amortizing construction cost across frames. All methods are called from
// the frame goroutine; the pool carries no locks.
package pool

import (
	"log"
	"time"

	"github.com/DevonLowjamski/canopy/engine/ui"
)

// Config holds the pool tunables. Validate clamps nonsense values instead
// of failing; configuration problems degrade capacity, never crash.
type Config struct {
	Initial int `json:"initial"`
	Max     int `json:"max"`
	Growth  int `json:"growth"` // reserved batch size for Grow callers
	// CleanupInterval gates how often Cleanup may shrink the free queue.
	CleanupInterval time.Duration `json:"cleanupInterval"`
}

func (c Config) validate() Config {
	if c.Initial < 0 {
		log.Printf("pool: initial %d clamped to 0", c.Initial)
		c.Initial = 0
	}
	if c.Max < 1 {
		log.Printf("pool: max %d clamped to 1", c.Max)
		c.Max = 1
	}
	if c.Max < c.Initial {
		log.Printf("pool: max %d raised to initial %d", c.Max, c.Initial)
		c.Max = c.Initial
	}
	if c.Growth < 1 {
		c.Growth = 1
	}
	if c.CleanupInterval <= 0 {
		c.CleanupInterval = 5 * time.Second
	}
	return c
}

// Stats is a point-in-time accounting snapshot. Pooled+Active always equals
// Constructed-Destroyed.
type Stats struct {
	Pooled      int `json:"pooled"`
	Active      int `json:"active"`
	Constructed int `json:"constructed"`
	Destroyed   int `json:"destroyed"`
	Reclaims    int `json:"reclaims"`
	Misses      int `json:"misses"` // Acquire calls that returned no element
}

// Pool owns every element it hands out. An element is in exactly one of
// three places: the free queue, the active set, or destroyed.
type Pool struct {
	kind    ui.Kind
	factory func() ui.Element
	cfg     Config

	free   []ui.Element          // FIFO
	active map[ui.Element]uint64 // element -> last-use sequence
	seq    uint64

	stats       Stats
	lastCleanup time.Time
	now         func() time.Time

	// Evicted is invoked when AcquireReclaim repurposes a live element, so
	// the previous owner can drop its reference.
	Evicted func(ui.Element)
}

// New builds a pool for a registered element kind and pre-populates the
// free queue with cfg.Initial instances.
func New(kind ui.Kind, cfg Config) (*Pool, error) {
	factory, ok := lookupFactory(kind)
	if !ok {
		return nil, &UnknownKindError{Kind: kind}
	}
	cfg = cfg.validate()
	p := &Pool{
		kind:    kind,
		factory: factory,
		cfg:     cfg,
		active:  make(map[ui.Element]uint64),
		now:     time.Now,
	}
	// The cleanup gate starts closed: the first Cleanup is a no-op until a
	// full interval has passed since construction.
	p.lastCleanup = p.now()
	for i := 0; i < cfg.Initial; i++ {
		p.free = append(p.free, p.construct())
	}
	return p, nil
}

// UnknownKindError reports a pool built for an unregistered element kind.
type UnknownKindError struct{ Kind ui.Kind }

func (e *UnknownKindError) Error() string {
	return "pool: no factory registered for kind " + string(e.Kind)
}

func lookupFactory(kind ui.Kind) (func() ui.Element, bool) {
	if !ui.Registered(kind) {
		return nil, false
	}
	return func() ui.Element {
		el, _ := ui.New(kind)
		return el
	}, true
}

// SetClock replaces the pool's time source. Tests use this to drive the
// cleanup gate deterministically.
func (p *Pool) SetClock(now func() time.Time) {
	if now != nil {
		p.now = now
		p.lastCleanup = now()
	}
}

func (p *Pool) Kind() ui.Kind { return p.kind }
func (p *Pool) Stats() Stats {
	s := p.stats
	s.Pooled = len(p.free)
	s.Active = len(p.active)
	return s
}

func (p *Pool) construct() ui.Element {
	el := p.factory()
	p.stats.Constructed++
	return el
}

func (p *Pool) destroy(el ui.Element) {
	el.Destroy()
	p.stats.Destroyed++
}

// Acquire returns a ready element, constructing one if the pool is below
// capacity. At hard capacity it returns (nil, false): exhaustion is an
// explicit condition the caller decides about, not a silent repurposing of
// a live element.
func (p *Pool) Acquire() (ui.Element, bool) {
	if el := p.takeFree(); el != nil {
		return el, true
	}
	if p.total() < p.cfg.Max {
		el := p.construct()
		p.checkout(el)
		return el, true
	}
	p.stats.Misses++
	return nil, false
}

// AcquireReclaim behaves like Acquire but, at hard capacity, forcibly
// reclaims the least-recently-used active element instead of failing. The
// previous owner is told through Evicted. Callers choose availability over
// strict ownership accounting by calling this variant.
func (p *Pool) AcquireReclaim() ui.Element {
	if el := p.takeFree(); el != nil {
		return el
	}
	if p.total() < p.cfg.Max {
		el := p.construct()
		p.checkout(el)
		return el
	}
	victim := p.oldestActive()
	if victim == nil {
		return nil
	}
	delete(p.active, victim)
	if p.Evicted != nil {
		p.Evicted(victim)
	}
	victim.Reset()
	p.stats.Reclaims++
	p.checkout(victim)
	return victim
}

func (p *Pool) takeFree() ui.Element {
	if len(p.free) == 0 {
		return nil
	}
	el := p.free[0]
	copy(p.free, p.free[1:])
	p.free = p.free[:len(p.free)-1]
	p.checkout(el)
	return el
}

func (p *Pool) checkout(el ui.Element) {
	p.seq++
	p.active[el] = p.seq
	el.Node().SetVisible(true)
	el.Node().SetEnabled(true)
}

// Touch marks el as recently used, protecting it from LRU reclaim.
func (p *Pool) Touch(el ui.Element) {
	if _, ok := p.active[el]; ok {
		p.seq++
		p.active[el] = p.seq
	}
}

func (p *Pool) oldestActive() ui.Element {
	var victim ui.Element
	var oldest uint64
	for el, s := range p.active {
		if victim == nil || s < oldest {
			victim, oldest = el, s
		}
	}
	return victim
}

// Release returns an element to the pool. Elements not tracked active are
// ignored, which makes double-release benign. The element is reset to its
// constructed state; above capacity it is destroyed instead of queued.
func (p *Pool) Release(el ui.Element) {
	if el == nil {
		return
	}
	if _, ok := p.active[el]; !ok {
		return
	}
	delete(p.active, el)
	el.Reset()
	if len(p.free) < p.cfg.Max {
		p.free = append(p.free, el)
		return
	}
	p.destroy(el)
}

// Grow constructs up to n new free elements without exceeding capacity and
// reports how many were added.
func (p *Pool) Grow(n int) int {
	added := 0
	for i := 0; i < n && p.total() < p.cfg.Max; i++ {
		p.free = append(p.free, p.construct())
		added++
	}
	return added
}

// Shrink destroys free elements until at most target remain queued. Active
// elements are never touched.
func (p *Pool) Shrink(target int) {
	if target < 0 {
		target = 0
	}
	for len(p.free) > target {
		el := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		p.destroy(el)
	}
}

// Cleanup shrinks the free queue toward max(initial, pooled/2). Calls
// within CleanupInterval of the previous cleanup are no-ops.
func (p *Pool) Cleanup() {
	now := p.now()
	if now.Sub(p.lastCleanup) < p.cfg.CleanupInterval {
		return
	}
	p.lastCleanup = now
	target := len(p.free) / 2
	if target < p.cfg.Initial {
		target = p.cfg.Initial
	}
	p.Shrink(target)
}

// Clear destroys every pooled and active element. The pool remains usable.
func (p *Pool) Clear() {
	for _, el := range p.free {
		p.destroy(el)
	}
	p.free = p.free[:0]
	for el := range p.active {
		delete(p.active, el)
		p.destroy(el)
	}
}

func (p *Pool) total() int { return len(p.free) + len(p.active) }
