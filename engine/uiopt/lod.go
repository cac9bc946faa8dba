package uiopt

import (
	"math"
	"time"

	"github.com/DevonLowjamski/canopy/engine/ui"
)

// Level is a discrete render-quality tier. Higher values are cheaper.
type Level int

const (
	LevelHigh Level = iota
	LevelMedium
	LevelLow
	LevelMinimal
)

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	case LevelMinimal:
		return "minimal"
	}
	return "unknown"
}

// LODState tracks one element's quality transition. Current equals Target
// only once Progress has reached 1.
type LODState struct {
	Current    Level
	Target     Level
	Progress   float64 // [0,1]
	LastUpdate time.Time
}

// quality is what committing a level applies to an element.
type quality struct {
	opacity    float32 // render-quality multiplier, opacity proxy
	shadows    bool
	animations bool
	tex        ui.TexQuality
}

var qualities = [...]quality{
	LevelHigh:    {opacity: 1, shadows: true, animations: true, tex: ui.TexFull},
	LevelMedium:  {opacity: 0.9, shadows: true, animations: true, tex: ui.TexHalf},
	LevelLow:     {opacity: 0.65, shadows: false, animations: true, tex: ui.TexHalf},
	LevelMinimal: {opacity: 0.4, shadows: false, animations: false, tex: ui.TexQuarter},
}

// Machine drives per-element LOD transitions. A new target resets the
// transition progress; the level only commits once the transition
// completes, which keeps levels from flapping when an element oscillates
// around a threshold.
type Machine struct {
	cfg    *Config
	events *Events
	now    func() time.Time

	states map[ui.Element]*LODState
	bias   int // levels added on top of the computed target (render task pressure)
}

func newMachine(cfg *Config, events *Events, now func() time.Time) *Machine {
	return &Machine{
		cfg:    cfg,
		events: events,
		now:    now,
		states: make(map[ui.Element]*LODState),
	}
}

func (m *Machine) register(el ui.Element) {
	if _, ok := m.states[el]; ok {
		return
	}
	m.states[el] = &LODState{Current: LevelHigh, Target: LevelHigh, Progress: 1, LastUpdate: m.now()}
}

func (m *Machine) unregister(el ui.Element) { delete(m.states, el) }

// State returns a copy of el's LOD state; ok is false when untracked.
func (m *Machine) State(el ui.Element) (LODState, bool) {
	st, ok := m.states[el]
	if !ok {
		return LODState{}, false
	}
	return *st, true
}

// SetBias shifts every computed target down in quality by n levels.
// The adaptive render task raises it under pressure; it clears again when
// the system returns to its optimal state.
func (m *Machine) SetBias(n int) {
	if n < 0 {
		n = 0
	}
	if n > int(LevelMinimal) {
		n = int(LevelMinimal)
	}
	m.bias = n
}

func (m *Machine) Bias() int { return m.bias }

// Update advances transitions for the visible states. focus is the
// camera/attention point distances are measured from; dt is the frame
// delta in seconds.
func (m *Machine) Update(visible []*RenderState, focusX, focusY float32, dt float64) {
	now := m.now()
	for _, rs := range visible {
		st, ok := m.states[rs.Element]
		if !ok {
			continue
		}
		target := m.targetFor(rs, focusX, focusY)
		if target != st.Target {
			st.Target = target
			if target == st.Current {
				// Retargeted back mid-transition: already at the level,
				// nothing to transition through.
				st.Progress = 1
			} else {
				st.Progress = 0
			}
		}
		if st.Current != st.Target {
			st.Progress += dt * m.cfg.LODTransitionRate
			if st.Progress >= 1 {
				st.Progress = 1
				old := st.Current
				st.Current = st.Target
				m.apply(rs.Element, st.Current)
				rs.LOD = st.Current
				m.events.emitLODChanged(rs.Element, old, st.Current)
			}
		}
		st.LastUpdate = now
	}
}

// targetFor picks the quality tier from camera distance first, with screen
// size as a secondary downgrade path when both policies are enabled.
func (m *Machine) targetFor(rs *RenderState, focusX, focusY float32) Level {
	target := LevelHigh
	if m.cfg.EnableDistanceLOD {
		cx, cy := rs.Bounds.Center()
		d := math.Hypot(float64(cx-focusX), float64(cy-focusY))
		target = distanceLevel(float32(d), m.cfg.LODDistanceBands)
	}
	if m.cfg.EnableSizeLOD {
		if sl := sizeLevel(rs.Bounds.Area(), m.cfg.LODSizeBands); sl > target {
			target = sl
		}
	}
	target += Level(m.bias)
	if target > LevelMinimal {
		target = LevelMinimal
	}
	return target
}

func distanceLevel(d float32, bands [3]float32) Level {
	switch {
	case d >= bands[2]:
		return LevelMinimal
	case d >= bands[1]:
		return LevelLow
	case d >= bands[0]:
		return LevelMedium
	}
	return LevelHigh
}

func sizeLevel(area float32, bands [3]float32) Level {
	switch {
	case area < bands[0]:
		return LevelMinimal
	case area < bands[1]:
		return LevelLow
	case area < bands[2]:
		return LevelMedium
	}
	return LevelHigh
}

func (m *Machine) apply(el ui.Element, level Level) {
	q := qualities[level]
	n := el.Node()
	n.SetOpacity(q.opacity)
	n.SetShadows(q.shadows)
	n.SetAnimations(q.animations)
	n.SetTexQuality(q.tex)
}
