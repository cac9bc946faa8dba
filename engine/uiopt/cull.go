package uiopt

import (
	"time"

	"github.com/DevonLowjamski/canopy/engine/ui"
)

// RenderState is the per-element bookkeeping behind culling decisions. An
// element in the visible slice always has Visible true and bounds
// recomputed this pass.
type RenderState struct {
	Element   ui.Element
	Visible   bool
	LastCheck time.Time
	Bounds    ui.Rect
	LOD       Level
	BatchID   string
}

// Tracker owns the render states of registered elements and recomputes
// visibility against the margin-expanded viewport once per pass.
type Tracker struct {
	cfg    *Config
	events *Events
	now    func() time.Time

	states map[ui.Element]*RenderState
	order  []ui.Element // registration order; keeps passes deterministic

	viewport     ui.Rect
	visibleCount int
	visible      []*RenderState // reused across passes
}

func newTracker(cfg *Config, events *Events, now func() time.Time) *Tracker {
	return &Tracker{
		cfg:    cfg,
		events: events,
		now:    now,
		states: make(map[ui.Element]*RenderState),
	}
}

// Register starts tracking el. Registering an already tracked element
// returns its existing state.
func (t *Tracker) Register(el ui.Element) *RenderState {
	if rs, ok := t.states[el]; ok {
		return rs
	}
	rs := &RenderState{Element: el, LOD: LevelHigh}
	t.states[el] = rs
	t.order = append(t.order, el)
	return rs
}

// Unregister drops el's state. Unknown elements are a no-op.
func (t *Tracker) Unregister(el ui.Element) {
	if _, ok := t.states[el]; !ok {
		return
	}
	delete(t.states, el)
	for i, e := range t.order {
		if e == el {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// State returns a copy of el's render state; ok is false for untracked
// elements (a benign miss, never an error).
func (t *Tracker) State(el ui.Element) (RenderState, bool) {
	rs, ok := t.states[el]
	if !ok {
		return RenderState{}, false
	}
	return *rs, true
}

func (t *Tracker) Tracked() int          { return len(t.states) }
func (t *Tracker) VisibleCount() int     { return t.visibleCount }
func (t *Tracker) Viewport() ui.Rect     { return t.viewport }
func (t *Tracker) SetViewport(r ui.Rect) { t.viewport = r }

// UpdateVisibility recomputes every tracked element's bounds, tests them
// against the expanded viewport, applies the coarse occlusion pass and
// mirrors the result onto each element's display flag. It returns the
// visible states; the slice is reused between passes.
func (t *Tracker) UpdateVisibility() []*RenderState {
	vp := t.viewport.Expand(t.cfg.ViewportMargin)
	now := t.now()
	t.visible = t.visible[:0]

	for _, el := range t.order {
		rs := t.states[el]
		rs.Bounds = el.Node().Bounds()
		rs.LastCheck = now
		rs.BatchID = ""
		rs.Visible = el.Node().Enabled() &&
			rs.Bounds.Intersects(vp) &&
			len(t.visible) < t.cfg.MaxVisibleElements
		if rs.Visible {
			t.visible = append(t.visible, rs)
		}
	}

	if t.cfg.EnableOcclusion {
		t.occlude()
	}

	for _, el := range t.order {
		rs := t.states[el]
		el.Node().SetVisible(rs.Visible)
	}

	if n := len(t.visible); n != t.visibleCount {
		t.visibleCount = n
		t.events.emitVisibleCount(n)
	}
	return t.visible
}

// occlude approximates occlusion with an ancestor scan: elements fully
// covered by an opaque overlay are hidden unless they sit beneath a
// modal/overlay ancestor, whose content must stay interactive. This is
// deliberately coarse; there is no depth sorting.
func (t *Tracker) occlude() {
	var overlays []*RenderState
	for _, rs := range t.visible {
		if rs.Element.Node().Overlay() && rs.Element.Node().Opaque() {
			overlays = append(overlays, rs)
		}
	}
	if len(overlays) == 0 {
		return
	}
	kept := t.visible[:0]
	for _, rs := range t.visible {
		if underOverlay(rs.Element) {
			kept = append(kept, rs)
			continue
		}
		occluded := false
		for _, ov := range overlays {
			if ov != rs && ov.Bounds.Contains(rs.Bounds) {
				occluded = true
				break
			}
		}
		if occluded {
			rs.Visible = false
			continue
		}
		kept = append(kept, rs)
	}
	t.visible = kept
}

// underOverlay walks ancestors looking for a modal/overlay root.
func underOverlay(el ui.Element) bool {
	for n := el.Node(); n != nil; {
		if n.Overlay() {
			return true
		}
		p := n.Parent()
		if p == nil {
			return false
		}
		n = p.Node()
	}
	return false
}
