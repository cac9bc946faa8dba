// Package hud assembles the cultivation HUD from pooled elements and keeps
// it in sync with sim snapshots through the deferred update batch.
package hud

import (
	"fmt"

	"github.com/DevonLowjamski/canopy/engine/colors"
	"github.com/DevonLowjamski/canopy/engine/pool"
	"github.com/DevonLowjamski/canopy/engine/schedule"
	"github.com/DevonLowjamski/canopy/engine/scratch"
	"github.com/DevonLowjamski/canopy/engine/ui"
	"github.com/DevonLowjamski/canopy/engine/uiopt"
	"github.com/DevonLowjamski/canopy/game/sim"
)

// Marker is the world-space pair shown for one plant: a stage badge with a
// growth meter under it. Both elements are tracked by the optimizer.
type Marker struct {
	PlantID int
	Badge   *ui.Badge
	Meter   *ui.Meter
}

// HUD owns the screen-fixed status panel and the field markers.
type HUD struct {
	opt *uiopt.Optimizer

	panel     *ui.Panel
	climate   *ui.Label
	plantsRow *ui.Label
	economy   *ui.Label
	research  *ui.Label
	markers   []Marker
}

// Build acquires the HUD elements from the optimizer's pools and registers
// the field markers for culling/LOD. Reclaim is enabled: under pool
// pressure the least recently touched marker element is recycled.
func Build(opt *uiopt.Optimizer, snap sim.Snapshot) (*HUD, error) {
	h := &HUD{opt: opt}

	panels, err := opt.Pool(ui.KindPanel)
	if err != nil {
		return nil, err
	}
	labels, err := opt.Pool(ui.KindLabel)
	if err != nil {
		return nil, err
	}
	badges, err := opt.Pool(ui.KindBadge)
	if err != nil {
		return nil, err
	}
	meters, err := opt.Pool(ui.KindMeter)
	if err != nil {
		return nil, err
	}

	// Screen-fixed status panel, drawn outside the world-space tracker.
	h.panel = panels.AcquireReclaim().(*ui.Panel)
	h.panel.Vertical().Gap(4).Padding(10)
	base := h.panel.Node()
	base.SetPos(16, 16)
	base.SetColor(colors.PanelBlue.WithAlpha(0.85))
	base.SetOverlay(true)
	base.SetOpaque(true)

	h.climate = acquireLabel(labels)
	h.plantsRow = acquireLabel(labels)
	h.economy = acquireLabel(labels)
	h.research = acquireLabel(labels)
	for _, l := range []*ui.Label{h.climate, h.plantsRow, h.economy, h.research} {
		l.FontSize(14)
		l.Node().SetColor(colors.Color{1, 1, 1, 1})
		base.AddChild(h.panel, l)
	}

	// One badge+meter marker per plant, spread over the field.
	h.markers = make([]Marker, 0, len(snap.Plants))
	for i := range snap.Plants {
		p := &snap.Plants[i]

		badge := badges.AcquireReclaim().(*ui.Badge)
		bb := badge.Node()
		bb.SetPos(p.X, p.Y)
		bb.SetSize(14, 14)
		bb.SetColor(stageColor(p.Stage))
		bb.SetMaterial("marker/" + p.Stage.String())
		opt.RegisterElement(badge)

		meter := meters.AcquireReclaim().(*ui.Meter)
		meter.Value(float32(p.Growth)).Fill(colors.Leaf)
		mb := meter.Node()
		mb.SetPos(p.X-20, p.Y+12)
		mb.SetSize(40, 5)
		mb.SetColor(colors.Soil.WithAlpha(0.8))
		mb.SetMaterial("marker/growth")
		opt.RegisterElement(meter)

		h.markers = append(h.markers, Marker{PlantID: p.ID, Badge: badge, Meter: meter})
	}

	h.refreshLabels(snap)
	ui.Layout(h.panel)
	return h, nil
}

// PanelRoot returns the screen-fixed subtree for direct drawing.
func (h *HUD) PanelRoot() ui.Element { return h.panel }

// Markers returns the tracked field markers.
func (h *HUD) Markers() []Marker { return h.markers }

// Apply defers a HUD refresh for snap through the update batch. Label text
// goes in at normal priority; marker sweeps are low priority so they yield
// to everything else under a tight frame budget.
func (h *HUD) Apply(snap sim.Snapshot) {
	h.opt.Updates.Enqueue(func() {
		h.refreshLabels(snap)
		ui.Layout(h.panel)
	}, schedule.Normal)

	h.opt.Updates.Enqueue(func() {
		h.refreshMarkers(snap)
	}, schedule.Low)
}

func (h *HUD) refreshLabels(snap sim.Snapshot) {
	m := scratch.Mark()
	scratch.F().S("temp ").F64(snap.Environment.TempC, 1).S("C  rh ").Pct(snap.Environment.Humidity).S("%")
	h.climate.Text(scratch.StringFrom(m))

	m = scratch.Mark()
	scratch.F().S("plants ").I(len(snap.Plants)).
		S("  flowering ").I(snap.Flowering).
		S("  ready ").I(snap.Harvestable).
		S("  health ").Pct(snap.AvgHealth).S("%")
	h.plantsRow.Text(scratch.StringFrom(m))

	m = scratch.Mark()
	scratch.F().S("cash $").F64(snap.Economy.Cash, 0).S("  harvests ").I(snap.Economy.Harvests)
	h.economy.Text(scratch.StringFrom(m))

	m = scratch.Mark()
	scratch.F().S("research ").I(snap.Research.Unlocked).C('/').I(snap.Research.Total).
		S("  next ").Pct(snap.Research.Progress).S("%")
	h.research.Text(scratch.StringFrom(m))
}

func (h *HUD) refreshMarkers(snap sim.Snapshot) {
	// Plants and markers stay index-aligned; the world never reorders.
	n := len(snap.Plants)
	if len(h.markers) < n {
		n = len(h.markers)
	}
	for i := 0; i < n; i++ {
		p := &snap.Plants[i]
		mk := &h.markers[i]
		mk.Badge.Node().SetColor(stageColor(p.Stage))
		mk.Badge.Node().SetMaterial("marker/" + p.Stage.String())
		mk.Meter.Value(float32(p.Growth))
	}
}

// Release unregisters the markers and returns every element to its pool.
func (h *HUD) Release() error {
	panels, err := h.opt.Pool(ui.KindPanel)
	if err != nil {
		return fmt.Errorf("hud release: %w", err)
	}
	labels, err := h.opt.Pool(ui.KindLabel)
	if err != nil {
		return fmt.Errorf("hud release: %w", err)
	}
	badges, err := h.opt.Pool(ui.KindBadge)
	if err != nil {
		return fmt.Errorf("hud release: %w", err)
	}
	meters, err := h.opt.Pool(ui.KindMeter)
	if err != nil {
		return fmt.Errorf("hud release: %w", err)
	}

	for i := range h.markers {
		mk := &h.markers[i]
		h.opt.UnregisterElement(mk.Badge)
		h.opt.UnregisterElement(mk.Meter)
		badges.Release(mk.Badge)
		meters.Release(mk.Meter)
	}
	h.markers = nil

	for _, l := range []*ui.Label{h.climate, h.plantsRow, h.economy, h.research} {
		labels.Release(l)
	}
	panels.Release(h.panel)
	h.panel = nil
	return nil
}

func acquireLabel(p *pool.Pool) *ui.Label {
	return p.AcquireReclaim().(*ui.Label)
}

func stageColor(s sim.PlantStage) colors.Color {
	switch s {
	case sim.StageSeedling:
		return colors.Leaf.Scale(0.6)
	case sim.StageVegetative:
		return colors.Leaf
	case sim.StageFlowering:
		return colors.Amber
	case sim.StageHarvestable:
		return colors.AlertRed
	default:
		return colors.Soil
	}
}
