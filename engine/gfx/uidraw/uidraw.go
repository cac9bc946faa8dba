// Package uidraw renders assembled UI batches through the 2D quad renderer.
// Elements draw via a per-kind drawer registry so new element kinds plug in
// without touching this package.
package uidraw

import (
	"sort"

	"github.com/DevonLowjamski/canopy/engine/colors"
	"github.com/DevonLowjamski/canopy/engine/gfx/renderer2d"
	"github.com/DevonLowjamski/canopy/engine/text"
	"github.com/DevonLowjamski/canopy/engine/ui"
	"github.com/DevonLowjamski/canopy/engine/uiopt"
)

// Context carries the frame resources a drawer needs.
type Context struct {
	R2D  *renderer2d.Renderer2D
	Font *text.Font
}

// Drawer renders one element. Bounds are absolute pixels, opacity is the
// element's resolved alpha.
type Drawer func(ctx *Context, el ui.Element, bounds ui.Rect, opacity float32)

var drawers = map[ui.Kind]Drawer{}

// RegisterDrawer binds a drawer to an element kind. Later registrations for
// the same kind win.
func RegisterDrawer(kind ui.Kind, d Drawer) { drawers[kind] = d }

func init() {
	RegisterDrawer(ui.KindPanel, drawPanel)
	RegisterDrawer(ui.KindLabel, drawLabel)
	RegisterDrawer(ui.KindBadge, drawBadge)
	RegisterDrawer(ui.KindMeter, drawMeter)
}

// DrawBatches renders assembled batches. Higher priority batches draw first
// so large panels sit behind small elements; overlay subtrees draw last in a
// second pass so they sit above everything else.
func DrawBatches(ctx *Context, batches []uiopt.Batch) {
	ordered := make([]uiopt.Batch, len(batches))
	copy(ordered, batches)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})

	for _, b := range ordered {
		for _, rs := range b.States {
			if !underOverlay(rs.Element) {
				drawOne(ctx, rs)
			}
		}
	}
	for _, b := range ordered {
		for _, rs := range b.States {
			if underOverlay(rs.Element) {
				drawOne(ctx, rs)
			}
		}
	}
}

// DrawTree renders an element subtree directly, without batch assembly.
// Screen-fixed chrome (status bars, debug overlays) uses this path; the
// batched path is for the tracked world-space field.
func DrawTree(ctx *Context, root ui.Element) {
	if root == nil {
		return
	}
	base := root.Node()
	if !base.Visible() {
		return
	}
	if d, ok := drawers[root.Kind()]; ok {
		d(ctx, root, base.Bounds(), base.Opacity())
	}
	for _, child := range base.Children() {
		DrawTree(ctx, child)
	}
}

func drawOne(ctx *Context, rs *uiopt.RenderState) {
	el := rs.Element
	base := el.Node()
	if !base.Visible() {
		return
	}
	d, ok := drawers[el.Kind()]
	if !ok {
		return
	}
	d(ctx, el, rs.Bounds, base.Opacity())
}

func underOverlay(el ui.Element) bool {
	for e := el; e != nil; e = e.Node().Parent() {
		if e.Node().Overlay() {
			return true
		}
	}
	return false
}

// --- built-in drawers ---

func drawPanel(ctx *Context, el ui.Element, b ui.Rect, opacity float32) {
	base := el.Node()
	cx, cy := b.Center()
	if base.Shadows() {
		shadow := colors.Color{0, 0, 0, 0.35 * opacity}
		ctx.R2D.DrawQuad(cx+3, cy+3, b.W, b.H, shadow, 0)
	}
	ctx.R2D.DrawQuad(cx, cy, b.W, b.H, base.Color().WithAlpha(opacity), base.Rotation())
}

func drawLabel(ctx *Context, el ui.Element, b ui.Rect, opacity float32) {
	l, ok := el.(*ui.Label)
	if !ok {
		return
	}
	base := el.Node()
	// At the lowest texture quality text collapses to a placeholder strip.
	if base.TexQuality() == ui.TexQuarter {
		cx, cy := b.Center()
		ctx.R2D.DrawQuad(cx, cy, b.W, b.H*0.5, base.Color().WithAlpha(opacity*0.5), 0)
		return
	}
	text.DrawText(ctx.R2D, ctx.Font, b.X, b.Y, l.TextValue(), l.FontSizeValue(), base.Color().WithAlpha(opacity))
}

func drawBadge(ctx *Context, el ui.Element, b ui.Rect, opacity float32) {
	base := el.Node()
	cx, cy := b.Center()
	ctx.R2D.DrawQuad(cx, cy, b.W, b.H, base.Color().WithAlpha(opacity), base.Rotation())
}

func drawMeter(ctx *Context, el ui.Element, b ui.Rect, opacity float32) {
	m, ok := el.(*ui.Meter)
	if !ok {
		return
	}
	base := el.Node()
	cx, cy := b.Center()
	track := base.Color().WithAlpha(opacity)
	ctx.R2D.DrawQuad(cx, cy, b.W, b.H, track, 0)

	fillW := b.W * m.ValueOf()
	if fillW <= 0 {
		return
	}
	fill := m.FillColor().WithAlpha(opacity)
	ctx.R2D.DrawQuad(b.X+fillW*0.5, cy, fillW, b.H, fill, 0)
}
