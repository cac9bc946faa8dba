package main

import (
	"github.com/DevonLowjamski/canopy/engine/colors"
	"github.com/DevonLowjamski/canopy/engine/core"
	"github.com/DevonLowjamski/canopy/engine/gfx/renderer2d"
	"github.com/DevonLowjamski/canopy/engine/gfx/uidraw"
	"github.com/DevonLowjamski/canopy/engine/perf"
	"github.com/DevonLowjamski/canopy/engine/scene"
	"github.com/DevonLowjamski/canopy/engine/scratch"
	"github.com/DevonLowjamski/canopy/engine/text"
	"github.com/DevonLowjamski/canopy/engine/ui"
)

// DebugLayer draws the screen-fixed HUD panel plus an optimizer stats
// column. Tab toggles the stats column.
type DebugLayer struct {
	app        *App
	w, h       int
	showStats  bool
	fieldStats renderer2d.Statistics
}

func (l *DebugLayer) OnAttach(e *core.Engine) {
	l.w, l.h = e.Window.FramebufferSize()
	l.showStats = true
}

func (l *DebugLayer) OnDetach(e *core.Engine) {}

func (l *DebugLayer) OnUpdate(e *core.Engine, dt float64) {}

func (l *DebugLayer) OnRender(e *core.Engine, alpha float64) {
	// Field layer rendered first; grab its counters before BeginScene
	// resets them.
	l.fieldStats = l.app.r2d.Stats()

	l.app.r2d.BeginScene(scene.ScreenVP(l.w, l.h))
	uidraw.DrawTree(l.app.ctx, l.app.view.PanelRoot())
	if l.showStats {
		l.drawStats()
	}
	l.app.r2d.EndScene()
}

func (l *DebugLayer) drawStats() {
	opt := l.app.opt
	x := float32(l.w) - 300
	y := float32(16)
	lineH := text.LineHeight(l.app.font) * 0.5

	line := func(s string, c colors.Color) {
		text.DrawText(l.app.r2d, l.app.font, x, y, s, 14, c)
		y += lineH
	}
	header := func(s string) { line(s, colors.Amber) }
	value := func(s string) { line(s, colors.Color{1, 1, 1, 1}) }

	var last perf.Metric
	if m, ok := opt.History.Last(); ok {
		last = m
	}

	header("frame")
	m := scratch.Mark()
	scratch.F().S("  ").F64(opt.History.AverageFrameMs(), 2).S(" ms  ").F64(opt.History.AverageFPS(), 1).S(" fps")
	value(scratch.StringFrom(m))
	m = scratch.Mark()
	scratch.F().S("  pass ").F64(float64(last.Processing.Microseconds())/1000, 2).S(" ms")
	value(scratch.StringFrom(m))

	header("culling")
	m = scratch.Mark()
	scratch.F().S("  visible ").I(last.Visible).S("  culled ").I(last.Culled)
	value(scratch.StringFrom(m))

	header("batching")
	m = scratch.Mark()
	scratch.F().S("  batches ").I(last.Batches).S("  draws ").I(l.fieldStats.DrawCalls).S("  quads ").I(l.fieldStats.QuadCount)
	value(scratch.StringFrom(m))

	header("adaptive")
	m = scratch.Mark()
	scratch.F().S("  state ").S(opt.Controller.State().String()).
		S("  best ").S(opt.Controller.RecommendedStrategy().String())
	value(scratch.StringFrom(m))
	m = scratch.Mark()
	scratch.F().S("  tasks ").I(opt.Tasks.Pending()).S("  updates ").I(opt.Updates.Pending())
	value(scratch.StringFrom(m))

	header("pools")
	for _, kind := range []ui.Kind{ui.KindPanel, ui.KindLabel, ui.KindBadge, ui.KindMeter} {
		p, err := opt.Pool(kind)
		if err != nil {
			continue
		}
		st := p.Stats()
		m = scratch.Mark()
		scratch.F().S("  ").S(string(kind)).S(" free ").I(st.Pooled).S(" active ").I(st.Active).
			S(" reclaims ").I(st.Reclaims)
		value(scratch.StringFrom(m))
	}

	header("memory")
	m = scratch.Mark()
	scratch.F().S("  ").F64(perf.MemoryUsageMB(), 1).S(" MB")
	value(scratch.StringFrom(m))
}

func (l *DebugLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventKey:
		if v.Down && v.Key == core.KeyTab {
			l.showStats = !l.showStats
			return true
		}
	case core.EventResize:
		l.w, l.h = v.W, v.H
	}
	return false
}
