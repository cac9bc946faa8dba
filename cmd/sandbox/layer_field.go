package main

import (
	"github.com/DevonLowjamski/canopy/engine/core"
	"github.com/DevonLowjamski/canopy/engine/gfx/uidraw"
	"github.com/DevonLowjamski/canopy/engine/scene"
	"github.com/DevonLowjamski/canopy/engine/ui"
)

const panSpeed = 600 // world units per second at zoom 1

// FieldLayer owns the world camera and runs the optimization pass each
// tick: camera viewport in, assembled batches out.
type FieldLayer struct {
	app *App
	cam *scene.OrthoCamera2D
}

func (l *FieldLayer) OnAttach(e *core.Engine) {
	w, h := e.Window.FramebufferSize()
	l.cam = scene.NewOrtho2D(w, h)
	// Y grows downward to match the UI coordinate space.
	l.cam.Bottom, l.cam.Top = l.cam.Top, l.cam.Bottom
	l.cam.X, l.cam.Y = fieldW/2, fieldH/2
	l.cam.Recalculate()
}

func (l *FieldLayer) OnDetach(e *core.Engine) {}

func (l *FieldLayer) OnUpdate(e *core.Engine, dt float64) {
	speed := float32(panSpeed*dt) / l.cam.Zoom
	dx := e.Input.Axis(core.KeyA, core.KeyD) + e.Input.Axis(core.KeyLeft, core.KeyRight)
	dy := e.Input.Axis(core.KeyW, core.KeyS) + e.Input.Axis(core.KeyUp, core.KeyDown)
	if dx != 0 || dy != 0 {
		l.cam.Move(dx*speed, dy*speed)
	}

	vw, vh := l.cam.Width(), l.cam.Height()
	l.app.opt.SetViewport(ui.NewRect(l.cam.X-vw/2, l.cam.Y-vh/2, vw, vh))
	l.app.opt.Step(l.cam.X, l.cam.Y, dt)
}

func (l *FieldLayer) OnRender(e *core.Engine, alpha float64) {
	l.app.r2d.BeginScene(l.cam.VP())
	uidraw.DrawBatches(l.app.ctx, l.app.opt.Batches())
	l.app.r2d.EndScene()
}

func (l *FieldLayer) OnEvent(e *core.Engine, ev core.Event) bool {
	switch v := ev.(type) {
	case core.EventResize:
		l.cam.SetViewportPixels(v.W, v.H)
		l.cam.Bottom, l.cam.Top = l.cam.Top, l.cam.Bottom
		l.cam.Recalculate()
	case core.EventScroll:
		z := l.cam.Zoom * (1 + float32(v.Yoff)*0.1)
		l.cam.SetZoom(z)
		return true
	}
	return false
}
