package main

import (
	"flag"
	"log"
	"time"

	"github.com/DevonLowjamski/canopy/engine/colors"
	"github.com/DevonLowjamski/canopy/engine/core"
	glbackend "github.com/DevonLowjamski/canopy/engine/gfx/gl"
	"github.com/DevonLowjamski/canopy/engine/gfx/renderer2d"
	"github.com/DevonLowjamski/canopy/engine/gfx/uidraw"
	"github.com/DevonLowjamski/canopy/engine/platform"
	"github.com/DevonLowjamski/canopy/engine/scratch"
	"github.com/DevonLowjamski/canopy/engine/telemetry"
	"github.com/DevonLowjamski/canopy/engine/text"
	"github.com/DevonLowjamski/canopy/engine/uiopt"
	"github.com/DevonLowjamski/canopy/game/hud"
	"github.com/DevonLowjamski/canopy/game/sim"
)

const (
	fieldW = 4000
	fieldH = 3000
)

var (
	flagConfig    = flag.String("config", "", "optimizer config JSON (defaults when empty)")
	flagFont      = flag.String("font", "RobotoMono.ttf", "TTF font for HUD text")
	flagPlants    = flag.Int("plants", 1500, "plants scattered over the field")
	flagSeed      = flag.Int64("seed", 42, "world seed")
	flagTelemetry = flag.String("telemetry", "", "telemetry listen addr, e.g. 127.0.0.1:7788")
)

type App struct {
	cfg uiopt.Config

	r2d  *renderer2d.Renderer2D
	font *text.Font
	ctx  *uidraw.Context

	opt    *uiopt.Optimizer
	world  *sim.World
	poller *sim.Poller
	view   *hud.HUD
	tel    *telemetry.Server

	field *FieldLayer
	debug *DebugLayer

	lastPublish time.Time
}

func (a *App) OnStart(e *core.Engine) {
	scratch.Init(4096)

	var err error
	a.r2d, err = renderer2d.New(e.Renderer, 20000)
	if err != nil {
		panic(err)
	}
	a.font, err = text.LoadTTF(e.Renderer, *flagFont, 32)
	if err != nil {
		panic(err)
	}
	a.ctx = &uidraw.Context{R2D: a.r2d, Font: a.font}

	a.opt = uiopt.New(a.cfg)
	a.world = sim.NewWorld(*flagSeed, *flagPlants, fieldW, fieldH)
	a.poller = sim.NewPoller(250 * time.Millisecond)

	a.view, err = hud.Build(a.opt, a.world.Snapshot())
	if err != nil {
		panic(err)
	}
	a.poller.OnChange(func(s sim.Snapshot) { a.view.Apply(s) })

	a.opt.Events.OnStateChanged(func(old, new uiopt.PerfState) {
		log.Printf("perf state %s -> %s", old, new)
	})

	if *flagTelemetry != "" {
		a.tel = telemetry.NewServer(*flagTelemetry, nil)
		a.tel.Start()
		a.opt.Events.OnStateChanged(func(old, new uiopt.PerfState) {
			a.tel.PublishStateChange(old.String(), new.String())
		})
		a.opt.Events.OnTaskApplied(a.tel.PublishTask)
	}

	a.field = &FieldLayer{app: a}
	e.Layers.Push(e, a.field)
	a.debug = &DebugLayer{app: a}
	e.Layers.Push(e, a.debug)
}

func (a *App) OnUpdate(e *core.Engine, dt float64) {
	a.world.Advance(dt)
	a.poller.Poll(a.world)

	if a.tel != nil {
		now := time.Now()
		if now.Sub(a.lastPublish) >= time.Second {
			a.lastPublish = now
			a.tel.PublishPerf(a.opt.History.SnapshotNow())
		}
	}
}

func (a *App) OnRender(e *core.Engine, alpha float64) {
	scratch.Reset()
}

func (a *App) OnEvent(e *core.Engine, ev core.Event) {
	if k, ok := ev.(core.EventKey); ok && k.Down && k.Key == core.KeyEscape {
		e.Window.RequestClose()
	}
}

func (a *App) OnShutdown(e *core.Engine) {
	if a.tel != nil {
		a.tel.Stop()
	}
	if a.view != nil {
		if err := a.view.Release(); err != nil {
			log.Printf("hud release: %v", err)
		}
	}
	a.font.Close()
}

func main() {
	flag.Parse()

	app := &App{cfg: uiopt.LoadConfig(*flagConfig)}
	winCfg := core.Config{
		Title:      "canopy sandbox",
		Width:      1280,
		Height:     720,
		VSync:      true,
		ClearColor: [4]float32{0.08, 0.1, 0.09, 1},
	}

	if err := core.Run(app, winCfg, platform.NewGLFWWindow, func(w core.Window, c core.Config) (core.Renderer, error) {
		return glbackend.NewRendererGL(w, c)
	}); err != nil {
		log.Fatal(err)
	}
}
