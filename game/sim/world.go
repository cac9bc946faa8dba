// Package sim provides the read-only game data snapshots the HUD renders.
// The world here is a self-driving stand-in: values drift plausibly so the
// sandbox exercises the UI pipeline without a real simulation behind it.
package sim

import (
	"math"
	"math/rand"
)

// PlantStage mirrors the grow cycle the markers display.
type PlantStage int

const (
	StageSeedling PlantStage = iota
	StageVegetative
	StageFlowering
	StageHarvestable
)

func (s PlantStage) String() string {
	switch s {
	case StageSeedling:
		return "seedling"
	case StageVegetative:
		return "vegetative"
	case StageFlowering:
		return "flowering"
	case StageHarvestable:
		return "harvestable"
	default:
		return "unknown"
	}
}

// Plant is one growing plant placed in the field.
type Plant struct {
	ID     int
	X, Y   float32
	Stage  PlantStage
	Health float64 // 0..1
	Growth float64 // 0..1 within current stage
}

// Environment holds the facility climate readings.
type Environment struct {
	TempC    float64
	Humidity float64 // 0..1
	CO2PPM   float64
	LightLux float64
}

// Economy holds the running totals the top bar shows.
type Economy struct {
	Cash     float64
	Upkeep   float64 // per game-day
	Harvests int
}

// Research tracks skill tree progress.
type Research struct {
	Unlocked int
	Total    int
	Progress float64 // 0..1 toward next unlock
}

// Snapshot is an immutable copy handed to consumers. Plants aliases the
// world's backing array only until the next Advance, so consumers read it
// within the same frame.
type Snapshot struct {
	Tick        uint64
	Environment Environment
	Economy     Economy
	Research    Research
	Plants      []Plant
	Flowering   int
	Harvestable int
	AvgHealth   float64
}

// World drives the stand-in simulation. Single-threaded: Advance and
// Snapshot run on the frame goroutine.
type World struct {
	rng    *rand.Rand
	tick   uint64
	clock  float64
	env    Environment
	eco    Economy
	res    Research
	plants []Plant
}

// NewWorld seeds a field of plants spread over a fieldW x fieldH area.
func NewWorld(seed int64, plantCount int, fieldW, fieldH float32) *World {
	rng := rand.New(rand.NewSource(seed))
	w := &World{
		rng: rng,
		env: Environment{TempC: 24, Humidity: 0.55, CO2PPM: 900, LightLux: 14000},
		eco: Economy{Cash: 10000, Upkeep: 120},
		res: Research{Unlocked: 3, Total: 40, Progress: 0.2},
	}
	w.plants = make([]Plant, plantCount)
	for i := range w.plants {
		w.plants[i] = Plant{
			ID:     i + 1,
			X:      rng.Float32() * fieldW,
			Y:      rng.Float32() * fieldH,
			Stage:  PlantStage(rng.Intn(3)),
			Health: 0.7 + rng.Float64()*0.3,
			Growth: rng.Float64(),
		}
	}
	return w
}

// Advance steps the world by dt seconds.
func (w *World) Advance(dt float64) {
	w.tick++
	w.clock += dt

	// climate drifts on slow sine waves with a little noise
	w.env.TempC = 24 + 2*math.Sin(w.clock/60) + (w.rng.Float64()-0.5)*0.1
	w.env.Humidity = clamp01(0.55 + 0.1*math.Sin(w.clock/90) + (w.rng.Float64()-0.5)*0.005)
	w.env.CO2PPM = 900 + 150*math.Sin(w.clock/120)
	w.env.LightLux = 14000 + 2000*math.Sin(w.clock/30)

	for i := range w.plants {
		p := &w.plants[i]
		rate := 0.01 * dt * (0.5 + p.Health)
		p.Growth += rate
		if p.Growth >= 1 && p.Stage < StageHarvestable {
			p.Stage++
			p.Growth = 0
		}
		stress := math.Abs(w.env.TempC-24) / 40
		p.Health = clamp01(p.Health + (0.002-stress)*dt)

		if p.Stage == StageHarvestable && p.Growth >= 0.5 {
			// auto-harvest and restart the cycle
			w.eco.Cash += 80 + 40*p.Health
			w.eco.Harvests++
			p.Stage = StageSeedling
			p.Growth = 0
			p.Health = 0.8 + w.rng.Float64()*0.2
		}
	}

	w.eco.Cash -= w.eco.Upkeep / 86400 * dt
	w.res.Progress += 0.001 * dt
	if w.res.Progress >= 1 {
		w.res.Progress = 0
		if w.res.Unlocked < w.res.Total {
			w.res.Unlocked++
		}
	}
}

// Snapshot copies the current aggregate state.
func (w *World) Snapshot() Snapshot {
	var flowering, harvestable int
	var healthSum float64
	for i := range w.plants {
		switch w.plants[i].Stage {
		case StageFlowering:
			flowering++
		case StageHarvestable:
			harvestable++
		}
		healthSum += w.plants[i].Health
	}
	avg := 0.0
	if len(w.plants) > 0 {
		avg = healthSum / float64(len(w.plants))
	}
	return Snapshot{
		Tick:        w.tick,
		Environment: w.env,
		Economy:     w.eco,
		Research:    w.res,
		Plants:      w.plants,
		Flowering:   flowering,
		Harvestable: harvestable,
		AvgHealth:   avg,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
