package uiopt

import (
	"time"

	"github.com/DevonLowjamski/canopy/engine/schedule"
)

// PerfState is the controller's discrete classification of system health.
type PerfState int

const (
	StateOptimal PerfState = iota
	StateGood
	StatePoor
	StateCritical
)

func (s PerfState) String() string {
	switch s {
	case StateOptimal:
		return "optimal"
	case StateGood:
		return "good"
	case StatePoor:
		return "poor"
	case StateCritical:
		return "critical"
	}
	return "unknown"
}

// bundle is the task set enqueued when a state is entered.
type bundle struct {
	strategy schedule.Strategy
	kinds    []schedule.TaskKind
}

const emaAlpha = 0.1

// Controller samples frame time and heap usage, classifies a performance
// state from whichever signal is worse, and in adaptive mode reacts to
// state changes with strategy-scaled optimization task bundles. It also
// keeps an effectiveness moving average per strategy from task results.
type Controller struct {
	cfg    *Config
	events *Events
	queue  *schedule.TaskQueue
	now    func() time.Time

	state      PerfState
	lastSample time.Time
	bundles    [StateCritical + 1]bundle
	scores     [schedule.Aggressive + 1]float64
	seen       [schedule.Aggressive + 1]bool
}

func newController(cfg *Config, events *Events, queue *schedule.TaskQueue, now func() time.Time) *Controller {
	c := &Controller{
		cfg:    cfg,
		events: events,
		queue:  queue,
		now:    now,
		state:  StateOptimal,
	}
	c.bundles[StateCritical] = bundle{
		strategy: schedule.Aggressive,
		kinds:    []schedule.TaskKind{schedule.TaskMemory, schedule.TaskPoolCleanup, schedule.TaskUpdate},
	}
	c.bundles[StatePoor] = bundle{
		strategy: schedule.Moderate,
		kinds:    []schedule.TaskKind{schedule.TaskGeometry, schedule.TaskRender},
	}
	c.bundles[StateGood] = bundle{
		strategy: schedule.Conservative,
		kinds:    []schedule.TaskKind{schedule.TaskPoolCleanup},
	}
	return c
}

func (c *Controller) State() PerfState { return c.state }

// SetBundle overrides the task bundle entered with a state. Passing no
// kinds makes the state idle.
func (c *Controller) SetBundle(state PerfState, strategy schedule.Strategy, kinds ...schedule.TaskKind) {
	if state < StateOptimal || state > StateCritical {
		return
	}
	c.bundles[state] = bundle{strategy: strategy, kinds: kinds}
}

// Sample classifies the current signals. Samples arriving within
// OptimizeInterval of the previous one are ignored. On a state change the
// transition is emitted and, in adaptive mode, the new state's bundle is
// enqueued.
func (c *Controller) Sample(frameMs, memMB float64) {
	now := c.now()
	if !c.lastSample.IsZero() && now.Sub(c.lastSample) < c.cfg.OptimizeInterval {
		return
	}
	c.lastSample = now

	next := c.classify(frameMs, memMB)
	if next == c.state {
		return
	}
	old := c.state
	c.state = next
	c.events.emitStateChanged(old, next)

	if !c.cfg.Adaptive {
		return
	}
	b := c.bundles[next]
	for _, kind := range b.kinds {
		c.queue.Enqueue(kind, b.strategy)
	}
}

// classify grades each signal against multiples of its target and lets
// the worse one govern.
func (c *Controller) classify(frameMs, memMB float64) PerfState {
	target := c.cfg.FrameTimeTargetMs
	frame := StateOptimal
	switch {
	case frameMs >= target*c.cfg.CriticalFrameMult:
		frame = StateCritical
	case frameMs >= target*c.cfg.PoorFrameMult:
		frame = StatePoor
	case frameMs >= target*c.cfg.GoodFrameMult:
		frame = StateGood
	}

	mem := StateOptimal
	poorMB := (c.cfg.MemoryTargetMB + c.cfg.MemoryMaxMB) / 2
	switch {
	case memMB >= c.cfg.MemoryMaxMB:
		mem = StateCritical
	case memMB >= poorMB:
		mem = StatePoor
	case memMB >= c.cfg.MemoryTargetMB:
		mem = StateGood
	}

	if mem > frame {
		return mem
	}
	return frame
}

// RecordResult folds a task result into the per-strategy effectiveness
// average. Failed tasks contribute zero improvement.
func (c *Controller) RecordResult(res schedule.TaskResult) {
	s := res.Task.Strategy
	if s < schedule.Conservative || s > schedule.Aggressive {
		return
	}
	improvement := 0.0
	if res.Success {
		improvement = res.Improvement
	}
	if !c.seen[s] {
		c.scores[s] = improvement
		c.seen[s] = true
		return
	}
	c.scores[s] = (1-emaAlpha)*c.scores[s] + emaAlpha*improvement
}

// Effectiveness returns the moving-average improvement for a strategy.
func (c *Controller) Effectiveness(s schedule.Strategy) float64 {
	if s < schedule.Conservative || s > schedule.Aggressive {
		return 0
	}
	return c.scores[s]
}

// RecommendedStrategy is the strategy with the best effectiveness score,
// defaulting to Conservative before any results arrive.
func (c *Controller) RecommendedStrategy() schedule.Strategy {
	best := schedule.Conservative
	for s := schedule.Conservative; s <= schedule.Aggressive; s++ {
		if c.seen[s] && c.scores[s] > c.scores[best] {
			best = s
		}
	}
	return best
}
