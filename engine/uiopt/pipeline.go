package uiopt

import (
	"fmt"
	"runtime"
	"time"

	"github.com/DevonLowjamski/canopy/engine/perf"
	"github.com/DevonLowjamski/canopy/engine/pool"
	"github.com/DevonLowjamski/canopy/engine/schedule"
	"github.com/DevonLowjamski/canopy/engine/ui"
)

// Optimizer owns the per-frame pipeline: viewport update, frustum cull,
// occlusion, LOD, batch rebuild, metric recording, then budgeted task and
// update drains. It is constructed explicitly and handed to whatever owns
// the frame loop; there is no global instance.
type Optimizer struct {
	cfg    Config
	Events *Events

	Tracker    *Tracker
	LOD        *Machine
	Assembler  *Assembler
	Controller *Controller
	Tasks      *schedule.TaskQueue
	Updates    *schedule.UpdateBatch
	History    *perf.History

	pools     map[ui.Kind]*pool.Pool
	poolOrder []ui.Kind
	executors map[schedule.TaskKind]schedule.TaskExecutor
	batches   []Batch

	baseMaxBatch int
	now          func() time.Time
}

// New validates cfg and assembles the optimizer.
func New(cfg Config) *Optimizer {
	cfg = cfg.Validate()
	o := &Optimizer{
		cfg:          cfg,
		Events:       &Events{},
		pools:        make(map[ui.Kind]*pool.Pool),
		baseMaxBatch: cfg.MaxBatchSize,
		now:          time.Now,
	}
	o.Tracker = newTracker(&o.cfg, o.Events, func() time.Time { return o.now() })
	o.LOD = newMachine(&o.cfg, o.Events, func() time.Time { return o.now() })
	o.Assembler = newAssembler(&o.cfg)
	o.Tasks = schedule.NewTaskQueue(cfg.TaskQueueMax)
	o.Updates = schedule.NewUpdateBatch(cfg.UpdateTierMax)
	o.Controller = newController(&o.cfg, o.Events, o.Tasks, func() time.Time { return o.now() })
	o.History = perf.NewHistory(cfg.MetricHistory)
	o.executors = map[schedule.TaskKind]schedule.TaskExecutor{
		schedule.TaskPoolCleanup: o.execPoolCleanup,
		schedule.TaskGeometry:    o.execGeometry,
		schedule.TaskMemory:      o.execMemory,
		schedule.TaskRender:      o.execRender,
		schedule.TaskUpdate:      o.execUpdate,
	}
	return o
}

// SetClock swaps the shared time source. Tests drive budgets, cleanup
// gates and sampling intervals through this.
func (o *Optimizer) SetClock(now func() time.Time) {
	if now == nil {
		return
	}
	o.now = now
	o.Tasks.SetClock(now)
	o.Updates.SetClock(now)
	for _, k := range o.poolOrder {
		o.pools[k].SetClock(now)
	}
}

func (o *Optimizer) Config() Config { return o.cfg }

// Pool returns the element pool for kind, creating it on first use with
// the configured pool tunables.
func (o *Optimizer) Pool(kind ui.Kind) (*pool.Pool, error) {
	if p, ok := o.pools[kind]; ok {
		return p, nil
	}
	p, err := pool.New(kind, o.cfg.Pool)
	if err != nil {
		return nil, err
	}
	p.SetClock(o.now)
	o.pools[kind] = p
	o.poolOrder = append(o.poolOrder, kind)
	return p, nil
}

// RegisterElement starts tracking el: render state and LOD state are
// created together and removed together.
func (o *Optimizer) RegisterElement(el ui.Element) {
	o.Tracker.Register(el)
	o.LOD.register(el)
}

// UnregisterElement atomically drops el's render and LOD state. This is
// also how an in-flight transition is "cancelled".
func (o *Optimizer) UnregisterElement(el ui.Element) {
	o.Tracker.Unregister(el)
	o.LOD.unregister(el)
}

// SetViewport sets the unexpanded viewport rectangle for the next pass.
func (o *Optimizer) SetViewport(r ui.Rect) { o.Tracker.SetViewport(r) }

// Batches returns the batches assembled by the last Step. The slice is
// rebuilt every pass.
func (o *Optimizer) Batches() []Batch { return o.batches }

// Step runs one optimization pass. The order is fixed: cull (frustum then
// occlusion), LOD, batch rebuild, metric recording, controller sampling,
// then the budgeted task and update drains. dt is the frame delta in
// seconds; focus is the point LOD distances are measured from.
func (o *Optimizer) Step(focusX, focusY float32, dt float64) perf.Metric {
	start := o.now()

	visible := o.Tracker.UpdateVisibility()
	o.LOD.Update(visible, focusX, focusY, dt)
	o.batches = o.Assembler.Rebuild(visible)

	elapsed := o.now().Sub(start)
	fps := 0.0
	if dt > 0 {
		fps = 1 / dt
	}
	m := perf.Metric{
		At:         start,
		Processing: elapsed,
		Visible:    len(visible),
		Culled:     o.Tracker.Tracked() - len(visible),
		Batches:    len(o.batches),
		FPS:        fps,
	}
	o.History.Record(m)

	frameMs := dt * 1000
	o.Controller.Sample(frameMs, perf.MemoryUsageMB())
	if o.Controller.State() == StateOptimal {
		o.relaxPressure()
	}

	o.Tasks.Drain(o.cfg.FrameBudget, o.executors, func(res schedule.TaskResult) {
		o.Controller.RecordResult(res)
		o.Events.emitTaskApplied(res)
	})
	o.Updates.Drain(o.cfg.FrameBudget)
	return m
}

// relaxPressure undoes render/geometry task side effects once the system
// is healthy again.
func (o *Optimizer) relaxPressure() {
	if o.LOD.Bias() != 0 {
		o.LOD.SetBias(0)
	}
	if o.cfg.MaxBatchSize != o.baseMaxBatch {
		o.cfg.MaxBatchSize = o.baseMaxBatch
	}
}

// ----- task executors -----

func (o *Optimizer) execPoolCleanup(s schedule.Strategy) (float64, string, error) {
	destroyed := 0
	for _, kind := range o.poolOrder {
		p := o.pools[kind]
		before := p.Stats().Destroyed
		switch s {
		case schedule.Aggressive:
			p.Shrink(o.cfg.Pool.Initial)
		case schedule.Moderate:
			p.Shrink(maxInt(o.cfg.Pool.Initial, p.Stats().Pooled/2))
		default:
			p.Cleanup()
		}
		destroyed += p.Stats().Destroyed - before
	}
	return float64(destroyed) * 0.02, fmt.Sprintf("destroyed %d pooled elements", destroyed), nil
}

func (o *Optimizer) execGeometry(s schedule.Strategy) (float64, string, error) {
	factor := 1
	switch s {
	case schedule.Moderate:
		factor = 2
	case schedule.Aggressive:
		factor = 4
	}
	before := len(o.batches)
	o.cfg.MaxBatchSize = o.baseMaxBatch * factor
	return float64(before) * 0.05, fmt.Sprintf("batch cap %d -> %d", o.baseMaxBatch, o.cfg.MaxBatchSize), nil
}

func (o *Optimizer) execMemory(s schedule.Strategy) (float64, string, error) {
	before := perf.MemoryUsageMB()
	runtime.GC()
	freed := before - perf.MemoryUsageMB()
	if freed < 0 {
		freed = 0
	}
	return freed * 0.1, fmt.Sprintf("gc freed %.1f MB", freed), nil
}

func (o *Optimizer) execRender(s schedule.Strategy) (float64, string, error) {
	bias := 1
	if s == schedule.Aggressive {
		bias = 2
	}
	o.LOD.SetBias(bias)
	return float64(o.Tracker.VisibleCount()) * 0.002, fmt.Sprintf("lod bias %d", bias), nil
}

func (o *Optimizer) execUpdate(s schedule.Strategy) (float64, string, error) {
	budget := 2 * o.cfg.FrameBudget
	if s == schedule.Aggressive {
		budget = 0 // unbounded flush
	}
	ran := o.Updates.Drain(budget)
	return float64(ran) * 0.01, fmt.Sprintf("flushed %d deferred updates", ran), nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
