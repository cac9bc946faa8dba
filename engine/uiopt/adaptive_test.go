package uiopt

import (
	"math"
	"testing"
	"time"

	"github.com/DevonLowjamski/canopy/engine/schedule"
)

// sampleAt advances the clock past the optimize interval and samples.
func sampleAt(o *Optimizer, clk *fakeClock, frameMs, memMB float64) {
	clk.advance(o.Config().OptimizeInterval + time.Millisecond)
	o.Controller.Sample(frameMs, memMB)
}

func TestControllerClassifiesFrameTime(t *testing.T) {
	// target 16.6ms, mults 1.15 / 1.5 / 2.0
	cases := []struct {
		frameMs float64
		want    PerfState
	}{
		{10, StateOptimal},
		{16.5, StateOptimal},
		{20, StateGood},
		{26, StatePoor},
		{34, StateCritical},
	}
	for _, tc := range cases {
		o, clk := newTestOptimizer(t, testConfig())
		sampleAt(o, clk, tc.frameMs, 0)
		if got := o.Controller.State(); got != tc.want {
			t.Fatalf("frame %.1fms: state %s, want %s", tc.frameMs, got, tc.want)
		}
	}
}

func TestControllerWorseSignalGoverns(t *testing.T) {
	// memory target 256, max 512: 400MB is past the poor midpoint
	o, clk := newTestOptimizer(t, testConfig())
	sampleAt(o, clk, 10, 400) // frame optimal, memory poor
	if got := o.Controller.State(); got != StatePoor {
		t.Fatalf("state %s, want poor from memory signal", got)
	}

	o2, clk2 := newTestOptimizer(t, testConfig())
	sampleAt(o2, clk2, 34, 100) // frame critical, memory optimal
	if got := o2.Controller.State(); got != StateCritical {
		t.Fatalf("state %s, want critical from frame signal", got)
	}
}

func TestControllerSampleIntervalGate(t *testing.T) {
	o, clk := newTestOptimizer(t, testConfig())
	sampleAt(o, clk, 34, 0)
	if o.Controller.State() != StateCritical {
		t.Fatalf("first sample ignored")
	}

	// inside the interval: the recovery sample must be ignored
	clk.advance(10 * time.Millisecond)
	o.Controller.Sample(5, 0)
	if o.Controller.State() != StateCritical {
		t.Fatalf("gated sample changed state")
	}

	sampleAt(o, clk, 5, 0)
	if o.Controller.State() != StateOptimal {
		t.Fatalf("recovery sample ignored after interval")
	}
}

func TestControllerEnqueuesBundleOnStateChange(t *testing.T) {
	cfg := testConfig()
	cfg.Adaptive = true
	o, clk := newTestOptimizer(t, cfg)

	sampleAt(o, clk, 34, 0) // -> critical
	if got := o.Tasks.Pending(); got != 3 {
		t.Fatalf("critical bundle queued %d tasks, want 3", got)
	}

	var strategies []schedule.Strategy
	var kinds []schedule.TaskKind
	exec := map[schedule.TaskKind]schedule.TaskExecutor{}
	for _, k := range []schedule.TaskKind{schedule.TaskMemory, schedule.TaskPoolCleanup, schedule.TaskUpdate} {
		exec[k] = func(s schedule.Strategy) (float64, string, error) { return 0, "", nil }
	}
	o.Tasks.Drain(0, exec, func(r schedule.TaskResult) {
		strategies = append(strategies, r.Task.Strategy)
		kinds = append(kinds, r.Task.Kind)
	})
	for _, s := range strategies {
		if s != schedule.Aggressive {
			t.Fatalf("critical bundle strategy %s", s)
		}
	}
	if kinds[0] != schedule.TaskMemory {
		t.Fatalf("critical bundle starts with %s", kinds[0])
	}

	// re-sampling the same state enqueues nothing new
	sampleAt(o, clk, 34, 0)
	if o.Tasks.Pending() != 0 {
		t.Fatalf("steady state re-enqueued bundle")
	}
}

func TestControllerAdaptiveOffStillClassifies(t *testing.T) {
	o, clk := newTestOptimizer(t, testConfig()) // Adaptive false
	var fired bool
	o.Events.OnStateChanged(func(old, new PerfState) { fired = true })

	sampleAt(o, clk, 34, 0)
	if o.Controller.State() != StateCritical {
		t.Fatalf("classification disabled with adaptive off")
	}
	if !fired {
		t.Fatalf("state change event suppressed")
	}
	if o.Tasks.Pending() != 0 {
		t.Fatalf("tasks enqueued with adaptive off")
	}
}

func TestControllerEffectivenessEMA(t *testing.T) {
	o, _ := newTestOptimizer(t, testConfig())

	res := func(s schedule.Strategy, improvement float64, success bool) schedule.TaskResult {
		return schedule.TaskResult{
			Task:        schedule.Task{Kind: schedule.TaskMemory, Strategy: s},
			Success:     success,
			Improvement: improvement,
		}
	}

	o.Controller.RecordResult(res(schedule.Moderate, 1.0, true)) // seed
	if got := o.Controller.Effectiveness(schedule.Moderate); got != 1.0 {
		t.Fatalf("seed score %v", got)
	}
	o.Controller.RecordResult(res(schedule.Moderate, 0, true))
	if got := o.Controller.Effectiveness(schedule.Moderate); math.Abs(got-0.9) > 1e-9 {
		t.Fatalf("ema score %v, want 0.9", got)
	}

	// failures count as zero improvement
	o.Controller.RecordResult(res(schedule.Moderate, 5.0, false))
	if got := o.Controller.Effectiveness(schedule.Moderate); math.Abs(got-0.81) > 1e-9 {
		t.Fatalf("failed result scored: %v", got)
	}
}

func TestControllerRecommendedStrategy(t *testing.T) {
	o, _ := newTestOptimizer(t, testConfig())
	if got := o.Controller.RecommendedStrategy(); got != schedule.Conservative {
		t.Fatalf("default recommendation %s", got)
	}

	o.Controller.RecordResult(schedule.TaskResult{
		Task: schedule.Task{Strategy: schedule.Aggressive}, Success: true, Improvement: 2,
	})
	o.Controller.RecordResult(schedule.TaskResult{
		Task: schedule.Task{Strategy: schedule.Moderate}, Success: true, Improvement: 0.5,
	})
	if got := o.Controller.RecommendedStrategy(); got != schedule.Aggressive {
		t.Fatalf("recommendation %s, want aggressive", got)
	}
}

func TestControllerSetBundle(t *testing.T) {
	cfg := testConfig()
	cfg.Adaptive = true
	o, clk := newTestOptimizer(t, cfg)

	o.Controller.SetBundle(StateCritical, schedule.Moderate, schedule.TaskRender)
	sampleAt(o, clk, 34, 0)
	if o.Tasks.Pending() != 1 {
		t.Fatalf("override bundle queued %d", o.Tasks.Pending())
	}
}
