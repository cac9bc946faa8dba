package uiopt

import (
	"testing"

	"github.com/DevonLowjamski/canopy/engine/schedule"
	"github.com/DevonLowjamski/canopy/engine/ui"
)

func TestStepProducesMetric(t *testing.T) {
	o, _ := newTestOptimizer(t, testConfig())
	o.SetViewport(ui.NewRect(0, 0, 800, 600))

	in := makeBadge(10, 10, 20, 20)
	in.Node().SetMaterial("glass")
	out := makeBadge(5000, 10, 20, 20)
	o.RegisterElement(in)
	o.RegisterElement(out)

	m := o.Step(0, 0, 1.0/60)
	if m.Visible != 1 || m.Culled != 1 {
		t.Fatalf("metric visible=%d culled=%d", m.Visible, m.Culled)
	}
	if m.Batches != 1 || len(o.Batches()) != 1 {
		t.Fatalf("batches %d / %d", m.Batches, len(o.Batches()))
	}
	if m.FPS != 60 {
		t.Fatalf("fps %v", m.FPS)
	}
	if o.History.Len() != 1 {
		t.Fatalf("metric not recorded")
	}
}

func TestStepRelaxesPressureWhenOptimal(t *testing.T) {
	o, clk := newTestOptimizer(t, testConfig())
	o.SetViewport(ui.NewRect(0, 0, 800, 600))

	o.LOD.SetBias(2)
	clk.advance(o.Config().OptimizeInterval * 2)
	o.Step(0, 0, 0.005) // 5ms frame: optimal

	if o.LOD.Bias() != 0 {
		t.Fatalf("bias %d not relaxed", o.LOD.Bias())
	}
}

func TestStepDrainsQueuedTasksAndRecordsResults(t *testing.T) {
	o, clk := newTestOptimizer(t, testConfig())
	o.SetViewport(ui.NewRect(0, 0, 800, 600))

	var applied []schedule.TaskResult
	o.Events.OnTaskApplied(func(r schedule.TaskResult) { applied = append(applied, r) })

	o.Tasks.Enqueue(schedule.TaskRender, schedule.Aggressive)
	clk.advance(o.Config().OptimizeInterval * 2)
	o.Step(0, 0, 0.040) // keeps the controller away from optimal

	if len(applied) != 1 {
		t.Fatalf("tasks applied %d, want 1", len(applied))
	}
	if !applied[0].Success {
		t.Fatalf("render task failed: %+v", applied[0])
	}
	if o.LOD.Bias() != 2 {
		t.Fatalf("aggressive render bias %d, want 2", o.LOD.Bias())
	}
	if o.Tasks.Pending() != 0 {
		t.Fatalf("task left pending")
	}
}

func TestStepGeometryTaskRaisesBatchCap(t *testing.T) {
	o, clk := newTestOptimizer(t, testConfig())
	o.SetViewport(ui.NewRect(0, 0, 800, 600))
	base := o.Config().MaxBatchSize

	o.Tasks.Enqueue(schedule.TaskGeometry, schedule.Moderate)
	clk.advance(o.Config().OptimizeInterval * 2)
	o.Step(0, 0, 0.040)

	if got := o.Config().MaxBatchSize; got != base*2 {
		t.Fatalf("batch cap %d, want %d", got, base*2)
	}

	// a healthy frame restores the configured cap
	clk.advance(o.Config().OptimizeInterval * 2)
	o.Step(0, 0, 0.005)
	if got := o.Config().MaxBatchSize; got != base {
		t.Fatalf("batch cap %d not restored", got)
	}
}

func TestPoolCreatedOnFirstUse(t *testing.T) {
	o, _ := newTestOptimizer(t, testConfig())
	p1, err := o.Pool(ui.KindBadge)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	p2, err := o.Pool(ui.KindBadge)
	if err != nil || p1 != p2 {
		t.Fatalf("pool not cached")
	}
	if _, err := o.Pool("hologram"); err == nil {
		t.Fatalf("unknown kind pooled")
	}
}

func TestStepDrainsDeferredUpdates(t *testing.T) {
	o, clk := newTestOptimizer(t, testConfig())
	o.SetViewport(ui.NewRect(0, 0, 800, 600))

	ran := false
	o.Updates.Enqueue(func() { ran = true }, schedule.Normal)
	clk.advance(o.Config().OptimizeInterval * 2)
	o.Step(0, 0, 0.005)
	if !ran {
		t.Fatalf("deferred update not drained")
	}
	if o.Updates.Pending() != 0 {
		t.Fatalf("update left pending")
	}
}
