package uiopt

import (
	"testing"

	"github.com/DevonLowjamski/canopy/engine/ui"
)

func lodConfig() Config {
	cfg := testConfig()
	cfg.EnableDistanceLOD = true
	cfg.LODDistanceBands = [3]float32{400, 900, 1600}
	cfg.LODTransitionRate = 4 // 250ms per transition
	return cfg
}

// centeredBadge builds a 2x2 badge whose bounds center sits at (cx, cy).
func centeredBadge(cx, cy float32) *ui.Badge {
	return makeBadge(cx-1, cy-1, 2, 2)
}

// stepLOD runs the cull+lod stages with the focus at the origin.
func stepLOD(o *Optimizer, dt float64) {
	visible := o.Tracker.UpdateVisibility()
	o.LOD.Update(visible, 0, 0, dt)
}

func TestLODDistanceBands(t *testing.T) {
	cases := []struct {
		x    float32
		want Level
	}{
		{0, LevelHigh},
		{500, LevelMedium},
		{1000, LevelLow},
		{2000, LevelMinimal},
	}
	for _, tc := range cases {
		cfg := lodConfig()
		o, _ := newTestOptimizer(t, cfg)
		o.SetViewport(ui.NewRect(-3000, -3000, 6000, 6000))

		el := centeredBadge(tc.x, 0)
		o.RegisterElement(el)

		// three updates at dt=0.1 complete one transition
		for i := 0; i < 3; i++ {
			stepLOD(o, 0.1)
		}
		st, ok := o.LOD.State(el)
		if !ok {
			t.Fatalf("x=%v: no LOD state", tc.x)
		}
		if st.Current != tc.want {
			t.Fatalf("x=%v: level %s, want %s", tc.x, st.Current, tc.want)
		}
	}
}

func TestLODTransitionNeedsFullProgress(t *testing.T) {
	o, _ := newTestOptimizer(t, lodConfig())
	o.SetViewport(ui.NewRect(-3000, -3000, 6000, 6000))
	el := centeredBadge(500, 0)
	o.RegisterElement(el)

	stepLOD(o, 0.1) // progress 0.4
	st, _ := o.LOD.State(el)
	if st.Current != LevelHigh {
		t.Fatalf("level committed early")
	}
	if st.Target != LevelMedium {
		t.Fatalf("target %s, want medium", st.Target)
	}

	stepLOD(o, 0.1) // 0.8
	stepLOD(o, 0.1) // 1.2 -> commit
	st, _ = o.LOD.State(el)
	if st.Current != LevelMedium {
		t.Fatalf("level %s after full transition, want medium", st.Current)
	}
}

func TestLODOscillationNeverCommits(t *testing.T) {
	o, _ := newTestOptimizer(t, lodConfig())
	o.SetViewport(ui.NewRect(-3000, -3000, 6000, 6000))
	el := centeredBadge(500, 0)
	o.RegisterElement(el)

	commits := 0
	o.Events.OnLODChanged(func(ui.Element, Level, Level) { commits++ })

	// The element hops across the Medium boundary every update. Each hop
	// retargets and resets progress, so no transition ever completes.
	for i := 0; i < 20; i++ {
		if i%2 == 0 {
			el.Node().SetPos(389, -1)
		} else {
			el.Node().SetPos(409, -1)
		}
		stepLOD(o, 0.1)
	}
	if commits != 0 {
		t.Fatalf("oscillating element committed %d transitions", commits)
	}
	st, _ := o.LOD.State(el)
	if st.Current != LevelHigh {
		t.Fatalf("level drifted to %s", st.Current)
	}
}

func TestLODRetargetBackCompletesTransition(t *testing.T) {
	o, _ := newTestOptimizer(t, lodConfig())
	o.SetViewport(ui.NewRect(-3000, -3000, 6000, 6000))
	el := centeredBadge(409, -1) // just past the medium boundary
	o.RegisterElement(el)

	commits := 0
	o.Events.OnLODChanged(func(ui.Element, Level, Level) { commits++ })

	stepLOD(o, 0.1) // transition toward medium in flight
	el.Node().SetPos(389, -1)
	stepLOD(o, 0.1) // retargeted back to the level it already holds

	st, _ := o.LOD.State(el)
	if st.Current != LevelHigh || st.Target != LevelHigh {
		t.Fatalf("state %s->%s, want settled at high", st.Current, st.Target)
	}
	if st.Current == st.Target && st.Progress < 1 {
		t.Fatalf("settled state left with progress %v", st.Progress)
	}
	if commits != 0 {
		t.Fatalf("abandoned transition committed %d times", commits)
	}
}

func TestLODSizeDowngradesFurther(t *testing.T) {
	cfg := lodConfig()
	cfg.EnableSizeLOD = true
	cfg.LODSizeBands = [3]float32{64, 256, 1024}
	o, _ := newTestOptimizer(t, cfg)
	o.SetViewport(ui.NewRect(-3000, -3000, 6000, 6000))

	// Close to the focus (distance says High) but tiny (size says Minimal).
	el := makeBadge(10, 0, 4, 4)
	o.RegisterElement(el)

	for i := 0; i < 3; i++ {
		stepLOD(o, 0.1)
	}
	st, _ := o.LOD.State(el)
	if st.Current != LevelMinimal {
		t.Fatalf("size policy did not downgrade: %s", st.Current)
	}
}

func TestLODCommitAppliesQuality(t *testing.T) {
	o, _ := newTestOptimizer(t, lodConfig())
	o.SetViewport(ui.NewRect(-3000, -3000, 6000, 6000))
	el := centeredBadge(1000, 0) // low band
	o.RegisterElement(el)

	for i := 0; i < 3; i++ {
		stepLOD(o, 0.1)
	}
	n := el.Node()
	if n.Opacity() != 0.65 {
		t.Fatalf("opacity %v, want 0.65", n.Opacity())
	}
	if n.Shadows() {
		t.Fatalf("shadows still enabled at low")
	}
	if !n.Animations() {
		t.Fatalf("animations disabled at low")
	}
	if n.TexQuality() != ui.TexHalf {
		t.Fatalf("tex quality %v, want half", n.TexQuality())
	}
}

func TestLODBiasShiftsTarget(t *testing.T) {
	o, _ := newTestOptimizer(t, lodConfig())
	o.SetViewport(ui.NewRect(-3000, -3000, 6000, 6000))
	el := centeredBadge(0, 0) // would be High
	o.RegisterElement(el)

	o.LOD.SetBias(1)
	for i := 0; i < 3; i++ {
		stepLOD(o, 0.1)
	}
	st, _ := o.LOD.State(el)
	if st.Current != LevelMedium {
		t.Fatalf("bias not applied: %s", st.Current)
	}

	o.LOD.SetBias(99)
	if o.LOD.Bias() != int(LevelMinimal) {
		t.Fatalf("bias not clamped: %d", o.LOD.Bias())
	}
	o.LOD.SetBias(-5)
	if o.LOD.Bias() != 0 {
		t.Fatalf("negative bias accepted: %d", o.LOD.Bias())
	}
}

func TestLODUnregisterCancelsTransition(t *testing.T) {
	o, _ := newTestOptimizer(t, lodConfig())
	o.SetViewport(ui.NewRect(-3000, -3000, 6000, 6000))
	el := centeredBadge(500, 0)
	o.RegisterElement(el)

	stepLOD(o, 0.1) // transition in flight
	o.UnregisterElement(el)
	if _, ok := o.LOD.State(el); ok {
		t.Fatalf("state survived unregister")
	}
	// a later pass must not resurrect or panic
	stepLOD(o, 0.1)
}

func TestLODChangedEventCarriesLevels(t *testing.T) {
	o, _ := newTestOptimizer(t, lodConfig())
	o.SetViewport(ui.NewRect(-3000, -3000, 6000, 6000))
	el := centeredBadge(2000, 0)
	o.RegisterElement(el)

	var gotOld, gotNew Level
	fired := 0
	o.Events.OnLODChanged(func(e ui.Element, old, new Level) {
		if e != el {
			t.Fatalf("event for wrong element")
		}
		gotOld, gotNew = old, new
		fired++
	})
	for i := 0; i < 3; i++ {
		stepLOD(o, 0.1)
	}
	if fired != 1 {
		t.Fatalf("expected one commit event, got %d", fired)
	}
	if gotOld != LevelHigh || gotNew != LevelMinimal {
		t.Fatalf("event %s->%s, want high->minimal", gotOld, gotNew)
	}
}
