package uiopt

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidateClamps(t *testing.T) {
	d := DefaultConfig()

	cfg := DefaultConfig()
	cfg.ViewportMargin = -10
	cfg.MaxVisibleElements = 0
	cfg.LODDistanceBands = [3]float32{900, 400, 1600} // not ascending
	cfg.LODTransitionRate = 0
	cfg.MaxBatchSize = -1
	cfg.OptimizeInterval = 0

	got := cfg.Validate()
	if got.ViewportMargin != 0 {
		t.Fatalf("margin %v, want 0", got.ViewportMargin)
	}
	if got.MaxVisibleElements != d.MaxVisibleElements {
		t.Fatalf("maxVisible %d, want default %d", got.MaxVisibleElements, d.MaxVisibleElements)
	}
	if got.LODDistanceBands != d.LODDistanceBands {
		t.Fatalf("bands %v, want defaults", got.LODDistanceBands)
	}
	if got.LODTransitionRate != d.LODTransitionRate {
		t.Fatalf("rate %v", got.LODTransitionRate)
	}
	if got.MaxBatchSize != d.MaxBatchSize {
		t.Fatalf("batch size %d", got.MaxBatchSize)
	}
	if got.OptimizeInterval != d.OptimizeInterval {
		t.Fatalf("interval %s", got.OptimizeInterval)
	}
}

func TestConfigValidateThresholdOrdering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GoodFrameMult = 1.5
	cfg.PoorFrameMult = 1.2 // below good
	got := cfg.Validate()
	if got.PoorFrameMult <= got.GoodFrameMult {
		t.Fatalf("poor %v not above good %v", got.PoorFrameMult, got.GoodFrameMult)
	}
	if got.CriticalFrameMult <= got.PoorFrameMult {
		t.Fatalf("critical %v not above poor %v", got.CriticalFrameMult, got.PoorFrameMult)
	}

	// good raised past the default critical threshold still yields a
	// strictly ascending ladder
	cfg = DefaultConfig()
	cfg.GoodFrameMult = 3
	got = cfg.Validate()
	if got.PoorFrameMult <= got.GoodFrameMult || got.CriticalFrameMult <= got.PoorFrameMult {
		t.Fatalf("thresholds not ascending: %v %v %v",
			got.GoodFrameMult, got.PoorFrameMult, got.CriticalFrameMult)
	}

	cfg = DefaultConfig()
	cfg.MemoryTargetMB = 300
	cfg.MemoryMaxMB = 200
	got = cfg.Validate()
	if got.MemoryMaxMB != 600 {
		t.Fatalf("memory max %v, want target*2", got.MemoryMaxMB)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	got := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if got != DefaultConfig() {
		t.Fatalf("missing file did not yield defaults")
	}
}

func TestLoadConfigInvalidJSONUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := LoadConfig(path); got != DefaultConfig() {
		t.Fatalf("invalid file did not yield defaults")
	}
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"viewportMargin": 32, "maxBatchSize": 16, "optimizeInterval": 250000000}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got := LoadConfig(path)
	if got.ViewportMargin != 32 {
		t.Fatalf("margin %v, want 32", got.ViewportMargin)
	}
	if got.MaxBatchSize != 16 {
		t.Fatalf("batch size %d, want 16", got.MaxBatchSize)
	}
	if got.OptimizeInterval != 250*time.Millisecond {
		t.Fatalf("interval %s, want 250ms", got.OptimizeInterval)
	}
	// absent fields keep their defaults
	if got.MaxVisibleElements != DefaultConfig().MaxVisibleElements {
		t.Fatalf("absent field lost its default")
	}
}

func TestLoadConfigClampsFileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"viewportMargin": -5, "lodDistanceBands": [0, 0, 0]}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	got := LoadConfig(path)
	if got.ViewportMargin != 0 {
		t.Fatalf("margin %v, want clamped 0", got.ViewportMargin)
	}
	if got.LODDistanceBands != DefaultConfig().LODDistanceBands {
		t.Fatalf("bands %v, want defaults", got.LODDistanceBands)
	}
}
