// Package uiopt is the UI render optimizer: visibility culling, LOD
// transitions, draw batching and adaptive feedback control, run once per
// frame from the frame goroutine.
package uiopt

import (
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/DevonLowjamski/canopy/engine/pool"
)

// Config carries every optimizer tunable. Invalid values are clamped with
// a logged warning; configuration is never fatal.
type Config struct {
	// Culling.
	ViewportMargin     float32 `json:"viewportMargin"`     // pixels added around the viewport before culling
	MaxVisibleElements int     `json:"maxVisibleElements"` // hard cap on elements kept visible per pass
	EnableOcclusion    bool    `json:"enableOcclusion"`

	// LOD. Distance bands are ascending distances mapping to Medium, Low
	// and Minimal; size bands are ascending screen areas below which an
	// element drops to Minimal, Low and Medium respectively.
	EnableDistanceLOD bool       `json:"enableDistanceLod"`
	EnableSizeLOD     bool       `json:"enableSizeLod"`
	LODDistanceBands  [3]float32 `json:"lodDistanceBands"`
	LODSizeBands      [3]float32 `json:"lodSizeBands"`
	LODTransitionRate float64    `json:"lodTransitionRate"` // transition progress per second

	// Batching.
	EnableMaterialBatching bool    `json:"enableMaterialBatching"`
	EnableGeometryBatching bool    `json:"enableGeometryBatching"`
	MaxBatchSize           int     `json:"maxBatchSize"`
	BatchAreaDivisor       float32 `json:"batchAreaDivisor"` // priority = floor(aggregate area / divisor)

	// Adaptive control.
	Adaptive          bool          `json:"adaptive"`
	OptimizeInterval  time.Duration `json:"optimizeInterval"`
	FrameTimeTargetMs float64       `json:"frameTimeTargetMs"`
	GoodFrameMult     float64       `json:"goodFrameMult"`
	PoorFrameMult     float64       `json:"poorFrameMult"`
	CriticalFrameMult float64       `json:"criticalFrameMult"`
	MemoryTargetMB    float64       `json:"memoryTargetMb"`
	MemoryMaxMB       float64       `json:"memoryMaxMb"`

	// Frame-loop budgets and queue ceilings.
	FrameBudget   time.Duration `json:"frameBudget"` // per-frame drain budget for tasks and updates
	TaskQueueMax  int           `json:"taskQueueMax"`
	UpdateTierMax int           `json:"updateTierMax"`
	MetricHistory int           `json:"metricHistory"`

	Pool pool.Config `json:"pool"`
}

// DefaultConfig returns the tunables used by the sandbox.
func DefaultConfig() Config {
	return Config{
		ViewportMargin:         64,
		MaxVisibleElements:     2000,
		EnableOcclusion:        true,
		EnableDistanceLOD:      true,
		EnableSizeLOD:          true,
		LODDistanceBands:       [3]float32{400, 900, 1600},
		LODSizeBands:           [3]float32{64, 256, 1024},
		LODTransitionRate:      4, // full transition in 250ms
		EnableMaterialBatching: true,
		EnableGeometryBatching: false,
		MaxBatchSize:           64,
		BatchAreaDivisor:       10000,
		Adaptive:               true,
		OptimizeInterval:       500 * time.Millisecond,
		FrameTimeTargetMs:      16.6,
		GoodFrameMult:          1.15,
		PoorFrameMult:          1.5,
		CriticalFrameMult:      2.0,
		MemoryTargetMB:         256,
		MemoryMaxMB:            512,
		FrameBudget:            2 * time.Millisecond,
		TaskQueueMax:           64,
		UpdateTierMax:          256,
		MetricHistory:          240,
		Pool: pool.Config{
			Initial:         32,
			Max:             256,
			Growth:          16,
			CleanupInterval: 5 * time.Second,
		},
	}
}

// Validate clamps out-of-range values to sane minimums, logging each
// correction. It returns the corrected config.
func (c Config) Validate() Config {
	d := DefaultConfig()
	if c.ViewportMargin < 0 {
		log.Printf("uiopt: viewportMargin %.1f clamped to 0", c.ViewportMargin)
		c.ViewportMargin = 0
	}
	if c.MaxVisibleElements < 1 {
		log.Printf("uiopt: maxVisibleElements %d reset to %d", c.MaxVisibleElements, d.MaxVisibleElements)
		c.MaxVisibleElements = d.MaxVisibleElements
	}
	c.LODDistanceBands = ascendingBands("lodDistanceBands", c.LODDistanceBands, d.LODDistanceBands)
	c.LODSizeBands = ascendingBands("lodSizeBands", c.LODSizeBands, d.LODSizeBands)
	if c.LODTransitionRate <= 0 {
		log.Printf("uiopt: lodTransitionRate %.2f reset to %.2f", c.LODTransitionRate, d.LODTransitionRate)
		c.LODTransitionRate = d.LODTransitionRate
	}
	if c.MaxBatchSize < 1 {
		log.Printf("uiopt: maxBatchSize %d reset to %d", c.MaxBatchSize, d.MaxBatchSize)
		c.MaxBatchSize = d.MaxBatchSize
	}
	if c.BatchAreaDivisor <= 0 {
		c.BatchAreaDivisor = d.BatchAreaDivisor
	}
	if c.OptimizeInterval <= 0 {
		log.Printf("uiopt: optimizeInterval must be positive, reset to %s", d.OptimizeInterval)
		c.OptimizeInterval = d.OptimizeInterval
	}
	if c.FrameTimeTargetMs <= 0 {
		c.FrameTimeTargetMs = d.FrameTimeTargetMs
	}
	if c.GoodFrameMult <= 1 {
		c.GoodFrameMult = d.GoodFrameMult
	}
	// Thresholds must stay strictly ascending, so out-of-order values clamp
	// relative to the preceding multiplier, not to the defaults.
	if c.PoorFrameMult <= c.GoodFrameMult {
		log.Printf("uiopt: poorFrameMult %.2f raised above goodFrameMult %.2f", c.PoorFrameMult, c.GoodFrameMult)
		c.PoorFrameMult = c.GoodFrameMult * 1.3
	}
	if c.CriticalFrameMult <= c.PoorFrameMult {
		log.Printf("uiopt: criticalFrameMult %.2f raised above poorFrameMult %.2f", c.CriticalFrameMult, c.PoorFrameMult)
		c.CriticalFrameMult = c.PoorFrameMult * 1.35
	}
	if c.MemoryTargetMB <= 0 {
		c.MemoryTargetMB = d.MemoryTargetMB
	}
	if c.MemoryMaxMB <= c.MemoryTargetMB {
		log.Printf("uiopt: memoryMaxMb %.0f raised above target %.0f", c.MemoryMaxMB, c.MemoryTargetMB)
		c.MemoryMaxMB = c.MemoryTargetMB * 2
	}
	if c.FrameBudget <= 0 {
		c.FrameBudget = d.FrameBudget
	}
	if c.TaskQueueMax < 1 {
		c.TaskQueueMax = d.TaskQueueMax
	}
	if c.UpdateTierMax < 1 {
		c.UpdateTierMax = d.UpdateTierMax
	}
	if c.MetricHistory < 1 {
		c.MetricHistory = d.MetricHistory
	}
	return c
}

func ascendingBands(name string, bands, fallback [3]float32) [3]float32 {
	if bands[0] <= 0 || bands[1] <= bands[0] || bands[2] <= bands[1] {
		log.Printf("uiopt: %s %v must be positive ascending, reset to %v", name, bands, fallback)
		return fallback
	}
	return bands
}

// LoadConfig reads a JSON config file, applying defaults for absent fields
// and clamping the rest. A missing file yields the defaults.
func LoadConfig(path string) Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("uiopt: read config %s: %v", path, err)
		}
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("uiopt: parse config %s: %v (using defaults)", path, err)
		return DefaultConfig()
	}
	return cfg.Validate()
}
