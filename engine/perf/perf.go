// Package perf records per-frame optimizer metrics in a bounded ring and
// exposes the rolling statistics the adaptive controller classifies from.
package perf

import (
	"runtime"
	"time"
)

// Metric is an immutable per-pass sample.
type Metric struct {
	At         time.Time
	Processing time.Duration // optimizer pipeline time for the pass
	Visible    int
	Culled     int
	Batches    int
	FPS        float64
}

// History is a fixed-capacity ring of metrics; the oldest sample is
// evicted when full.
type History struct {
	ring  []Metric
	head  int // next write slot
	count int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{ring: make([]Metric, capacity)}
}

func (h *History) Record(m Metric) {
	h.ring[h.head] = m
	h.head = (h.head + 1) % len(h.ring)
	if h.count < len(h.ring) {
		h.count++
	}
}

func (h *History) Len() int { return h.count }
func (h *History) Cap() int { return len(h.ring) }

// Last returns the most recent sample.
func (h *History) Last() (Metric, bool) {
	if h.count == 0 {
		return Metric{}, false
	}
	i := h.head - 1
	if i < 0 {
		i += len(h.ring)
	}
	return h.ring[i], true
}

// each visits samples oldest first.
func (h *History) each(f func(Metric)) {
	start := h.head - h.count
	if start < 0 {
		start += len(h.ring)
	}
	for i := 0; i < h.count; i++ {
		f(h.ring[(start+i)%len(h.ring)])
	}
}

// AverageFrameMs is the rolling mean pipeline time in milliseconds.
func (h *History) AverageFrameMs() float64 {
	if h.count == 0 {
		return 0
	}
	var total time.Duration
	h.each(func(m Metric) { total += m.Processing })
	return float64(total.Milliseconds()) / float64(h.count)
}

// AverageFPS is the rolling mean frame rate.
func (h *History) AverageFPS() float64 {
	if h.count == 0 {
		return 0
	}
	var total float64
	h.each(func(m Metric) { total += m.FPS })
	return total / float64(h.count)
}

// Snapshot is the wire/telemetry form of the current rolling state.
type Snapshot struct {
	At             time.Time `json:"at"`
	FrameMs        float64   `json:"frameMs"`
	AverageFrameMs float64   `json:"averageFrameMs"`
	FPS            float64   `json:"fps"`
	AverageFPS     float64   `json:"averageFps"`
	Visible        int       `json:"visible"`
	Culled         int       `json:"culled"`
	Batches        int       `json:"batches"`
	MemoryMB       float64   `json:"memoryMb"`
	Goroutines     int       `json:"goroutines"`
}

// SnapshotNow assembles a snapshot from the last sample plus live runtime
// readings.
func (h *History) SnapshotNow() Snapshot {
	s := Snapshot{
		At:             time.Now(),
		AverageFrameMs: h.AverageFrameMs(),
		AverageFPS:     h.AverageFPS(),
		MemoryMB:       MemoryUsageMB(),
		Goroutines:     runtime.NumGoroutine(),
	}
	if last, ok := h.Last(); ok {
		s.FrameMs = float64(last.Processing) / float64(time.Millisecond)
		s.FPS = last.FPS
		s.Visible = last.Visible
		s.Culled = last.Culled
		s.Batches = last.Batches
	}
	return s
}

// MemoryUsageMB reads the live heap size in megabytes.
func MemoryUsageMB() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / (1 << 20)
}

// MemoryAllocs reads the cumulative allocation count.
func MemoryAllocs() uint64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Mallocs
}
