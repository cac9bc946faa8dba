package uiopt

import "strconv"

// BatchKind says which equivalence key grouped a batch.
type BatchKind int

const (
	BatchMaterial BatchKind = iota
	BatchGeometry
)

func (k BatchKind) String() string {
	if k == BatchGeometry {
		return "geo"
	}
	return "mat"
}

// Batch is a bounded group of render states sharing a batching key.
// Batches are rebuilt from scratch every pass; identity does not persist
// across frames beyond the key embedded in the ID.
type Batch struct {
	ID       string
	Kind     BatchKind
	Key      string
	States   []*RenderState
	Priority int // floor(aggregate screen area / divisor); larger dispatches first
}

// Assembler partitions visible elements into material and/or geometry
// batches, each capped at the configured max size.
type Assembler struct {
	cfg *Config
}

func newAssembler(cfg *Config) *Assembler { return &Assembler{cfg: cfg} }

// Rebuild produces this pass's batches and writes batch ids back onto the
// member render states. With both groupings enabled an element belongs to
// one batch per grouping; its recorded BatchID comes from the last
// grouping run.
func (a *Assembler) Rebuild(visible []*RenderState) []Batch {
	var out []Batch
	if a.cfg.EnableMaterialBatching {
		out = a.group(out, visible, BatchMaterial, materialKey)
	}
	if a.cfg.EnableGeometryBatching {
		out = a.group(out, visible, BatchGeometry, geometryKey)
	}
	return out
}

func (a *Assembler) group(out []Batch, visible []*RenderState, kind BatchKind, keyOf func(*RenderState) string) []Batch {
	groups := make(map[string][]*RenderState)
	var keys []string // first-seen order keeps rebuilds deterministic
	for _, rs := range visible {
		k := keyOf(rs)
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], rs)
	}

	for _, k := range keys {
		members := groups[k]
		for chunk := 0; len(members) > 0; chunk++ {
			n := a.cfg.MaxBatchSize
			if n > len(members) {
				n = len(members)
			}
			b := Batch{
				ID:     kind.String() + ":" + k + ":" + strconv.Itoa(chunk),
				Kind:   kind,
				Key:    k,
				States: members[:n],
			}
			var area float32
			for _, rs := range b.States {
				area += rs.Bounds.Area()
				rs.BatchID = b.ID
			}
			b.Priority = int(area / a.cfg.BatchAreaDivisor)
			out = append(out, b)
			members = members[n:]
		}
	}
	return out
}

// materialKey groups by explicit material, falling back to the element
// kind so untagged elements of one kind still share draw state.
func materialKey(rs *RenderState) string {
	if m := rs.Element.Node().Material(); m != "" {
		return m
	}
	return "kind/" + string(rs.Element.Kind())
}

// geometryKey buckets by kind and quantized size, so same-shaped elements
// share instance geometry.
func geometryKey(rs *RenderState) string {
	const step = 16
	w := int(rs.Bounds.W)/step*step + step
	h := int(rs.Bounds.H)/step*step + step
	return string(rs.Element.Kind()) + "/" + strconv.Itoa(w) + "x" + strconv.Itoa(h)
}
