// Package outputcache implements the Output Cache (§4.4): a flat
// per-output-channel accumulator. Two instances are used per engine run —
// the per-pixel cache reset before every output pixel, and the global-pool
// cache reset once and accumulated across the whole terminal layer.
package outputcache

// Cache is the Output Cache. It is sized for the largest channels_out in
// the network; reset is always O(capacity) regardless of the current
// layer's channels_out (§4.4 contract) — callers index only [0, chOut).
type Cache struct {
	bram []float32
	name string
}

// New allocates a Cache with the given capacity, tagged with a debug name.
func New(capacity int, name string) *Cache {
	return &Cache{bram: make([]float32, capacity), name: name}
}

// Name returns the cache's debug name.
func (oc *Cache) Name() string { return oc.name }

// Reset zeros every slot.
func (oc *Cache) Reset() {
	for i := range oc.bram {
		oc.bram[i] = 0
	}
}

// GetChannel returns the accumulated value for output channel c.
func (oc *Cache) GetChannel(c int) float32 { return oc.bram[c] }

// SetChannel overwrites the value for output channel c.
func (oc *Cache) SetChannel(c int, v float32) { oc.bram[c] = v }

// AccumulateChannel adds v into output channel c's slot.
func (oc *Cache) AccumulateChannel(c int, v float32) { oc.bram[c] += v }
