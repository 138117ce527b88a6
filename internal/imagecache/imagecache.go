// Package imagecache implements the Image Cache (§4.2): a rolling 3-line
// ring buffer over the current layer's input feature map, fed by streaming
// preloads from the Memory Controller.
package imagecache

import (
	"fmt"

	"fpgacnn/internal/netconfig"
)

// NumLines is the number of resident rows in the ring (§3): the minimum
// that admits a 3x3 convolution with padding.
const NumLines = 3

// memoryController is the subset of memctl.Controller the image cache
// streams channel values from.
type memoryController interface {
	LoadNextChannel() float32
}

// Cache is the Image Cache. It is sized for the largest layer in the
// network (width*channels_in*NumLines).
type Cache struct {
	bram          []float32
	nextAddr      int
	lineWidth     int // ch_in * width_in
	loadsLeft     int // line_width * height_in, remaining elements this layer
	widthIn       int
	chIn          int
}

// New allocates a Cache with the given capacity.
func New(capacity int) *Cache {
	return &Cache{bram: make([]float32, capacity)}
}

// Reset rewinds the write cursor to the start of the ring.
func (ic *Cache) Reset() {
	ic.nextAddr = 0
}

// SetLayerConfig reconfigures the cache for layer l and resets it.
func (ic *Cache) SetLayerConfig(l netconfig.Layer) {
	ic.widthIn = l.Width
	ic.chIn = l.ChannelsIn
	ic.lineWidth = l.Width * l.ChannelsIn
	ic.loadsLeft = ic.lineWidth * l.Height
	ic.Reset()
}

// SetNextChannel writes v at the write cursor and advances it, wrapping at
// line_width*NumLines.
func (ic *Cache) SetNextChannel(v float32) {
	ic.bram[ic.nextAddr] = v
	ic.nextAddr++
	if ic.nextAddr >= ic.lineWidth*NumLines {
		ic.nextAddr = 0
	}
}

// PreloadPixelFromDRAM reads ch_in values from mc and writes them into the
// ring, decrementing loads_left per value. It stops early — without
// consuming further MC reads — the moment loads_left reaches 0, even
// mid-pixel; this is the expected, non-fatal end-of-image condition (§7).
func (ic *Cache) PreloadPixelFromDRAM(mc memoryController) {
	for c := 0; c < ic.chIn; c++ {
		if ic.loadsLeft <= 0 {
			return
		}
		ic.SetNextChannel(mc.LoadNextChannel())
		ic.loadsLeft--
	}
}

// PreloadRowFromDRAM preloads an entire row (width_in pixels).
func (ic *Cache) PreloadRowFromDRAM(mc memoryController) {
	for x := 0; x < ic.widthIn; x++ {
		ic.PreloadPixelFromDRAM(mc)
	}
}

// GetPixel returns the resident value at (y, x, ci) using row index y mod 3.
// It asserts only on x, never on y (§4.2, §9 open question) — the top
// driver is the one that must guarantee y's row is resident.
func (ic *Cache) GetPixel(y, x, ci int) float32 {
	if x < 0 || x >= ic.widthIn {
		panic(fmt.Sprintf("imagecache: illegal pixel access x=%d (width_in=%d)", x, ic.widthIn))
	}
	row := ((y % NumLines) + NumLines) % NumLines
	return ic.bram[row*ic.widthIn*ic.chIn+x*ic.chIn+ci]
}
