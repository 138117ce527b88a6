// Package memctl implements the Memory Controller (§4.1): the component
// that addresses the shared DRAM buffer for weights, input pixels and
// output pixels, one layer at a time, with sequential offset bookkeeping.
package memctl

import (
	"fmt"

	"fpgacnn/internal/netconfig"
	"fpgacnn/internal/outputcache"
)

// Controller holds the two base pointers (DRAM_WEIGHTS, DRAM_DATA) derived
// once at construction, plus the per-layer cursors §4.1 describes. It never
// allocates; every access is an index into the caller-owned dram slice.
type Controller struct {
	dram []float32

	dramWeightsBase int // DRAM_WEIGHTS = base + weights_offset
	dramDataBase    int // DRAM_DATA = base + input_offset

	weightsCursor int // dram_weights_offset
	inputBase     int // dram_input_offset (this layer's input base)
	outputBase    int // dram_output_offset (this layer's output base)
	pixelCursor   int // dram_pixel_offset

	pixelsPerRow  int
	chOut         int
	widthOut      int
	isExpandLayer bool
}

// New derives DRAM_WEIGHTS and DRAM_DATA from weightsOffset/inputOffset and
// returns a Controller ready for LoadConfig.
func New(dram []float32, weightsOffset, inputOffset uint32) *Controller {
	return &Controller{
		dram:            dram,
		dramWeightsBase: int(weightsOffset),
		dramDataBase:    int(inputOffset),
	}
}

// LoadConfig reads numLayers*12 floats from DRAM offset 0 and decodes the
// layer table (§4.1, §6).
func (mc *Controller) LoadConfig(numLayers int) ([]netconfig.Layer, error) {
	return netconfig.DecodeLayerTable(mc.dram, numLayers)
}

// SetLayerConfig copies the offsets and derived sizes for layer l.
func (mc *Controller) SetLayerConfig(l netconfig.Layer) {
	mc.weightsCursor = mc.dramWeightsBase + l.MemAddrWeights
	mc.inputBase = mc.dramDataBase + l.MemAddrInput
	mc.outputBase = mc.dramDataBase + l.MemAddrOutput
	mc.pixelsPerRow = l.Width * l.ChannelsIn
	mc.chOut = l.ChannelsOut
	mc.widthOut = l.WidthOut()
	mc.isExpandLayer = l.IsExpandLayer
}

func (mc *Controller) checkRange(idx int, what string) {
	if idx < 0 || idx >= len(mc.dram) {
		panic(fmt.Sprintf("memctl: DRAM out-of-range access at index %d (%s), buffer length %d", idx, what, len(mc.dram)))
	}
}

// LoadNextWeight returns DRAM_WEIGHTS[dram_weights_offset] and advances the
// cursor. The caller (WeightsCache) bounds the number of calls; this only
// guards against reading past the caller-supplied buffer (§7).
func (mc *Controller) LoadNextWeight() float32 {
	mc.checkRange(mc.weightsCursor, "weight load")
	v := mc.dram[mc.weightsCursor]
	mc.weightsCursor++
	return v
}

// SetPixelLoadRow points the pixel cursor at the start of row y of the
// current layer's input region.
func (mc *Controller) SetPixelLoadRow(y int) {
	mc.pixelCursor = mc.inputBase + mc.pixelsPerRow*y
}

// LoadNextChannel returns one input element and advances the pixel cursor.
func (mc *Controller) LoadNextChannel() float32 {
	mc.checkRange(mc.pixelCursor, "pixel load")
	v := mc.dram[mc.pixelCursor]
	mc.pixelCursor++
	return v
}

// WriteBackOutputPixel writes chOut consecutive elements from oc starting
// at DRAM_DATA + dram_output_offset + stride_factor*chOut*(width_out*yOut+xOut).
// stride_factor is 2 for expand layers, reserving the interleaved slots the
// twin expand branch writes into (§4.1).
func (mc *Controller) WriteBackOutputPixel(yOut, xOut int, oc *outputcache.Cache, chOut int) {
	strideFactor := 1
	if mc.isExpandLayer {
		strideFactor = 2
	}
	base := mc.outputBase + strideFactor*chOut*(mc.widthOut*yOut+xOut)
	for c := 0; c < chOut; c++ {
		idx := base + c
		mc.checkRange(idx, "output pixel write")
		mc.dram[idx] = oc.GetChannel(c)
	}
}

// WriteBackResult writes chOut elements from the global-pool cache into
// DRAM_DATA[0..chOut) — the final scalar-per-channel result.
func (mc *Controller) WriteBackResult(chOut int, gpool *outputcache.Cache) {
	for c := 0; c < chOut; c++ {
		idx := mc.dramDataBase + c
		mc.checkRange(idx, "global pool result write")
		mc.dram[idx] = gpool.GetChannel(c)
	}
}
