// Package pe implements the Processing Element (§4.5): a uniform 3x3 MACC
// unit. Every layer — 1x1 or 3x3 — is processed through the same 9-tap
// datapath; the Weights Cache lifts a 1x1 filter's single scalar into the
// centre of an otherwise-zero 3x3 kernel so the PE never special-cases
// kernel size.
package pe

import (
	"fpgacnn/internal/netconfig"
	"fpgacnn/internal/outputcache"
	"fpgacnn/internal/weightscache"
)

// imageCache is the subset of imagecache.Cache the PE reads pixels from.
type imageCache interface {
	GetPixel(y, x, ci int) float32
}

// Unit is a Processing Element. coOffset and numPE partition the output
// channels across cooperating Units when N_PE > 1 (§4.6, §5): Unit i
// processes co = coOffset, coOffset+numPE, coOffset+2*numPE, ... so every
// co is owned by exactly one Unit and the partition never races.
type Unit struct {
	chOut int

	coOffset int
	numPE    int

	window [9]float32 // row-major 3x3 sample window around the current pixel
}

// New returns a Unit that processes every output channel (equivalent to
// NewPartitioned with coOffset=0, numPE=1).
func New() *Unit {
	return &Unit{numPE: 1}
}

// NewPartitioned returns a Unit that owns output channels
// coOffset, coOffset+numPE, coOffset+2*numPE, ... of the layer, for use
// when the engine fans work out across N_PE cooperating Units.
func NewPartitioned(coOffset, numPE int) *Unit {
	return &Unit{coOffset: coOffset, numPE: numPE}
}

// SetLayerConfig reconfigures the Unit's geometry for layer l.
func (pe *Unit) SetLayerConfig(l netconfig.Layer) {
	pe.chOut = l.ChannelsOut
}

// preloadPixels fills the 3x3 window around (yCenter, xCenter) for input
// channel ci, reading through ic. A tap is zero — without ever calling
// ic.GetPixel — when it falls outside [0,widthIn)x[0,heightIn): this is
// the only padding decision the Unit makes, for both 1x1 and 3x3 layers
// (§4.5).
func (pe *Unit) preloadPixels(ic imageCache, yCenter, xCenter, ci, widthIn, heightIn int) {
	for k := 0; k < 3; k++ {
		y := yCenter + k - 1
		for l := 0; l < 3; l++ {
			x := xCenter + l - 1
			if y < 0 || y >= heightIn || x < 0 || x >= widthIn {
				pe.window[k*3+l] = 0
				continue
			}
			pe.window[k*3+l] = ic.GetPixel(y, x, ci)
		}
	}
}

// macc2d multiplies the resident window against a 3x3 tap set and returns
// the sum, left-to-right top-to-bottom — the fixed summation order the
// determinism property (§8) depends on.
func macc2d(window, taps [9]float32) float32 {
	var sum float32
	for i := 0; i < 9; i++ {
		sum += window[i] * taps[i]
	}
	return sum
}

// processAllCHout accumulates this Unit's owned output channels'
// contribution from the resident window into oc, fetching taps from wc.
func (pe *Unit) processAllCHout(wc *weightscache.Cache, oc *outputcache.Cache) {
	stride := pe.numPE
	if stride <= 0 {
		stride = 1
	}
	for co := pe.coOffset; co < pe.chOut; co += stride {
		taps := wc.GetNineWeights(co)
		oc.AccumulateChannel(co, macc2d(pe.window, taps))
	}
}

// ProcessInputChannel preloads this input channel's window and accumulates
// every owned output channel's contribution (§4.5's processInputChannel).
// The caller must have already called wc.SetInputChannel(ci) — when
// several Units cooperate (N_PE>1) they share one Weights Cache read-only
// during this phase (§5), so selecting ci is the top driver's job, done
// once per ci rather than once per Unit.
func (pe *Unit) ProcessInputChannel(wc *weightscache.Cache, oc *outputcache.Cache, ic imageCache, y, x, ci, widthIn, heightIn int) {
	pe.preloadPixels(ic, y, x, ci, widthIn, heightIn)
	pe.processAllCHout(wc, oc)
}
