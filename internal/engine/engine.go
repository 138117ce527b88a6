// Package engine implements the Top Driver (§4.6): the component that
// walks the layer table and, for every layer, drives the Memory
// Controller, Image Cache, Weights Cache, Output Cache and Processing
// Elements through the streaming convolution sweep, finishing with bias,
// ReLU, optional global-pool accumulation and writeback.
package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fpgacnn/internal/imagecache"
	"fpgacnn/internal/memctl"
	"fpgacnn/internal/netconfig"
	"fpgacnn/internal/ops"
	"fpgacnn/internal/outputcache"
	"fpgacnn/internal/pe"
	"fpgacnn/internal/weightscache"
)

// Run executes the network described by the layer table at dram[0:] against
// the weights and input image already packed into dram at weightsOffset and
// inputOffset, writing every layer's output (and, at the terminal
// global-pooled layer, the final per-channel result) back into dram in
// place. numLayers is the number of layer records to decode from the table.
//
// Internal hard assertions (malformed layer table, out-of-range DRAM
// access, cache overflow — §7) panic; Run recovers them at this boundary
// and returns a plain error instead, so callers never see a panic.
func Run(dram []float32, numLayers uint32, weightsOffset, inputOffset uint32, cfg Config) (err error) {
	runID := uuid.New().String()
	log := cfg.logger().WithField("run", runID)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("engine: run %s aborted: %v", runID, r)
		}
	}()

	mc := memctl.New(dram, weightsOffset, inputOffset)
	layers, decodeErr := mc.LoadConfig(int(numLayers))
	if decodeErr != nil {
		return fmt.Errorf("engine: run %s: %w", runID, decodeErr)
	}

	icCap, wcCap, ocCap := netconfig.MaxCacheSizes(layers)
	ic := imagecache.New(icCap)
	wc := weightscache.New(wcCap)
	oc := outputcache.New(ocCap, "oc")
	gpool := outputcache.New(ocCap, "gpool")

	units := make([]*pe.Unit, cfg.numPE())
	for i := range units {
		units[i] = pe.NewPartitioned(i, cfg.numPE())
	}

	log.WithField("layers", len(layers)).Info("run starting")

	for _, l := range layers {
		if err := l.Validate(); err != nil {
			return fmt.Errorf("engine: run %s: %w", runID, err)
		}

		layerLog := log.WithField("layer", l.Name)
		layerLog.Debugf("[layer %-6s] w=%d h=%d cin=%d cout=%d k=%d s=%d p=%d",
			l.Name, l.Width, l.Height, l.ChannelsIn, l.ChannelsOut, l.Kernel, l.Stride, l.Pad)

		mc.SetLayerConfig(l)
		ic.SetLayerConfig(l)
		wc.SetLayerConfig(l)
		for _, u := range units {
			u.SetLayerConfig(l)
		}
		if l.Pool == netconfig.PoolGlobal {
			gpool.Reset()
		}

		// The Weights Cache pulls the whole layer's taps and biases once,
		// up front — it holds them on chip for every pixel of this layer
		// rather than re-fetching per ci (§4.3, §4.6 step 2).
		wc.LoadFromDRAM(mc)

		runLayer(mc, ic, wc, oc, gpool, units, l)

		layerLog.Info("layer complete")
	}

	// The final per-channel result is written once, after the last layer
	// (§4.6 step 5), from the global-pool cache.
	if n := len(layers); n > 0 {
		mc.WriteBackResult(layers[n-1].ChannelsOut, gpool)
	}

	log.Info("run complete")
	return nil
}

// runLayer drives the streaming sweep for a single layer. The y/x loop
// walks every INPUT pixel, not every output pixel: for stride-1 layers
// every input pixel has a corresponding output pixel, but for stride-2
// layers only the even rows and columns do, so odd (y,x) are skipped
// after still advancing the Image Cache preload (§4.6 steps 3-4).
func runLayer(mc *memctl.Controller, ic *imagecache.Cache, wc *weightscache.Cache, oc, gpool *outputcache.Cache, units []*pe.Unit, l netconfig.Layer) {
	// Prime the ring: the full first row, then the first pixel of the
	// second row, so a 3x3 window centred on (0,0) is already resident
	// by the time the sweep below needs it (§4.2, §4.6 step 3).
	mc.SetPixelLoadRow(0)
	ic.PreloadRowFromDRAM(mc)
	mc.SetPixelLoadRow(1)
	ic.PreloadPixelFromDRAM(mc)

	for y := 0; y < l.Height; y++ {
		for x := 0; x < l.Width; x++ {
			// One streaming preload per iteration keeps the ring exactly
			// one row-and-pixel ahead of the position being convolved;
			// past the last pixel the Image Cache's own loads_left guard
			// makes this a silent no-op (§4.2, §7).
			ic.PreloadPixelFromDRAM(mc)

			if l.Stride == 2 && (y%2 != 0 || x%2 != 0) {
				continue
			}
			yOut, xOut := y, x
			if l.Stride == 2 {
				yOut, xOut = y/2, x/2
			}

			oc.Reset()

			for ci := 0; ci < l.ChannelsIn; ci++ {
				// Selecting ci is the top driver's job, done once here
				// before fanning out to the cooperating Units — they
				// share one Weights Cache read-only during this phase
				// (§5), so no Unit may call SetInputChannel itself.
				wc.SetInputChannel(ci)

				if len(units) == 1 {
					// The common single-PE case: no goroutine to dispatch,
					// no WaitGroup to join, just the one Unit doing the work.
					units[0].ProcessInputChannel(wc, oc, ic, y, x, ci, l.Width, l.Height)
				} else {
					var barrier sync.WaitGroup
					for _, u := range units {
						u := u
						barrier.Add(1)
						go func() {
							defer barrier.Done()
							u.ProcessInputChannel(wc, oc, ic, y, x, ci, l.Width, l.Height)
						}()
					}
					barrier.Wait()
				}
			}

			wc.SetInputChannel(l.ChannelsIn) // the bias segment
			for co := 0; co < l.ChannelsOut; co++ {
				v := ops.ReLU(oc.GetChannel(co) + wc.GetOneWeight(co))
				oc.SetChannel(co, v)
				if l.Pool == netconfig.PoolGlobal {
					gpool.AccumulateChannel(co, v)
				}
			}

			mc.WriteBackOutputPixel(yOut, xOut, oc, l.ChannelsOut)
		}
	}
}
