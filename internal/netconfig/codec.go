package netconfig

import (
	"fmt"
	"math"
)

// slotsPerLayer is the number of 4-byte float slots the layer table spends
// per layer in the shared DRAM layout (§6): width, height, channels_in,
// channels_out, kernel, stride, pad, mem_addr_input, mem_addr_output,
// mem_addr_weights, is_expand_layer, pool.
const slotsPerLayer = 12

// DecodeLayerTable reads numLayers*12 floats from raw (offset 0 of the
// shared DRAM buffer) and decodes each record. Every slot carries a 32-bit
// integer whose bit pattern was punned into the float, not its numeric
// value converted to float — see §9's design note on the float/int union.
func DecodeLayerTable(raw []float32, numLayers int) ([]Layer, error) {
	need := numLayers * slotsPerLayer
	if need > len(raw) {
		return nil, fmt.Errorf("netconfig: layer table needs %d floats, DRAM has %d", need, len(raw))
	}

	layers := make([]Layer, numLayers)
	for i := 0; i < numLayers; i++ {
		slot := raw[i*slotsPerLayer : (i+1)*slotsPerLayer]
		l := Layer{
			Name:           fmt.Sprintf("L%02d", i),
			Width:          int(bitsToInt(slot[0])),
			Height:         int(bitsToInt(slot[1])),
			ChannelsIn:     int(bitsToInt(slot[2])),
			ChannelsOut:    int(bitsToInt(slot[3])),
			Kernel:         int(bitsToInt(slot[4])),
			Stride:         int(bitsToInt(slot[5])),
			Pad:            int(bitsToInt(slot[6])),
			MemAddrInput:   int(bitsToInt(slot[7])),
			MemAddrOutput:  int(bitsToInt(slot[8])),
			MemAddrWeights: int(bitsToInt(slot[9])),
			IsExpandLayer:  bitsToInt(slot[10]) != 0,
			Pool:           poolFromFlag(bitsToInt(slot[11])),
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("netconfig: malformed layer table at index %d: %w", i, err)
		}
		layers[i] = l
	}
	return layers, nil
}

// EncodeLayerTable is the inverse of DecodeLayerTable: it punches out the
// 12-float-per-layer block a planner would place at offset 0, for use by
// test fixtures and the CLI's demo network builder (§10.1).
func EncodeLayerTable(layers []Layer) []float32 {
	out := make([]float32, len(layers)*slotsPerLayer)
	for i, l := range layers {
		slot := out[i*slotsPerLayer : (i+1)*slotsPerLayer]
		slot[0] = intToBits(int32(l.Width))
		slot[1] = intToBits(int32(l.Height))
		slot[2] = intToBits(int32(l.ChannelsIn))
		slot[3] = intToBits(int32(l.ChannelsOut))
		slot[4] = intToBits(int32(l.Kernel))
		slot[5] = intToBits(int32(l.Stride))
		slot[6] = intToBits(int32(l.Pad))
		slot[7] = intToBits(int32(l.MemAddrInput))
		slot[8] = intToBits(int32(l.MemAddrOutput))
		slot[9] = intToBits(int32(l.MemAddrWeights))
		slot[10] = intToBits(boolToInt(l.IsExpandLayer))
		slot[11] = intToBits(poolToFlag(l.Pool))
	}
	return out
}

func bitsToInt(f float32) int32 {
	return int32(math.Float32bits(f))
}

func intToBits(v int32) float32 {
	return math.Float32frombits(uint32(v))
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func poolFromFlag(v int32) Pool {
	if v == 1 {
		return PoolGlobal
	}
	return PoolNone
}

func poolToFlag(p Pool) int32 {
	if p == PoolGlobal {
		return 1
	}
	return 0
}
