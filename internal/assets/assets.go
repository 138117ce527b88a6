// Package assets loads the weights and input image blobs the engine
// expects to find packed into its shared DRAM buffer, and assembles that
// buffer from them. It is grounded in the file-backed loaders of the
// teacher's data package, adapted from per-tensor float32 loads into the
// engine's flat-buffer DRAM model.
package assets

import (
	"encoding/binary"
	"fmt"
	"os"

	"fpgacnn/internal/netconfig"
)

// LoadWeightsFile reads a little-endian float32 binary file holding the
// full weights blob for a network — every layer's
// channels_in*channels_out*weights_per_filter tap values followed by its
// channels_out bias values, concatenated in layer order — and validates
// its size against the layer table before returning it.
func LoadWeightsFile(path string, layers []netconfig.Layer) ([]float32, error) {
	expected := 0
	for _, l := range layers {
		expected += l.ChannelsIn*l.ChannelsOut*l.WeightsPerFilter() + l.ChannelsOut
	}
	out, err := loadFloat32File(path, expected)
	if err != nil {
		return nil, fmt.Errorf("assets: weights file: %w", err)
	}
	return out, nil
}

// LoadImageFile reads a little-endian float32 binary file holding a single
// height*width*channels input image.
func LoadImageFile(path string, height, width, channels int) ([]float32, error) {
	out, err := loadFloat32File(path, height*width*channels)
	if err != nil {
		return nil, fmt.Errorf("assets: image file: %w", err)
	}
	return out, nil
}

func loadFloat32File(path string, expectedElements int) ([]float32, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	expectedBytes := int64(expectedElements) * 4
	if info.Size() != expectedBytes {
		return nil, fmt.Errorf("%s has wrong size: expected %d bytes (%d float32s), got %d bytes",
			path, expectedBytes, expectedElements, info.Size())
	}

	out := make([]float32, expectedElements)
	if err := binary.Read(file, binary.LittleEndian, out); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return out, nil
}

// BuildDRAM assembles a single shared DRAM buffer: the encoded layer table
// at offset 0, the weights blob at weightsOffset, and the input image at
// inputOffset — sized to additionally hold the largest activation region
// any layer writes back into, per the offline planner's mem_addr_* choices.
func BuildDRAM(layers []netconfig.Layer, weights, image []float32, weightsOffset, inputOffset uint32) []float32 {
	dataRegionSize := len(image)
	for _, l := range layers {
		strideFactor := 1
		if l.IsExpandLayer {
			strideFactor = 2
		}
		need := l.MemAddrOutput + strideFactor*l.ChannelsOut*l.WidthOut()*l.HeightOut()
		if need > dataRegionSize {
			dataRegionSize = need
		}
	}

	total := int(inputOffset) + dataRegionSize
	if weightsEnd := int(weightsOffset) + len(weights); weightsEnd > total {
		total = weightsEnd
	}

	dram := make([]float32, total)
	copy(dram, netconfig.EncodeLayerTable(layers))
	copy(dram[weightsOffset:], weights)
	copy(dram[inputOffset:], image)
	return dram
}

// ReadResult returns the channels_out values of a terminal global-pooled
// layer's classification result, found at dram[inputOffset : inputOffset+channelsOut]
// once Run has completed (§4.1 WriteBackResult).
func ReadResult(dram []float32, inputOffset uint32, channelsOut int) []float32 {
	out := make([]float32, channelsOut)
	copy(out, dram[inputOffset:int(inputOffset)+channelsOut])
	return out
}
