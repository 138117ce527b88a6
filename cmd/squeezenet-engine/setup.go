package main

import (
	"fmt"

	"fpgacnn/internal/assets"
	"fpgacnn/internal/netconfig"
)

// prepared holds everything needed to run the engine, plus enough to
// rebuild a fresh DRAM buffer for repeated benchmark iterations — Run
// mutates its buffer in place, so every iteration needs its own copy.
type prepared struct {
	layers        []netconfig.Layer
	weights       []float32
	image         []float32
	weightsOffset uint32
	inputOffset   uint32
}

func prepare(networkPath, weightsPath, imagePath string) (*prepared, error) {
	desc, err := netconfig.LoadNetworkDescription(networkPath)
	if err != nil {
		return nil, err
	}
	layers, err := netconfig.ResolveAddresses(*desc)
	if err != nil {
		return nil, err
	}

	weights, err := assets.LoadWeightsFile(weightsPath, layers)
	if err != nil {
		return nil, err
	}
	image, err := assets.LoadImageFile(imagePath, desc.InputHeight, desc.InputWidth, desc.InputChannels)
	if err != nil {
		return nil, err
	}

	tableSize := uint32(len(layers) * 12)
	weightsOffset := tableSize
	inputOffset := weightsOffset + uint32(len(weights))

	return &prepared{
		layers:        layers,
		weights:       weights,
		image:         image,
		weightsOffset: weightsOffset,
		inputOffset:   inputOffset,
	}, nil
}

func (p *prepared) dram() []float32 {
	return assets.BuildDRAM(p.layers, p.weights, p.image, p.weightsOffset, p.inputOffset)
}

func (p *prepared) terminalChannelsOut() (int, error) {
	for i := len(p.layers) - 1; i >= 0; i-- {
		if p.layers[i].Pool == netconfig.PoolGlobal {
			return p.layers[i].ChannelsOut, nil
		}
	}
	return 0, fmt.Errorf("network has no global-pooled terminal layer")
}
