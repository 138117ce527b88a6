package netconfig

// SampleFireNetwork returns a small SqueezeNet-shaped network: a 1x1 "squeeze"
// convolution followed by a fire module (parallel 1x1 and 3x3 "expand"
// branches interleaved via the factor-2 addressing trick of §4.1) and a
// global-pooled classifier layer. It plays the same role as the teacher's
// GetTinyCNNArchitecture — a named, fixed reference topology — but emits
// netconfig.Layer records addressed the way the engine's DRAM layout
// expects, rather than the teacher's per-layer-type LayerConfig.
//
// mem_addr_* are chosen relative to a single activations region; callers
// (tests, CLI) are responsible for allocating a DRAM buffer large enough to
// hold the layer table, weights and activations at non-overlapping offsets
// (the offline planner contract of §6).
func SampleFireNetwork(inputWidth, inputHeight, inputChannels, numClasses int) []Layer {
	const squeezeChannels = 8
	const expandChannels = 16

	squeeze := Layer{
		Name:        "sqz1x1",
		Width:       inputWidth,
		Height:      inputHeight,
		ChannelsIn:  inputChannels,
		ChannelsOut: squeezeChannels,
		Kernel:      1,
		Pad:         0,
		Stride:      1,

		MemAddrInput:  0,
		MemAddrOutput: inputWidth * inputHeight * inputChannels,
	}

	expandBase := squeeze.MemAddrOutput + inputWidth*inputHeight*squeezeChannels

	expand1x1 := Layer{
		Name:        "exp1x1",
		Width:       inputWidth,
		Height:      inputHeight,
		ChannelsIn:  squeezeChannels,
		ChannelsOut: expandChannels,
		Kernel:      1,
		Pad:         0,
		Stride:      1,

		MemAddrInput:  squeeze.MemAddrOutput,
		MemAddrOutput: expandBase,
		IsExpandLayer: true,
	}

	expand3x3 := Layer{
		Name:        "exp3x3",
		Width:       inputWidth,
		Height:      inputHeight,
		ChannelsIn:  squeezeChannels,
		ChannelsOut: expandChannels,
		Kernel:      3,
		Pad:         1,
		Stride:      1,

		MemAddrInput:  squeeze.MemAddrOutput,
		MemAddrOutput: expandBase + expandChannels,
		IsExpandLayer: true,
	}

	classifyBase := expandBase + 2*inputWidth*inputHeight*expandChannels
	classify := Layer{
		Name:        "clsfy",
		Width:       inputWidth,
		Height:      inputHeight,
		ChannelsIn:  2 * expandChannels,
		ChannelsOut: numClasses,
		Kernel:      1,
		Pad:         0,
		Stride:      1,

		MemAddrInput:  expandBase,
		MemAddrOutput: classifyBase,
		Pool:          PoolGlobal,
	}

	layers := []Layer{squeeze, expand1x1, expand3x3, classify}

	// Weight offsets are assigned sequentially after the sample has fixed
	// the activation addresses above; each layer's weights segment is
	// channels_in*channels_out*weights_per_filter + channels_out floats.
	weightsCursor := 0
	for i := range layers {
		layers[i].MemAddrWeights = weightsCursor
		weightsCursor += layers[i].ChannelsIn*layers[i].ChannelsOut*layers[i].WeightsPerFilter() + layers[i].ChannelsOut
	}

	return layers
}
