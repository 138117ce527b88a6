package netconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NetworkDescription is the YAML-configured network the CLI builds a layer
// table from: named dimensions instead of a baked-in Layer struct, the way
// the teacher's config.Config names a dataset instead of a tensor shape.
type NetworkDescription struct {
	ModelName     string        `yaml:"model_name"`
	InputWidth    int           `yaml:"input_width"`
	InputHeight   int           `yaml:"input_height"`
	InputChannels int           `yaml:"input_channels"`
	NumClasses    int           `yaml:"num_classes"`
	Layers        []LayerConfig `yaml:"layers"`
}

// LayerConfig is one YAML-described layer. Addressing (mem_addr_*) is not
// part of the description — it is computed by ResolveAddresses, matching
// the offline planner's responsibility (§6), not the network architect's.
type LayerConfig struct {
	Name          string `yaml:"name"`
	ChannelsOut   int    `yaml:"channels_out"`
	Kernel        int    `yaml:"kernel"`
	Stride        int    `yaml:"stride"`
	IsExpandLayer bool   `yaml:"is_expand_layer"`
	Pool          string `yaml:"pool"` // "", "global"
}

// LoadNetworkDescription reads and parses a YAML network description file.
func LoadNetworkDescription(path string) (*NetworkDescription, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("netconfig: failed to read %s: %w", path, err)
	}
	var desc NetworkDescription
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return nil, fmt.Errorf("netconfig: failed to parse %s: %w", path, err)
	}
	return &desc, nil
}

// ResolveAddresses expands a NetworkDescription into a fully addressed
// Layer table: spatial dims are threaded layer to layer (each layer's
// width/height is the previous layer's width_out/height_out, or the
// network's input dims for the first layer), and mem_addr_input/output are
// assigned back-to-back activation regions sized for each layer's own
// output (doubled for expand-layer pairs sharing a region, per §4.1).
// mem_addr_weights is assigned sequentially by each layer's own weight
// count, matching the sample network builder's convention.
func ResolveAddresses(desc NetworkDescription) ([]Layer, error) {
	layers := make([]Layer, len(desc.Layers))

	width, height, chIn := desc.InputWidth, desc.InputHeight, desc.InputChannels
	dataCursor := width * height * chIn // activation region 0 holds the input image
	weightsCursor := 0

	// A fire module's two expand branches both read the squeeze layer's
	// output, not one another's: pairWidth/pairHeight/pairChIn/pairInputAddr
	// snapshot that shared source when the first branch is seen, so the
	// second branch can use it instead of whatever the first branch's own
	// (width_out, height_out, channels_out) happen to be (§4.1).
	var prevExpandOutputBase = -1
	var pairWidth, pairHeight, pairChIn, pairInputAddr int

	// The layer right after a completed expand pair reads the pair's
	// shared base address (where the first branch's channels start), not
	// the second branch's own mem_addr_output (which is offset by
	// +channels_out into that same interleaved region).
	pairBaseForNextInput := -1

	for i, lc := range desc.Layers {
		pad := 0
		if lc.Kernel == 3 {
			pad = 1
		}
		secondBranch := lc.IsExpandLayer && prevExpandOutputBase >= 0

		l := Layer{
			Name:          lc.Name,
			Width:         width,
			Height:        height,
			ChannelsIn:    chIn,
			ChannelsOut:   lc.ChannelsOut,
			Kernel:        lc.Kernel,
			Pad:           pad,
			Stride:        lc.Stride,
			IsExpandLayer: lc.IsExpandLayer,
			Pool:          poolFromName(lc.Pool),
		}
		if secondBranch {
			l.Width, l.Height, l.ChannelsIn = pairWidth, pairHeight, pairChIn
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("netconfig: layer %q: %w", lc.Name, err)
		}

		switch {
		case secondBranch:
			l.MemAddrInput = pairInputAddr
		case pairBaseForNextInput >= 0:
			l.MemAddrInput = pairBaseForNextInput
			pairBaseForNextInput = -1
		default:
			l.MemAddrInput = inputAddrFor(i, layers)
		}

		if secondBranch {
			// The second branch of a fire module's expand pair writes into
			// the same region as the first, offset by its own channel slot
			// (§4.1's factor-2 interleave); it claims no new space.
			l.MemAddrOutput = prevExpandOutputBase + l.ChannelsOut
			pairBaseForNextInput = prevExpandOutputBase
			prevExpandOutputBase = -1
		} else {
			l.MemAddrOutput = dataCursor
			strideFactor := 1
			if l.IsExpandLayer {
				strideFactor = 2
				prevExpandOutputBase = dataCursor
				pairWidth, pairHeight, pairChIn = l.Width, l.Height, l.ChannelsIn
				pairInputAddr = l.MemAddrInput
			}
			dataCursor += strideFactor * l.ChannelsOut * l.WidthOut() * l.HeightOut()
		}

		l.MemAddrWeights = weightsCursor
		weightsCursor += l.ChannelsIn*l.ChannelsOut*l.WeightsPerFilter() + l.ChannelsOut

		layers[i] = l

		switch {
		case secondBranch:
			// The concatenated output feeds the next layer: same spatial
			// dims as either branch, channels_in doubled across both.
			width, height, chIn = l.WidthOut(), l.HeightOut(), 2*l.ChannelsOut
		case !l.IsExpandLayer:
			width, height, chIn = l.WidthOut(), l.HeightOut(), l.ChannelsOut
		default:
			// first branch of a pair: leave width/height/chIn pointing at
			// the squeeze layer's output so the second branch reads it too.
		}
	}
	return layers, nil
}

// inputAddrFor returns the previous layer's output address, or 0 (the
// image region) for the first layer.
func inputAddrFor(i int, layers []Layer) int {
	if i == 0 {
		return 0
	}
	return layers[i-1].MemAddrOutput
}

func poolFromName(name string) Pool {
	if name == "global" {
		return PoolGlobal
	}
	return PoolNone
}
