package memctl

import (
	"testing"

	"fpgacnn/internal/netconfig"
	"fpgacnn/internal/outputcache"
)

func TestControllerLoadConfigAndLayerAddressing(t *testing.T) {
	layers := netconfig.SampleFireNetwork(4, 4, 2, 3)
	table := netconfig.EncodeLayerTable(layers)

	const weightsOffset = 1000
	const inputOffset = 2000
	dram := make([]float32, inputOffset+4*4*2+64)
	copy(dram, table)

	mc := New(dram, weightsOffset, inputOffset)
	decoded, err := mc.LoadConfig(len(layers))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if len(decoded) != len(layers) {
		t.Fatalf("got %d layers, want %d", len(decoded), len(layers))
	}
	for i, want := range layers {
		got := decoded[i]
		if got.MemAddrInput != want.MemAddrInput || got.MemAddrOutput != want.MemAddrOutput || got.MemAddrWeights != want.MemAddrWeights {
			t.Errorf("layer %d addresses = (%d,%d,%d), want (%d,%d,%d)", i,
				got.MemAddrInput, got.MemAddrOutput, got.MemAddrWeights,
				want.MemAddrInput, want.MemAddrOutput, want.MemAddrWeights)
		}
	}
}

func TestControllerStreamsWeightsAndPixels(t *testing.T) {
	l := netconfig.Layer{
		Name: "l0", Width: 2, Height: 2, ChannelsIn: 1, ChannelsOut: 2,
		Kernel: 1, Pad: 0, Stride: 1,
		MemAddrInput: 0, MemAddrOutput: 100, MemAddrWeights: 0,
	}
	const weightsOffset = 0
	const inputOffset = 50
	dram := make([]float32, 200)
	// one weight + one bias per output channel (1x1 kernel): [w0 w1 b0 b1]
	dram[0], dram[1], dram[2], dram[3] = 2, 3, 0.5, 1.5
	// a 2x2x1 input image
	dram[inputOffset+0] = 10
	dram[inputOffset+1] = 20
	dram[inputOffset+2] = 30
	dram[inputOffset+3] = 40

	mc := New(dram, weightsOffset, inputOffset)
	mc.SetLayerConfig(l)

	if got := mc.LoadNextWeight(); got != 2 {
		t.Errorf("first weight = %v, want 2", got)
	}
	if got := mc.LoadNextWeight(); got != 3 {
		t.Errorf("second weight = %v, want 3", got)
	}
	if got := mc.LoadNextWeight(); got != 0.5 {
		t.Errorf("bias0 = %v, want 0.5", got)
	}

	mc.SetPixelLoadRow(0)
	if got := mc.LoadNextChannel(); got != 10 {
		t.Errorf("pixel(0,0) = %v, want 10", got)
	}
	if got := mc.LoadNextChannel(); got != 20 {
		t.Errorf("pixel(0,1) = %v, want 20", got)
	}

	oc := outputcache.New(2, "oc")
	oc.SetChannel(0, 7)
	oc.SetChannel(1, 8)
	mc.WriteBackOutputPixel(0, 0, oc, 2)
	// the output base is relative to DRAM_DATA (inputOffset), like the input
	if dram[inputOffset+100] != 7 || dram[inputOffset+101] != 8 {
		t.Errorf("write-back at output base: got [%v %v], want [7 8]", dram[inputOffset+100], dram[inputOffset+101])
	}
}

func TestControllerPanicsOnOutOfRangeAccess(t *testing.T) {
	dram := make([]float32, 4)
	mc := New(dram, 0, 0)
	mc.SetLayerConfig(netconfig.Layer{
		Width: 1, Height: 1, ChannelsIn: 1, ChannelsOut: 1, Kernel: 1, Stride: 1,
		MemAddrWeights: 100, // deliberately out of range
	})

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic reading a weight past the end of DRAM")
		}
	}()
	mc.LoadNextWeight()
}
