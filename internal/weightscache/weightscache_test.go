package weightscache

import (
	"testing"

	"fpgacnn/internal/netconfig"
)

type fakeMC struct {
	values []float32
	pos    int
}

func (f *fakeMC) LoadNextWeight() float32 {
	v := f.values[f.pos]
	f.pos++
	return v
}

func TestLoadFromDRAMAndGetOneWeight(t *testing.T) {
	// 1x1 layer, chIn=1, chOut=3: 3 taps + 3 biases.
	l := netconfig.Layer{ChannelsIn: 1, ChannelsOut: 3, Kernel: 1}
	wc := New(6)
	wc.SetLayerConfig(l)

	mc := &fakeMC{values: []float32{10, 20, 30, 1, 2, 3}}
	wc.LoadFromDRAM(mc)

	wc.SetInputChannel(0)
	if got := wc.GetOneWeight(0); got != 10 {
		t.Errorf("GetOneWeight(0) for ci=0 = %v, want 10", got)
	}
	if got := wc.GetOneWeight(2); got != 30 {
		t.Errorf("GetOneWeight(2) for ci=0 = %v, want 30", got)
	}

	wc.SetInputChannel(l.ChannelsIn) // bias segment
	if got := wc.GetOneWeight(0); got != 1 {
		t.Errorf("bias(0) = %v, want 1", got)
	}
	if got := wc.GetOneWeight(2); got != 3 {
		t.Errorf("bias(2) = %v, want 3", got)
	}
}

func TestGetNineWeightsOnKernel3Layer(t *testing.T) {
	// chIn=1, chOut=2, kernel=3: 18 taps + 2 biases.
	l := netconfig.Layer{ChannelsIn: 1, ChannelsOut: 2, Kernel: 3}
	wc := New(20)
	wc.SetLayerConfig(l)

	values := make([]float32, 20)
	for i := range values {
		values[i] = float32(i)
	}
	wc.LoadFromDRAM(&fakeMC{values: values})

	wc.SetInputChannel(0)
	taps := wc.GetNineWeights(1)
	for i := 0; i < 9; i++ {
		if taps[i] != float32(9+i) {
			t.Errorf("taps[%d] for co=1 = %v, want %v", i, taps[i], float32(9+i))
		}
	}
}

func TestGetNineWeightsLiftsScalarOnKernel1Layer(t *testing.T) {
	l := netconfig.Layer{ChannelsIn: 1, ChannelsOut: 1, Kernel: 1}
	wc := New(2)
	wc.SetLayerConfig(l)
	wc.LoadFromDRAM(&fakeMC{values: []float32{7, 0}})

	wc.SetInputChannel(0)
	taps := wc.GetNineWeights(0)
	for i, v := range taps {
		if i == 4 {
			if v != 7 {
				t.Errorf("centre tap = %v, want 7", v)
			}
			continue
		}
		if v != 0 {
			t.Errorf("tap[%d] = %v, want 0", i, v)
		}
	}
}

func TestAddWeightPanicsOnOverflow(t *testing.T) {
	l := netconfig.Layer{ChannelsIn: 1, ChannelsOut: 1, Kernel: 1}
	wc := New(4) // generously sized; the overflow check is on chIn*chOut*weightsPerFilter+chOut
	wc.SetLayerConfig(l)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic on capacity overflow")
		}
	}()
	// total for this layer is 1*1*1+1 = 2; a 3rd write must overflow.
	wc.addWeight(1)
	wc.addWeight(2)
	wc.addWeight(3)
}
