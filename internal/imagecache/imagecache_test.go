package imagecache

import (
	"testing"

	"fpgacnn/internal/netconfig"
)

type fakeMC struct {
	values []float32
	pos    int
}

func (f *fakeMC) LoadNextChannel() float32 {
	v := f.values[f.pos]
	f.pos++
	return v
}

func TestPreloadAndGetPixel(t *testing.T) {
	l := netconfig.Layer{Width: 2, Height: 3, ChannelsIn: 2, Kernel: 3, Pad: 1, Stride: 1}
	ic := New(l.Width * l.ChannelsIn * NumLines)
	ic.SetLayerConfig(l)

	// Row 0: pixels (ci0,ci1) = (1,2),(3,4); row 1: (5,6),(7,8)
	mc := &fakeMC{values: []float32{1, 2, 3, 4, 5, 6, 7, 8}}
	ic.PreloadRowFromDRAM(mc)
	ic.PreloadRowFromDRAM(mc)

	if got := ic.GetPixel(0, 0, 0); got != 1 {
		t.Errorf("GetPixel(0,0,0) = %v, want 1", got)
	}
	if got := ic.GetPixel(0, 1, 1); got != 4 {
		t.Errorf("GetPixel(0,1,1) = %v, want 4", got)
	}
	if got := ic.GetPixel(1, 0, 0); got != 5 {
		t.Errorf("GetPixel(1,0,0) = %v, want 5", got)
	}
}

func TestGetPixelPanicsOnBadX(t *testing.T) {
	l := netconfig.Layer{Width: 2, Height: 2, ChannelsIn: 1, Kernel: 1, Pad: 0, Stride: 1}
	ic := New(l.Width * l.ChannelsIn * NumLines)
	ic.SetLayerConfig(l)
	mc := &fakeMC{values: []float32{1, 2, 3, 4}}
	ic.PreloadRowFromDRAM(mc)
	ic.PreloadRowFromDRAM(mc)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected a panic for an out-of-range x")
		}
	}()
	ic.GetPixel(0, 5, 0)
}

func TestGetPixelDoesNotPanicOnOutOfRangeY(t *testing.T) {
	// The Image Cache asserts only on x (§4.2); an out-of-range y wraps
	// via modulo instead of panicking — the top driver is responsible
	// for never asking for a y whose row isn't resident.
	l := netconfig.Layer{Width: 1, Height: 1, ChannelsIn: 1, Kernel: 1, Pad: 0, Stride: 1}
	ic := New(l.Width * l.ChannelsIn * NumLines)
	ic.SetLayerConfig(l)
	mc := &fakeMC{values: []float32{9}}
	ic.PreloadRowFromDRAM(mc)

	_ = ic.GetPixel(-7, 0, 0)
}
