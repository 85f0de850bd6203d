package pixel

import (
	"image"
	"image/color"
	"testing"
)

func TestEmptyNilSafety(t *testing.T) {
	var m *Image
	if !m.Empty() {
		t.Error("nil image should be empty")
	}
	if m.Width() != 0 || m.Height() != 0 {
		t.Error("nil image should have zero dimensions")
	}
	if m.NRGBA() != nil {
		t.Error("nil image should expose a nil raster")
	}
	if m.Clone() != nil {
		t.Error("cloning an absent image should stay absent")
	}
	if m.Grayscale() != nil || m.Resize(10, 10) != nil {
		t.Error("transforms on an absent image should stay absent")
	}
	if m.SplitChannels() != nil {
		t.Error("splitting an absent image should stay absent")
	}
}

func TestNewAndDimensions(t *testing.T) {
	m := New(3, 5)
	if m.Empty() {
		t.Fatal("fresh image should not be empty")
	}
	if m.Width() != 3 || m.Height() != 5 {
		t.Errorf("dimensions = %dx%d, want 3x5", m.Width(), m.Height())
	}

	if !New(0, 10).Empty() {
		t.Error("zero-width image should count as empty")
	}
}

func TestFrom(t *testing.T) {
	if From(nil) != nil {
		t.Error("From(nil) should be nil")
	}

	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(1, 1, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	m := From(src)
	if m.Width() != 2 || m.Height() != 2 {
		t.Fatalf("dimensions = %dx%d, want 2x2", m.Width(), m.Height())
	}
	got := m.NRGBA().NRGBAAt(1, 1)
	if got.R != 200 || got.G != 100 || got.B != 50 {
		t.Errorf("pixel = %+v, want 200/100/50", got)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	m := New(2, 2)
	m.NRGBA().SetNRGBA(0, 0, color.NRGBA{R: 10, A: 255})

	c := m.Clone()
	c.NRGBA().SetNRGBA(0, 0, color.NRGBA{R: 99, A: 255})

	if m.NRGBA().NRGBAAt(0, 0).R != 10 {
		t.Error("mutating a clone should not touch the original")
	}
}

func TestSplitMergeRoundTrip(t *testing.T) {
	m := New(2, 1)
	m.NRGBA().SetNRGBA(0, 0, color.NRGBA{R: 11, G: 22, B: 33, A: 44})
	m.NRGBA().SetNRGBA(1, 0, color.NRGBA{R: 55, G: 66, B: 77, A: 88})

	channels := m.SplitChannels()
	if len(channels) != 4 {
		t.Fatalf("SplitChannels returned %d images, want 4", len(channels))
	}

	// Each channel is grayscale-encoded with full opacity.
	r := channels[0].NRGBA().NRGBAAt(0, 0)
	if r.R != 11 || r.G != 11 || r.B != 11 || r.A != 0xff {
		t.Errorf("red channel pixel = %+v", r)
	}

	merged := MergeChannels(channels)
	for x := 0; x < 2; x++ {
		want := m.NRGBA().NRGBAAt(x, 0)
		got := merged.NRGBA().NRGBAAt(x, 0)
		if got != want {
			t.Errorf("pixel %d = %+v, want %+v", x, got, want)
		}
	}
}

func TestMergeChannelsDefaults(t *testing.T) {
	if MergeChannels(nil) != nil {
		t.Error("merging no channels should be absent")
	}
	if MergeChannels([]*Image{nil, nil, nil, nil}) != nil {
		t.Error("merging only absent channels should be absent")
	}

	// A lone red channel: missing channels default to zero, alpha to opaque.
	red := New(1, 1)
	red.NRGBA().SetNRGBA(0, 0, color.NRGBA{R: 123, G: 123, B: 123, A: 0xff})

	merged := MergeChannels([]*Image{red})
	got := merged.NRGBA().NRGBAAt(0, 0)
	want := color.NRGBA{R: 123, G: 0, B: 0, A: 0xff}
	if got != want {
		t.Errorf("merged pixel = %+v, want %+v", got, want)
	}
}

func TestResize(t *testing.T) {
	m := New(4, 4)
	small := m.Resize(2, 2)
	if small.Width() != 2 || small.Height() != 2 {
		t.Errorf("resized dimensions = %dx%d, want 2x2", small.Width(), small.Height())
	}
}

func TestEncodeDecodePNG(t *testing.T) {
	m := New(2, 2)
	m.NRGBA().SetNRGBA(1, 0, color.NRGBA{R: 9, G: 8, B: 7, A: 255})

	data, err := m.EncodePNG()
	if err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}

	back, err := DecodePNG(data)
	if err != nil {
		t.Fatalf("DecodePNG: %v", err)
	}
	if back.Width() != 2 || back.Height() != 2 {
		t.Fatalf("decoded dimensions = %dx%d", back.Width(), back.Height())
	}
	if got := back.NRGBA().NRGBAAt(1, 0); got.R != 9 || got.G != 8 || got.B != 7 {
		t.Errorf("decoded pixel = %+v", got)
	}

	if _, err := (*Image)(nil).EncodePNG(); err == nil {
		t.Error("encoding an absent image should fail")
	}
	if _, err := DecodePNG([]byte("not a png")); err == nil {
		t.Error("decoding garbage should fail")
	}
}

func TestSaveEmptyFails(t *testing.T) {
	var m *Image
	if err := m.Save(t.TempDir() + "/out.png"); err == nil {
		t.Error("saving an absent image should fail")
	}
}

func TestSaveOpenRoundTrip(t *testing.T) {
	path := t.TempDir() + "/out.png"

	m := New(3, 3)
	m.NRGBA().SetNRGBA(2, 2, color.NRGBA{R: 1, G: 2, B: 3, A: 255})
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	back, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if got := back.NRGBA().NRGBAAt(2, 2); got.R != 1 || got.G != 2 || got.B != 3 {
		t.Errorf("loaded pixel = %+v", got)
	}
}
