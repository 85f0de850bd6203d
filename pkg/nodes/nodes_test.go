package nodes

import (
	"errors"
	"image/color"
	"testing"

	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// solid builds a w×h image with every pixel set to gray value v.
func solid(w, h int, v uint8) *pixel.Image {
	m := pixel.New(w, h)
	px := m.NRGBA()
	for i := 0; i < len(px.Pix); i += 4 {
		px.Pix[i+0] = v
		px.Pix[i+1] = v
		px.Pix[i+2] = v
		px.Pix[i+3] = 0xff
	}
	return m
}

// chain adds the nodes to a fresh graph and wires output 0 of each into
// input 0 of the next.
func chain(t *testing.T, ns ...graph.Node) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range ns {
		if err := g.Add(n); err != nil {
			t.Fatalf("Add %s: %v", n.Name(), err)
		}
	}
	for i := 0; i+1 < len(ns); i++ {
		if err := g.Connect(ns[i].ID(), 0, ns[i+1].ID(), 0); err != nil {
			t.Fatalf("Connect %s -> %s: %v", ns[i].Name(), ns[i+1].Name(), err)
		}
	}
	return g
}

func grayAt(t *testing.T, m *pixel.Image, x, y int) uint8 {
	t.Helper()
	if m.Empty() {
		t.Fatal("expected a present image")
	}
	return m.NRGBA().NRGBAAt(x, y).R
}

func TestSourceLifecycle(t *testing.T) {
	g := graph.New()
	src := NewSource(g.NextID(), "in")

	if src.Ready() {
		t.Error("source without an image should not be ready")
	}
	if err := src.Process(); !errors.Is(err, graph.ErrNotReady) {
		t.Errorf("Process without image = %v, want ErrNotReady", err)
	}

	img := solid(2, 2, 50)
	src.SetImage(img)
	if !src.Ready() {
		t.Error("source should be ready after SetImage")
	}
	if src.OutputValue(0).Empty() {
		t.Error("SetImage should publish the output immediately")
	}
	if src.Path() != "" {
		t.Errorf("Path = %q, want empty for direct injection", src.Path())
	}

	// The source holds a copy; mutating the caller's image has no effect.
	img.NRGBA().SetNRGBA(0, 0, color.NRGBA{R: 200, A: 255})
	if grayAt(t, src.Image(), 0, 0) != 50 {
		t.Error("SetImage should copy the injected image")
	}

	// Injecting an absent image is a no-op.
	src.SetImage(nil)
	if !src.Ready() {
		t.Error("absent injection should not clear the held image")
	}
}

func TestSourceLoadFile(t *testing.T) {
	path := t.TempDir() + "/in.png"
	if err := solid(3, 3, 77).Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	g := graph.New()
	src := NewSource(g.NextID(), "in")
	if err := src.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.Path() != path {
		t.Errorf("Path = %q, want %q", src.Path(), path)
	}
	if grayAt(t, src.OutputValue(0), 1, 1) != 77 {
		t.Error("loaded image should be published on output 0")
	}

	if err := src.LoadFile(t.TempDir() + "/missing.png"); err == nil {
		t.Error("LoadFile of a missing file should fail")
	}
}

func TestSinkCapturesAndKeepsLast(t *testing.T) {
	g := graph.New()
	src := NewSource(g.NextID(), "in")
	sink := NewSink(g.NextID(), "out")
	g = chain(t, src, sink)

	src.SetImage(solid(2, 2, 90))
	report := g.Process()
	if len(report.Failed) != 0 {
		t.Fatalf("Failed: %v", report.Failed)
	}
	if grayAt(t, sink.Image(), 0, 0) != 90 {
		t.Error("sink should capture the upstream artifact")
	}

	// An absent upstream value leaves the previous capture in place.
	src.Core().SetOutputValue(0, nil)
	if err := sink.Process(); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if grayAt(t, sink.Image(), 0, 0) != 90 {
		t.Error("absent upstream should not clear the captured image")
	}
}

func TestSinkSaveFile(t *testing.T) {
	g := graph.New()
	sink := NewSink(g.NextID(), "out")

	if err := sink.SaveFile(t.TempDir() + "/out.png"); err == nil {
		t.Error("saving before anything arrived should fail")
	}

	sink.img = solid(2, 2, 10)
	path := t.TempDir() + "/out.png"
	if err := sink.SaveFile(path); err != nil {
		t.Fatalf("SaveFile: %v", err)
	}
	back, err := pixel.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if grayAt(t, back, 1, 1) != 10 {
		t.Error("saved artifact should round-trip")
	}
}

func TestBlurGaussianKeepsDimensions(t *testing.T) {
	g := graph.New()
	src := NewSource(g.NextID(), "in")
	blur := NewBlur(g.NextID(), "blur")
	g = chain(t, src, blur)

	src.SetImage(solid(5, 7, 128))
	g.Process()

	out := blur.OutputValue(0)
	if out.Width() != 5 || out.Height() != 7 {
		t.Errorf("blurred dimensions = %dx%d, want 5x7", out.Width(), out.Height())
	}
}

func TestBoxBlurAverages(t *testing.T) {
	g := graph.New()
	src := NewSource(g.NextID(), "in")
	blur := NewBlur(g.NextID(), "blur")
	blur.Method = BlurBox
	blur.Radius = 1
	g = chain(t, src, blur)

	// 2x1 black/white: with border clamping each pixel averages both.
	m := pixel.New(2, 1)
	m.NRGBA().SetNRGBA(0, 0, color.NRGBA{A: 255})
	m.NRGBA().SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	src.SetImage(m)
	g.Process()

	out := blur.OutputValue(0)
	if v := grayAt(t, out, 0, 0); v != 127 {
		t.Errorf("averaged pixel = %d, want 127", v)
	}
	if v := grayAt(t, out, 1, 0); v != 127 {
		t.Errorf("averaged pixel = %d, want 127", v)
	}
}

func TestBoxBlurZeroRadiusCopies(t *testing.T) {
	in := solid(3, 3, 42)
	out := boxBlur(in, 0)
	if grayAt(t, out, 1, 1) != 42 {
		t.Error("radius 0 should return a plain copy")
	}
	// And a copy, not the same buffer.
	out.NRGBA().SetNRGBA(1, 1, color.NRGBA{R: 99, A: 255})
	if grayAt(t, in, 1, 1) != 42 {
		t.Error("boxBlur must not alias its input")
	}
}

func TestAdjustBrightness(t *testing.T) {
	g := graph.New()
	src := NewSource(g.NextID(), "in")
	adj := NewAdjust(g.NextID(), "adjust")
	g = chain(t, src, adj)
	src.SetImage(solid(2, 2, 100))

	// Neutral settings pass the image through.
	g.Process()
	if grayAt(t, adj.OutputValue(0), 0, 0) != 100 {
		t.Error("neutral adjust should not change pixels")
	}

	// +100% brightness saturates to white; out-of-range values clamp.
	adj.Brightness = 250
	g.Process()
	if grayAt(t, adj.OutputValue(0), 0, 0) != 255 {
		t.Error("full brightness should saturate to white")
	}
}

func TestThresholdModes(t *testing.T) {
	cases := []struct {
		mode           ThresholdMode
		wantLo, wantHi uint8 // results for inputs 100 and 200 at cutoff 128
	}{
		{ThresholdBinary, 0, 255},
		{ThresholdBinaryInv, 255, 0},
		{ThresholdTruncate, 100, 128},
		{ThresholdToZero, 0, 200},
	}

	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			g := graph.New()
			src := NewSource(g.NextID(), "in")
			th := NewThreshold(g.NextID(), "th")
			th.Mode = tc.mode
			g = chain(t, src, th)

			m := pixel.New(2, 1)
			m.NRGBA().SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
			m.NRGBA().SetNRGBA(1, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
			src.SetImage(m)
			g.Process()

			out := th.OutputValue(0)
			if v := grayAt(t, out, 0, 0); v != tc.wantLo {
				t.Errorf("pixel 100 -> %d, want %d", v, tc.wantLo)
			}
			if v := grayAt(t, out, 1, 0); v != tc.wantHi {
				t.Errorf("pixel 200 -> %d, want %d", v, tc.wantHi)
			}
		})
	}
}

func TestEdgesFlatImageIsBlack(t *testing.T) {
	for _, method := range []EdgeMethod{EdgeSobel, EdgeLaplacian} {
		t.Run(string(method), func(t *testing.T) {
			g := graph.New()
			src := NewSource(g.NextID(), "in")
			e := NewEdges(g.NextID(), "edges")
			e.Method = method
			g = chain(t, src, e)

			src.SetImage(solid(4, 4, 128))
			g.Process()

			out := e.OutputValue(0)
			for y := 0; y < 4; y++ {
				for x := 0; x < 4; x++ {
					if v := grayAt(t, out, x, y); v != 0 {
						t.Fatalf("flat image produced edge %d at (%d,%d)", v, x, y)
					}
				}
			}
		})
	}
}

func TestEdgesDetectStep(t *testing.T) {
	g := graph.New()
	src := NewSource(g.NextID(), "in")
	e := NewEdges(g.NextID(), "edges")
	g = chain(t, src, e)

	// Vertical step: left half black, right half white.
	m := pixel.New(6, 6)
	px := m.NRGBA()
	for y := 0; y < 6; y++ {
		for x := 0; x < 6; x++ {
			v := uint8(0)
			if x >= 3 {
				v = 255
			}
			px.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	src.SetImage(m)
	g.Process()

	out := e.OutputValue(0)
	if v := grayAt(t, out, 3, 3); v == 0 {
		t.Error("step boundary should produce a strong edge response")
	}
	if v := grayAt(t, out, 0, 3); v != 0 {
		t.Errorf("flat region should stay black, got %d", v)
	}
}

func TestConvolveIdentity(t *testing.T) {
	g := graph.New()
	src := NewSource(g.NextID(), "in")
	conv := NewConvolve(g.NextID(), "conv")
	g = chain(t, src, conv)

	m := solid(3, 3, 64)
	m.NRGBA().SetNRGBA(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	src.SetImage(m)
	g.Process()

	out := conv.OutputValue(0)
	got := out.NRGBA().NRGBAAt(1, 1)
	if got.R != 10 || got.G != 20 || got.B != 30 {
		t.Errorf("identity kernel changed pixel: %+v", got)
	}
}

func TestBlendModes(t *testing.T) {
	cases := []struct {
		mode  BlendMode
		alpha float64
		want  uint8 // base 100, overlay 50
	}{
		{BlendNormal, 1.0, 50},
		{BlendNormal, 0.5, 75},
		{BlendNormal, 0.0, 100},
		{BlendAdd, 1.0, 150},
		{BlendDifference, 1.0, 50},
	}

	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			g := graph.New()
			base := NewSource(g.NextID(), "base")
			over := NewSource(g.NextID(), "over")
			blend := NewBlend(g.NextID(), "blend")
			blend.Mode = tc.mode
			blend.Alpha = tc.alpha
			for _, n := range []graph.Node{base, over, blend} {
				if err := g.Add(n); err != nil {
					t.Fatal(err)
				}
			}
			if err := g.Connect(base.ID(), 0, blend.ID(), 0); err != nil {
				t.Fatal(err)
			}
			if err := g.Connect(over.ID(), 0, blend.ID(), 1); err != nil {
				t.Fatal(err)
			}

			base.SetImage(solid(2, 2, 100))
			over.SetImage(solid(2, 2, 50))
			g.Process()

			if v := grayAt(t, blend.OutputValue(0), 0, 0); v != tc.want {
				t.Errorf("blended pixel = %d, want %d", v, tc.want)
			}
		})
	}
}

func TestBlendResizesOverlay(t *testing.T) {
	g := graph.New()
	base := NewSource(g.NextID(), "base")
	over := NewSource(g.NextID(), "over")
	blend := NewBlend(g.NextID(), "blend")
	for _, n := range []graph.Node{base, over, blend} {
		if err := g.Add(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Connect(base.ID(), 0, blend.ID(), 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(over.ID(), 0, blend.ID(), 1); err != nil {
		t.Fatal(err)
	}

	base.SetImage(solid(8, 8, 100))
	over.SetImage(solid(2, 2, 50))
	g.Process()

	out := blend.OutputValue(0)
	if out.Width() != 8 || out.Height() != 8 {
		t.Errorf("blend output = %dx%d, want base dimensions 8x8", out.Width(), out.Height())
	}
}

func TestBlendMissingOverlayProducesNothing(t *testing.T) {
	g := graph.New()
	base := NewSource(g.NextID(), "base")
	over := NewSource(g.NextID(), "over") // never given an image
	blend := NewBlend(g.NextID(), "blend")
	for _, n := range []graph.Node{base, over, blend} {
		if err := g.Add(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.Connect(base.ID(), 0, blend.ID(), 0); err != nil {
		t.Fatal(err)
	}
	if err := g.Connect(over.ID(), 0, blend.ID(), 1); err != nil {
		t.Fatal(err)
	}

	base.SetImage(solid(2, 2, 100))
	report := g.Process()

	if len(report.Skipped) != 1 {
		t.Errorf("Skipped = %v, want the empty overlay source", report.Skipped)
	}
	if blend.OutputValue(0) != nil {
		t.Error("blend with an absent input should publish nothing")
	}
}

func TestNoiseDeterministicBySeed(t *testing.T) {
	g := graph.New()

	run := func(seed int64) []byte {
		n := NewNoise(g.NextID(), "noise")
		n.Width, n.Height = 8, 8
		n.Seed = seed
		if err := n.Process(); err != nil {
			t.Fatalf("Process: %v", err)
		}
		return n.OutputValue(0).NRGBA().Pix
	}

	a, b := run(7), run(7)
	if string(a) != string(b) {
		t.Error("same seed should reproduce identical noise")
	}
	if string(a) == string(run(8)) {
		t.Error("different seeds should produce different noise")
	}
}

func TestNoiseSaltPepperValues(t *testing.T) {
	g := graph.New()
	n := NewNoise(g.NextID(), "noise")
	n.Pattern = NoiseSaltPepper
	n.Width, n.Height = 16, 16
	n.Amount = 0.5
	if err := n.Process(); err != nil {
		t.Fatalf("Process: %v", err)
	}

	px := n.OutputValue(0).NRGBA()
	for i := 0; i < len(px.Pix); i += 4 {
		v := px.Pix[i]
		if v != 0 && v != 128 && v != 255 {
			t.Fatalf("salt-pepper produced value %d", v)
		}
		if px.Pix[i+3] != 0xff {
			t.Fatal("noise should be fully opaque")
		}
	}
}

func TestSplitChannels(t *testing.T) {
	g := graph.New()
	src := NewSource(g.NextID(), "in")
	split := NewSplit(g.NextID(), "split")
	g = chain(t, src, split)

	if split.OutputCount() != 4 {
		t.Fatalf("OutputCount = %d, want 4", split.OutputCount())
	}
	if split.OutputName(0) != "Red" || split.OutputName(3) != "Alpha" {
		t.Error("unexpected channel names")
	}

	m := pixel.New(1, 1)
	m.NRGBA().SetNRGBA(0, 0, color.NRGBA{R: 11, G: 22, B: 33, A: 44})
	src.SetImage(m)
	g.Process()

	want := []uint8{11, 22, 33, 44}
	for port, v := range want {
		if got := grayAt(t, split.OutputValue(port), 0, 0); got != v {
			t.Errorf("channel %d = %d, want %d", port, got, v)
		}
	}
}
