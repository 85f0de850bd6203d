package nodes

import (
	"math/rand"

	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// KindNoise tags synthetic noise generator nodes.
const KindNoise graph.Kind = "noise"

// NoisePattern selects the noise distribution.
type NoisePattern string

const (
	// NoiseGaussian draws each channel from a normal distribution centered
	// at mid-gray.
	NoiseGaussian NoisePattern = "gaussian"
	// NoiseUniform draws each channel uniformly from [0, 255].
	NoiseUniform NoisePattern = "uniform"
	// NoiseSaltPepper sets each pixel to black or white with probability
	// Amount, mid-gray otherwise.
	NoiseSaltPepper NoisePattern = "salt-pepper"
)

// Noise generates a synthetic image without consuming any input, which makes
// it useful as a self-contained pipeline source in tests and demos. A fixed
// Seed makes runs reproducible.
type Noise struct {
	graph.NodeCore

	Pattern NoisePattern
	Width   int
	Height  int
	Amount  float64 // gaussian sigma fraction, or salt-pepper probability
	Seed    int64
}

// NewNoise creates a 256x256 gaussian noise generator.
func NewNoise(id graph.ID, name string) *Noise {
	return &Noise{
		NodeCore: graph.NewCore(id, name),
		Pattern: NoiseGaussian,
		Width:   256,
		Height:  256,
		Amount:  0.2,
		Seed:    1,
	}
}

func (n *Noise) Kind() graph.Kind { return KindNoise }

func (n *Noise) InputCount() int  { return 0 }
func (n *Noise) OutputCount() int { return 1 }

func (n *Noise) InputName(port int) string { return "" }

func (n *Noise) OutputName(port int) string {
	if port == 0 {
		return "Noise"
	}
	return ""
}

func (n *Noise) Ready() bool { return n.Width > 0 && n.Height > 0 }

func (n *Noise) Process() error {
	if !n.Ready() {
		return graph.ErrNotReady
	}

	rng := rand.New(rand.NewSource(n.Seed))
	out := pixel.New(n.Width, n.Height)
	px := out.NRGBA()
	for i := 0; i < len(px.Pix); i += 4 {
		switch n.Pattern {
		case NoiseUniform:
			for c := 0; c < 3; c++ {
				px.Pix[i+c] = uint8(rng.Intn(256))
			}
		case NoiseSaltPepper:
			v := uint8(128)
			if r := rng.Float64(); r < n.Amount/2 {
				v = 0
			} else if r < n.Amount {
				v = 255
			}
			px.Pix[i+0] = v
			px.Pix[i+1] = v
			px.Pix[i+2] = v
		default:
			sigma := n.Amount * 255
			for c := 0; c < 3; c++ {
				v := 128 + rng.NormFloat64()*sigma
				if v < 0 {
					v = 0
				} else if v > 255 {
					v = 255
				}
				px.Pix[i+c] = uint8(v)
			}
		}
		px.Pix[i+3] = 0xff
	}
	n.SetOutputValue(0, out)
	return nil
}
