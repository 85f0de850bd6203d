package nodes

import (
	"math"

	"github.com/disintegration/imaging"

	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// KindEdges tags edge detection nodes.
const KindEdges graph.Kind = "edges"

// EdgeMethod selects the edge detection operator.
type EdgeMethod string

const (
	// EdgeSobel combines horizontal and vertical Sobel gradients into a
	// magnitude image.
	EdgeSobel EdgeMethod = "sobel"
	// EdgeLaplacian applies a single 3x3 Laplacian kernel.
	EdgeLaplacian EdgeMethod = "laplacian"
)

// Edges highlights intensity discontinuities in its input. The input is
// desaturated first so the operators work on a single intensity channel.
type Edges struct {
	graph.NodeCore

	Method EdgeMethod
}

// NewEdges creates a Sobel edge detector.
func NewEdges(id graph.ID, name string) *Edges {
	return &Edges{
		NodeCore: graph.NewCore(id, name),
		Method: EdgeSobel,
	}
}

func (n *Edges) Kind() graph.Kind { return KindEdges }

func (n *Edges) InputCount() int  { return 1 }
func (n *Edges) OutputCount() int { return 1 }

func (n *Edges) InputName(port int) string {
	if port == 0 {
		return "Image"
	}
	return ""
}

func (n *Edges) OutputName(port int) string {
	if port == 0 {
		return "Edges"
	}
	return ""
}

func (n *Edges) Ready() bool { return graph.AllInputsConnected(n) }

func (n *Edges) Process() error {
	if !n.Ready() {
		return graph.ErrNotReady
	}
	src := n.PullInput(0)
	if src.Empty() {
		return nil
	}

	gray := src.Grayscale()
	var out *pixel.Image
	switch n.Method {
	case EdgeLaplacian:
		out = pixel.From(imaging.Convolve3x3(gray.NRGBA(), [9]float64{
			0, 1, 0,
			1, -4, 1,
			0, 1, 0,
		}, nil))
	default:
		out = sobel(gray)
	}
	n.SetOutputValue(0, out)
	return nil
}

// sobel computes per-pixel gradient magnitude from the horizontal and
// vertical Sobel responses. Convolve3x3 clamps its output to [0, 255], so
// the two gradients are taken with both kernel signs and summed to recover
// the magnitude of negative responses.
func sobel(gray *pixel.Image) *pixel.Image {
	kx := [9]float64{
		-1, 0, 1,
		-2, 0, 2,
		-1, 0, 1,
	}
	ky := [9]float64{
		-1, -2, -1,
		0, 0, 0,
		1, 2, 1,
	}

	in := gray.NRGBA()
	gxPos := imaging.Convolve3x3(in, kx, nil)
	gxNeg := imaging.Convolve3x3(in, negate(kx), nil)
	gyPos := imaging.Convolve3x3(in, ky, nil)
	gyNeg := imaging.Convolve3x3(in, negate(ky), nil)

	w, h := gray.Width(), gray.Height()
	out := pixel.New(w, h)
	dst := out.NRGBA()
	for i := 0; i < len(dst.Pix); i += 4 {
		gx := float64(int(gxPos.Pix[i]) + int(gxNeg.Pix[i]))
		gy := float64(int(gyPos.Pix[i]) + int(gyNeg.Pix[i]))
		v := math.Sqrt(gx*gx + gy*gy)
		if v > 255 {
			v = 255
		}
		m := uint8(v)
		dst.Pix[i+0] = m
		dst.Pix[i+1] = m
		dst.Pix[i+2] = m
		dst.Pix[i+3] = 0xff
	}
	return out
}

func negate(k [9]float64) [9]float64 {
	for i := range k {
		k[i] = -k[i]
	}
	return k
}
