package nodes

import (
	"github.com/disintegration/imaging"

	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// KindBlur tags blur filter nodes.
const KindBlur graph.Kind = "blur"

// BlurMethod selects the smoothing algorithm.
type BlurMethod string

const (
	// BlurGaussian applies a Gaussian kernel parameterized by Sigma.
	BlurGaussian BlurMethod = "gaussian"
	// BlurBox averages a (2*Radius+1)² neighborhood.
	BlurBox BlurMethod = "box"
)

// Blur smooths its input image.
type Blur struct {
	graph.NodeCore

	Method BlurMethod
	Sigma  float64 // gaussian standard deviation
	Radius int     // box kernel radius
}

// NewBlur creates a gaussian blur with sigma 2.0.
func NewBlur(id graph.ID, name string) *Blur {
	return &Blur{
		NodeCore: graph.NewCore(id, name),
		Method: BlurGaussian,
		Sigma:  2.0,
		Radius: 1,
	}
}

func (n *Blur) Kind() graph.Kind { return KindBlur }

func (n *Blur) InputCount() int  { return 1 }
func (n *Blur) OutputCount() int { return 1 }

func (n *Blur) InputName(port int) string {
	if port == 0 {
		return "Image"
	}
	return ""
}

func (n *Blur) OutputName(port int) string {
	if port == 0 {
		return "Blurred"
	}
	return ""
}

func (n *Blur) Ready() bool { return graph.AllInputsConnected(n) }

func (n *Blur) Process() error {
	if !n.Ready() {
		return graph.ErrNotReady
	}
	src := n.PullInput(0)
	if src.Empty() {
		return nil
	}

	var out *pixel.Image
	switch n.Method {
	case BlurBox:
		out = boxBlur(src, n.Radius)
	default:
		out = pixel.From(imaging.Blur(src.NRGBA(), n.Sigma))
	}
	n.SetOutputValue(0, out)
	return nil
}

// boxBlur averages each pixel's (2r+1)² neighborhood, clamping at the image
// border. A radius below 1 returns a plain copy.
func boxBlur(src *pixel.Image, radius int) *pixel.Image {
	if radius < 1 {
		return src.Clone()
	}

	in := src.NRGBA()
	w, h := src.Width(), src.Height()
	out := pixel.New(w, h)
	dst := out.NRGBA()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum [4]int
			count := 0
			for dy := -radius; dy <= radius; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					sx, sy := x+dx, y+dy
					if sx < 0 || sy < 0 || sx >= w || sy >= h {
						continue
					}
					off := in.PixOffset(in.Rect.Min.X+sx, in.Rect.Min.Y+sy)
					for c := 0; c < 4; c++ {
						sum[c] += int(in.Pix[off+c])
					}
					count++
				}
			}
			off := dst.PixOffset(x, y)
			for c := 0; c < 4; c++ {
				dst.Pix[off+c] = uint8(sum[c] / count)
			}
		}
	}
	return out
}
