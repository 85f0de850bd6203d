package nodes

import (
	"github.com/disintegration/imaging"

	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// KindConvolve tags generic 3x3 convolution nodes.
const KindConvolve graph.Kind = "convolve"

// Kernel names a preset 3x3 convolution kernel.
type Kernel string

const (
	// KernelIdentity passes the image through unchanged.
	KernelIdentity Kernel = "identity"
	// KernelSharpen boosts local contrast around each pixel.
	KernelSharpen Kernel = "sharpen"
	// KernelEmboss produces a relief effect along the diagonal.
	KernelEmboss Kernel = "emboss"
	// KernelOutline keeps only strong intensity transitions.
	KernelOutline Kernel = "outline"
)

var kernels = map[Kernel][9]float64{
	KernelIdentity: {
		0, 0, 0,
		0, 1, 0,
		0, 0, 0,
	},
	KernelSharpen: {
		0, -1, 0,
		-1, 5, -1,
		0, -1, 0,
	},
	KernelEmboss: {
		-2, -1, 0,
		-1, 1, 1,
		0, 1, 2,
	},
	KernelOutline: {
		-1, -1, -1,
		-1, 8, -1,
		-1, -1, -1,
	},
}

// Convolve applies a preset 3x3 kernel to its input image.
type Convolve struct {
	graph.NodeCore

	Kernel Kernel
}

// NewConvolve creates an identity convolution.
func NewConvolve(id graph.ID, name string) *Convolve {
	return &Convolve{
		NodeCore: graph.NewCore(id, name),
		Kernel: KernelIdentity,
	}
}

func (n *Convolve) Kind() graph.Kind { return KindConvolve }

func (n *Convolve) InputCount() int  { return 1 }
func (n *Convolve) OutputCount() int { return 1 }

func (n *Convolve) InputName(port int) string {
	if port == 0 {
		return "Image"
	}
	return ""
}

func (n *Convolve) OutputName(port int) string {
	if port == 0 {
		return "Filtered"
	}
	return ""
}

func (n *Convolve) Ready() bool { return graph.AllInputsConnected(n) }

func (n *Convolve) Process() error {
	if !n.Ready() {
		return graph.ErrNotReady
	}
	src := n.PullInput(0)
	if src.Empty() {
		return nil
	}

	kernel, ok := kernels[n.Kernel]
	if !ok {
		kernel = kernels[KernelIdentity]
	}
	n.SetOutputValue(0, pixel.From(imaging.Convolve3x3(src.NRGBA(), kernel, nil)))
	return nil
}
