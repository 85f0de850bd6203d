package nodes

import (
	"github.com/lunehart/pixelgrid/pkg/graph"
)

// KindThreshold tags threshold nodes.
const KindThreshold graph.Kind = "threshold"

// ThresholdMode selects how pixels relate to the cutoff value.
type ThresholdMode string

const (
	// ThresholdBinary maps pixels above the cutoff to white, the rest to black.
	ThresholdBinary ThresholdMode = "binary"
	// ThresholdBinaryInv maps pixels above the cutoff to black, the rest to white.
	ThresholdBinaryInv ThresholdMode = "binary-inv"
	// ThresholdTruncate caps pixels at the cutoff, leaving darker ones intact.
	ThresholdTruncate ThresholdMode = "truncate"
	// ThresholdToZero zeroes pixels at or below the cutoff, leaving brighter
	// ones intact.
	ThresholdToZero ThresholdMode = "tozero"
)

// Threshold converts its input to grayscale and applies a cutoff.
type Threshold struct {
	graph.NodeCore

	Mode  ThresholdMode
	Value uint8
}

// NewThreshold creates a binary threshold at the midpoint.
func NewThreshold(id graph.ID, name string) *Threshold {
	return &Threshold{
		NodeCore: graph.NewCore(id, name),
		Mode:  ThresholdBinary,
		Value: 128,
	}
}

func (n *Threshold) Kind() graph.Kind { return KindThreshold }

func (n *Threshold) InputCount() int  { return 1 }
func (n *Threshold) OutputCount() int { return 1 }

func (n *Threshold) InputName(port int) string {
	if port == 0 {
		return "Image"
	}
	return ""
}

func (n *Threshold) OutputName(port int) string {
	if port == 0 {
		return "Thresholded"
	}
	return ""
}

func (n *Threshold) Ready() bool { return graph.AllInputsConnected(n) }

func (n *Threshold) Process() error {
	if !n.Ready() {
		return graph.ErrNotReady
	}
	src := n.PullInput(0)
	if src.Empty() {
		return nil
	}

	out := src.Grayscale()
	px := out.NRGBA()
	for i := 0; i < len(px.Pix); i += 4 {
		v := n.apply(px.Pix[i])
		px.Pix[i+0] = v
		px.Pix[i+1] = v
		px.Pix[i+2] = v
	}
	n.SetOutputValue(0, out)
	return nil
}

func (n *Threshold) apply(v uint8) uint8 {
	switch n.Mode {
	case ThresholdBinaryInv:
		if v > n.Value {
			return 0
		}
		return 255
	case ThresholdTruncate:
		if v > n.Value {
			return n.Value
		}
		return v
	case ThresholdToZero:
		if v > n.Value {
			return v
		}
		return 0
	default:
		if v > n.Value {
			return 255
		}
		return 0
	}
}
