package nodes

import (
	"github.com/disintegration/imaging"

	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// KindAdjust tags brightness/contrast adjustment nodes.
const KindAdjust graph.Kind = "adjust"

// Adjust changes brightness and contrast of its input image. Both settings
// are percentages in [-100, 100]; zero leaves the respective property
// unchanged.
type Adjust struct {
	graph.NodeCore

	Brightness float64
	Contrast   float64
}

// NewAdjust creates a neutral adjustment node.
func NewAdjust(id graph.ID, name string) *Adjust {
	return &Adjust{NodeCore: graph.NewCore(id, name)}
}

func (n *Adjust) Kind() graph.Kind { return KindAdjust }

func (n *Adjust) InputCount() int  { return 1 }
func (n *Adjust) OutputCount() int { return 1 }

func (n *Adjust) InputName(port int) string {
	if port == 0 {
		return "Image"
	}
	return ""
}

func (n *Adjust) OutputName(port int) string {
	if port == 0 {
		return "Adjusted"
	}
	return ""
}

func (n *Adjust) Ready() bool { return graph.AllInputsConnected(n) }

func (n *Adjust) Process() error {
	if !n.Ready() {
		return graph.ErrNotReady
	}
	src := n.PullInput(0)
	if src.Empty() {
		return nil
	}

	out := src.NRGBA()
	if n.Brightness != 0 {
		out = imaging.AdjustBrightness(out, clampPercent(n.Brightness))
	}
	if n.Contrast != 0 {
		out = imaging.AdjustContrast(out, clampPercent(n.Contrast))
	}
	n.SetOutputValue(0, pixel.From(out))
	return nil
}

func clampPercent(v float64) float64 {
	if v < -100 {
		return -100
	}
	if v > 100 {
		return 100
	}
	return v
}
