package nodes

import (
	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// KindSink tags graph terminal nodes.
const KindSink graph.Kind = "sink"

// Sink captures the artifact arriving on its single input so callers can
// retrieve or save it after the graph runs. It declares no outputs.
type Sink struct {
	graph.NodeCore

	img *pixel.Image
}

// NewSink creates a sink node.
func NewSink(id graph.ID, name string) *Sink {
	return &Sink{NodeCore: graph.NewCore(id, name)}
}

func (n *Sink) Kind() graph.Kind { return KindSink }

func (n *Sink) InputCount() int  { return 1 }
func (n *Sink) OutputCount() int { return 0 }

func (n *Sink) InputName(port int) string {
	if port == 0 {
		return "Image"
	}
	return ""
}

func (n *Sink) OutputName(port int) string { return "" }

// Ready reports whether the input is connected. Whether the upstream value
// is present is Process's concern.
func (n *Sink) Ready() bool { return graph.AllInputsConnected(n) }

// Process captures the upstream artifact. An absent upstream value leaves
// the previously captured image in place.
func (n *Sink) Process() error {
	if !n.Ready() {
		return graph.ErrNotReady
	}
	in := n.PullInput(0)
	if in.Empty() {
		return nil
	}
	n.img = in.Clone()
	return nil
}

// Image returns the captured artifact, or nil if nothing has arrived.
func (n *Sink) Image() *pixel.Image { return n.img }

// SaveFile writes the captured artifact to disk.
func (n *Sink) SaveFile(path string) error {
	return n.img.Save(path)
}
