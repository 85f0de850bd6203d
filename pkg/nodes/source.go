package nodes

import (
	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// KindSource tags graph entry nodes.
const KindSource graph.Kind = "source"

// Source injects an artifact into the pipeline. It declares no inputs and a
// single output carrying the held image. The image is supplied out-of-band,
// by loading a file or by direct injection, before the graph runs.
type Source struct {
	graph.NodeCore

	img  *pixel.Image
	path string // file the image was loaded from, if any
}

// NewSource creates a source node holding no image yet.
func NewSource(id graph.ID, name string) *Source {
	return &Source{NodeCore: graph.NewCore(id, name)}
}

func (n *Source) Kind() graph.Kind { return KindSource }

func (n *Source) InputCount() int  { return 0 }
func (n *Source) OutputCount() int { return 1 }

func (n *Source) InputName(port int) string { return "" }

func (n *Source) OutputName(port int) string {
	if port == 0 {
		return "Image"
	}
	return ""
}

// Ready reports whether the source holds a valid image. Connection state is
// irrelevant for a node without inputs.
func (n *Source) Ready() bool { return !n.img.Empty() }

// Process publishes a clone of the held image on output 0.
func (n *Source) Process() error {
	if !n.Ready() {
		return graph.ErrNotReady
	}
	n.SetOutputValue(0, n.img.Clone())
	return nil
}

// LoadFile reads an image from disk and holds it. The output value is
// refreshed immediately so downstream previews see the new image without a
// full graph run.
func (n *Source) LoadFile(path string) error {
	img, err := pixel.Open(path)
	if err != nil {
		return err
	}
	n.img = img
	n.path = path
	return n.Process()
}

// SetImage holds a directly injected image.
func (n *Source) SetImage(img *pixel.Image) {
	if img.Empty() {
		return
	}
	n.img = img.Clone()
	n.path = ""
	_ = n.Process()
}

// Image returns the held image, or nil when none has been supplied.
func (n *Source) Image() *pixel.Image { return n.img }

// Path returns the file the image was loaded from, or "" for direct
// injection.
func (n *Source) Path() string { return n.path }
