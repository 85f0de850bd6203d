package nodes

import (
	"github.com/lunehart/pixelgrid/pkg/graph"
)

// KindSplit tags channel splitter nodes.
const KindSplit graph.Kind = "split"

var channelNames = []string{"Red", "Green", "Blue", "Alpha"}

// Split decomposes its input into one grayscale-encoded output per channel.
// The output count is dynamic: it starts at four (RGBA) and tracks the
// channel count of the most recently processed image, so graph edges into
// ports that no longer exist are rejected on the next connect.
type Split struct {
	graph.NodeCore

	outs int
}

// NewSplit creates a four-channel splitter.
func NewSplit(id graph.ID, name string) *Split {
	return &Split{
		NodeCore: graph.NewCore(id, name),
		outs: len(channelNames),
	}
}

func (n *Split) Kind() graph.Kind { return KindSplit }

func (n *Split) InputCount() int  { return 1 }
func (n *Split) OutputCount() int { return n.outs }

func (n *Split) InputName(port int) string {
	if port == 0 {
		return "Image"
	}
	return ""
}

func (n *Split) OutputName(port int) string {
	if port >= 0 && port < n.outs && port < len(channelNames) {
		return channelNames[port]
	}
	return ""
}

func (n *Split) Ready() bool { return graph.AllInputsConnected(n) }

func (n *Split) Process() error {
	if !n.Ready() {
		return graph.ErrNotReady
	}
	src := n.PullInput(0)
	if src.Empty() {
		return nil
	}

	channels := src.SplitChannels()
	for port, ch := range channels {
		n.SetOutputValue(port, ch)
	}
	for port := len(channels); port < n.outs; port++ {
		n.SetOutputValue(port, nil)
	}
	n.outs = len(channels)
	return nil
}
