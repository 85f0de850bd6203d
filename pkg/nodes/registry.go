package nodes

import (
	"errors"
	"fmt"
	"sort"

	"github.com/lunehart/pixelgrid/pkg/graph"
)

// ErrUnknownKind is returned by New for a kind with no registered builder.
var ErrUnknownKind = errors.New("unknown node kind")

// Builder constructs a node of one kind and applies its parameters.
type Builder func(id graph.ID, name string, p Params) (graph.Node, error)

var registry = map[graph.Kind]Builder{
	KindSource: func(id graph.ID, name string, p Params) (graph.Node, error) {
		n := NewSource(id, name)
		if path := p.String("path", ""); path != "" {
			if err := n.LoadFile(path); err != nil {
				return nil, fmt.Errorf("source %q: %w", name, err)
			}
		}
		return n, nil
	},
	KindSink: func(id graph.ID, name string, _ Params) (graph.Node, error) {
		return NewSink(id, name), nil
	},
	KindBlur: func(id graph.ID, name string, p Params) (graph.Node, error) {
		n := NewBlur(id, name)
		switch m := BlurMethod(p.String("method", string(n.Method))); m {
		case BlurGaussian, BlurBox:
			n.Method = m
		default:
			return nil, fmt.Errorf("blur %q: unknown method %q", name, m)
		}
		n.Sigma = p.Float("sigma", n.Sigma)
		n.Radius = p.Int("radius", n.Radius)
		return n, nil
	},
	KindAdjust: func(id graph.ID, name string, p Params) (graph.Node, error) {
		n := NewAdjust(id, name)
		n.Brightness = p.Float("brightness", 0)
		n.Contrast = p.Float("contrast", 0)
		return n, nil
	},
	KindThreshold: func(id graph.ID, name string, p Params) (graph.Node, error) {
		n := NewThreshold(id, name)
		switch m := ThresholdMode(p.String("mode", string(n.Mode))); m {
		case ThresholdBinary, ThresholdBinaryInv, ThresholdTruncate, ThresholdToZero:
			n.Mode = m
		default:
			return nil, fmt.Errorf("threshold %q: unknown mode %q", name, m)
		}
		v := p.Int("value", int(n.Value))
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("threshold %q: value %d out of range [0, 255]", name, v)
		}
		n.Value = uint8(v)
		return n, nil
	},
	KindEdges: func(id graph.ID, name string, p Params) (graph.Node, error) {
		n := NewEdges(id, name)
		switch m := EdgeMethod(p.String("method", string(n.Method))); m {
		case EdgeSobel, EdgeLaplacian:
			n.Method = m
		default:
			return nil, fmt.Errorf("edges %q: unknown method %q", name, m)
		}
		return n, nil
	},
	KindConvolve: func(id graph.ID, name string, p Params) (graph.Node, error) {
		n := NewConvolve(id, name)
		k := Kernel(p.String("kernel", string(n.Kernel)))
		if _, ok := kernels[k]; !ok {
			return nil, fmt.Errorf("convolve %q: unknown kernel %q", name, k)
		}
		n.Kernel = k
		return n, nil
	},
	KindBlend: func(id graph.ID, name string, p Params) (graph.Node, error) {
		n := NewBlend(id, name)
		switch m := BlendMode(p.String("mode", string(n.Mode))); m {
		case BlendNormal, BlendMultiply, BlendScreen, BlendAdd, BlendDifference:
			n.Mode = m
		default:
			return nil, fmt.Errorf("blend %q: unknown mode %q", name, m)
		}
		n.Alpha = p.Float("alpha", n.Alpha)
		return n, nil
	},
	KindNoise: func(id graph.ID, name string, p Params) (graph.Node, error) {
		n := NewNoise(id, name)
		switch m := NoisePattern(p.String("pattern", string(n.Pattern))); m {
		case NoiseGaussian, NoiseUniform, NoiseSaltPepper:
			n.Pattern = m
		default:
			return nil, fmt.Errorf("noise %q: unknown pattern %q", name, m)
		}
		n.Width = p.Int("width", n.Width)
		n.Height = p.Int("height", n.Height)
		n.Amount = p.Float("amount", n.Amount)
		n.Seed = int64(p.Int("seed", int(n.Seed)))
		if n.Width <= 0 || n.Height <= 0 {
			return nil, fmt.Errorf("noise %q: dimensions %dx%d must be positive", name, n.Width, n.Height)
		}
		return n, nil
	},
	KindSplit: func(id graph.ID, name string, _ Params) (graph.Node, error) {
		return NewSplit(id, name), nil
	},
}

// New builds a node of the given kind with the supplied parameters. Unknown
// kinds return [ErrUnknownKind].
func New(kind graph.Kind, id graph.ID, name string, p Params) (graph.Node, error) {
	builder, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return builder(id, name, p)
}

// Kinds returns every registered kind in lexical order.
func Kinds() []graph.Kind {
	out := make([]graph.Kind, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
