package pipeline

import (
	"errors"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	apperrors "github.com/lunehart/pixelgrid/pkg/errors"
	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/nodes"
)

// Manifest is the parsed form of a pipeline description.
//
// The TOML layout declares nodes and edges:
//
//	name = "blur-and-save"
//
//	[[node]]
//	name = "in"
//	kind = "source"
//	params = { path = "input.png" }
//
//	[[node]]
//	name = "soften"
//	kind = "blur"
//	params = { method = "gaussian", sigma = 3.5 }
//
//	[[node]]
//	name = "out"
//	kind = "sink"
//
//	[[edge]]
//	from = "in:0"
//	to = "soften:0"
//
//	[[edge]]
//	from = "soften:0"
//	to = "out:0"
//
// Edge endpoints are "name:port" references; ":port" may be omitted and
// defaults to port 0.
type Manifest struct {
	Name  string     `toml:"name"`
	Nodes []NodeSpec `toml:"node"`
	Edges []EdgeSpec `toml:"edge"`
}

// NodeSpec declares one node in a manifest.
type NodeSpec struct {
	Name   string       `toml:"name"`
	Kind   string       `toml:"kind"`
	Params nodes.Params `toml:"params"`
}

// EdgeSpec declares one connection in a manifest.
type EdgeSpec struct {
	From string `toml:"from"`
	To   string `toml:"to"`
}

// ParseManifest reads a TOML manifest and validates its node declarations.
// Structural problems that require the graph (unknown kinds, bad ports,
// cycles) surface later, in [Runner.Build].
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "parse manifest")
	}

	if len(m.Nodes) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidManifest, "manifest declares no nodes")
	}

	seen := make(map[string]bool, len(m.Nodes))
	for _, spec := range m.Nodes {
		if err := apperrors.ValidateNodeName(spec.Name); err != nil {
			return nil, err
		}
		if seen[spec.Name] {
			return nil, apperrors.New(apperrors.ErrCodeDuplicateNodeName, "duplicate node name %q", spec.Name)
		}
		seen[spec.Name] = true
		if spec.Kind == "" {
			return nil, apperrors.New(apperrors.ErrCodeInvalidManifest, "node %q has no kind", spec.Name)
		}
	}

	for _, edge := range m.Edges {
		for _, ref := range []string{edge.From, edge.To} {
			if name, _, err := splitRef(ref); err != nil {
				return nil, err
			} else if !seen[name] {
				return nil, apperrors.New(apperrors.ErrCodeNodeNotFound, "edge references unknown node %q", name)
			}
		}
	}

	return &m, nil
}

// Build instantiates the manifest as a node graph. The returned map resolves
// manifest names to the constructed nodes.
func Build(m *Manifest) (*graph.Graph, map[string]graph.Node, error) {
	g := graph.New()
	byName := make(map[string]graph.Node, len(m.Nodes))

	for _, spec := range m.Nodes {
		n, err := nodes.New(graph.Kind(spec.Kind), g.NextID(), spec.Name, spec.Params)
		if err != nil {
			if errors.Is(err, nodes.ErrUnknownKind) {
				return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidKind, err, "node %q", spec.Name)
			}
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidParam, err, "node %q", spec.Name)
		}
		if err := g.Add(n); err != nil {
			return nil, nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "add node %q", spec.Name)
		}
		byName[spec.Name] = n
	}

	for _, edge := range m.Edges {
		fromName, fromPort, err := splitRef(edge.From)
		if err != nil {
			return nil, nil, err
		}
		toName, toPort, err := splitRef(edge.To)
		if err != nil {
			return nil, nil, err
		}

		src, dst := byName[fromName], byName[toName]
		if err := g.Connect(src.ID(), fromPort, dst.ID(), toPort); err != nil {
			switch {
			case errors.Is(err, graph.ErrCycle):
				return nil, nil, apperrors.Wrap(apperrors.ErrCodeCycle, err, "edge %s -> %s", edge.From, edge.To)
			case errors.Is(err, graph.ErrPortRange), errors.Is(err, graph.ErrInputConnected):
				return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidPort, err, "edge %s -> %s", edge.From, edge.To)
			default:
				return nil, nil, apperrors.Wrap(apperrors.ErrCodeInvalidManifest, err, "edge %s -> %s", edge.From, edge.To)
			}
		}
	}

	return g, byName, nil
}

// splitRef parses a "name:port" edge endpoint. The port defaults to 0 when
// omitted.
func splitRef(ref string) (string, int, error) {
	if ref == "" {
		return "", 0, apperrors.New(apperrors.ErrCodeInvalidManifest, "empty edge endpoint")
	}

	name, portStr, ok := strings.Cut(ref, ":")
	if !ok {
		return name, 0, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 {
		return "", 0, apperrors.New(apperrors.ErrCodeInvalidPort, "invalid port in edge endpoint %q", ref)
	}
	return name, port, nil
}
