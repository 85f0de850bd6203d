package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/lunehart/pixelgrid/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes node IDs, kinds, and port names in labels.
	// When false, only the node name is shown.
	Detailed bool
}

// ToDOT converts a node graph to Graphviz DOT format for node-link
// visualization. The resulting DOT string can be rendered using [RenderSVG]
// or [RenderPNG].
//
// Sources and sinks are filled distinctly so pipeline entry and exit points
// stand out from the processing stages between them.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(n), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		if opts.Detailed {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=10];\n",
				nodeID(from), nodeID(to),
				fmt.Sprintf("%s→%s", from.OutputName(e.FromPort), to.InputName(e.ToPort)))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", nodeID(from), nodeID(to))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID builds a DOT identifier that stays unique even when two nodes share
// a name.
func nodeID(n graph.Node) string {
	return fmt.Sprintf("%s#%d", n.Name(), n.ID())
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.Name()
	}

	parts := []string{
		fmt.Sprintf("kind: %s", n.Kind()),
		fmt.Sprintf("id: %d", n.ID()),
	}
	if n.InputCount() > 0 || n.OutputCount() > 0 {
		parts = append(parts, fmt.Sprintf("ports: %d in / %d out", n.InputCount(), n.OutputCount()))
	}

	return n.Name() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.InputCount() == 0:
		attrs = append(attrs, "fillcolor=lightblue")
	case n.OutputCount() == 0:
		attrs = append(attrs, "fillcolor=lightgreen")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	buf, err := render(dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(buf), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(dot string) ([]byte, error) {
	return render(dot, graphviz.PNG)
}

func render(dot string, format graphviz.Format) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
