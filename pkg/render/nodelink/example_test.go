package nodelink_test

import (
	"fmt"

	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/nodes"
	"github.com/lunehart/pixelgrid/pkg/render/nodelink"
)

func ExampleToDOT() {
	g := graph.New()
	gen := nodes.NewNoise(g.NextID(), "gen")
	out := nodes.NewSink(g.NextID(), "out")
	_ = g.Add(gen)
	_ = g.Add(out)
	_ = g.Connect(gen.ID(), 0, out.ID(), 0)

	fmt.Print(nodelink.ToDOT(g, nodelink.Options{}))
	// Output:
	// digraph G {
	//   rankdir=LR;
	//   bgcolor="transparent";
	//   node [shape=box, style="rounded,filled", fillcolor=white, fontsize=14, margin="0.2,0.1"];
	//   ranksep=0.6;
	//   nodesep=0.3;
	//
	//   "gen#0" [label="gen", fillcolor=lightblue];
	//   "out#1" [label="out", fillcolor=lightgreen];
	//
	//   "gen#0" -> "out#1";
	// }
}
