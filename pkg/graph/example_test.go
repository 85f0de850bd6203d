package graph_test

import (
	"errors"
	"fmt"

	"github.com/lunehart/pixelgrid/pkg/graph"
	"github.com/lunehart/pixelgrid/pkg/nodes"
)

func ExampleGraph_basic() {
	// Build a three-stage pipeline: generator → blur → sink
	g := graph.New()
	gen := nodes.NewNoise(g.NextID(), "gen")
	gen.Width, gen.Height = 8, 8
	soften := nodes.NewBlur(g.NextID(), "soften")
	out := nodes.NewSink(g.NextID(), "out")
	_ = g.Add(gen)
	_ = g.Add(soften)
	_ = g.Add(out)
	_ = g.Connect(gen.ID(), 0, soften.ID(), 0)
	_ = g.Connect(soften.ID(), 0, out.ID(), 0)

	report := g.Process()
	fmt.Println("Processed:", len(report.Processed))
	fmt.Println("Skipped:", len(report.Skipped))
	fmt.Printf("Artifact: %dx%d\n", out.Image().Width(), out.Image().Height())
	// Output:
	// Processed: 3
	// Skipped: 0
	// Artifact: 8x8
}

func ExampleGraph_ProcessingOrder() {
	// Insertion order does not dictate processing order; connections do.
	g := graph.New()
	out := nodes.NewSink(g.NextID(), "out")
	soften := nodes.NewBlur(g.NextID(), "soften")
	gen := nodes.NewNoise(g.NextID(), "gen")
	_ = g.Add(out)
	_ = g.Add(soften)
	_ = g.Add(gen)
	_ = g.Connect(gen.ID(), 0, soften.ID(), 0)
	_ = g.Connect(soften.ID(), 0, out.ID(), 0)

	for _, n := range g.ProcessingOrder() {
		fmt.Println(n.Name())
	}
	// Output:
	// gen
	// soften
	// out
}

func ExampleGraph_Connect_cycle() {
	// A connection that would close a cycle is rejected and rolled back.
	g := graph.New()
	a := nodes.NewBlur(g.NextID(), "a")
	b := nodes.NewBlur(g.NextID(), "b")
	_ = g.Add(a)
	_ = g.Add(b)
	_ = g.Connect(a.ID(), 0, b.ID(), 0)

	err := g.Connect(b.ID(), 0, a.ID(), 0)
	fmt.Println("Cycle rejected:", errors.Is(err, graph.ErrCycle))
	fmt.Println("Edges:", g.EdgeCount())
	// Output:
	// Cycle rejected: true
	// Edges: 1
}

func ExampleGraph_Validate() {
	// Validate demands every input port be fed.
	g := graph.New()
	soften := nodes.NewBlur(g.NextID(), "soften")
	_ = g.Add(soften)

	fmt.Println("Dangling input:", g.Validate() != nil)

	gen := nodes.NewNoise(g.NextID(), "gen")
	_ = g.Add(gen)
	_ = g.Connect(gen.ID(), 0, soften.ID(), 0)
	fmt.Println("After wiring:", g.Validate())
	// Output:
	// Dangling input: true
	// After wiring: <nil>
}
