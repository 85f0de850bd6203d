// Package graph provides the node-graph processing engine at the heart of
// pixelgrid.
//
// # Overview
//
// A processing pipeline is a directed acyclic graph of nodes. Each node
// exposes a fixed set of indexed input and output ports, a Process operation
// supplied by a concrete variant (see the nodes package), and a cache of
// output values written during processing. Connections run from an output
// port of one node to an input port of another; an input port accepts at
// most one source, while an output port may feed any number of targets.
//
// # Basic Usage
//
// Create a graph with [New], add nodes with [Graph.Add], and wire them with
// [Graph.Connect]. Node ids come from the graph's own allocator so that
// independent graphs never share id space:
//
//	g := graph.New()
//	src := NewSource(g.NextID(), "input")
//	blur := NewBlur(g.NextID(), "soften")
//	_ = g.Add(src)
//	_ = g.Add(blur)
//	_ = g.Connect(src.ID(), 0, blur.ID(), 0)
//
// [Graph.Process] computes a dependency order and runs every ready node in
// turn; nodes whose required inputs are unconnected are skipped and reported
// in the returned [Report], never failed hard.
//
// # Structural Guarantees
//
// The connection tables on the two endpoints of an edge are kept mutually
// consistent by every mutating operation: an edge recorded on a source's
// output side always has the matching entry on the target's input side.
// [Graph.Connect] re-checks global acyclicity after applying an edge and
// rolls the edge back if it closed a cycle, so the graph is never observably
// cyclic. [Graph.Remove] disconnects every edge touching the node before
// dropping it, so no surviving node retains a reference to a removed one.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph. Processing is
// strictly sequential in the computed order on the calling goroutine.
package graph
