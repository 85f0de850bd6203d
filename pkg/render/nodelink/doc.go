// Package nodelink renders node graphs as node-link diagrams via Graphviz.
//
// The package converts a [graph.Graph] to DOT text with [ToDOT], then rasters
// it with [RenderSVG] or [RenderPNG]. Sources and sinks get distinct fills so
// a pipeline's entry and exit points are visible at a glance; the Detailed
// option adds kinds, IDs, and port names for debugging manifests.
package nodelink
