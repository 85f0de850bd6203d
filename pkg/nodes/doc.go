// Package nodes provides the concrete node variants that plug into the
// graph engine: sources and sinks at the pipeline boundary, and the image
// transformations in between.
//
// Every variant embeds [graph.Core] for identity and connection bookkeeping
// and implements the rest of the [graph.Node] contract itself: its kind tag,
// port counts and names, readiness policy, and Process operation. Process
// implementations pull upstream artifacts with Core.PullInput, compute, and
// publish results with Core.SetOutputValue. A variant receiving an absent
// input degrades (leaves its outputs untouched) rather than failing the run.
//
// Variants are registered by kind in a package-level registry so that
// pipeline manifests can instantiate them by name; see [New] and [Kinds].
package nodes
