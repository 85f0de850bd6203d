package graph

import (
	"time"

	"github.com/lunehart/pixelgrid/pkg/observability"
)

// Report summarizes one [Graph.Process] run. All engine-level conditions are
// reported here as diagnostics; none abort the run.
type Report struct {
	// Order is the computed processing order, one entry per scheduled node.
	Order []ID

	// Processed lists nodes whose Process ran and returned nil.
	Processed []ID

	// Skipped lists nodes that were not ready at their turn. Their stale
	// (possibly absent) output values remain visible to downstream nodes.
	Skipped []ID

	// Failed maps nodes whose Process returned an error to that error.
	Failed map[ID]error

	// Unscheduled lists nodes that could not be placed in the order. With
	// the acyclicity invariant intact this stays empty; it is kept as a
	// diagnostic for corrupted state.
	Unscheduled []ID
}

// ProcessingOrder computes a dependency-respecting order over all nodes:
// every node appears after every node feeding one of its inputs.
//
// The algorithm is a repeated marking scan: each pass appends every unmarked
// node whose input sources are all marked, and stops when a pass appends
// nothing. Unconnected inputs impose no ordering constraint. The scan is
// O(n²) in the worst case, which is acceptable for graphs that are rebuilt
// and fully reprocessed per run.
//
// If unmarked nodes remain when the scan stalls (impossible while the
// acyclicity invariant holds), the partial order computed so far is
// returned.
func (g *Graph) ProcessingOrder() []Node {
	order, _ := g.processingOrder()
	return order
}

func (g *Graph) processingOrder() (order []Node, unscheduled []ID) {
	marked := make(map[ID]bool, len(g.nodes))

	for len(order) < len(g.order) {
		progressed := false

		for _, id := range g.order {
			if marked[id] {
				continue
			}
			n := g.nodes[id]
			if g.dependenciesMarked(n, marked) {
				order = append(order, n)
				marked[id] = true
				progressed = true
			}
		}

		if !progressed {
			break
		}
	}

	for _, id := range g.order {
		if !marked[id] {
			unscheduled = append(unscheduled, id)
		}
	}
	return order, unscheduled
}

// dependenciesMarked reports whether every connected input source of n is
// already marked.
func (g *Graph) dependenciesMarked(n Node, marked map[ID]bool) bool {
	core := n.Core()
	for _, port := range core.ConnectedInputs() {
		if src, _, ok := core.InputSource(port); ok && !marked[src.ID()] {
			return false
		}
	}
	return true
}

// Process executes the pipeline: it computes the processing order, then runs
// each node in turn. A node that is not ready at its turn is skipped and
// recorded; a node whose Process returns an error is recorded as failed.
// Neither condition stops the run — downstream consumers of a skipped or
// failed node observe an absent artifact and degrade on their own terms.
func (g *Graph) Process() Report {
	start := time.Now()
	hooks := observability.Engine()

	order, unscheduled := g.processingOrder()

	report := Report{
		Order:       make([]ID, 0, len(order)),
		Failed:      make(map[ID]error),
		Unscheduled: unscheduled,
	}
	for _, n := range order {
		report.Order = append(report.Order, n.ID())
	}

	hooks.OnRunStart(len(order))

	for _, n := range order {
		if !n.Ready() {
			report.Skipped = append(report.Skipped, n.ID())
			hooks.OnNodeSkipped(string(n.Kind()), n.Name())
			continue
		}

		nodeStart := time.Now()
		err := n.Process()
		hooks.OnNodeProcessed(string(n.Kind()), n.Name(), time.Since(nodeStart), err)

		if err != nil {
			report.Failed[n.ID()] = err
			continue
		}
		report.Processed = append(report.Processed, n.ID())
	}

	hooks.OnRunComplete(time.Since(start), len(report.Processed), len(report.Skipped))
	return report
}
