package graph

import (
	"errors"
	"slices"
	"strings"
)

var (
	// ErrNilNode is returned by [Graph.Add] when the node is nil, or by the
	// package-level connection functions when either endpoint is nil.
	ErrNilNode = errors.New("nil node")

	// ErrDuplicateNode is returned by [Graph.Add] when a node with the same
	// id already exists in the graph. Node ids must be unique.
	ErrDuplicateNode = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when an id does not resolve to a node
	// owned by the graph.
	ErrUnknownNode = errors.New("unknown node ID")

	// ErrPortRange is returned when an output or input port index falls
	// outside the node's declared [0, count) range.
	ErrPortRange = errors.New("port index out of range")

	// ErrInputConnected is returned when connecting to an input port that
	// already has a source. An existing edge is never silently replaced.
	ErrInputConnected = errors.New("input already connected")

	// ErrNotConnected is returned by disconnect operations when the named
	// edge does not exist.
	ErrNotConnected = errors.New("no such connection")

	// ErrCycle is returned by [Graph.Connect] when the new edge would close
	// a directed cycle. The edge is applied, detected, and rolled back, so
	// graph state after the failed call is identical to before it.
	ErrCycle = errors.New("connection would create a cycle")

	// ErrUnconnectedInput is returned by [Graph.Validate] when some node has
	// an input port without a source.
	ErrUnconnectedInput = errors.New("unconnected input port")

	// ErrNotReady is returned by a node's Process when its preconditions do
	// not hold. The engine treats this as a skip, not a failure.
	ErrNotReady = errors.New("node is not ready")
)

// Edge describes one connection as seen from the graph: the source node's
// output port feeding the target node's input port.
type Edge struct {
	From     ID
	FromPort int
	To       ID
	ToPort   int
}

// Graph is an owning collection of nodes plus their connections. It hands
// out node ids, maintains the acyclicity invariant across all mutations, and
// executes the pipeline in dependency order.
//
// The zero value is not usable; create instances with [New]. Graph is not
// safe for concurrent use without external synchronization.
type Graph struct {
	nodes  map[ID]Node
	order  []ID // insertion order, for deterministic iteration
	nextID ID
}

// New creates an empty graph with a fresh id allocator.
func New() *Graph {
	return &Graph{nodes: make(map[ID]Node)}
}

// NextID allocates the next node id. Ids are process-independent, start at
// zero per graph, and are never reused, even after removals or [Graph.Clear].
func (g *Graph) NextID() ID {
	id := g.nextID
	g.nextID++
	return id
}

// Add inserts a node into the graph. It fails with [ErrNilNode] for nil and
// [ErrDuplicateNode] if the node's id is already taken. On success the graph
// owns the node's lifetime.
func (g *Graph) Add(n Node) error {
	if n == nil {
		return ErrNilNode
	}
	if _, exists := g.nodes[n.ID()]; exists {
		return ErrDuplicateNode
	}
	g.nodes[n.ID()] = n
	g.order = append(g.order, n.ID())
	return nil
}

// Remove disconnects every edge touching the node and drops it from the
// graph. The cascading disconnect runs before removal so that no surviving
// node's connection tables still reference the removed id. Fails with
// [ErrUnknownNode] for unknown ids.
func (g *Graph) Remove(id ID) error {
	n, ok := g.nodes[id]
	if !ok {
		return ErrUnknownNode
	}

	core := n.Core()
	for _, port := range core.outPorts() {
		for _, t := range core.Targets(port) {
			_ = Disconnect(n, port, t.To, t.Port)
		}
	}
	for _, port := range core.ConnectedInputs() {
		if src, srcPort, ok := core.InputSource(port); ok {
			_ = Disconnect(src, srcPort, n, port)
		}
	}

	delete(g.nodes, id)
	g.order = slices.DeleteFunc(g.order, func(o ID) bool { return o == id })
	return nil
}

// Node returns the node with the given id and true, or nil and false.
func (g *Graph) Node(id ID) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Contains reports whether the graph owns a node with the given id.
func (g *Graph) Contains(id ID) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []Node {
	nodes := make([]Node, 0, len(g.order))
	for _, id := range g.order {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int { return len(g.nodes) }

// Edges lists every connection in the graph, ordered by source insertion
// order, then output port, then connection order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, n := range g.Nodes() {
		core := n.Core()
		for _, port := range core.outPorts() {
			for _, t := range core.Targets(port) {
				edges = append(edges, Edge{
					From:     n.ID(),
					FromPort: port,
					To:       t.To.ID(),
					ToPort:   t.Port,
				})
			}
		}
	}
	return edges
}

// EdgeCount returns the number of connections in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, n := range g.nodes {
		count += len(n.Core().ins)
	}
	return count
}

// FindByKind returns all nodes declaring the given kind tag, in insertion
// order.
func (g *Graph) FindByKind(kind Kind) []Node {
	var result []Node
	for _, n := range g.Nodes() {
		if n.Kind() == kind {
			result = append(result, n)
		}
	}
	return result
}

// FindByName returns all nodes whose display name contains the given
// substring, in insertion order.
func (g *Graph) FindByName(substr string) []Node {
	var result []Node
	for _, n := range g.Nodes() {
		if strings.Contains(n.Name(), substr) {
			result = append(result, n)
		}
	}
	return result
}

// SourceNodes returns the graph's entry points: nodes that declare zero
// input ports. The role is determined by capability, not by incidental
// connection state.
func (g *Graph) SourceNodes() []Node {
	var result []Node
	for _, n := range g.Nodes() {
		if n.InputCount() == 0 {
			result = append(result, n)
		}
	}
	return result
}

// SinkNodes returns the graph's terminals: nodes that declare zero output
// ports.
func (g *Graph) SinkNodes() []Node {
	var result []Node
	for _, n := range g.Nodes() {
		if n.OutputCount() == 0 {
			result = append(result, n)
		}
	}
	return result
}

// Connect wires (src id, outPort) → (dst id, inPort). It resolves both ids,
// range-checks the ports, rejects an occupied target input, applies the
// edge, and then re-validates global acyclicity: if the edge closed a cycle
// it is rolled back and [ErrCycle] is returned. After any failure the graph
// is observationally identical to before the call.
func (g *Graph) Connect(src ID, outPort int, dst ID, inPort int) error {
	srcNode, ok := g.nodes[src]
	if !ok {
		return ErrUnknownNode
	}
	dstNode, ok := g.nodes[dst]
	if !ok {
		return ErrUnknownNode
	}

	if err := Connect(srcNode, outPort, dstNode, inPort); err != nil {
		return err
	}
	if g.HasCycle() {
		_ = Disconnect(srcNode, outPort, dstNode, inPort)
		return ErrCycle
	}
	return nil
}

// Disconnect removes the edge (src id, outPort) → (dst id, inPort). Fails
// with [ErrUnknownNode] if either id is missing or [ErrNotConnected] if the
// edge does not exist.
func (g *Graph) Disconnect(src ID, outPort int, dst ID, inPort int) error {
	srcNode, ok := g.nodes[src]
	if !ok {
		return ErrUnknownNode
	}
	dstNode, ok := g.nodes[dst]
	if !ok {
		return ErrUnknownNode
	}
	return Disconnect(srcNode, outPort, dstNode, inPort)
}

// Clear removes every node and connection. The id allocator keeps counting
// so ids are never reused across a clear.
func (g *Graph) Clear() {
	g.nodes = make(map[ID]Node)
	g.order = nil
}

// Validate reports whether the graph is a complete, runnable pipeline: it
// must be acyclic and every input port of every node must be connected.
// This is a readiness certificate, stricter than what [Graph.Process]
// requires — processing tolerates individually unready nodes by skipping
// them.
func (g *Graph) Validate() error {
	if g.HasCycle() {
		return ErrCycle
	}
	for _, n := range g.Nodes() {
		if !AllInputsConnected(n) {
			return ErrUnconnectedInput
		}
	}
	return nil
}
