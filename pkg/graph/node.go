package graph

import (
	"maps"
	"slices"

	"github.com/lunehart/pixelgrid/pkg/pixel"
)

// ID identifies a node within a graph. Ids are handed out by the owning
// graph's allocator ([Graph.NextID]) and are never reused or mutated after
// construction.
type ID int

// Kind tags a node variant. Variants declare their kind explicitly rather
// than relying on run-time type inspection, so [Graph.FindByKind] is a plain
// tag comparison.
type Kind string

// Node is the capability contract every processing unit implements.
//
// Identity, naming, and connection bookkeeping come for free by embedding
// [Core]; a variant supplies its kind, port counts, port names, readiness
// policy, and the Process operation itself.
type Node interface {
	// ID returns the node's graph-unique identifier.
	ID() ID
	// Name returns the mutable display label.
	Name() string
	// SetName updates the display label.
	SetName(name string)
	// Kind returns the variant tag.
	Kind() Kind

	// InputCount and OutputCount report the number of valid input and
	// output ports. Most variants return constants; a few derive counts
	// from prior processing (the channel splitter).
	InputCount() int
	OutputCount() int

	// InputName and OutputName return descriptive port labels. They are
	// metadata only; the engine never reads them.
	InputName(port int) string
	OutputName(port int) string

	// Ready reports whether the node's processing preconditions hold. The
	// default policy is [AllInputsConnected]; variants with optional
	// inputs or internal state (a source without an image) override it.
	Ready() bool

	// Process computes the node's outputs from its inputs and stores them
	// in the output-value cache. Implementations must check Ready
	// themselves and return [ErrNotReady] instead of touching state when
	// preconditions fail.
	Process() error

	// OutputValue returns the cached artifact for an output port, or nil
	// if the port has never been processed or is out of range. nil is the
	// explicit "absent" value; no placeholder image is ever fabricated.
	OutputValue(port int) *pixel.Image

	// Core exposes the embedded connection bookkeeping.
	Core() *Core
}

// Input references the source feeding an input port.
type Input struct {
	From Node
	Port int // output port on From
}

// Target references a consumer of an output port.
type Target struct {
	To   Node
	Port int // input port on To
}

// Core holds the per-node state shared by all variants: identity, name, the
// bidirectional connection tables, and the output-value cache. Embed it by
// value and initialize it with [NewCore].
//
// The references stored in the tables are non-owning; ownership of nodes
// rests exclusively with the graph, and [Graph.Remove] clears every table
// entry referring to the removed node.
type Core struct {
	id   ID
	name string

	ins  map[int]Input    // input port -> its single source
	outs map[int][]Target // output port -> targets, in connection order
	vals map[int]*pixel.Image
}

// NodeCore is an alias of [Core] for embedding. Embedding Core directly
// would name the field "Core", shadowing the promoted Core method that the
// [Node] contract requires; embedding NodeCore keeps the method visible.
type NodeCore = Core

// NewCore initializes node state with the given id and display name.
func NewCore(id ID, name string) Core {
	return Core{
		id:   id,
		name: name,
		ins:  make(map[int]Input),
		outs: make(map[int][]Target),
		vals: make(map[int]*pixel.Image),
	}
}

// ID returns the node's identifier.
func (c *Core) ID() ID { return c.id }

// Name returns the display label.
func (c *Core) Name() string { return c.name }

// SetName updates the display label.
func (c *Core) SetName(name string) { c.name = name }

// Core returns the bookkeeping state itself, satisfying the [Node] contract
// for variants that embed Core.
func (c *Core) Core() *Core { return c }

// InputSource returns the (source node, output port) pair feeding the given
// input port, or ok=false if the port is unconnected or out of range.
func (c *Core) InputSource(port int) (src Node, srcPort int, ok bool) {
	in, ok := c.ins[port]
	if !ok {
		return nil, 0, false
	}
	return in.From, in.Port, true
}

// Targets returns the consumers of the given output port in connection
// order. The returned slice is a copy.
func (c *Core) Targets(port int) []Target {
	return slices.Clone(c.outs[port])
}

// ConnectedInputs returns the indices of connected input ports in ascending
// order.
func (c *Core) ConnectedInputs() []int {
	return slices.Sorted(maps.Keys(c.ins))
}

// OutputValue returns the cached artifact for port, or nil if absent.
func (c *Core) OutputValue(port int) *pixel.Image {
	return c.vals[port]
}

// SetOutputValue publishes an artifact on an output port. Variants call this
// from Process; passing nil clears the slot.
func (c *Core) SetOutputValue(port int, img *pixel.Image) {
	if img == nil {
		delete(c.vals, port)
		return
	}
	c.vals[port] = img
}

// PullInput reads the artifact currently published on the source feeding the
// given input port. It returns nil when the port is unconnected or the
// source has not produced a value, letting variants degrade instead of
// failing hard.
func (c *Core) PullInput(port int) *pixel.Image {
	in, ok := c.ins[port]
	if !ok {
		return nil
	}
	return in.From.OutputValue(in.Port)
}

// outPorts returns the output ports that have at least one target, in
// ascending order. Iteration order matters for deterministic cycle
// detection and edge listings.
func (c *Core) outPorts() []int {
	return slices.Sorted(maps.Keys(c.outs))
}

// AllInputsConnected is the default readiness policy: true iff every input
// port of n has a connected source.
func AllInputsConnected(n Node) bool {
	core := n.Core()
	for i := 0; i < n.InputCount(); i++ {
		if _, ok := core.ins[i]; !ok {
			return false
		}
	}
	return true
}

// Connect registers the edge (src, outPort) → (dst, inPort) on both
// endpoints. It fails with [ErrPortRange] if either port index is outside
// its node's declared range, or [ErrInputConnected] if the target input
// already has a source. On failure neither node's tables change.
//
// Connect performs no cycle checking; that is [Graph.Connect]'s job.
func Connect(src Node, outPort int, dst Node, inPort int) error {
	if src == nil || dst == nil {
		return ErrNilNode
	}
	if outPort < 0 || outPort >= src.OutputCount() {
		return ErrPortRange
	}
	if inPort < 0 || inPort >= dst.InputCount() {
		return ErrPortRange
	}
	if _, ok := dst.Core().ins[inPort]; ok {
		return ErrInputConnected
	}

	src.Core().outs[outPort] = append(src.Core().outs[outPort], Target{To: dst, Port: inPort})
	dst.Core().ins[inPort] = Input{From: src, Port: outPort}
	return nil
}

// Disconnect removes the edge (src, outPort) → (dst, inPort) from both
// endpoints. It fails with [ErrNotConnected] if no such edge exists.
func Disconnect(src Node, outPort int, dst Node, inPort int) error {
	if src == nil || dst == nil {
		return ErrNilNode
	}
	in, ok := dst.Core().ins[inPort]
	if !ok || in.From != src || in.Port != outPort {
		return ErrNotConnected
	}

	targets := src.Core().outs[outPort]
	idx := slices.IndexFunc(targets, func(t Target) bool {
		return t.To == dst && t.Port == inPort
	})
	if idx < 0 {
		return ErrNotConnected
	}

	targets = slices.Delete(targets, idx, idx+1)
	if len(targets) == 0 {
		delete(src.Core().outs, outPort)
	} else {
		src.Core().outs[outPort] = targets
	}
	delete(dst.Core().ins, inPort)
	return nil
}
