package graph

// HasCycle reports whether the directed graph induced by output→input edges
// contains a cycle.
//
// Detection is the standard 3-color depth-first search: white (unvisited),
// gray (on the current path), black (done). A gray-to-gray edge is a
// back-edge and signals a cycle. The search uses an explicit stack rather
// than recursion so that pathological chains cannot exhaust the call stack.
//
// Traversal order is deterministic: roots follow node insertion order,
// successors follow ascending output-port order and connection order within
// a port. The edge that triggers detection is therefore stable across runs.
func (g *Graph) HasCycle() bool {
	const (
		white = iota
		gray
		black
	)

	color := make(map[ID]int, len(g.nodes))

	type frame struct {
		id    ID
		succ  []ID
		next  int
	}

	successors := func(id ID) []ID {
		core := g.nodes[id].Core()
		var succ []ID
		for _, port := range core.outPorts() {
			for _, t := range core.Targets(port) {
				succ = append(succ, t.To.ID())
			}
		}
		return succ
	}

	for _, root := range g.order {
		if color[root] != white {
			continue
		}

		color[root] = gray
		stack := []frame{{id: root, succ: successors(root)}}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next >= len(f.succ) {
				color[f.id] = black
				stack = stack[:len(stack)-1]
				continue
			}

			child := f.succ[f.next]
			f.next++

			switch color[child] {
			case white:
				color[child] = gray
				stack = append(stack, frame{id: child, succ: successors(child)})
			case gray:
				return true
			}
		}
	}
	return false
}
