package mbt

// NodeCover generates the walks for node (state) coverage: every state
// reachable from the start state appears on at least one walk, and every
// walk starts at the start state.
//
// The strategy builds a breadth-first spanning tree rooted at the start
// state and emits one shortest walk per tree leaf. Interior states are
// covered for free as prefixes of the leaf walks, which keeps both the walk
// count and the total event count minimal for the tree. States that are not
// reachable from the start are reported in Result.Unreachable.
type NodeCover struct{}

// Name returns the registry name of the strategy
func (s *NodeCover) Name() string {
	return "node"
}

// Generate produces the node coverage walks
func (s *NodeCover) Generate(m *Model, start string, _ Params) (*Result, error) {
	if !m.HasState(start) {
		return nil, NewUnknownStateError(start, "node coverage")
	}

	g := NewGraph(m)
	tree := g.SpanningTree(start)
	reachable := g.Reachable(start)

	// A state is a leaf when no tree edge leaves it.
	interior := make(map[string]bool)
	for _, t := range tree {
		interior[t.Source] = true
	}

	result := &Result{}
	for _, id := range g.BFSOrder(start) {
		if interior[id] {
			continue
		}
		walk := TreePath(tree, start, id)
		if len(walk) == 0 {
			continue // the start state itself
		}
		result.Walks = append(result.Walks, walk)
	}

	for _, st := range m.States() {
		if !reachable[st.ID()] {
			result.Unreachable = append(result.Unreachable, st.ID())
		}
	}
	return result, nil
}
