package mbt

// Graph is a read-only adjacency view over a model snapshot, used by the
// coverage strategies. Outgoing edges keep the model's transition insertion
// order so traversals are deterministic.
type Graph struct {
	order []string
	out   map[string][]Transition
}

// NewGraph builds the adjacency view of a model
func NewGraph(m *Model) *Graph {
	g := &Graph{
		out: make(map[string][]Transition),
	}
	for _, s := range m.States() {
		g.order = append(g.order, s.ID())
	}
	for _, t := range m.Transitions() {
		g.out[t.Source] = append(g.out[t.Source], t)
	}
	return g
}

// StateIDs returns the state identifiers in registration order
func (g *Graph) StateIDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Outgoing returns the transitions leaving a state in registration order
func (g *Graph) Outgoing(stateID string) []Transition {
	return g.out[stateID]
}

// BFSOrder returns all states reachable from start in breadth-first order,
// start included. Siblings are visited in edge registration order.
func (g *Graph) BFSOrder(start string) []string {
	visited := map[string]bool{start: true}
	order := []string{start}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, t := range g.out[current] {
			if !visited[t.Target] {
				visited[t.Target] = true
				order = append(order, t.Target)
				queue = append(queue, t.Target)
			}
		}
	}
	return order
}

// Reachable returns the set of states reachable from start, start included
func (g *Graph) Reachable(start string) map[string]bool {
	reachable := make(map[string]bool)
	for _, id := range g.BFSOrder(start) {
		reachable[id] = true
	}
	return reachable
}

// ShortestPath returns a minimal walk from one state to another, or nil when
// the target is unreachable. The path from a state to itself is the empty
// walk. Among equally short paths the one following earliest-registered
// edges wins.
func (g *Graph) ShortestPath(from, to string) Walk {
	if from == to {
		return Walk{}
	}
	parent := make(map[string]Transition)
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, t := range g.out[current] {
			if visited[t.Target] {
				continue
			}
			visited[t.Target] = true
			parent[t.Target] = t
			if t.Target == to {
				return g.assemblePath(parent, from, to)
			}
			queue = append(queue, t.Target)
		}
	}
	return nil
}

func (g *Graph) assemblePath(parent map[string]Transition, from, to string) Walk {
	var reversed []Transition
	for current := to; current != from; {
		t := parent[current]
		reversed = append(reversed, t)
		current = t.Source
	}
	path := make(Walk, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}

// SpanningTree returns, for every state reachable from start except start
// itself, the tree edge through which breadth-first search first discovered
// it. The tree encodes a shortest walk from start to every reachable state.
func (g *Graph) SpanningTree(start string) map[string]Transition {
	parent := make(map[string]Transition)
	visited := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, t := range g.out[current] {
			if visited[t.Target] {
				continue
			}
			visited[t.Target] = true
			parent[t.Target] = t
			queue = append(queue, t.Target)
		}
	}
	return parent
}

// TreePath reconstructs the spanning-tree walk from start to a state
func TreePath(tree map[string]Transition, start, to string) Walk {
	if start == to {
		return Walk{}
	}
	var reversed []Transition
	current := to
	for current != start {
		t, ok := tree[current]
		if !ok {
			return nil
		}
		reversed = append(reversed, t)
		current = t.Source
	}
	path := make(Walk, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		path = append(path, reversed[i])
	}
	return path
}
