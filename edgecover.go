package mbt

// EdgeCover generates the walks for edge (transition) coverage: every
// transition reachable from the start state is traversed at least once.
//
// When the reachable transition graph is Eulerian from the start state, or
// can be made Eulerian by duplicating existing edges (the route inspection
// construction), a single walk produced by Hierholzer's algorithm covers
// everything. Otherwise the edges are covered by a minimal set of walks,
// re-using already covered edges only as connecting paths. Self-loops and
// parallel transitions between the same state pair are distinct edges and
// each gets traversed.
//
// Transitions whose source state is unreachable from the start are reported
// in Result.Unreachable.
type EdgeCover struct{}

// eulerianKind classifies the multigraph built from the reachable edges
type eulerianKind int

const (
	// notEulerian means no single walk can traverse every edge exactly once
	notEulerian eulerianKind = iota
	// eulerianCircuit means a closed walk through every edge exists
	eulerianCircuit
	// eulerianPath means an open walk through every edge exists, starting
	// at the single vertex with surplus out-degree
	eulerianPath
)

// Name returns the registry name of the strategy
func (s *EdgeCover) Name() string {
	return "edge"
}

// Generate produces the edge coverage walks
func (s *EdgeCover) Generate(m *Model, start string, _ Params) (*Result, error) {
	if !m.HasState(start) {
		return nil, NewUnknownStateError(start, "edge coverage")
	}

	g := NewGraph(m)
	reachable := g.Reachable(start)

	result := &Result{}
	var edges []Transition
	for _, t := range m.Transitions() {
		if reachable[t.Source] {
			edges = append(edges, t)
		} else {
			result.Unreachable = append(result.Unreachable, t.String())
		}
	}
	if len(edges) == 0 {
		return result, nil
	}

	if walk, ok := s.eulerianWalk(g, edges, start); ok {
		result.Walks = []Walk{walk}
		return result, nil
	}
	result.Walks = s.greedyCover(g, edges, start)
	return result, nil
}

// eulerianWalk attempts to cover all edges in one walk from start. It
// returns false when the graph cannot be made Eulerian from the start state
// by duplicating existing edges.
func (s *EdgeCover) eulerianWalk(g *Graph, edges []Transition, start string) (Walk, bool) {
	mg := newMultigraph(edges)

	switch kind, hub := mg.classify(); kind {
	case eulerianCircuit:
		// traversable as-is
	case eulerianPath:
		if hub != start {
			// the open walk would have to begin at the hub; duplicating a
			// sink-to-hub path closes it into a circuit traversable from
			// our start instead
			if !s.eulerize(g, mg) {
				return nil, false
			}
		}
	default:
		if !s.eulerize(g, mg) {
			return nil, false
		}
	}

	walk := mg.hierholzer(start)
	if len(walk) < len(edges) {
		// disconnected edge remainder, not traversable in one walk
		return nil, false
	}
	return walk, true
}

// eulerize balances the multigraph by duplicating shortest existing paths
// from surplus-in vertices (sinks) to surplus-out vertices (hubs) until an
// Eulerian circuit exists. Returns false when some sink cannot reach a hub.
func (s *EdgeCover) eulerize(g *Graph, mg *multigraph) bool {
	for {
		hub, sink := mg.unevenPair()
		if hub == "" && sink == "" {
			return true
		}
		if hub == "" || sink == "" {
			// degree surpluses always come in pairs; this is a corrupt graph
			return false
		}
		path := g.ShortestPath(sink, hub)
		if path == nil {
			return false
		}
		repeat := mg.inDeg[sink] - mg.outDeg[sink]
		if surplus := mg.outDeg[hub] - mg.inDeg[hub]; surplus < repeat {
			repeat = surplus
		}
		for i := 0; i < repeat; i++ {
			for _, t := range path {
				mg.addEdge(t)
			}
		}
	}
}

// greedyCover partitions the edge set into walks from start. Each walk
// traverses uncovered edges eagerly, inserting shortest connecting paths
// over already covered edges when needed, and ends when no uncovered edge
// is reachable anymore (a dead end); the next walk restarts at start.
func (s *EdgeCover) greedyCover(g *Graph, edges []Transition, start string) []Walk {
	uncovered := make(map[Transition]bool, len(edges))
	for _, t := range edges {
		uncovered[t] = true
	}

	var walks []Walk
	for len(uncovered) > 0 {
		walk := Walk{}
		current := start
		for {
			t, ok := s.nextUncovered(g, current, uncovered)
			if !ok {
				connector := s.pathToUncovered(g, current, uncovered)
				if connector == nil {
					break
				}
				walk = append(walk, connector...)
				current = connector.End()
				continue
			}
			walk = append(walk, t)
			delete(uncovered, t)
			current = t.Target
		}
		if len(walk) == 0 {
			// nothing reachable from start anymore; callers filtered the
			// edge set to start-reachable edges, so this cannot regress
			break
		}
		walks = append(walks, walk)
	}
	return walks
}

// nextUncovered picks the earliest-registered uncovered edge leaving a state
func (s *EdgeCover) nextUncovered(g *Graph, state string, uncovered map[Transition]bool) (Transition, bool) {
	for _, t := range g.Outgoing(state) {
		if uncovered[t] {
			return t, true
		}
	}
	return Transition{}, false
}

// pathToUncovered returns the shortest path from a state to the nearest
// state with an uncovered outgoing edge, or nil when none is reachable
func (s *EdgeCover) pathToUncovered(g *Graph, from string, uncovered map[Transition]bool) Walk {
	for _, id := range g.BFSOrder(from) {
		if id == from {
			continue
		}
		if _, ok := s.nextUncovered(g, id, uncovered); ok {
			return g.ShortestPath(from, id)
		}
	}
	return nil
}

// multigraph is a mutable directed multigraph over transition edges, used
// only by edge coverage. Edge lists keep insertion order; duplicated edges
// append at the end.
type multigraph struct {
	out    map[string][]Transition
	inDeg  map[string]int
	outDeg map[string]int
	order  []string
	seen   map[string]bool
	count  int
}

func newMultigraph(edges []Transition) *multigraph {
	mg := &multigraph{
		out:    make(map[string][]Transition),
		inDeg:  make(map[string]int),
		outDeg: make(map[string]int),
		seen:   make(map[string]bool),
	}
	for _, t := range edges {
		mg.addEdge(t)
	}
	return mg
}

func (mg *multigraph) addEdge(t Transition) {
	mg.addVertex(t.Source)
	mg.addVertex(t.Target)
	mg.out[t.Source] = append(mg.out[t.Source], t)
	mg.outDeg[t.Source]++
	mg.inDeg[t.Target]++
	mg.count++
}

func (mg *multigraph) addVertex(id string) {
	if !mg.seen[id] {
		mg.seen[id] = true
		mg.order = append(mg.order, id)
	}
}

// classify determines the Eulerian property of the multigraph. For an
// Eulerian path it also returns the hub vertex the path must start from.
func (mg *multigraph) classify() (eulerianKind, string) {
	hubs := 0
	sinks := 0
	hub := ""
	for _, v := range mg.order {
		switch diff := mg.outDeg[v] - mg.inDeg[v]; {
		case diff == 0:
		case diff == 1:
			hubs++
			hub = v
		case diff == -1:
			sinks++
		default:
			return notEulerian, ""
		}
	}
	if hubs == 0 && sinks == 0 {
		return eulerianCircuit, ""
	}
	if hubs == 1 && sinks == 1 {
		return eulerianPath, hub
	}
	return notEulerian, ""
}

// unevenPair returns the first vertex with surplus out-degree (hub) and the
// first with surplus in-degree (sink), empty strings when balanced
func (mg *multigraph) unevenPair() (hub, sink string) {
	for _, v := range mg.order {
		diff := mg.outDeg[v] - mg.inDeg[v]
		if diff > 0 && hub == "" {
			hub = v
		}
		if diff < 0 && sink == "" {
			sink = v
		}
		if hub != "" && sink != "" {
			break
		}
	}
	return hub, sink
}

// hierholzer traverses the multigraph from start, consuming every edge at
// most once, and returns the resulting walk. The multigraph is drained in
// the process.
func (mg *multigraph) hierholzer(start string) Walk {
	vertexStack := []string{start}
	var edgeStack []Transition
	var reversed []Transition

	for len(vertexStack) > 0 {
		current := vertexStack[len(vertexStack)-1]
		if remaining := mg.out[current]; len(remaining) > 0 {
			t := remaining[0]
			mg.out[current] = remaining[1:]
			vertexStack = append(vertexStack, t.Target)
			edgeStack = append(edgeStack, t)
			continue
		}
		vertexStack = vertexStack[:len(vertexStack)-1]
		if len(edgeStack) > 0 {
			reversed = append(reversed, edgeStack[len(edgeStack)-1])
			edgeStack = edgeStack[:len(edgeStack)-1]
		}
	}

	walk := make(Walk, 0, len(reversed))
	for i := len(reversed) - 1; i >= 0; i-- {
		walk = append(walk, reversed[i])
	}
	return walk
}
