package mbt

// PathCover enumerates every simple path (no repeated state) from the start
// state whose length does not exceed the depth bound. A bound is mandatory
// because unbounded path coverage diverges on any graph with cycles; use
// DefaultPathDepth for a deterministic default.
//
// Paths are emitted in depth-first preorder following edge registration
// order, so repeated runs on an unchanged model produce identical output.
type PathCover struct{}

// DefaultPathDepth returns the conventional depth bound for a model: the
// number of registered states, the length of the longest possible simple
// path plus one.
func DefaultPathDepth(m *Model) int {
	return m.StateCount()
}

// Name returns the registry name of the strategy
func (s *PathCover) Name() string {
	return "path"
}

// Generate produces every simple path of length up to params.MaxDepth
func (s *PathCover) Generate(m *Model, start string, params Params) (*Result, error) {
	if !m.HasState(start) {
		return nil, NewUnknownStateError(start, "path coverage")
	}
	if params.MaxDepth <= 0 {
		return nil, NewConfigurationError("path coverage",
			"depth bound must be positive")
	}

	g := NewGraph(m)
	result := &Result{}
	visited := map[string]bool{start: true}
	s.enumerate(g, start, params.MaxDepth, Walk{}, visited, result)
	return result, nil
}

func (s *PathCover) enumerate(g *Graph, current string, budget int, prefix Walk, visited map[string]bool, result *Result) {
	if budget == 0 {
		return
	}
	for _, t := range g.Outgoing(current) {
		if visited[t.Target] {
			continue
		}
		path := make(Walk, len(prefix), len(prefix)+1)
		copy(path, prefix)
		path = append(path, t)
		result.Walks = append(result.Walks, path)

		visited[t.Target] = true
		s.enumerate(g, t.Target, budget-1, path, visited, result)
		delete(visited, t.Target)
	}
}
