package mbt

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Params carries strategy parameters. Strategies ignore fields they do not
// use; PathCover requires MaxDepth to be positive.
type Params struct {
	// MaxDepth bounds the length of enumerated paths for path coverage
	MaxDepth int
}

// Result is the outcome of a strategy run: the generated walks plus the
// model elements the strategy could not cover from the chosen start state.
// Uncoverable elements are a warning, not an error.
type Result struct {
	Walks       []Walk
	Unreachable []string
}

// TotalTransitions returns the summed length of all generated walks
func (r *Result) TotalTransitions() int {
	n := 0
	for _, w := range r.Walks {
		n += len(w)
	}
	return n
}

// Strategy generates walks over a model satisfying a coverage criterion.
// Implementations must be pure: identical inputs yield identical output,
// and the model is never mutated.
type Strategy interface {
	// Name returns the registry name of the strategy
	Name() string

	// Generate produces walks from the start state satisfying the
	// strategy's coverage criterion
	Generate(m *Model, start string, params Params) (*Result, error)
}

// Goal selects one of the built-in coverage criteria
type Goal int

const (
	// NodeCoverage visits every reachable state at least once
	NodeCoverage Goal = iota
	// EdgeCoverage traverses every reachable transition at least once
	EdgeCoverage
	// PathCoverage enumerates all simple paths up to a depth bound
	PathCoverage
)

// String returns the registry name of the goal's strategy
func (g Goal) String() string {
	switch g {
	case NodeCoverage:
		return "node"
	case EdgeCoverage:
		return "edge"
	case PathCoverage:
		return "path"
	default:
		return "unknown"
	}
}

var (
	strategyMu  sync.RWMutex
	strategies  = make(map[string]Strategy)
	strategySeq []string
)

// RegisterStrategy adds a named strategy to the registry. Registering a name
// twice fails; the built-in strategies are registered at package init.
func RegisterStrategy(s Strategy) error {
	strategyMu.Lock()
	defer strategyMu.Unlock()
	if _, ok := strategies[s.Name()]; ok {
		return NewConfigurationError("strategy registry",
			"strategy '"+s.Name()+"' already registered")
	}
	strategies[s.Name()] = s
	strategySeq = append(strategySeq, s.Name())
	return nil
}

// StrategyByName looks up a registered strategy
func StrategyByName(name string) (Strategy, bool) {
	strategyMu.RLock()
	defer strategyMu.RUnlock()
	s, ok := strategies[name]
	return s, ok
}

// StrategyForGoal returns the built-in strategy for a coverage goal
func StrategyForGoal(g Goal) (Strategy, bool) {
	return StrategyByName(g.String())
}

// StrategyNames returns the registered strategy names in registration order
func StrategyNames() []string {
	strategyMu.RLock()
	defer strategyMu.RUnlock()
	names := make([]string, len(strategySeq))
	copy(names, strategySeq)
	return names
}

func init() {
	_ = RegisterStrategy(&NodeCover{})
	_ = RegisterStrategy(&EdgeCover{})
	_ = RegisterStrategy(&PathCover{})
}

// GoalSpec pairs a strategy name with its parameters for a batch run
type GoalSpec struct {
	Strategy string
	Params   Params
}

// GoalResult is one entry of a GenerateAll batch
type GoalResult struct {
	Strategy string
	Result   *Result
}

// GenerateAll runs several strategies concurrently against independent
// snapshots of the model. Each strategy reads its own clone, so a batch is
// safe even while the original model is handed elsewhere afterwards.
// Results are returned sorted by strategy name regardless of completion
// order.
func GenerateAll(ctx context.Context, m *Model, start string, specs []GoalSpec) ([]GoalResult, error) {
	results := make([]GoalResult, len(specs))
	group, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		i, spec := i, spec
		snapshot := m.Clone()
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			strategy, ok := StrategyByName(spec.Strategy)
			if !ok {
				return NewConfigurationError("generation",
					"unknown strategy '"+spec.Strategy+"'")
			}
			result, err := strategy.Generate(snapshot, start, spec.Params)
			if err != nil {
				return err
			}
			results[i] = GoalResult{Strategy: spec.Strategy, Result: result}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Strategy < results[j].Strategy
	})
	return results, nil
}
