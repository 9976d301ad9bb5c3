package mbt

import (
	"context"
	"testing"
)

func TestStrategyRegistry_BuiltIns(t *testing.T) {
	for _, goal := range []Goal{NodeCoverage, EdgeCoverage, PathCoverage} {
		s, ok := StrategyForGoal(goal)
		if !ok {
			t.Errorf("Expected a built-in strategy for goal %s", goal)
			continue
		}
		if s.Name() != goal.String() {
			t.Errorf("Expected strategy name %s, got %s", goal, s.Name())
		}
	}

	names := StrategyNames()
	if len(names) < 3 {
		t.Fatalf("Expected at least 3 registered strategies, got %v", names)
	}
	if names[0] != "node" || names[1] != "edge" || names[2] != "path" {
		t.Errorf("Expected registration order node, edge, path, got %v", names)
	}
}

func TestStrategyRegistry_RejectsDuplicates(t *testing.T) {
	err := RegisterStrategy(&NodeCover{})
	if !IsConfigurationError(err) {
		t.Errorf("Expected ConfigurationError for duplicate registration, got %v", err)
	}
}

func TestStrategyRegistry_UnknownLookups(t *testing.T) {
	if _, ok := StrategyByName("bogus"); ok {
		t.Error("Expected lookup of unknown strategy to fail")
	}
	if Goal(99).String() != "unknown" {
		t.Errorf("Unexpected rendering for out-of-range goal: %s", Goal(99))
	}
}

func TestStrategies_AreIdempotent(t *testing.T) {
	m := NewPlayerModel()
	params := Params{MaxDepth: DefaultPathDepth(m)}

	for _, name := range []string{"node", "edge", "path"} {
		s, _ := StrategyByName(name)
		first, err := s.Generate(m, "Start", params)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		second, err := s.Generate(m, "Start", params)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(first.Walks) != len(second.Walks) {
			t.Errorf("%s: walk count changed between runs", name)
			continue
		}
		for i := range first.Walks {
			if first.Walks[i].String() != second.Walks[i].String() {
				t.Errorf("%s: walk %d changed between runs", name, i)
			}
		}
	}
}

func TestResult_TotalTransitions(t *testing.T) {
	r := &Result{Walks: []Walk{playerWalk(), playerWalk()[:1]}}
	if r.TotalTransitions() != 4 {
		t.Errorf("Expected 4 transitions, got %d", r.TotalTransitions())
	}
}

func TestGenerateAll_RunsEveryStrategy(t *testing.T) {
	m := NewPlayerModel()

	results, err := GenerateAll(context.Background(), m, "Start", []GoalSpec{
		{Strategy: "node"},
		{Strategy: "edge"},
		{Strategy: "path", Params: Params{MaxDepth: DefaultPathDepth(m)}},
	})
	if err != nil {
		t.Fatalf("GenerateAll failed: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	// Results come back sorted by strategy name
	if results[0].Strategy != "edge" || results[1].Strategy != "node" || results[2].Strategy != "path" {
		t.Errorf("Unexpected result order: %v", results)
	}
	for _, r := range results {
		if len(r.Result.Walks) == 0 {
			t.Errorf("Expected walks from strategy %s", r.Strategy)
		}
	}
}

func TestGenerateAll_UnknownStrategy(t *testing.T) {
	_, err := GenerateAll(context.Background(), NewPlayerModel(), "Start", []GoalSpec{
		{Strategy: "bogus"},
	})
	if !IsConfigurationError(err) {
		t.Errorf("Expected ConfigurationError, got %v", err)
	}
}

func TestGenerateAll_PropagatesStrategyErrors(t *testing.T) {
	_, err := GenerateAll(context.Background(), NewPlayerModel(), "Start", []GoalSpec{
		{Strategy: "node"},
		{Strategy: "path"}, // missing depth bound
	})
	if !IsConfigurationError(err) {
		t.Errorf("Expected ConfigurationError from path coverage, got %v", err)
	}
}
