package mbt

import (
	"testing"
)

func TestPathCover_RequiresDepthBound(t *testing.T) {
	_, err := (&PathCover{}).Generate(NewPlayerModel(), "Start", Params{})
	if !IsConfigurationError(err) {
		t.Errorf("Expected ConfigurationError for missing depth bound, got %v", err)
	}

	_, err = (&PathCover{}).Generate(NewPlayerModel(), "Start", Params{MaxDepth: -1})
	if !IsConfigurationError(err) {
		t.Errorf("Expected ConfigurationError for negative depth bound, got %v", err)
	}
}

func TestPathCover_EnumeratesSimplePaths(t *testing.T) {
	m := NewPlayerModel()

	result, err := (&PathCover{}).Generate(m, "Start", Params{MaxDepth: DefaultPathDepth(m)})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	// Simple paths from Start: the Reset self-loop revisits Start and is
	// excluded, leaving four paths in depth-first preorder
	want := []string{
		"Start --Initialize--> Running",
		"Start --Initialize--> Running --Pause--> Paused",
		"Start --Initialize--> Running --Pause--> Paused --Stop--> Stopped",
		"Start --Initialize--> Running --Stop--> Stopped",
	}
	if len(result.Walks) != len(want) {
		t.Fatalf("Expected %d paths, got %d: %v", len(want), len(result.Walks), result.Walks)
	}
	for i, w := range result.Walks {
		AssertValidWalk(t, w, "Start")
		if w.String() != want[i] {
			t.Errorf("Path %d: expected %s, got %s", i, want[i], w.String())
		}
	}
}

func TestPathCover_DepthBoundTruncates(t *testing.T) {
	result, err := (&PathCover{}).Generate(NewPlayerModel(), "Start", Params{MaxDepth: 1})
	if err != nil {
		t.Fatal(err)
	}

	if len(result.Walks) != 1 {
		t.Fatalf("Expected 1 path at depth 1, got %v", result.Walks)
	}
	if result.Walks[0].Len() != 1 {
		t.Errorf("Expected a single transition, got %s", result.Walks[0])
	}
}

func TestPathCover_EveryEmittedPathIsSimple(t *testing.T) {
	m := NewPlayerModel()
	result, err := (&PathCover{}).Generate(m, "Start", Params{MaxDepth: DefaultPathDepth(m)})
	if err != nil {
		t.Fatal(err)
	}

	for _, w := range result.Walks {
		seen := make(map[string]bool)
		for _, id := range w.States() {
			if seen[id] {
				t.Errorf("Path %s revisits state %s", w, id)
			}
			seen[id] = true
		}
	}
}

func TestDefaultPathDepth(t *testing.T) {
	if d := DefaultPathDepth(NewPlayerModel()); d != 4 {
		t.Errorf("Expected default depth 4, got %d", d)
	}
}
