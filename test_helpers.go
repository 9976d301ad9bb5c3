package mbt

import (
	"context"
	"testing"
)

// ModelAdapter is an Adapter backed by a model: it simulates a
// deterministic system under test for exploration runs and examples.
// Events with no transition from the current state leave the state
// unchanged, the way real systems reject invalid operations.
type ModelAdapter struct {
	model   *Model
	current string

	// FailAfter makes the nth Apply call fail (1-based); 0 disables
	FailAfter int
	// FailErr is the error returned by the failing call
	FailErr error

	applies int
	resets  int
}

// NewModelAdapter creates an adapter simulating the given model. The model
// must have an initial state.
func NewModelAdapter(m *Model) *ModelAdapter {
	return &ModelAdapter{model: m}
}

// Reset moves the simulated system back to the model's initial state
func (a *ModelAdapter) Reset(ctx context.Context) (State, error) {
	initial, ok := a.model.Initial()
	if !ok {
		return State{}, NewConfigurationError("model adapter", "model has no initial state")
	}
	a.resets++
	a.current = initial.ID()
	return initial, nil
}

// Apply fires an event on the simulated system
func (a *ModelAdapter) Apply(ctx context.Context, e Event) (State, error) {
	a.applies++
	if a.FailAfter > 0 && a.applies >= a.FailAfter {
		return State{}, a.FailErr
	}
	if target, ok := a.model.Target(a.current, e.Key()); ok {
		a.current = target
	}
	s, _ := a.model.StateByID(a.current)
	return s, nil
}

// Applies returns the number of Apply calls served
func (a *ModelAdapter) Applies() int {
	return a.applies
}

// Resets returns the number of Reset calls served
func (a *ModelAdapter) Resets() int {
	return a.resets
}

// NewPlayerModel builds the media player model used across the tests:
// Start, Running, Paused and Stopped states with Initialize, Pause, Resume,
// Stop and Reset events, including the Reset self-loop on Start.
func NewPlayerModel() *Model {
	m, err := NewModelBuilder().
		WithState("Start").
		WithState("Running").
		WithState("Paused").
		WithState("Stopped").
		WithEvent("Initialize").
		WithEvent("Pause").
		WithEvent("Resume").
		WithEvent("Stop").
		WithEvent("Reset").
		WithTransition("Start", "Initialize", "Running").
		WithTransition("Running", "Pause", "Paused").
		WithTransition("Running", "Stop", "Stopped").
		WithTransition("Paused", "Resume", "Running").
		WithTransition("Paused", "Stop", "Stopped").
		WithTransition("Stopped", "Reset", "Start").
		WithTransition("Start", "Reset", "Start").
		WithInitialState("Start").
		Build()
	if err != nil {
		panic(err)
	}
	return m
}

// AssertValidWalk fails the test when the walk is disconnected or does not
// start at the expected state
func AssertValidWalk(t *testing.T, w Walk, start string) {
	t.Helper()
	if err := w.Validate(); err != nil {
		t.Fatalf("walk %s is not connected: %v", w, err)
	}
	if w.Start() != start {
		t.Errorf("walk %s starts at %s, expected %s", w, w.Start(), start)
	}
}

// AssertCoversStates fails the test unless every given state appears on at
// least one walk
func AssertCoversStates(t *testing.T, walks []Walk, states ...string) {
	t.Helper()
	for _, id := range states {
		covered := false
		for _, w := range walks {
			if w.VisitsState(id) {
				covered = true
				break
			}
		}
		if !covered {
			t.Errorf("state %s is not covered by any walk", id)
		}
	}
}

// AssertCoversTransitions fails the test unless every given transition is
// traversed by at least one walk
func AssertCoversTransitions(t *testing.T, walks []Walk, transitions ...Transition) {
	t.Helper()
	for _, want := range transitions {
		covered := false
		for _, w := range walks {
			for _, got := range w {
				if got == want {
					covered = true
					break
				}
			}
		}
		if !covered {
			t.Errorf("transition %s is not traversed by any walk", want)
		}
	}
}

// AssertChainLinked fails the test unless adjacent cases share state:
// case[i].Then == case[i+1].Given and Prev links are consistent
func AssertChainLinked(t *testing.T, c *Chain) {
	t.Helper()
	for i := 1; i < len(c.Cases); i++ {
		if c.Cases[i].Given != c.Cases[i-1].Then {
			t.Errorf("case %d GIVEN %s does not match case %d THEN %s",
				i, c.Cases[i].Given, i-1, c.Cases[i-1].Then)
		}
		if c.Cases[i].Prev != c.Cases[i-1] {
			t.Errorf("case %d has a broken predecessor link", i)
		}
	}
}
