package mbt

import (
	"context"
	"fmt"
	"strconv"
	"testing"
)

func TestExplorer_RecoversPlayerModel(t *testing.T) {
	hidden := NewPlayerModel()
	explorer := NewExplorer(NewModelAdapter(hidden), playerEvents())

	result, err := explorer.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Phase != PhaseConverged {
		t.Fatalf("Expected convergence, got %s (%v)", result.Phase, result.Err)
	}
	if result.Model.StateCount() != 4 {
		t.Errorf("Expected 4 recovered states, got %d", result.Model.StateCount())
	}

	// The simulated system rejects invalid events by staying put, so the
	// recovered transition function is total: 4 states times 5 events
	if result.Model.TransitionCount() != 20 {
		t.Errorf("Expected 20 recovered transitions, got %d", result.Model.TransitionCount())
	}
	for _, want := range hidden.Transitions() {
		target, ok := result.Model.Target(want.Source, want.Event)
		if !ok || target != want.Target {
			t.Errorf("Expected %s to be recovered, got target %s", want, target)
		}
	}
	for _, s := range hidden.States() {
		for _, e := range hidden.Events() {
			if _, declared := hidden.Target(s.ID(), e.Key()); declared {
				continue
			}
			target, ok := result.Model.Target(s.ID(), e.Key())
			if !ok || target != s.ID() {
				t.Errorf("Expected a self loop for rejected [%s on %s], got %s", s.ID(), e.Key(), target)
			}
		}
	}

	initial, ok := result.Model.Initial()
	if !ok || initial.ID() != "Start" {
		t.Error("Expected the recovered model to start at Start")
	}
}

func TestExplorer_ProbeAccounting(t *testing.T) {
	explorer := NewExplorer(NewModelAdapter(NewPlayerModel()), playerEvents())

	result, err := explorer.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	// Fixpoint: every (state, event) pair is probed exactly once
	if result.Probes != 20 {
		t.Errorf("Expected exactly 20 probes, got %d", result.Probes)
	}
	if result.Replays == 0 {
		t.Error("Expected some replays to reproduce source states")
	}
}

func TestExplorer_DepthFirstReachesSameFixpoint(t *testing.T) {
	explorer := NewExplorer(NewModelAdapter(NewPlayerModel()), playerEvents()).
		WithFrontierOrder(DepthFirst)

	result, err := explorer.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Phase != PhaseConverged {
		t.Fatalf("Expected convergence, got %s (%v)", result.Phase, result.Err)
	}
	if result.Model.StateCount() != 4 || result.Model.TransitionCount() != 20 {
		t.Errorf("Expected the same fixpoint regardless of order, got %d states and %d transitions",
			result.Model.StateCount(), result.Model.TransitionCount())
	}
}

func TestExplorer_ConcurrentSessions(t *testing.T) {
	hidden := NewPlayerModel()
	explorer := NewExplorer(NewModelAdapter(hidden), playerEvents()).
		WithAdapters(NewModelAdapter(hidden), NewModelAdapter(hidden))

	result, err := explorer.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Phase != PhaseConverged {
		t.Fatalf("Expected convergence, got %s (%v)", result.Phase, result.Err)
	}
	if result.Probes != 20 {
		t.Errorf("Expected exactly 20 probes across all sessions, got %d", result.Probes)
	}
	for _, want := range hidden.Transitions() {
		if target, _ := result.Model.Target(want.Source, want.Event); target != want.Target {
			t.Errorf("Expected %s to be recovered", want)
		}
	}
}

func TestExplorer_SUTFaultAbortsAndKeepsPartialModel(t *testing.T) {
	adapter := NewModelAdapter(NewPlayerModel())
	adapter.FailAfter = 3
	adapter.FailErr = fmt.Errorf("connection reset")

	result, err := NewExplorer(adapter, playerEvents()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Phase != PhaseAborted {
		t.Fatalf("Expected abort, got %s", result.Phase)
	}
	if !IsSUTFaultError(result.Err) {
		t.Errorf("Expected SUTFaultError, got %v", result.Err)
	}
	if result.Model == nil || result.Model.StateCount() == 0 {
		t.Error("Expected the partial model to be preserved")
	}
	if result.Model.TransitionCount() >= 20 {
		t.Error("Expected the model to be partial")
	}
}

func TestExplorer_ProbeBudgetAborts(t *testing.T) {
	explorer := NewExplorer(NewModelAdapter(NewPlayerModel()), playerEvents()).
		WithProbeBudget(3)

	result, err := explorer.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Phase != PhaseAborted {
		t.Fatalf("Expected abort, got %s", result.Phase)
	}
	if !IsConfigurationError(result.Err) {
		t.Errorf("Expected ConfigurationError for exhausted budget, got %v", result.Err)
	}
}

func TestExplorer_NonDeterministicSUTAborts(t *testing.T) {
	adapter := &driftingAdapter{inner: NewModelAdapter(NewPlayerModel()), driftAfter: 6}

	result, err := NewExplorer(adapter, playerEvents()).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Phase != PhaseAborted {
		t.Fatalf("Expected abort, got %s", result.Phase)
	}
	if !IsModelViolationError(result.Err) {
		t.Errorf("Expected ModelViolationError, got %v", result.Err)
	}
}

func TestExplorer_VolatilePropsMaskNoise(t *testing.T) {
	adapter := &noisyTurnstile{}
	events := []Event{NewEvent("Coin", nil), NewEvent("Push", nil)}

	result, err := NewExplorer(adapter, events).
		WithVolatileProps("noise").
		Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if result.Phase != PhaseConverged {
		t.Fatalf("Expected convergence, got %s (%v)", result.Phase, result.Err)
	}
	if result.Model.StateCount() != 2 {
		t.Fatalf("Expected the noise dimension to be masked, got %d states",
			result.Model.StateCount())
	}

	// Prop-less identifiers are synthesized in discovery order
	states := result.Model.States()
	locked, unlocked := states[0], states[1]
	if v, _ := locked.Prop("mode"); v != "locked" {
		t.Errorf("Expected the initial state to be the locked one, got %s", locked)
	}
	if target, _ := result.Model.Target(locked.ID(), "Coin"); target != unlocked.ID() {
		t.Error("Expected Coin to unlock")
	}
	if target, _ := result.Model.Target(unlocked.ID(), "Push"); target != locked.ID() {
		t.Error("Expected Push to lock again")
	}
}

func TestExplorer_ObserversAreNotified(t *testing.T) {
	recorder := &recordingObserver{}
	explorer := NewExplorer(NewModelAdapter(NewPlayerModel()), playerEvents()).
		WithObserver(recorder)

	result, err := explorer.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Phase != PhaseConverged {
		t.Fatal(result.Err)
	}

	if recorder.states != 4 {
		t.Errorf("Expected 4 state notifications, got %d", recorder.states)
	}
	if recorder.transitions != 20 {
		t.Errorf("Expected 20 transition notifications, got %d", recorder.transitions)
	}
	if len(recorder.phases) != 2 {
		t.Fatalf("Expected 2 phase changes, got %v", recorder.phases)
	}
	if recorder.phases[0] != PhaseExploring || recorder.phases[1] != PhaseConverged {
		t.Errorf("Unexpected phase sequence: %v", recorder.phases)
	}
}

func TestExplorer_RunIsOneShot(t *testing.T) {
	explorer := NewExplorer(NewModelAdapter(NewPlayerModel()), playerEvents())

	if _, err := explorer.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	_, err := explorer.Run(context.Background())
	if !IsConfigurationError(err) {
		t.Errorf("Expected ConfigurationError on second Run, got %v", err)
	}
}

func TestExplorer_RequiresEvents(t *testing.T) {
	_, err := NewExplorer(NewModelAdapter(NewPlayerModel()), nil).Run(context.Background())
	if !IsConfigurationError(err) {
		t.Errorf("Expected ConfigurationError without events, got %v", err)
	}
}

func playerEvents() []Event {
	return []Event{
		NewEvent("Initialize", nil),
		NewEvent("Pause", nil),
		NewEvent("Resume", nil),
		NewEvent("Stop", nil),
		NewEvent("Reset", nil),
	}
}

// driftingAdapter behaves like its inner adapter until driftAfter applies
// have been served, then reports a wrong state for everything, the way a
// system with hidden shared state drifts mid-run
type driftingAdapter struct {
	inner      *ModelAdapter
	driftAfter int
	applies    int
}

func (a *driftingAdapter) Reset(ctx context.Context) (State, error) {
	return a.inner.Reset(ctx)
}

func (a *driftingAdapter) Apply(ctx context.Context, e Event) (State, error) {
	a.applies++
	if a.applies > a.driftAfter {
		return NewState("Paused", nil), nil
	}
	return a.inner.Apply(ctx, e)
}

// noisyTurnstile reports feature vectors instead of identifiers, with a
// counter dimension that changes on every observation
type noisyTurnstile struct {
	locked bool
	obs    int
}

func (a *noisyTurnstile) Reset(ctx context.Context) (State, error) {
	a.locked = true
	return a.observe(), nil
}

func (a *noisyTurnstile) Apply(ctx context.Context, e Event) (State, error) {
	switch e.Key() {
	case "Coin":
		a.locked = false
	case "Push":
		a.locked = true
	}
	return a.observe(), nil
}

func (a *noisyTurnstile) observe() State {
	a.obs++
	mode := "unlocked"
	if a.locked {
		mode = "locked"
	}
	return NewState("", map[string]string{
		"mode":  mode,
		"noise": strconv.Itoa(a.obs),
	})
}

// recordingObserver counts notifications
type recordingObserver struct {
	BaseExplorationObserver
	states      int
	transitions int
	phases      []Phase
}

func (o *recordingObserver) OnStateDiscovered(s State) {
	o.states++
}

func (o *recordingObserver) OnTransitionProbed(t Transition) {
	o.transitions++
}

func (o *recordingObserver) OnPhaseChange(from, to Phase) {
	o.phases = append(o.phases, to)
}
