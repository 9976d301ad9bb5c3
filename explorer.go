package mbt

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Adapter drives the system under test. It translates abstract events and
// states to real protocol calls; the explorer treats it as a black box.
// Both operations may block, so they take a context. Retry policy, if any,
// belongs to the adapter: the explorer never re-probes after a failure.
type Adapter interface {
	// Reset brings the system back to its initial state and reports it
	Reset(ctx context.Context) (State, error)

	// Apply fires an event on the system's current state and reports the
	// resulting state
	Apply(ctx context.Context, e Event) (State, error)
}

// Phase is the lifecycle of a discovery run
type Phase int

const (
	// PhaseIdle means the run has not started
	PhaseIdle Phase = iota
	// PhaseExploring means the frontier is being probed
	PhaseExploring
	// PhaseConverged means every known state was tried against every known
	// event and no new state appeared
	PhaseConverged
	// PhaseAborted means the run stopped on a fault or violation; the
	// partial model is preserved
	PhaseAborted
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseExploring:
		return "exploring"
	case PhaseConverged:
		return "converged"
	case PhaseAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// FrontierOrder selects which unprobed (state, event) pair is tried next.
// The order affects which states are discovered soonest, not the content of
// the converged model.
type FrontierOrder int

const (
	// BreadthFirst probes pairs in discovery order
	BreadthFirst FrontierOrder = iota
	// DepthFirst probes the most recently discovered pairs first
	DepthFirst
)

// ExplorationResult is the outcome of a discovery run. Ownership of the
// model transfers to the caller: the explorer never touches it again.
type ExplorationResult struct {
	// Model is the discovered automaton, partial when the run aborted
	Model *Model
	// Phase is PhaseConverged or PhaseAborted
	Phase Phase
	// Probes counts frontier probes (replays excluded)
	Probes int
	// Replays counts the transitions re-applied to reproduce source states
	Replays int
	// Err is the fault or violation that aborted the run, nil on
	// convergence
	Err error
}

type probe struct {
	source string
	event  Event
}

// Explorer reverse-engineers the finite state machine of a live system
// under test. Starting from the adapter's initial state it applies every
// known event to every known state, adding newly observed states to the
// frontier, until a fixpoint is reached: no (state, event) pair is left
// untried.
//
// A single adapter run is fully serialized: an event is only applied from a
// known, currently reproduced state, and reproducing a state may require a
// reset plus a replay of a shortest known path. Additional adapters enable
// concurrent probing when the system supports independent sessions.
type Explorer struct {
	adapters  []Adapter
	events    []Event
	order     FrontierOrder
	volatile  map[string]struct{}
	observers []ExplorationObserver
	budget    int

	mu      sync.Mutex
	cond    *sync.Cond
	model   *Model
	pending []probe
	active  int
	probes  int
	replays int
	phase   Phase
	failure error
	synth   int
}

// NewExplorer creates an explorer over one SUT session with the given event
// alphabet. The event list order is the registration order of the resulting
// model.
func NewExplorer(adapter Adapter, events []Event) *Explorer {
	e := &Explorer{
		adapters: []Adapter{adapter},
		events:   events,
		phase:    PhaseIdle,
	}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// WithAdapters adds adapters for additional independent SUT sessions; each
// adapter gets its own frontier worker
func (e *Explorer) WithAdapters(extra ...Adapter) *Explorer {
	e.adapters = append(e.adapters, extra...)
	return e
}

// WithFrontierOrder sets the frontier exploration policy
func (e *Explorer) WithFrontierOrder(order FrontierOrder) *Explorer {
	e.order = order
	return e
}

// WithVolatileProps excludes feature dimensions from state equality.
// Dimensions that depend on hidden external data would otherwise make every
// observation look like a new state.
func (e *Explorer) WithVolatileProps(names ...string) *Explorer {
	if e.volatile == nil {
		e.volatile = make(map[string]struct{}, len(names))
	}
	for _, name := range names {
		e.volatile[name] = struct{}{}
	}
	return e
}

// WithObserver registers a progress observer
func (e *Explorer) WithObserver(o ExplorationObserver) *Explorer {
	e.observers = append(e.observers, o)
	return e
}

// WithProbeBudget caps the number of frontier probes. The default cap is
// |events| cubed; a run that exceeds the cap aborts, which catches systems
// whose state space is not actually finite. A non-positive value restores
// the default.
func (e *Explorer) WithProbeBudget(n int) *Explorer {
	e.budget = n
	return e
}

// Run drives the discovery to its fixpoint and returns the result together
// with the discovered model. Run can be called once per explorer.
func (e *Explorer) Run(ctx context.Context) (*ExplorationResult, error) {
	if len(e.events) == 0 {
		return nil, NewConfigurationError("explorer", "no events to explore with")
	}
	e.mu.Lock()
	if e.phase != PhaseIdle {
		e.mu.Unlock()
		return nil, NewConfigurationError("explorer", "Run already called")
	}
	e.phase = PhaseExploring
	e.model = NewModel()
	if e.budget <= 0 {
		e.budget = len(e.events) * len(e.events) * len(e.events)
	}
	for _, ev := range e.events {
		_ = e.model.AddEvent(ev)
	}
	e.mu.Unlock()
	e.notifyPhase(PhaseIdle, PhaseExploring)

	// Seed the frontier from the initial state of the first session.
	initial, err := e.adapters[0].Reset(ctx)
	if err != nil {
		return e.finish(NewSUTFaultError("reset", "", err)), nil
	}
	e.mu.Lock()
	initialID, isNew, err := e.canonicalLocked(initial)
	if err == nil {
		err = e.model.SetInitial(initialID)
	}
	e.mu.Unlock()
	if err != nil {
		return e.finish(err), nil
	}
	if isNew {
		e.notifyState(initial)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	done := make(chan struct{})
	go func() {
		// Wake blocked workers when the caller cancels.
		select {
		case <-ctx.Done():
			e.fail(NewSUTFaultError("exploration", "", ctx.Err()))
		case <-done:
		}
	}()
	for i, adapter := range e.adapters {
		adapter := adapter
		current := ""
		if i == 0 {
			current = initialID // the first session is already reset
		}
		group.Go(func() error {
			return e.worker(groupCtx, adapter, current)
		})
	}
	_ = group.Wait()
	close(done)

	e.mu.Lock()
	failure := e.failure
	e.mu.Unlock()
	return e.finish(failure), nil
}

// worker serializes probes against one SUT session. current is the state
// the session is known to sit in, empty when unknown.
func (e *Explorer) worker(ctx context.Context, adapter Adapter, current string) error {
	for {
		p, ok := e.takeProbe()
		if !ok {
			return nil
		}

		next, err := e.executeProbe(ctx, adapter, current, p)
		e.mu.Lock()
		e.active--
		if err != nil && e.failure == nil {
			e.failure = err
		}
		e.cond.Broadcast()
		e.mu.Unlock()
		if err != nil {
			return err
		}
		current = next
	}
}

// takeProbe blocks until a probe is available or the run is over
func (e *Explorer) takeProbe() (probe, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for len(e.pending) == 0 && e.active > 0 && e.failure == nil {
		e.cond.Wait()
	}
	if e.failure != nil || len(e.pending) == 0 {
		return probe{}, false
	}
	var p probe
	if e.order == DepthFirst {
		p = e.pending[len(e.pending)-1]
		e.pending = e.pending[:len(e.pending)-1]
	} else {
		p = e.pending[0]
		e.pending = e.pending[1:]
	}
	e.active++
	return p, true
}

// executeProbe reproduces the probe's source state on the session, applies
// the event and records the observation. It returns the state the session
// ends up in.
func (e *Explorer) executeProbe(ctx context.Context, adapter Adapter, current string, p probe) (string, error) {
	if current != p.source {
		reproduced, err := e.reproduce(ctx, adapter, p.source)
		if err != nil {
			return "", err
		}
		current = reproduced
	}

	observed, err := adapter.Apply(ctx, p.event)
	if err != nil {
		return "", NewSUTFaultError("apply", p.event.Key(), err)
	}

	e.mu.Lock()
	if e.budget > 0 && e.probes >= e.budget {
		e.mu.Unlock()
		return "", NewConfigurationError("explorer",
			"probe budget exhausted, state space may not be finite")
	}
	e.probes++
	targetID, isNew, err := e.canonicalLocked(observed)
	if err != nil {
		e.mu.Unlock()
		return "", err
	}
	if recorded, ok := e.model.Target(p.source, p.event.Key()); ok && recorded != targetID {
		e.mu.Unlock()
		return "", NewModelViolationError(p.source, p.event.Key(), recorded, targetID)
	}
	err = e.model.AddTransition(p.source, p.event.Key(), targetID)
	e.mu.Unlock()
	if err != nil {
		return "", err
	}
	if isNew {
		e.notifyState(observed)
	}
	e.notifyTransition(NewTransition(p.source, p.event.Key(), targetID))
	return targetID, nil
}

// reproduce resets the session and replays a shortest known path to the
// wanted state, verifying every intermediate observation against the model
func (e *Explorer) reproduce(ctx context.Context, adapter Adapter, want string) (string, error) {
	observed, err := adapter.Reset(ctx)
	if err != nil {
		return "", NewSUTFaultError("reset", "", err)
	}

	e.mu.Lock()
	currentID, _, err := e.canonicalLocked(observed)
	if err != nil {
		e.mu.Unlock()
		return "", err
	}
	initial, _ := e.model.Initial()
	if currentID != initial.ID() {
		e.mu.Unlock()
		return "", NewModelViolationError("(reset)", "", initial.ID(), currentID)
	}
	path := NewGraph(e.model).ShortestPath(currentID, want)
	e.mu.Unlock()
	if path == nil {
		// every known state was discovered through recorded transitions
		// from the initial state, so a path must exist
		return "", NewUnknownStateError(want, "reproduce")
	}

	for _, t := range path {
		event, ok := e.eventByKey(t.Event)
		if !ok {
			return "", NewUnknownEventError(t.Event, "reproduce")
		}
		observed, err := adapter.Apply(ctx, event)
		if err != nil {
			return "", NewSUTFaultError("replay", t.Event, err)
		}
		e.mu.Lock()
		observedID, _, err := e.canonicalLocked(observed)
		e.replays++
		e.mu.Unlock()
		if err != nil {
			return "", err
		}
		if observedID != t.Target {
			return "", NewModelViolationError(t.Source, t.Event, t.Target, observedID)
		}
	}
	return want, nil
}

// canonicalLocked resolves an observed state to its canonical identifier,
// registering it and expanding the frontier when the feature vector is new.
// Call with the mutex held.
func (e *Explorer) canonicalLocked(observed State) (string, bool, error) {
	for _, known := range e.model.States() {
		if e.sameObservation(known, observed) {
			return known.ID(), false, nil
		}
	}
	id := observed.ID()
	if id == "" || e.model.HasState(id) {
		e.synth++
		id = "S" + strconv.Itoa(e.synth)
		observed = NewState(id, observed.Props())
	}
	if err := e.model.AddState(observed); err != nil {
		return "", false, err
	}
	for _, ev := range e.events {
		e.pending = append(e.pending, probe{source: id, event: ev})
	}
	e.cond.Broadcast()
	return id, true, nil
}

// sameObservation decides whether an observed state is a sighting of an
// already known one. Systems that report feature vectors are matched on the
// vector with volatile dimensions masked; systems that report bare
// identifiers are matched on the identifier.
func (e *Explorer) sameObservation(known, observed State) bool {
	if len(observed.Props()) == 0 && len(known.Props()) == 0 {
		return known.ID() == observed.ID()
	}
	return known.EqualExcluding(observed, e.volatile)
}

func (e *Explorer) eventByKey(key string) (Event, bool) {
	for _, ev := range e.events {
		if ev.Key() == key {
			return ev, true
		}
	}
	return Event{}, false
}

// fail records the first failure and wakes all workers
func (e *Explorer) fail(err error) {
	e.mu.Lock()
	if e.failure == nil {
		e.failure = err
	}
	e.cond.Broadcast()
	e.mu.Unlock()
}

// finish seals the run and hands the model over to the caller
func (e *Explorer) finish(failure error) *ExplorationResult {
	e.mu.Lock()
	from := e.phase
	if failure != nil {
		e.phase = PhaseAborted
	} else {
		e.phase = PhaseConverged
	}
	result := &ExplorationResult{
		Model:   e.model,
		Phase:   e.phase,
		Probes:  e.probes,
		Replays: e.replays,
		Err:     failure,
	}
	e.model = nil
	to := e.phase
	e.mu.Unlock()
	e.notifyPhase(from, to)
	return result
}

func (e *Explorer) notifyState(s State) {
	for _, o := range e.observers {
		o.OnStateDiscovered(s)
	}
}

func (e *Explorer) notifyTransition(t Transition) {
	for _, o := range e.observers {
		o.OnTransitionProbed(t)
	}
}

func (e *Explorer) notifyPhase(from, to Phase) {
	for _, o := range e.observers {
		o.OnPhaseChange(from, to)
	}
}
