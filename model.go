package mbt

// Model is a deterministic finite automaton over the registered states and
// events. It owns the transition relation, which is a partial function of
// (state, event): a source state need not define a transition for every
// event, but a (state, event) pair maps to at most one target.
//
// All listing methods return their elements in insertion order, which is the
// order the engine uses everywhere a deterministic tie-break is needed, so
// generation runs on an unchanged model are reproducible.
//
// A Model is not safe for concurrent mutation. Generation runs read a Clone
// snapshot; during a discovery run the Explorer is the only writer.
type Model struct {
	states       map[string]State
	stateOrder   []string
	events       map[string]Event
	eventOrder   []string
	next         map[string]map[string]string
	transitions  []Transition
	initial      string
	hasInitial   bool
	autoRegister bool
}

// NewModel creates a new empty model
func NewModel() *Model {
	return &Model{
		states: make(map[string]State),
		events: make(map[string]Event),
		next:   make(map[string]map[string]string),
	}
}

// WithAutoRegister makes AddTransition and SetInitial register previously
// unseen states and events on the fly instead of failing with an
// UnknownReferenceError. Auto-registered states and events carry empty
// feature vectors and parameter bindings.
func (m *Model) WithAutoRegister() *Model {
	m.autoRegister = true
	return m
}

// AddState registers a state. Re-registering a state with an identical
// feature vector is a no-op; re-registering with a different vector fails.
func (m *Model) AddState(s State) error {
	if existing, ok := m.states[s.ID()]; ok {
		if existing.Equal(s) {
			return nil
		}
		return NewConfigurationError("model",
			"state '"+s.ID()+"' redefined with a different feature vector")
	}
	m.states[s.ID()] = s
	m.stateOrder = append(m.stateOrder, s.ID())
	return nil
}

// AddEvent registers an event instance. Re-registering the same key is a
// no-op; distinct parameter bindings produce distinct keys and coexist.
func (m *Model) AddEvent(e Event) error {
	if _, ok := m.events[e.Key()]; ok {
		return nil
	}
	m.events[e.Key()] = e
	m.eventOrder = append(m.eventOrder, e.Key())
	return nil
}

// SetInitial designates the initial state q0
func (m *Model) SetInitial(stateID string) error {
	if _, ok := m.states[stateID]; !ok {
		if !m.autoRegister {
			return NewUnknownStateError(stateID, "SetInitial")
		}
		if err := m.AddState(NewState(stateID, nil)); err != nil {
			return err
		}
	}
	m.initial = stateID
	m.hasInitial = true
	return nil
}

// Initial returns the designated initial state
func (m *Model) Initial() (State, bool) {
	if !m.hasInitial {
		return State{}, false
	}
	return m.states[m.initial], true
}

// AddTransition declares that event moves the source state to the target
// state. Declaring the same triple twice is a no-op. Declaring a different
// target for an existing (source, event) pair fails with a ConflictError
// and leaves the model unchanged.
func (m *Model) AddTransition(source, event, target string) error {
	if err := m.requireState(source, "AddTransition"); err != nil {
		return err
	}
	if err := m.requireState(target, "AddTransition"); err != nil {
		return err
	}
	if err := m.requireEvent(event, "AddTransition"); err != nil {
		return err
	}

	row, ok := m.next[source]
	if !ok {
		row = make(map[string]string)
		m.next[source] = row
	}
	if existing, ok := row[event]; ok {
		if existing == target {
			return nil
		}
		return NewConflictError(source, event, existing, target)
	}
	row[event] = target
	m.transitions = append(m.transitions, NewTransition(source, event, target))
	return nil
}

func (m *Model) requireState(id, op string) error {
	if _, ok := m.states[id]; ok {
		return nil
	}
	if !m.autoRegister {
		return NewUnknownStateError(id, op)
	}
	return m.AddState(NewState(id, nil))
}

func (m *Model) requireEvent(key, op string) error {
	if _, ok := m.events[key]; ok {
		return nil
	}
	if !m.autoRegister {
		return NewUnknownEventError(key, op)
	}
	return m.AddEvent(NewEvent(key, nil))
}

// HasState reports whether a state with the given identifier is registered
func (m *Model) HasState(id string) bool {
	_, ok := m.states[id]
	return ok
}

// StateByID returns a registered state by identifier
func (m *Model) StateByID(id string) (State, bool) {
	s, ok := m.states[id]
	return s, ok
}

// EventByKey returns a registered event by canonical key
func (m *Model) EventByKey(key string) (Event, bool) {
	e, ok := m.events[key]
	return e, ok
}

// States returns all registered states in insertion order
func (m *Model) States() []State {
	states := make([]State, 0, len(m.stateOrder))
	for _, id := range m.stateOrder {
		states = append(states, m.states[id])
	}
	return states
}

// Events returns all registered events in insertion order
func (m *Model) Events() []Event {
	events := make([]Event, 0, len(m.eventOrder))
	for _, key := range m.eventOrder {
		events = append(events, m.events[key])
	}
	return events
}

// Transitions returns all transitions in insertion order
func (m *Model) Transitions() []Transition {
	transitions := make([]Transition, len(m.transitions))
	copy(transitions, m.transitions)
	return transitions
}

// TransitionsFrom returns the event key to target state mapping for a state.
// The map is a copy and is empty when the state defines no transitions.
func (m *Model) TransitionsFrom(stateID string) map[string]string {
	row := make(map[string]string, len(m.next[stateID]))
	for event, target := range m.next[stateID] {
		row[event] = target
	}
	return row
}

// OutgoingFrom returns the transitions leaving a state in insertion order
func (m *Model) OutgoingFrom(stateID string) []Transition {
	var out []Transition
	for _, t := range m.transitions {
		if t.Source == stateID {
			out = append(out, t)
		}
	}
	return out
}

// Target resolves the transition function for a (state, event) pair
func (m *Model) Target(source, event string) (string, bool) {
	target, ok := m.next[source][event]
	return target, ok
}

// StateCount returns the number of registered states
func (m *Model) StateCount() int {
	return len(m.stateOrder)
}

// EventCount returns the number of registered events
func (m *Model) EventCount() int {
	return len(m.eventOrder)
}

// TransitionCount returns the number of declared transitions
func (m *Model) TransitionCount() int {
	return len(m.transitions)
}

// Clone returns a deep copy of the model. Strategies run against a clone so
// that a concurrent discovery run can never interleave with generation.
func (m *Model) Clone() *Model {
	clone := NewModel()
	clone.autoRegister = m.autoRegister
	for _, id := range m.stateOrder {
		clone.states[id] = m.states[id]
		clone.stateOrder = append(clone.stateOrder, id)
	}
	for _, key := range m.eventOrder {
		clone.events[key] = m.events[key]
		clone.eventOrder = append(clone.eventOrder, key)
	}
	for source, row := range m.next {
		copied := make(map[string]string, len(row))
		for event, target := range row {
			copied[event] = target
		}
		clone.next[source] = copied
	}
	clone.transitions = append(clone.transitions, m.transitions...)
	clone.initial = m.initial
	clone.hasInitial = m.hasInitial
	return clone
}
