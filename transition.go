package mbt

import "fmt"

// Transition represents a directed edge in the state graph: applying Event
// on the Source state moves the system to the Target state. Source and
// Target hold state identifiers, Event holds an event key.
type Transition struct {
	Source string
	Event  string
	Target string
}

// NewTransition creates a new transition
func NewTransition(source, event, target string) Transition {
	return Transition{
		Source: source,
		Event:  event,
		Target: target,
	}
}

// IsSelfLoop reports whether the transition starts and ends on the same state
func (t Transition) IsSelfLoop() bool {
	return t.Source == t.Target
}

// String renders the transition as source --event--> target
func (t Transition) String() string {
	return fmt.Sprintf("%s --%s--> %s", t.Source, t.Event, t.Target)
}
