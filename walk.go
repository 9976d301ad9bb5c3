package mbt

import "strings"

// Walk is an ordered sequence of transitions in which each transition starts
// where the previous one ended. Walks are produced by coverage strategies
// and consumed once by the case assembler.
type Walk []Transition

// Start returns the identifier of the walk's first state
func (w Walk) Start() string {
	if len(w) == 0 {
		return ""
	}
	return w[0].Source
}

// End returns the identifier of the walk's last state
func (w Walk) End() string {
	if len(w) == 0 {
		return ""
	}
	return w[len(w)-1].Target
}

// Len returns the number of transitions in the walk
func (w Walk) Len() int {
	return len(w)
}

// Validate checks that consecutive transitions are connected
func (w Walk) Validate() error {
	for i := 1; i < len(w); i++ {
		if w[i].Source != w[i-1].Target {
			return NewConfigurationError("walk",
				"transition '"+w[i].String()+"' does not start where '"+w[i-1].String()+"' ended")
		}
	}
	return nil
}

// States returns the sequence of state identifiers visited by the walk,
// starting state included
func (w Walk) States() []string {
	if len(w) == 0 {
		return nil
	}
	states := make([]string, 0, len(w)+1)
	states = append(states, w[0].Source)
	for _, t := range w {
		states = append(states, t.Target)
	}
	return states
}

// VisitsState reports whether the walk passes through the given state
func (w Walk) VisitsState(stateID string) bool {
	for _, id := range w.States() {
		if id == stateID {
			return true
		}
	}
	return false
}

// HasPrefix reports whether other is a prefix of this walk
func (w Walk) HasPrefix(other Walk) bool {
	if len(other) > len(w) {
		return false
	}
	for i, t := range other {
		if w[i] != t {
			return false
		}
	}
	return true
}

// CommonPrefixLen returns the number of leading transitions shared with
// another walk
func (w Walk) CommonPrefixLen(other Walk) int {
	n := len(w)
	if len(other) < n {
		n = len(other)
	}
	for i := 0; i < n; i++ {
		if w[i] != other[i] {
			return i
		}
	}
	return n
}

// String renders the walk as a chained arrow expression
func (w Walk) String() string {
	if len(w) == 0 {
		return "(empty walk)"
	}
	var sb strings.Builder
	sb.WriteString(w[0].Source)
	for _, t := range w {
		sb.WriteString(" --")
		sb.WriteString(t.Event)
		sb.WriteString("--> ")
		sb.WriteString(t.Target)
	}
	return sb.String()
}
