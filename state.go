package mbt

import (
	"fmt"
	"sort"
	"strings"
)

// State represents an observable situation of the system under test. A state
// is identified by a name and described by an immutable feature vector of
// named properties. Two states are considered equal when their feature
// vectors are equal, regardless of their identifiers.
type State struct {
	id    string
	props map[string]string
}

// NewState creates a new state with the given identifier and feature vector.
// The property map is copied, so later mutation of the argument does not
// affect the state.
func NewState(id string, props map[string]string) State {
	copied := make(map[string]string, len(props))
	for k, v := range props {
		copied[k] = v
	}
	return State{
		id:    id,
		props: copied,
	}
}

// ID returns the state identifier
func (s State) ID() string {
	return s.id
}

// Prop returns the value of a single feature dimension
func (s State) Prop(name string) (string, bool) {
	v, ok := s.props[name]
	return v, ok
}

// Props returns a copy of the feature vector
func (s State) Props() map[string]string {
	copied := make(map[string]string, len(s.props))
	for k, v := range s.props {
		copied[k] = v
	}
	return copied
}

// PropNames returns the feature dimension names in sorted order
func (s State) PropNames() []string {
	names := make([]string, 0, len(s.props))
	for name := range s.props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Equal reports whether two states have the same identifier and the same
// feature vector
func (s State) Equal(other State) bool {
	return s.id == other.id && s.EqualExcluding(other, nil)
}

// EqualExcluding reports whether two states have the same feature vector,
// ignoring the named dimensions. Exploration uses this to mask properties
// that depend on hidden external data.
func (s State) EqualExcluding(other State, excluded map[string]struct{}) bool {
	count := func(props map[string]string) int {
		n := 0
		for name := range props {
			if _, skip := excluded[name]; !skip {
				n++
			}
		}
		return n
	}
	if count(s.props) != count(other.props) {
		return false
	}
	for name, value := range s.props {
		if _, skip := excluded[name]; skip {
			continue
		}
		otherValue, ok := other.props[name]
		if !ok || otherValue != value {
			return false
		}
	}
	return true
}

// String returns a readable rendering of the state
func (s State) String() string {
	if len(s.props) == 0 {
		return s.id
	}
	var sb strings.Builder
	sb.WriteString(s.id)
	sb.WriteString("{")
	for i, name := range s.PropNames() {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s=%s", name, s.props[name])
	}
	sb.WriteString("}")
	return sb.String()
}
