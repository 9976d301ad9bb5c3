package mbt

import (
	"fmt"
	"sort"
	"strings"
)

// Event represents a stimulus that can be applied to the system under test.
// An event is identified by a name plus a binding of named parameters to
// equivalence classes (for example username=tooLong). Two events with the
// same name but different bindings are distinct events for transition
// purposes; Key returns the identity used by the model.
type Event struct {
	id     string
	params map[string]string
}

// NewEvent creates a new event with the given identifier and parameter
// class bindings. The binding map is copied.
func NewEvent(id string, params map[string]string) Event {
	copied := make(map[string]string, len(params))
	for k, v := range params {
		copied[k] = v
	}
	return Event{
		id:     id,
		params: copied,
	}
}

// ID returns the event identifier without parameter bindings
func (e Event) ID() string {
	return e.id
}

// Param returns the equivalence class bound to a single parameter
func (e Event) Param(name string) (string, bool) {
	v, ok := e.params[name]
	return v, ok
}

// Params returns a copy of the parameter bindings
func (e Event) Params() map[string]string {
	copied := make(map[string]string, len(e.params))
	for k, v := range e.params {
		copied[k] = v
	}
	return copied
}

// ParamNames returns the parameter names in sorted order
func (e Event) ParamNames() []string {
	names := make([]string, 0, len(e.params))
	for name := range e.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Key returns the canonical identity of the event instance. Events without
// parameters are keyed by their identifier alone; parameterized events
// append the sorted bindings so that distinct bindings stay distinct.
func (e Event) Key() string {
	if len(e.params) == 0 {
		return e.id
	}
	var sb strings.Builder
	sb.WriteString(e.id)
	sb.WriteString("(")
	for i, name := range e.ParamNames() {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, "%s=%s", name, e.params[name])
	}
	sb.WriteString(")")
	return sb.String()
}

// String returns a readable rendering of the event
func (e Event) String() string {
	return e.Key()
}
