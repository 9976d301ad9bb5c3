package fsmio

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/anggasct/mbt"
)

// modelDoc is the YAML representation of a model
type modelDoc struct {
	Initial     string          `yaml:"initial,omitempty"`
	States      []stateDoc      `yaml:"states"`
	Events      []eventDoc      `yaml:"events,omitempty"`
	Transitions []transitionDoc `yaml:"transitions,omitempty"`
}

type stateDoc struct {
	ID    string            `yaml:"id"`
	Props map[string]string `yaml:"props,omitempty"`
}

type eventDoc struct {
	ID     string            `yaml:"id"`
	Params map[string]string `yaml:"params,omitempty"`
}

type transitionDoc struct {
	Source string `yaml:"source"`
	Event  string `yaml:"event"`
	Target string `yaml:"target"`
}

// WriteYAML exports the full model, including feature vectors and event
// parameter bindings, as a YAML document.
func WriteYAML(w io.Writer, m *mbt.Model) error {
	doc := modelDoc{}
	if initial, ok := m.Initial(); ok {
		doc.Initial = initial.ID()
	}
	for _, s := range m.States() {
		doc.States = append(doc.States, stateDoc{ID: s.ID(), Props: s.Props()})
	}
	for _, e := range m.Events() {
		doc.Events = append(doc.Events, eventDoc{ID: e.ID(), Params: e.Params()})
	}
	for _, t := range m.Transitions() {
		doc.Transitions = append(doc.Transitions, transitionDoc{
			Source: t.Source,
			Event:  t.Event,
			Target: t.Target,
		})
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

// ReadYAML builds a model from a YAML document written by WriteYAML.
// Declaration order in the document becomes registration order.
func ReadYAML(r io.Reader) (*mbt.Model, error) {
	var doc modelDoc
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode model document: %w", err)
	}

	m := mbt.NewModel()
	for _, s := range doc.States {
		if err := m.AddState(mbt.NewState(s.ID, s.Props)); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Events {
		if err := m.AddEvent(mbt.NewEvent(e.ID, e.Params)); err != nil {
			return nil, err
		}
	}
	for _, t := range doc.Transitions {
		if err := m.AddTransition(t.Source, t.Event, t.Target); err != nil {
			return nil, err
		}
	}
	if doc.Initial != "" {
		if err := m.SetInitial(doc.Initial); err != nil {
			return nil, err
		}
	}
	return m, nil
}
