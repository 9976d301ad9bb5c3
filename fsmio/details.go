package fsmio

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/anggasct/mbt"
)

const (
	stateColumn = "S_name"
	eventColumn = "E_name"
	propPrefix  = "P_"
)

// WriteStateDetails exports the feature vectors of all states as a CSV
// companion to the transition matrix. The header is S_name followed by one
// P_<dimension> column per feature dimension appearing anywhere in the
// model, sorted; states leave unused dimensions empty.
func WriteStateDetails(w io.Writer, m *mbt.Model) error {
	dims := make(map[string]bool)
	for _, s := range m.States() {
		for _, name := range s.PropNames() {
			dims[name] = true
		}
	}
	names := make([]string, 0, len(dims))
	for name := range dims {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{stateColumn}, prefixed(names)...)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range m.States() {
		row := []string{s.ID()}
		for _, name := range names {
			v, _ := s.Prop(name)
			row = append(row, v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEventDetails exports the parameter bindings of all events. A
// parameterized event name appears once per binding; the canonical event
// key is reconstructed from name and bindings on import.
func WriteEventDetails(w io.Writer, m *mbt.Model) error {
	params := make(map[string]bool)
	for _, e := range m.Events() {
		for _, name := range e.ParamNames() {
			params[name] = true
		}
	}
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	header := append([]string{eventColumn}, prefixed(names)...)
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, e := range m.Events() {
		row := []string{e.ID()}
		for _, name := range names {
			v, _ := e.Param(name)
			row = append(row, v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSVDetailed imports a transition matrix together with optional state
// and event detail files. Details are registered first, so matrix rows
// resolve against states carrying their feature vectors; either detail
// reader may be nil.
func ReadCSVDetailed(matrix, states, events io.Reader) (*mbt.Model, error) {
	m := mbt.NewModel().WithAutoRegister()
	if states != nil {
		if err := readDetails(states, stateColumn, func(name string, props map[string]string) error {
			return m.AddState(mbt.NewState(name, props))
		}); err != nil {
			return nil, fmt.Errorf("read state details: %w", err)
		}
	}
	if events != nil {
		if err := readDetails(events, eventColumn, func(name string, params map[string]string) error {
			return m.AddEvent(mbt.NewEvent(name, params))
		}); err != nil {
			return nil, fmt.Errorf("read event details: %w", err)
		}
	}
	if err := readMatrix(matrix, m); err != nil {
		return nil, err
	}
	return m, nil
}

// readDetails parses one detail file and hands each row's non-empty columns
// to register
func readDetails(r io.Reader, keyColumn string, register func(name string, values map[string]string) error) error {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return err
	}
	if len(header) == 0 || header[0] != keyColumn {
		return fmt.Errorf("detail header must start with %s", keyColumn)
	}
	names := make([]string, 0, len(header)-1)
	for _, column := range header[1:] {
		if !strings.HasPrefix(column, propPrefix) {
			return fmt.Errorf("detail column %q must start with %s", column, propPrefix)
		}
		names = append(names, strings.TrimPrefix(column, propPrefix))
	}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		values := make(map[string]string)
		for i, v := range row[1:] {
			if v != "" {
				values[names[i]] = v
			}
		}
		if err := register(row[0], values); err != nil {
			return err
		}
	}
}

func prefixed(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = propPrefix + name
	}
	return out
}
