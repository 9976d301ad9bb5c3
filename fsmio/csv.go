// Package fsmio loads and saves FSM models. The CSV codec uses the
// transition-matrix convention: a header row starting with S_source
// followed by one E_<event> column per event, and one row per source state
// holding the target state reached by each event, empty when the state
// does not define the transition. The YAML codec carries the full model
// including feature vectors and parameter bindings.
package fsmio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/anggasct/mbt"
)

const (
	sourceColumn = "S_source"
	eventPrefix  = "E_"
)

// WriteCSV exports the model's transition matrix
func WriteCSV(w io.Writer, m *mbt.Model) error {
	events := m.Events()
	header := make([]string, 0, len(events)+1)
	header = append(header, sourceColumn)
	for _, e := range events {
		header = append(header, eventPrefix+e.Key())
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range m.States() {
		row := make([]string, 0, len(events)+1)
		row = append(row, s.ID())
		targets := m.TransitionsFrom(s.ID())
		for _, e := range events {
			row = append(row, targets[e.Key()])
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV imports a transition matrix. States and events are registered in
// the order they appear; the source state of the first row becomes the
// initial state. Use ReadCSVDetailed to import feature vectors and
// parameter bindings alongside the matrix.
func ReadCSV(r io.Reader) (*mbt.Model, error) {
	m := mbt.NewModel().WithAutoRegister()
	if err := readMatrix(r, m); err != nil {
		return nil, err
	}
	return m, nil
}

func readMatrix(r io.Reader, m *mbt.Model) error {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("read transition matrix header: %w", err)
	}
	if len(header) == 0 || header[0] != sourceColumn {
		return fmt.Errorf("transition matrix header must start with %s", sourceColumn)
	}
	events := make([]string, 0, len(header)-1)
	for _, column := range header[1:] {
		if !strings.HasPrefix(column, eventPrefix) {
			return fmt.Errorf("event column %q must start with %s", column, eventPrefix)
		}
		events = append(events, strings.TrimPrefix(column, eventPrefix))
	}

	seen := make(map[string]bool)
	first := ""
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read transition matrix row: %w", err)
		}
		source := row[0]
		if seen[source] {
			return fmt.Errorf("duplicated source state %q", source)
		}
		seen[source] = true
		if first == "" {
			first = source
		}
		if !m.HasState(source) {
			if err := m.AddState(mbt.NewState(source, nil)); err != nil {
				return err
			}
		}
		for i, target := range row[1:] {
			if target == "" {
				continue
			}
			if err := m.AddTransition(source, events[i], target); err != nil {
				return err
			}
		}
	}
	if first != "" {
		return m.SetInitial(first)
	}
	return nil
}
