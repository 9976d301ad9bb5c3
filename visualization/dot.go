package visualization

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/anggasct/mbt"
)

// DOTGenerator generates Graphviz DOT format representations of FSM models
type DOTGenerator struct {
	model   *mbt.Model
	options DOTOptions
}

// DOTOptions configures the DOT generation
type DOTOptions struct {
	ShowStateProps       bool
	ShowSelfLoops        bool
	MarkUnreachable      bool   // gray out states unreachable from the initial state
	HighlightStart       string // state to highlight as the generation start
	RankDirection        string // "TB", "LR", "BT", "RL"
	NodeShape            string
	InitialFillColor     string
	DefaultFillColor     string
	HighlightFillColor   string
	UnreachableFillColor string
}

// DefaultDOTOptions returns sensible default options for DOT generation
func DefaultDOTOptions() DOTOptions {
	return DOTOptions{
		ShowStateProps:       true,
		ShowSelfLoops:        true,
		MarkUnreachable:      true,
		RankDirection:        "LR",
		NodeShape:            "box",
		InitialFillColor:     "lightgreen",
		DefaultFillColor:     "lightblue",
		HighlightFillColor:   "gold",
		UnreachableFillColor: "lightgray",
	}
}

// NewDOTGenerator creates a new DOT generator for the given model
func NewDOTGenerator(model *mbt.Model, options ...DOTOptions) *DOTGenerator {
	opts := DefaultDOTOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	return &DOTGenerator{
		model:   model,
		options: opts,
	}
}

// Generate creates a DOT representation of the model
func (g *DOTGenerator) Generate() (string, error) {
	var dot strings.Builder

	dot.WriteString("digraph FSM {\n")
	dot.WriteString(fmt.Sprintf("  rankdir=%s;\n", g.options.RankDirection))
	dot.WriteString(fmt.Sprintf("  node [shape=%s];\n", g.options.NodeShape))
	dot.WriteString("  edge [fontsize=10];\n\n")

	g.generateStates(&dot)
	g.generateTransitions(&dot)

	dot.WriteString("}\n")

	return dot.String(), nil
}

// generateStates generates DOT nodes for all states
func (g *DOTGenerator) generateStates(dot *strings.Builder) {
	initial, hasInitial := g.model.Initial()

	var reachable map[string]bool
	if g.options.MarkUnreachable && hasInitial {
		reachable = mbt.NewGraph(g.model).Reachable(initial.ID())
	}

	dot.WriteString("  // States\n")
	for _, state := range g.model.States() {
		isInitial := hasInitial && state.ID() == initial.ID()
		unreachable := reachable != nil && !reachable[state.ID()]
		g.generateStateNode(dot, state, isInitial, unreachable)
	}
	dot.WriteString("\n")
}

// generateStateNode generates a DOT node for a single state
func (g *DOTGenerator) generateStateNode(dot *strings.Builder, state mbt.State, isInitial, unreachable bool) {
	fillColor := g.options.DefaultFillColor
	label := state.ID()

	if isInitial {
		fillColor = g.options.InitialFillColor
		label += "\\n(initial)"
	}
	if unreachable {
		fillColor = g.options.UnreachableFillColor
		label += "\\n(unreachable)"
	}
	if g.options.HighlightStart == state.ID() {
		fillColor = g.options.HighlightFillColor
	}

	if g.options.ShowStateProps {
		for _, name := range state.PropNames() {
			value, _ := state.Prop(name)
			label += fmt.Sprintf("\\n%s=%s", name, value)
		}
	}

	dot.WriteString(fmt.Sprintf("  %q [style=\"filled\" fillcolor=%s label=\"%s\"];\n",
		state.ID(), fillColor, label))
}

// generateTransitions generates DOT edges for all transitions
func (g *DOTGenerator) generateTransitions(dot *strings.Builder) {
	dot.WriteString("  // Transitions\n")
	for _, t := range g.model.Transitions() {
		if t.IsSelfLoop() && !g.options.ShowSelfLoops {
			continue
		}
		dot.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n",
			t.Source, t.Target, t.Event))
	}
}

// GenerateToFile writes the DOT representation to a file
func (g *DOTGenerator) GenerateToFile(filename string) error {
	content, err := g.Generate()
	if err != nil {
		return err
	}

	return os.WriteFile(filename, []byte(content), 0644)
}

// SVGGenerator generates SVG representations by calling Graphviz
type SVGGenerator struct {
	dotGenerator *DOTGenerator
}

// NewSVGGenerator creates a new SVG generator
func NewSVGGenerator(model *mbt.Model, options ...DOTOptions) *SVGGenerator {
	return &SVGGenerator{
		dotGenerator: NewDOTGenerator(model, options...),
	}
}

// Generate creates an SVG representation of the model
func (g *SVGGenerator) Generate() (string, error) {
	dotContent, err := g.dotGenerator.Generate()
	if err != nil {
		return "", err
	}

	// Use Graphviz dot command to convert DOT to SVG
	cmd := exec.Command("dot", "-Tsvg")
	cmd.Stdin = strings.NewReader(dotContent)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("failed to execute dot command: %w (make sure Graphviz is installed)", err)
	}

	return out.String(), nil
}
