package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/anggasct/mbt"
)

// GoTestWriter renders a chain as a compilable Go test function. The
// generated test drives a mbt.Adapter supplied by the surrounding test
// suite through every case of the chain, asserting the observed state
// after each event.
type GoTestWriter struct {
	// PackageName is the package declaration of the generated file;
	// defaults to "generated"
	PackageName string
	// AdapterConstructor is the expression producing the adapter under
	// test; defaults to "newAdapter(t)"
	AdapterConstructor string

	headerWritten bool
	sequence      int
}

// NewGoTestWriter creates a Go test code writer
func NewGoTestWriter(packageName string) *GoTestWriter {
	return &GoTestWriter{PackageName: packageName}
}

// Write renders one chain as a test function. The first call also emits
// the file header, so a single writer instance produces one valid file.
func (g *GoTestWriter) Write(w io.Writer, chain *mbt.Chain) error {
	if !g.headerWritten {
		if err := g.writeHeader(w); err != nil {
			return err
		}
		g.headerWritten = true
	}
	g.sequence++

	var sb strings.Builder
	fmt.Fprintf(&sb, "func TestChain%d(t *testing.T) {\n", g.sequence)
	sb.WriteString("\tctx := context.Background()\n")
	fmt.Fprintf(&sb, "\tadapter := %s\n", g.adapterConstructor())
	sb.WriteString("\tstate, err := adapter.Reset(ctx)\n")
	sb.WriteString("\tif err != nil {\n\t\tt.Fatalf(\"reset failed: %v\", err)\n\t}\n")

	if first := chain.First(); first != nil && first.Prev != nil {
		fmt.Fprintf(&sb, "\t// chain continues from a shared setup ending in %q\n", first.Prev.Then)
		fmt.Fprintf(&sb, "\treplayTo(t, ctx, adapter, %q)\n", first.Given)
	}

	sb.WriteString("\tsteps := []struct {\n\t\tgiven, when, then string\n\t}{\n")
	for _, tc := range chain.Cases {
		fmt.Fprintf(&sb, "\t\t{given: %q, when: %q, then: %q},\n", tc.Given, tc.When, tc.Then)
	}
	sb.WriteString("\t}\n")
	sb.WriteString("\tfor _, step := range steps {\n")
	sb.WriteString("\t\tstate, err = adapter.Apply(ctx, mbt.NewEvent(step.when, nil))\n")
	sb.WriteString("\t\tif err != nil {\n\t\t\tt.Fatalf(\"apply %s failed: %v\", step.when, err)\n\t\t}\n")
	sb.WriteString("\t\tif state.ID() != step.then {\n")
	sb.WriteString("\t\t\tt.Fatalf(\"after %s expected state %s, got %s\", step.when, step.then, state.ID())\n")
	sb.WriteString("\t\t}\n")
	sb.WriteString("\t}\n")
	sb.WriteString("\t_ = state\n")
	sb.WriteString("}\n\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func (g *GoTestWriter) writeHeader(w io.Writer) error {
	pkg := g.PackageName
	if pkg == "" {
		pkg = "generated"
	}
	header := fmt.Sprintf(`// Code generated from an FSM model. DO NOT EDIT.

package %s

import (
	"context"
	"testing"

	"github.com/anggasct/mbt"
)

`, pkg)
	_, err := io.WriteString(w, header)
	return err
}

func (g *GoTestWriter) adapterConstructor() string {
	if g.AdapterConstructor != "" {
		return g.AdapterConstructor
	}
	return "newAdapter(t)"
}
