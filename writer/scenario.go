package writer

import (
	"fmt"
	"io"

	"github.com/anggasct/mbt"
)

// ScenarioWriter renders chains as human-readable GIVEN-WHEN-THEN scenario
// text
type ScenarioWriter struct {
	// ShowIDs includes case identifiers in the output
	ShowIDs bool
}

// NewScenarioWriter creates a scenario text writer
func NewScenarioWriter() *ScenarioWriter {
	return &ScenarioWriter{}
}

// Write renders one chain
func (s *ScenarioWriter) Write(w io.Writer, chain *mbt.Chain) error {
	if _, err := fmt.Fprintf(w, "Scenario %s\n", chain.ID); err != nil {
		return err
	}
	if first := chain.First(); first != nil && first.Prev != nil {
		if _, err := fmt.Fprintf(w, "  (continues from case %s, ending in %s)\n",
			first.Prev.ID, first.Prev.Then); err != nil {
			return err
		}
	}
	for _, tc := range chain.Cases {
		line := fmt.Sprintf("  GIVEN %-12s WHEN %-12s THEN %s\n", tc.Given, tc.When, tc.Then)
		if s.ShowIDs {
			line = fmt.Sprintf("  [%s] GIVEN %-12s WHEN %-12s THEN %s\n",
				tc.ID, tc.Given, tc.When, tc.Then)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}
