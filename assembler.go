package mbt

import "github.com/google/uuid"

// TestCase is a single GIVEN-WHEN-THEN record: starting from the Given
// state, applying the When event must leave the system in the Then state.
// Prev links to the predecessor case whose Then equals this case's Given,
// forming a chain that needs no intermediate re-verification.
type TestCase struct {
	ID    string
	Given string
	When  string
	Then  string
	Prev  *TestCase
}

// Chain is the ordered test-case representation of a walk. Adjacent cases
// share state by construction: Cases[i].Then == Cases[i+1].Given.
type Chain struct {
	ID    string
	Cases []*TestCase
}

// First returns the chain's first test case
func (c *Chain) First() *TestCase {
	if len(c.Cases) == 0 {
		return nil
	}
	return c.Cases[0]
}

// Last returns the chain's last test case
func (c *Chain) Last() *TestCase {
	if len(c.Cases) == 0 {
		return nil
	}
	return c.Cases[len(c.Cases)-1]
}

// Assembler converts walks into chains of test cases
type Assembler struct {
	merge bool
}

// NewAssembler creates a new case assembler
func NewAssembler() *Assembler {
	return &Assembler{}
}

// WithPrefixMerging makes AssembleAll deduplicate shared walk prefixes:
// a walk sharing a prefix with an earlier walk produces a chain holding
// only the suffix cases, linked to the earlier chain's case at the fork
// point. Merging never reorders transitions.
func (a *Assembler) WithPrefixMerging() *Assembler {
	a.merge = true
	return a
}

// Assemble converts one walk into a chain. The walk must be non-empty and
// connected.
func (a *Assembler) Assemble(w Walk) (*Chain, error) {
	if len(w) == 0 {
		return nil, NewEmptyWalkError("Assemble")
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return a.chainFor(w, nil), nil
}

// AssembleAll converts a collection of walks into chains, preserving walk
// order. With prefix merging enabled, walks that share a leading sub-path
// with an earlier walk contribute only their divergent suffix; a walk fully
// contained in an earlier one produces no chain at all.
func (a *Assembler) AssembleAll(walks []Walk) ([]*Chain, error) {
	var chains []*Chain
	var assembled []Walk        // previously assembled walks, in order
	var casePaths [][]*TestCase // full case sequence per assembled walk
	for _, w := range walks {
		if len(w) == 0 {
			return nil, NewEmptyWalkError("AssembleAll")
		}
		if err := w.Validate(); err != nil {
			return nil, err
		}
		if !a.merge {
			chains = append(chains, a.chainFor(w, nil))
			continue
		}

		walkIdx, shared := a.deepestPrefix(assembled, w)
		if shared == len(w) {
			continue // fully covered by an earlier walk
		}
		var anchor *TestCase
		if walkIdx >= 0 && shared > 0 {
			anchor = casePaths[walkIdx][shared-1]
		}
		chain := a.chainFor(w[shared:], anchor)
		chains = append(chains, chain)

		path := make([]*TestCase, 0, len(w))
		if anchor != nil {
			path = append(path, casePaths[walkIdx][:shared]...)
		}
		path = append(path, chain.Cases...)
		assembled = append(assembled, w)
		casePaths = append(casePaths, path)
	}
	return chains, nil
}

// deepestPrefix finds the earlier walk sharing the longest common prefix
// with w. Earlier walks win ties.
func (a *Assembler) deepestPrefix(assembled []Walk, w Walk) (int, int) {
	best := -1
	shared := 0
	for i, prev := range assembled {
		if n := prev.CommonPrefixLen(w); n > shared {
			best = i
			shared = n
		}
	}
	return best, shared
}

// chainFor builds the chain records for a walk segment, linking the first
// case to an anchor case from an earlier chain when merging
func (a *Assembler) chainFor(w Walk, anchor *TestCase) *Chain {
	chain := &Chain{
		ID:    uuid.New().String(),
		Cases: make([]*TestCase, 0, len(w)),
	}
	prev := anchor
	for _, t := range w {
		tc := &TestCase{
			ID:    uuid.New().String(),
			Given: t.Source,
			When:  t.Event,
			Then:  t.Target,
			Prev:  prev,
		}
		chain.Cases = append(chain.Cases, tc)
		prev = tc
	}
	return chain
}
