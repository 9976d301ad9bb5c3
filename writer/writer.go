// Package writer renders assembled test case chains into output artifacts:
// human-readable scenario text and executable Go test skeletons. Writers
// are independent consumers of the same chains; new formats plug in by
// implementing the Writer interface.
package writer

import (
	"io"

	"github.com/anggasct/mbt"
)

// Writer renders one chain into an artifact
type Writer interface {
	Write(w io.Writer, chain *mbt.Chain) error
}

// WriteAll renders a collection of chains with the same writer
func WriteAll(wr Writer, w io.Writer, chains []*mbt.Chain) error {
	for _, chain := range chains {
		if err := wr.Write(w, chain); err != nil {
			return err
		}
	}
	return nil
}
