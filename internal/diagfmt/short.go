package diagfmt

import (
	"fmt"
	"io"

	"prosecheck/internal/diag"
	"prosecheck/internal/source"
)

// Short prints one line per diagnostic:
// <path>:<line>:<col>: <SEV> <CODE> <Message> [<RULE>]
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts ShortOpts) {
	for _, d := range bag.Items() {
		path, pos := location(fs, d.Primary, opts.PathMode)
		fmt.Fprintf(w, "%s:%d:%d: %s %s %s", path, pos.Line, pos.Col, d.Severity, d.Code.ID(), d.Message)
		if opts.ShowRule && d.RuleID != "" {
			fmt.Fprintf(w, " [%s]", d.RuleID)
		}
		fmt.Fprintln(w)
	}
}
