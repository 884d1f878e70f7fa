package diagnostic

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/modelsite/internal/source"
)

const (
	diagnosticBanner = "***********************\n" +
		"*      Diagnostic     *\n" +
		"***********************"
	failedBanner = "******************************\n" +
		"*      Diagnostic failed     *\n" +
		"******************************"
)

// DefaultIndent is the dump indent used by Reporter.
const DefaultIndent = 4

// Reporter dumps the final diagnostic of a run to an error stream.
type Reporter struct {
	Out      io.Writer
	Indent   int
	Resolver source.Resolver
}

// NewReporter returns a Reporter writing to os.Stderr with DefaultIndent.
func NewReporter(r source.Resolver) *Reporter {
	return &Reporter{Out: os.Stderr, Indent: DefaultIndent, Resolver: r}
}

// Report handles the outcome of a run.
//
// For a completed run, WARNING and ERROR trees are dumped (ERROR and WARNING
// entries only) and nil is returned. For an aborted run (*Error) the FAIL
// entries are dumped and err is returned unchanged. Other errors are returned
// without output. Write failures on Out are ignored: the result only reflects
// the run.
func (r *Reporter) Report(d *Diagnostic, err error) error {
	out := r.Out
	if out == nil {
		out = os.Stderr
	}
	indent := r.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}

	if err != nil {
		de, ok := AsError(err)
		if !ok {
			return err
		}
		_, _ = fmt.Fprintln(out, failedBanner)
		_ = de.Diagnostic.DumpWith(out, DumpOptions{Indent: indent, Statuses: []Status{StatusFail}, Resolver: r.Resolver})
		return err
	}

	if d == nil {
		return nil
	}
	if status := d.Status(); status == StatusWarning || status == StatusError {
		_, _ = fmt.Fprintln(out, diagnosticBanner)
		_ = d.DumpWith(out, DumpOptions{Indent: indent, Statuses: []Status{StatusError, StatusWarning}, Resolver: r.Resolver})
	}
	return nil
}
