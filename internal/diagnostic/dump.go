package diagnostic

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"git.home.luguber.info/inful/modelsite/internal/foundation"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

// DumpOptions controls Diagnostic dumps.
type DumpOptions struct {
	// Indent is the number of spaces per tree level.
	Indent int
	// Statuses restricts output to nodes whose effective status is listed.
	// Empty means all nodes.
	Statuses []Status
	// Resolver turns markers into link labels. Raw marker labels are used when
	// nil or when a marker does not resolve.
	Resolver source.Resolver
}

// Dump writes the tree to w, indenting each level by indent spaces and keeping
// only nodes whose effective status is one of statuses.
func (d *Diagnostic) Dump(w io.Writer, indent int, statuses ...Status) error {
	return d.DumpWith(w, DumpOptions{Indent: indent, Statuses: statuses})
}

// DumpWith writes the tree to w using opts. A node that is filtered out is
// skipped together with its subtree.
func (d *Diagnostic) DumpWith(w io.Writer, opts DumpOptions) error {
	return d.dump(w, opts, 0)
}

func (d *Diagnostic) dump(w io.Writer, opts DumpOptions, depth int) error {
	if d == nil {
		return nil
	}
	status := d.Status()
	if len(opts.Statuses) > 0 && !slices.Contains(opts.Statuses, status) {
		return nil
	}
	line := strings.Repeat(" ", opts.Indent*depth) + status.String()
	if d.Message != "" {
		line += " " + d.Message
	}
	if label := markerLabel(d.Marker, opts.Resolver); label != "" {
		line += " [" + label + "]"
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, c := range d.Children() {
		if err := c.dump(w, opts, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func markerLabel(m *source.Marker, r source.Resolver) string {
	if m == nil {
		return ""
	}
	if r == nil {
		return source.Label(m)
	}
	text := foundation.MapOption(r.Resolve(m), func(l source.Link) string { return l.Text })
	return text.UnwrapOr(source.Label(m))
}
