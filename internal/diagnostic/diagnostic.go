// Package diagnostic holds the severity-tagged result tree of a generation run
// and the reporter that dumps it at the end of the run.
package diagnostic

import (
	"slices"
	"sync"

	"git.home.luguber.info/inful/modelsite/internal/source"
)

// Diagnostic is a node of the result tree. Its effective status is the most
// severe of its own status and all of its descendants.
//
// Children may be added concurrently; the generator renders pages in parallel.
type Diagnostic struct {
	Message string
	Marker  *source.Marker

	mu       sync.Mutex
	status   Status
	children []*Diagnostic
}

// New creates a diagnostic with its own status.
func New(status Status, message string) *Diagnostic {
	return &Diagnostic{status: status, Message: message}
}

// At attaches a marker and returns d.
func (d *Diagnostic) At(m *source.Marker) *Diagnostic {
	d.Marker = m
	return d
}

// Status returns the effective status.
func (d *Diagnostic) Status() Status {
	if d == nil {
		return StatusOK
	}
	d.mu.Lock()
	status := d.status
	children := slices.Clone(d.children)
	d.mu.Unlock()
	for _, c := range children {
		status = Max(status, c.Status())
	}
	return status
}

// OwnStatus returns the status set on d itself, ignoring children.
func (d *Diagnostic) OwnStatus() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// Children returns a snapshot of the direct children.
func (d *Diagnostic) Children() []*Diagnostic {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.children)
}

// Add appends children, skipping nil values, and returns d.
func (d *Diagnostic) Add(children ...*Diagnostic) *Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, c := range children {
		if c != nil {
			d.children = append(d.children, c)
		}
	}
	return d
}

// AddChild creates, appends and returns a new child.
func (d *Diagnostic) AddChild(status Status, message string, m *source.Marker) *Diagnostic {
	c := New(status, message).At(m)
	d.Add(c)
	return c
}

// Warn appends a WARNING child at m.
func (d *Diagnostic) Warn(message string, m *source.Marker) *Diagnostic {
	return d.AddChild(StatusWarning, message, m)
}

// Err appends an ERROR child at m.
func (d *Diagnostic) Err(message string, m *source.Marker) *Diagnostic {
	return d.AddChild(StatusError, message, m)
}

// Merge appends other as a child when it reports anything beyond OK.
func (d *Diagnostic) Merge(other *Diagnostic) *Diagnostic {
	if other != nil && other.Status() > StatusOK {
		d.Add(other)
	}
	return d
}

// Walk visits d and its descendants depth-first.
func (d *Diagnostic) Walk(fn func(n *Diagnostic, depth int)) {
	d.walk(fn, 0)
}

func (d *Diagnostic) walk(fn func(n *Diagnostic, depth int), depth int) {
	if d == nil {
		return
	}
	fn(d, depth)
	for _, c := range d.Children() {
		c.walk(fn, depth+1)
	}
}

// Count returns how many nodes carry the given own status.
func (d *Diagnostic) Count(status Status) int {
	n := 0
	d.Walk(func(node *Diagnostic, _ int) {
		if node.OwnStatus() == status {
			n++
		}
	})
	return n
}
