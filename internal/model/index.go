package model

import (
	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
)

// Index looks up elements by id across all loaded models.
type Index struct {
	byID  map[string]*Element
	order []*Element
}

// NewIndex indexes the elements of models. Duplicate ids are errors (the first
// definition wins); references to unknown ids are warnings.
func NewIndex(models ...*Model) (*Index, *diagnostic.Diagnostic) {
	d := diagnostic.New(diagnostic.StatusOK, "Index model elements")
	idx := &Index{byID: make(map[string]*Element)}
	for _, m := range models {
		if m == nil {
			continue
		}
		m.Walk(func(e *Element) {
			if prev, dup := idx.byID[e.ID]; dup {
				d.Err("Duplicate element id '"+e.ID+"', first defined at "+prev.Marker.String(), e.Marker)
				return
			}
			idx.byID[e.ID] = e
			idx.order = append(idx.order, e)
		})
	}
	for _, e := range idx.order {
		for _, ref := range e.References {
			if _, ok := idx.byID[ref.ID]; !ok {
				d.Warn("Element '"+e.ID+"' references unknown element '"+ref.ID+"'", ref.Marker)
			}
		}
	}
	return idx, d
}

// Lookup returns the element with id.
func (i *Index) Lookup(id string) (*Element, bool) {
	e, ok := i.byID[id]
	return e, ok
}

// Elements returns the indexed elements in declaration order.
func (i *Index) Elements() []*Element {
	return i.order
}

// Len returns the number of indexed elements.
func (i *Index) Len() int {
	return len(i.order)
}
