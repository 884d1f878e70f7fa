package model

import (
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

// DefaultElementType is used for elements without a type.
const DefaultElementType = "Element"

// Model is a domain model file.
type Model struct {
	Name        string
	Description string // markdown
	Elements    []*Element
	Marker      *source.Marker
}

// Element is a domain model element. Each element with a valid id gets a page.
type Element struct {
	ID          string
	Type        string
	Name        string
	Description string // markdown
	Properties  []Property
	References  []Reference
	Children    []*Element
	Marker      *source.Marker
}

// Property is a key/value pair in declaration order.
type Property struct {
	Key    string
	Value  string
	Marker *source.Marker
}

// Reference points at another element by id.
type Reference struct {
	ID     string
	Marker *source.Marker
}

var (
	modelKeys   = []string{"name", "description", "elements"}
	elementKeys = []string{"id", "type", "name", "description", "properties", "references", "children"}
)

// Walk visits e and its descendants depth-first.
func (e *Element) Walk(fn func(*Element)) {
	if e == nil {
		return
	}
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// Walk visits every element of m depth-first.
func (m *Model) Walk(fn func(*Element)) {
	for _, e := range m.Elements {
		e.Walk(fn)
	}
}

// LoadModel loads a domain model file. Elements without a usable id are
// reported and dropped; duplicate ids are checked by NewIndex.
func LoadModel(path string) (*Model, *diagnostic.Diagnostic, error) {
	root, d, err := readDocument(path, "model")
	if err != nil {
		return nil, nil, err
	}
	m := &Model{Marker: d.marker(root)}
	_, values, ok := d.mapping(root, "model", modelKeys...)
	if !ok {
		return m, d.diag, nil
	}
	m.Name = d.scalar(values["name"], "model name")
	if m.Name == "" {
		d.diag.Warn("Model has no name", m.Marker)
	}
	m.Description = d.scalar(values["description"], "model description")
	for _, n := range d.sequence(values["elements"], "model elements") {
		if e := d.element(n); e != nil {
			m.Elements = append(m.Elements, e)
		}
	}
	return m, d.diag, nil
}

func (d *decoder) element(n *yaml.Node) *Element {
	_, values, ok := d.mapping(n, "element", elementKeys...)
	if !ok {
		return nil
	}
	e := &Element{Marker: d.marker(n)}

	idNode, found := values["id"]
	if found {
		e.ID = d.scalar(idNode, "element id")
	}
	if e.ID == "" {
		d.diag.Err("Element has no id", e.Marker)
		return nil
	}
	if !d.checkID(e.ID, idNode, "element") {
		return nil
	}

	e.Type = d.scalar(values["type"], "element type")
	if e.Type == "" {
		e.Type = DefaultElementType
	}
	e.Name = d.scalar(values["name"], "element name")
	if e.Name == "" {
		d.diag.Warn("Element '"+e.ID+"' has no name", e.Marker)
		e.Name = e.ID
	}
	e.Description = d.scalar(values["description"], "element description")

	if propsNode, found := values["properties"]; found {
		keys, props, ok := d.mapping(propsNode, "properties")
		if ok {
			for _, k := range keys {
				v := resolveAlias(props[k])
				if v.Kind != yaml.ScalarNode {
					d.diag.Warn("Property '"+k+"' of '"+e.ID+"' is not a scalar, skipped", d.marker(v))
					continue
				}
				e.Properties = append(e.Properties, Property{Key: k, Value: v.Value, Marker: d.marker(v)})
			}
		}
	}

	for _, ref := range d.sequence(values["references"], "element references") {
		if id := d.scalar(ref, "element reference"); id != "" {
			e.References = append(e.References, Reference{ID: id, Marker: d.marker(ref)})
		}
	}

	for _, child := range d.sequence(values["children"], "element children") {
		if c := d.element(child); c != nil {
			e.Children = append(e.Children, c)
		}
	}
	return e
}
