// Package model loads the YAML inputs of a generation run: the UI template,
// the site-action tree and the domain models. Every loaded element records the
// source.Marker of the YAML node it came from.
//
// Loaders return an error only when a file cannot be read or parsed. Content
// problems are reported in the returned diagnostic.
package model

import (
	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

// DefaultTitle is used when a template has no title.
const DefaultTitle = "Documentation"

// Template is the UI template: page chrome shared by every generated page.
type Template struct {
	Title       string
	Description string
	Theme       string
	Stylesheets []string
	Scripts     []string
	Header      string // markdown
	Footer      string // markdown
	Marker      *source.Marker
}

var templateKeys = []string{"title", "description", "theme", "stylesheets", "scripts", "header", "footer"}

// LoadTemplate loads a UI template file.
func LoadTemplate(path string) (*Template, *diagnostic.Diagnostic, error) {
	root, d, err := readDocument(path, "template")
	if err != nil {
		return nil, nil, err
	}
	t := &Template{Title: DefaultTitle, Marker: d.marker(root)}
	_, values, ok := d.mapping(root, "template", templateKeys...)
	if !ok {
		return t, d.diag, nil
	}
	if n, found := values["title"]; found {
		if v := d.scalar(n, "template title"); v != "" {
			t.Title = v
		}
	} else {
		d.diag.Warn("Template has no title, using '"+DefaultTitle+"'", t.Marker)
	}
	t.Description = d.scalar(values["description"], "template description")
	t.Theme = d.scalar(values["theme"], "template theme")
	t.Stylesheets = d.scalars(values["stylesheets"], "template stylesheets")
	t.Scripts = d.scalars(values["scripts"], "template scripts")
	t.Header = d.scalar(values["header"], "template header")
	t.Footer = d.scalar(values["footer"], "template footer")
	return t, d.diag, nil
}
