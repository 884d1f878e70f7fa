package site

import (
	"html/template"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/model"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

const (
	rootLocation  = "index.html"
	modelSection  = "model/"
	modelTitle    = "Model"
	pageExtension = ".html"
)

// Page is a node of the generated navigation tree.
type Page struct {
	Title string
	// URI is the page location resolved against the base URI.
	URI *url.URL
	// Path is the output path relative to the output directory, slash
	// separated. It is empty for external locations, which appear in
	// navigation but are not written.
	Path     string
	Markdown string
	Marker   *source.Marker
	Element  *model.Element
	Parent   *Page
	Children []*Page

	content template.HTML
}

// External reports whether the page points outside the site.
func (p *Page) External() bool {
	return p.Path == ""
}

// Walk visits p and its descendants depth-first.
func (p *Page) Walk(fn func(*Page)) {
	fn(p)
	for _, c := range p.Children {
		c.Walk(fn)
	}
}

type tree struct {
	base      *url.URL
	root      *Page
	pages     []*Page
	byPath    map[string]*Page
	byElement map[string]*Page
	diag      *diagnostic.Diagnostic
}

func buildTree(base *url.URL, in Inputs, diag *diagnostic.Diagnostic) *tree {
	t := &tree{
		base:      base,
		byPath:    make(map[string]*Page),
		byElement: make(map[string]*Page),
		diag:      diag,
	}
	t.root = t.actionPage(in.Site, nil, base, true)
	if t.root == nil {
		t.root = t.newPage(&Page{Title: model.DefaultTitle}, rootLocation, base, nil)
	}
	if section := t.modelSection(in.Models); section != nil {
		section.Parent = t.root
		t.root.Children = append(t.root.Children, section)
	}
	t.root.Walk(func(p *Page) {
		if !p.External() {
			t.pages = append(t.pages, p)
		}
	})
	return t
}

func (t *tree) actionPage(a *model.Action, parent *Page, against *url.URL, isRoot bool) *Page {
	if a == nil {
		return nil
	}
	title := a.Text
	if title == "" {
		title = label(a.ID)
	}
	location := a.Location
	if location == "" {
		location = defaultLocation(a, isRoot)
	}
	if location == "" {
		t.diag.Err("Cannot derive a location for action", a.Marker)
		return nil
	}
	p := t.newPage(&Page{Title: title, Markdown: a.Content, Marker: a.Marker, Parent: parent}, location, against, a.Marker)
	if p == nil {
		return nil
	}
	for _, c := range a.Children {
		if child := t.actionPage(c, p, p.URI, false); child != nil {
			p.Children = append(p.Children, child)
		}
	}
	return p
}

func (t *tree) modelSection(models []*model.Model) *Page {
	var b strings.Builder
	elements := 0
	for _, m := range models {
		elements += len(m.Elements)
		if m.Name != "" {
			b.WriteString("## " + m.Name + "\n\n")
		}
		if m.Description != "" {
			b.WriteString(m.Description + "\n\n")
		}
	}
	if elements == 0 {
		return nil
	}
	section := t.newPage(&Page{Title: modelTitle, Markdown: b.String()}, modelSection+rootLocation, t.base, nil)
	if section == nil {
		return nil
	}
	for _, m := range models {
		for _, e := range m.Elements {
			if p := t.elementPage(e, section); p != nil {
				section.Children = append(section.Children, p)
			}
		}
	}
	return section
}

func (t *tree) elementPage(e *model.Element, parent *Page) *Page {
	if _, dup := t.byElement[e.ID]; dup {
		// Reported by model.NewIndex.
		return nil
	}
	p := t.newPage(&Page{Title: e.Name, Markdown: e.Description, Marker: e.Marker, Element: e, Parent: parent},
		modelSection+url.PathEscape(e.ID)+pageExtension, t.base, e.Marker)
	if p == nil {
		return nil
	}
	t.byElement[e.ID] = p
	for _, c := range e.Children {
		if child := t.elementPage(c, p); child != nil {
			p.Children = append(p.Children, child)
		}
	}
	return p
}

// newPage resolves location against the given URI and registers p. It
// returns nil, after reporting, when the location is unusable.
func (t *tree) newPage(p *Page, location string, against *url.URL, m *source.Marker) *Page {
	ref, err := url.Parse(location)
	if err != nil {
		t.diag.Err("Invalid location '"+location+"': "+err.Error(), m)
		return nil
	}
	u := against.ResolveReference(ref)
	if u.Scheme != t.base.Scheme || u.Host != t.base.Host {
		p.URI = u
		return p
	}
	if !strings.HasPrefix(u.Path, t.base.Path) {
		t.diag.Err("Location '"+location+"' is outside of the site", m)
		return nil
	}
	if strings.HasSuffix(u.Path, "/") {
		u.Path += rootLocation
	}
	u.RawPath = ""
	p.URI = u
	p.Path = strings.TrimPrefix(u.Path, t.base.Path)
	if prev, dup := t.byPath[p.Path]; dup {
		msg := "Duplicate page location '" + p.Path + "'"
		if prev.Marker != nil {
			msg += ", first used at " + prev.Marker.Position()
		}
		t.diag.Err(msg, m)
		return nil
	}
	t.byPath[p.Path] = p
	return p
}

func defaultLocation(a *model.Action, isRoot bool) string {
	if isRoot {
		return rootLocation
	}
	name := a.ID
	if name == "" {
		name = slug(a.Text)
	}
	if name == "" {
		return ""
	}
	return name + pageExtension
}

// slug lower-cases s and joins its letter and digit runs with '-'.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		default:
			dash = true
		}
	}
	return b.String()
}

// label turns an id like "getting-started" into "Getting Started".
func label(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' || r == '.' })
	return cases.Title(language.English).String(strings.Join(words, " "))
}
