package site

import (
	"embed"
	"html/template"
	"io"
	"net/url"
	"slices"
	"strings"

	"git.home.luguber.info/inful/modelsite/internal/model"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

var pageTemplate = template.Must(template.ParseFS(embeddedTemplates, "templates/*.tmpl"))

const dateLayout = "2006-01-02"

type link struct {
	Text   string
	Href   template.URL
	Active bool
}

type navItem struct {
	link
	Children []navItem
}

type propertyRow struct {
	Name  string
	Links []link
}

// chrome is the part of every page that comes from the UI template.
type chrome struct {
	Title       string
	Description string
	Theme       string
	Stylesheets []string
	Scripts     []string
	Header      template.HTML
	Footer      template.HTML
	Generated   string
	Revision    string
}

type pageView struct {
	Site        chrome
	Stylesheets []string
	Scripts     []string
	Title       string
	Home        template.URL
	Breadcrumbs []link
	Nav         []navItem
	Content     template.HTML
	Properties  []propertyRow
}

func (g *Generator) view(t *tree, p *Page, c chrome) pageView {
	v := pageView{
		Site:    c,
		Title:   p.Title,
		Home:    safeHref(href(p.URI, t.root.URI)),
		Content: p.content,
	}
	for _, s := range c.Stylesheets {
		v.Stylesheets = append(v.Stylesheets, t.assetHref(p.URI, s))
	}
	for _, s := range c.Scripts {
		v.Scripts = append(v.Scripts, t.assetHref(p.URI, s))
	}
	for a := p.Parent; a != nil; a = a.Parent {
		v.Breadcrumbs = append(v.Breadcrumbs, link{Text: a.Title, Href: safeHref(href(p.URI, a.URI))})
	}
	slices.Reverse(v.Breadcrumbs)
	for _, child := range t.root.Children {
		v.Nav = append(v.Nav, navTree(p, child))
	}
	if p.Element != nil {
		v.Properties = g.properties(t, p)
	}
	return v
}

func navTree(current, p *Page) navItem {
	item := navItem{link: link{Text: p.Title, Href: safeHref(href(current.URI, p.URI)), Active: p == current}}
	for _, c := range p.Children {
		item.Children = append(item.Children, navTree(current, c))
	}
	return item
}

// properties builds the element properties table. The Source row links to
// the element's origin through the run resolver and falls back to the raw
// marker label.
func (g *Generator) properties(t *tree, p *Page) []propertyRow {
	e := p.Element
	rows := []propertyRow{{Name: "Type", Links: []link{{Text: e.Type, Href: safeHref(docHref(g.env.DocURI(), e.Type))}}}}
	if e.Name != e.ID {
		rows = append(rows, propertyRow{Name: "Id", Links: []link{{Text: e.ID}}})
	}
	for _, prop := range e.Properties {
		rows = append(rows, propertyRow{Name: label(prop.Key), Links: []link{{Text: prop.Value}}})
	}
	if len(e.References) > 0 {
		row := propertyRow{Name: "References"}
		for _, ref := range e.References {
			row.Links = append(row.Links, g.referenceLink(t, p, ref))
		}
		rows = append(rows, row)
	}
	if e.Marker != nil {
		src := link{Text: source.Label(e.Marker)}
		if l, ok := g.env.Resolver().Resolve(e.Marker).Get(); ok {
			src = link{Text: l.Text, Href: safeHref(l.Location)}
		}
		rows = append(rows, propertyRow{Name: "Source", Links: []link{src}})
	}
	return rows
}

func (g *Generator) referenceLink(t *tree, p *Page, ref model.Reference) link {
	target, ok := t.byElement[ref.ID]
	if !ok {
		return link{Text: ref.ID}
	}
	return link{Text: target.Title, Href: safeHref(href(p.URI, target.URI))}
}

var allowedSchemes = []string{"http", "https", "mailto", "file"}

// safeHref passes relative references and allowed schemes through untouched.
// file: is allowed because unresolved sources link to their raw location.
func safeHref(s string) template.URL {
	if s == "" {
		return ""
	}
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "" && !slices.Contains(allowedSchemes, strings.ToLower(u.Scheme))) {
		return "#"
	}
	// #nosec G203 -- scheme checked above.
	return template.URL(s)
}

func renderPage(w io.Writer, v pageView) error {
	return pageTemplate.ExecuteTemplate(w, "page.html.tmpl", v)
}
