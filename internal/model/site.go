package model

import (
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/frontmatter"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

// Action is a node of the site-action tree. Each action becomes a page.
type Action struct {
	ID       string
	Text     string
	Location string // output path, derived from ID or Text when empty
	Icon     string
	Content  string // markdown
	Children []*Action
	Marker   *source.Marker
}

var actionKeys = []string{"id", "text", "location", "icon", "content", "content-file", "children"}

// Walk visits a and its descendants depth-first.
func (a *Action) Walk(fn func(*Action)) {
	if a == nil {
		return
	}
	fn(a)
	for _, c := range a.Children {
		c.Walk(fn)
	}
}

// LoadSite loads a site-action model file. The document root is the root action.
func LoadSite(path string) (*Action, *diagnostic.Diagnostic, error) {
	root, d, err := readDocument(path, "site")
	if err != nil {
		return nil, nil, err
	}
	ids := make(map[string]*source.Marker)
	action := d.action(root, ids)
	if action == nil {
		action = &Action{Text: DefaultTitle, Marker: d.marker(root)}
	}
	return action, d.diag, nil
}

func (d *decoder) action(n *yaml.Node, ids map[string]*source.Marker) *Action {
	_, values, ok := d.mapping(n, "action", actionKeys...)
	if !ok {
		return nil
	}
	a := &Action{Marker: d.marker(n)}
	a.Text = d.scalar(values["text"], "action text")
	if idNode, found := values["id"]; found {
		a.ID = d.scalar(idNode, "action id")
		if a.ID != "" && d.checkID(a.ID, idNode, "action") {
			if prev, dup := ids[a.ID]; dup {
				d.diag.Err("Duplicate action id '"+a.ID+"', first defined at "+prev.Position(), d.marker(idNode))
			} else {
				ids[a.ID] = d.marker(idNode)
			}
		}
	}
	a.Location = d.scalar(values["location"], "action location")
	a.Icon = d.scalar(values["icon"], "action icon")
	a.Content = d.scalar(values["content"], "action content")

	if fileNode, found := values["content-file"]; found {
		if a.Content != "" {
			d.diag.Warn("Action has both content and content-file, content ignored", d.marker(fileNode))
		}
		if rel := d.scalar(fileNode, "action content-file"); rel != "" {
			content, err := d.readRelative(rel)
			if err != nil {
				d.diag.Err("Cannot read content-file '"+rel+"': "+err.Error(), d.marker(fileNode))
			} else {
				d.contentFile(a, content, d.marker(fileNode))
			}
		}
	}
	if a.Text == "" {
		d.diag.Err("Action has no text", a.Marker)
	}

	for _, child := range d.sequence(values["children"], "action children") {
		if c := d.action(child, ids); c != nil {
			a.Children = append(a.Children, c)
		}
	}
	return a
}

// contentFile keeps the markdown body of a content file as the action's
// content. A frontmatter title names an action that has no text.
func (d *decoder) contentFile(a *Action, content string, m *source.Marker) {
	doc, err := frontmatter.Parse([]byte(content))
	if err != nil {
		d.diag.Err("Invalid frontmatter in content-file: "+err.Error(), m)
		return
	}
	for _, key := range doc.Keys() {
		if key != "title" {
			d.diag.Warn("Unknown content-file frontmatter key '"+key+"'", m)
		}
	}
	if a.Text == "" {
		a.Text = doc.String("title")
	}
	a.Content = string(doc.Body)
}
