package model

import (
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/errors"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// decoder walks a yaml.v3 node tree, recording markers and content problems.
type decoder struct {
	path     string
	location string
	diag     *diagnostic.Diagnostic
}

// readDocument reads and parses path, returning the root content node and a
// decoder anchored at the file's URI. Unreadable or malformed files are errors.
func readDocument(path, kind string) (*yaml.Node, *decoder, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryModel, "invalid "+kind+" path").
			WithPath(path).Build()
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryModel, "failed to read "+kind).
			WithPath(path).Fatal().Build()
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.WrapError(err, errors.CategoryModel, "failed to parse "+kind).
			WithPath(path).Fatal().Build()
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil, errors.ModelError(kind + " is empty").WithPath(path).Build()
	}
	d := &decoder{
		path:     abs,
		location: source.FileURI(abs),
		diag:     diagnostic.New(diagnostic.StatusOK, "Load "+kind+" "+filepath.Base(abs)),
	}
	d.diag.At(&source.Marker{Location: d.location, Line: 1, Column: 1})
	return doc.Content[0], d, nil
}

func (d *decoder) marker(n *yaml.Node) *source.Marker {
	return &source.Marker{Location: d.location, Line: n.Line, Column: n.Column}
}

// mapping returns the key/value pairs of n in document order. Keys not in
// known are reported as warnings and skipped. Non-mapping nodes are errors.
func (d *decoder) mapping(n *yaml.Node, what string, known ...string) ([]string, map[string]*yaml.Node, bool) {
	n = resolveAlias(n)
	if n.Kind != yaml.MappingNode {
		d.diag.Err(what+" must be a mapping", d.marker(n))
		return nil, nil, false
	}
	keys := make([]string, 0, len(n.Content)/2)
	values := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		key := k.Value
		if len(known) > 0 && !slices.Contains(known, key) {
			d.diag.Warn("Unknown "+what+" key '"+key+"'", d.marker(k))
			continue
		}
		if _, dup := values[key]; dup {
			d.diag.Warn("Duplicate "+what+" key '"+key+"'", d.marker(k))
		} else {
			keys = append(keys, key)
		}
		values[key] = v
	}
	return keys, values, true
}

// scalar returns the string value of a scalar node, reporting other kinds.
func (d *decoder) scalar(n *yaml.Node, what string) string {
	if n == nil {
		return ""
	}
	n = resolveAlias(n)
	if n.Kind != yaml.ScalarNode {
		d.diag.Err(what+" must be a scalar", d.marker(n))
		return ""
	}
	if n.Tag == "!!null" {
		return ""
	}
	return n.Value
}

// scalars accepts a sequence of scalars or a single scalar.
func (d *decoder) scalars(n *yaml.Node, what string) []string {
	if n == nil {
		return nil
	}
	n = resolveAlias(n)
	if n.Kind == yaml.ScalarNode {
		if v := d.scalar(n, what); v != "" {
			return []string{v}
		}
		return nil
	}
	if n.Kind != yaml.SequenceNode {
		d.diag.Err(what+" must be a list", d.marker(n))
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, item := range n.Content {
		if v := d.scalar(item, what+" entry"); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// sequence returns the items of a sequence node.
func (d *decoder) sequence(n *yaml.Node, what string) []*yaml.Node {
	if n == nil {
		return nil
	}
	n = resolveAlias(n)
	if n.Kind != yaml.SequenceNode {
		d.diag.Err(what+" must be a list", d.marker(n))
		return nil
	}
	return n.Content
}

// checkID validates an identifier used in page file names.
func (d *decoder) checkID(id string, n *yaml.Node, what string) bool {
	if idPattern.MatchString(id) {
		return true
	}
	d.diag.Err("Invalid "+what+" id '"+id+"'", d.marker(n))
	return false
}

// readRelative reads a file referenced relative to the document.
func (d *decoder) readRelative(rel string) (string, error) {
	p := rel
	if !filepath.IsAbs(p) {
		p = filepath.Join(filepath.Dir(d.path), filepath.FromSlash(rel))
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n") + "\n", nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}
