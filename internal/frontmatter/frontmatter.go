// Package frontmatter splits YAML frontmatter from markdown content files.
package frontmatter

import (
	"bytes"
	"errors"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Document is a content file split into frontmatter fields and markdown body.
type Document struct {
	Fields map[string]any
	Body   []byte
	Had    bool
}

// Keys returns the frontmatter keys in sorted order.
func (d *Document) Keys() []string {
	keys := make([]string, 0, len(d.Fields))
	for k := range d.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the value of a string field, or "" when absent or not a string.
func (d *Document) String(key string) string {
	s, _ := d.Fields[key].(string)
	return s
}

// Parse splits content and decodes its frontmatter.
func Parse(content []byte) (*Document, error) {
	fm, body, had, err := Split(content)
	if err != nil {
		return nil, err
	}
	fields, err := ParseYAML(fm)
	if err != nil {
		return nil, err
	}
	return &Document{Fields: fields, Body: body, Had: had}, nil
}

// Split separates YAML frontmatter (`---` delimited) from the markdown body.
//
// If the document does not start with a frontmatter delimiter, had is false
// and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	start := len(open)
	if bytes.HasPrefix(content[start:], open) {
		return []byte{}, content[start+len(open):], true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	idx := bytes.Index(content[start:], closeSeq)
	if idx < 0 {
		return nil, nil, false, ErrMissingClosingDelimiter
	}
	end := start + idx + len(nl)
	return content[start:end], content[start+idx+len(closeSeq):], true, nil
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(frontmatter) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
