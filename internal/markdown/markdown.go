// Package markdown renders model descriptions and page content to sanitized HTML.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// DefaultDiagramLanguages are fenced-block languages passed through for
// client-side diagram rendering.
var DefaultDiagramLanguages = []string{"mermaid", "drawio", "plantuml"}

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// Option configures a Renderer.
type Option func(*options)

type options struct {
	diagramLanguages []string
	headingIDs       bool
}

// WithDiagramLanguages replaces DefaultDiagramLanguages.
func WithDiagramLanguages(langs ...string) Option {
	return func(o *options) { o.diagramLanguages = langs }
}

// WithHeadingIDs enables automatic heading ids.
func WithHeadingIDs() Option {
	return func(o *options) { o.headingIDs = true }
}

// NewRenderer builds a GFM renderer with diagram passthrough.
func NewRenderer(opts ...Option) *Renderer {
	o := options{diagramLanguages: DefaultDiagramLanguages}
	for _, opt := range opts {
		opt(&o)
	}

	var parserOpts []parser.Option
	if o.headingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(
			renderer.WithNodeRenderers(util.Prioritized(newDiagramRenderer(o.diagramLanguages), 100)),
		),
	)
	return &Renderer{md: md, policy: newPolicy()}
}

// Render converts src to sanitized HTML. Blank input renders to "".
func (r *Renderer) Render(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	// #nosec G203 -- output is sanitized by the bluemonday policy.
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}
