// Package run holds the immutable environment of a generation run and the
// pipeline that loads the models and hands them to the site generator.
package run

import (
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/modelsite/internal/markdown"
	"git.home.luguber.info/inful/modelsite/internal/metrics"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

// BaseURIScheme is the scheme of random base URIs.
const BaseURIScheme = "random"

// Context is the environment of one run. It is built once by NewContext and
// never modified afterwards, so it may be shared by concurrent page renders.
// The zero value is not usable.
type Context struct {
	baseURI  *url.URL
	docURI   string
	date     time.Time
	resolver source.Resolver
	markdown *markdown.Renderer
	recorder metrics.Recorder
	logger   *slog.Logger
	revision string
}

// Option configures a Context under construction.
type Option func(*Context)

// WithBaseURI replaces the random base URI.
func WithBaseURI(u *url.URL) Option {
	return func(c *Context) {
		if u != nil {
			cp := *u
			c.baseURI = &cp
		}
	}
}

// WithDocURI sets the root of the model type documentation.
func WithDocURI(uri string) Option {
	return func(c *Context) { c.docURI = uri }
}

// WithDate sets the generation date shown in page footers.
func WithDate(t time.Time) Option {
	return func(c *Context) { c.date = t }
}

// WithResolver registers the source link resolver.
func WithResolver(r source.Resolver) Option {
	return func(c *Context) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithMarkdown sets the markdown renderer.
func WithMarkdown(r *markdown.Renderer) Option {
	return func(c *Context) {
		if r != nil {
			c.markdown = r
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Context) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Context) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithRevision sets the source revision shown in page footers.
func WithRevision(rev string) Option {
	return func(c *Context) { c.revision = rev }
}

// NewContext builds a Context. Unset parts default to a fresh random base
// URI, the current time, a resolver that never links, a default markdown
// renderer, a no-op recorder and slog.Default().
func NewContext(opts ...Option) *Context {
	c := &Context{
		baseURI:  NewBaseURI(),
		date:     time.Now(),
		resolver: source.NoLinks,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.markdown == nil {
		c.markdown = markdown.NewRenderer()
	}
	return c
}

// NewBaseURI returns a unique "random://<uuid>/<uuid>/" URI. Page locations
// are resolved against it; it never appears in the output.
func NewBaseURI() *url.URL {
	return &url.URL{
		Scheme: BaseURIScheme,
		Host:   uuid.NewString(),
		Path:   "/" + uuid.NewString() + "/",
	}
}

// BaseURI returns a copy of the base URI.
func (c *Context) BaseURI() *url.URL {
	u := *c.baseURI
	return &u
}

func (c *Context) DocURI() string               { return c.docURI }
func (c *Context) Date() time.Time              { return c.date }
func (c *Context) Resolver() source.Resolver    { return c.resolver }
func (c *Context) Markdown() *markdown.Renderer { return c.markdown }
func (c *Context) Recorder() metrics.Recorder   { return c.recorder }
func (c *Context) Logger() *slog.Logger         { return c.logger }
func (c *Context) Revision() string             { return c.revision }
