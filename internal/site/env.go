// Package site generates the static HTML documentation site from the loaded
// template, site-action tree and domain models.
//
// Page locations are resolved against the run's random base URI and every
// link between pages is deresolved back to a relative reference, so the
// output can be served from any directory.
package site

import (
	"log/slog"
	"net/url"
	"time"

	"git.home.luguber.info/inful/modelsite/internal/markdown"
	"git.home.luguber.info/inful/modelsite/internal/metrics"
	"git.home.luguber.info/inful/modelsite/internal/model"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

// Env is the read-only run environment the generator draws on.
type Env interface {
	BaseURI() *url.URL
	DocURI() string
	Date() time.Time
	Resolver() source.Resolver
	Markdown() *markdown.Renderer
	Recorder() metrics.Recorder
	Logger() *slog.Logger
	Revision() string
}

// Inputs are the loaded models of a run.
type Inputs struct {
	Template *model.Template
	Site     *model.Action
	Models   []*model.Model
	Index    *model.Index
}

// Options configures output.
type Options struct {
	OutputDir  string
	Clean      bool
	Workers    int
	CheckLinks bool
}
