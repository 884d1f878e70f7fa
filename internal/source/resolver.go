package source

import (
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/modelsite/internal/errors"
	"git.home.luguber.info/inful/modelsite/internal/foundation"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
	"git.home.luguber.info/inful/modelsite/internal/metrics"
)

// Resolver maps a marker to a Link. Absence is an expected outcome, not an error.
type Resolver interface {
	Resolve(m *Marker) foundation.Option[Link]
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(m *Marker) foundation.Option[Link]

// Resolve calls f(m).
func (f ResolverFunc) Resolve(m *Marker) foundation.Option[Link] {
	return f(m)
}

// NoLinks is a Resolver that never resolves; callers fall back to raw labels.
var NoLinks Resolver = ResolverFunc(func(*Marker) foundation.Option[Link] {
	return foundation.None[Link]()
})

// Resolve normalizes m against the canonical baseDir and formats the Link.
func Resolve(m *Marker, baseDir string, p Prefixes) (Link, error) {
	if m == nil || isBlank(m.Location) {
		return Link{}, errors.SourceError("marker has no location").Build()
	}
	rel, err := Normalize(m.Location, baseDir)
	if err != nil {
		return Link{}, err
	}
	return Format(rel, *m, p), nil
}

// LinkResolver is the default Resolver. Its fields are fixed at construction.
type LinkResolver struct {
	baseDir  string
	prefixes Prefixes
	logger   *slog.Logger
	recorder metrics.Recorder
}

// ResolverOption configures a LinkResolver.
type ResolverOption func(*LinkResolver)

// WithPrefixes overrides DefaultPrefixes.
func WithPrefixes(p Prefixes) ResolverOption {
	return func(r *LinkResolver) { r.prefixes = p }
}

// WithLogger sets the logger used for unresolvable markers.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *LinkResolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) ResolverOption {
	return func(r *LinkResolver) {
		if rec != nil {
			r.recorder = rec
		}
	}
}

// NewLinkResolver canonicalizes baseDir once and returns a resolver anchored there.
func NewLinkResolver(baseDir string, opts ...ResolverOption) (*LinkResolver, error) {
	if baseDir == "" {
		baseDir = "."
	}
	canonical, err := CanonicalPath(baseDir)
	if err != nil {
		return nil, err
	}
	r := &LinkResolver{
		baseDir:  canonical,
		prefixes: DefaultPrefixes(),
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// BaseDir returns the canonical base directory.
func (r *LinkResolver) BaseDir() string { return r.baseDir }

// Prefixes returns the rewrite prefixes.
func (r *LinkResolver) Prefixes() Prefixes { return r.prefixes }

// Resolve returns the Link for m, or None when m is nil, has a blank location,
// or its location cannot be normalized. It never panics.
func (r *LinkResolver) Resolve(m *Marker) (out foundation.Option[Link]) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Warn("Source resolution panicked", logfields.Error(fmt.Errorf("%v", rec)))
			r.recorder.IncSourceResolve(metrics.ResolveFailed)
			out = foundation.None[Link]()
		}
	}()

	if m == nil || isBlank(m.Location) {
		r.recorder.IncSourceResolve(metrics.ResolveAbsent)
		return foundation.None[Link]()
	}

	link, err := Resolve(m, r.baseDir, r.prefixes)
	if err != nil {
		r.logger.Debug("Cannot resolve source location",
			logfields.Location(m.Location),
			logfields.Line(m.Line),
			logfields.Column(m.Column),
			logfields.Error(err))
		r.recorder.IncSourceResolve(metrics.ResolveFailed)
		return foundation.None[Link]()
	}

	if link.Location == m.Location {
		r.recorder.IncSourceResolve(metrics.ResolveRaw)
	} else {
		r.recorder.IncSourceResolve(metrics.ResolveLinked)
	}
	return foundation.Some(link)
}
