package run

import (
	"context"
	"time"

	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
	"git.home.luguber.info/inful/modelsite/internal/metrics"
	"git.home.luguber.info/inful/modelsite/internal/model"
	"git.home.luguber.info/inful/modelsite/internal/site"
)

// Stage names used for metrics and logs.
const (
	StageLoad     = "load"
	StageGenerate = "generate"
)

// Inputs are the model files of a run. Template may be empty.
type Inputs struct {
	Template string
	Site     string
	Models   []string
}

// Pipeline loads the models of a run and generates the site.
type Pipeline struct {
	rc   *Context
	opts site.Options
}

// NewPipeline creates a pipeline bound to a run context.
func NewPipeline(rc *Context, opts site.Options) *Pipeline {
	return &Pipeline{rc: rc, opts: opts}
}

// Run executes the load and generate stages. The returned diagnostic is the
// root of the run tree. An input that cannot be read or parsed, or output
// that cannot be written, aborts the run with a *diagnostic.Error carrying
// the whole tree.
func (p *Pipeline) Run(ctx context.Context, in Inputs) (*diagnostic.Diagnostic, error) {
	start := time.Now()
	root := diagnostic.New(diagnostic.StatusOK, "Run")

	var loaded site.Inputs
	err := p.stage(StageLoad, func() error {
		var lerr error
		loaded, lerr = p.load(root, in)
		return lerr
	})
	if err == nil {
		err = p.stage(StageGenerate, func() error {
			gen, gerr := site.NewGenerator(p.rc, p.opts).Generate(ctx, loaded)
			root.Add(gen)
			if de, ok := diagnostic.AsError(gerr); ok {
				return de.WithRoot(root)
			}
			return gerr
		})
	}

	p.record(root, err, time.Since(start))
	return root, err
}

func (p *Pipeline) load(root *diagnostic.Diagnostic, in Inputs) (site.Inputs, error) {
	var out site.Inputs

	if in.Template != "" {
		t, d, err := model.LoadTemplate(in.Template)
		if err != nil {
			return out, diagnostic.Fail(root, "Cannot load template "+in.Template, err)
		}
		root.Merge(d)
		out.Template = t
	}

	if in.Site != "" {
		a, d, err := model.LoadSite(in.Site)
		if err != nil {
			return out, diagnostic.Fail(root, "Cannot load site "+in.Site, err)
		}
		root.Merge(d)
		out.Site = a
	}

	for _, path := range in.Models {
		m, d, err := model.LoadModel(path)
		if err != nil {
			return out, diagnostic.Fail(root, "Cannot load model "+path, err)
		}
		root.Merge(d)
		out.Models = append(out.Models, m)
	}

	index, d := model.NewIndex(out.Models...)
	root.Merge(d)
	out.Index = index
	p.rc.Logger().Debug("Models loaded", logfields.Count(index.Len()))
	return out, nil
}

func (p *Pipeline) stage(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.rc.Recorder().ObserveStageDuration(name, elapsed)
	p.rc.Logger().Debug("Stage finished",
		logfields.Stage(name),
		logfields.DurationMS(float64(elapsed.Milliseconds())),
		logfields.Error(err))
	return err
}

func (p *Pipeline) record(root *diagnostic.Diagnostic, err error, elapsed time.Duration) {
	rec := p.rc.Recorder()
	rec.ObserveRunDuration(elapsed)
	root.Walk(func(n *diagnostic.Diagnostic, _ int) {
		if s := n.OwnStatus(); s > diagnostic.StatusOK {
			rec.IncDiagnostics(s.String())
		}
	})

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailed
	case root.Status() > diagnostic.StatusOK:
		outcome = metrics.OutcomeWarning
	}
	rec.IncRunOutcome(outcome)
	p.rc.Logger().Info("Run finished",
		logfields.Status(root.Status().String()),
		logfields.DurationMS(float64(elapsed.Milliseconds())))
}
