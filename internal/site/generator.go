package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/errors"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
	"git.home.luguber.info/inful/modelsite/internal/model"
)

// Generator writes the site of one run.
type Generator struct {
	env  Env
	opts Options
}

// NewGenerator creates a generator. Workers defaults to GOMAXPROCS.
func NewGenerator(env Env, opts Options) *Generator {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Generator{env: env, opts: opts}
}

// Generate builds the page tree, renders markdown and writes every page.
// Problems in the inputs are reported in the returned diagnostic. Failing to
// prepare or write the output aborts the run with a *diagnostic.Error.
func (g *Generator) Generate(ctx context.Context, in Inputs) (*diagnostic.Diagnostic, error) {
	diag := diagnostic.New(diagnostic.StatusOK, "Generate site")
	tmpl := in.Template
	if tmpl == nil {
		tmpl = &model.Template{Title: model.DefaultTitle}
	}

	t := buildTree(g.env.BaseURI(), in, diag)
	c := g.chrome(tmpl, diag)
	g.renderContent(t, diag)

	if err := g.prepareOutput(); err != nil {
		return diag, diagnostic.Fail(diag, "Cannot prepare output directory '"+g.opts.OutputDir+"'", err)
	}

	start := time.Now()
	written, err := g.writePages(ctx, t, c)
	g.env.Recorder().IncPagesWritten(written)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return diag, diagnostic.Fail(diag, fmt.Sprintf("Generation cancelled after %d pages", written), ctxErr)
		}
		return diag, diagnostic.Fail(diag, "Cannot write pages", err)
	}
	diag.AddChild(diagnostic.StatusOK, fmt.Sprintf("Wrote %d pages to %s", written, g.opts.OutputDir), nil)
	g.env.Logger().Info("Site written",
		logfields.Path(g.opts.OutputDir),
		logfields.Count(written),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))

	if g.opts.CheckLinks {
		diag.Merge(CheckLinks(g.opts.OutputDir, t.pages))
	}
	return diag, nil
}

func (g *Generator) chrome(tmpl *model.Template, diag *diagnostic.Diagnostic) chrome {
	c := chrome{
		Title:       tmpl.Title,
		Description: tmpl.Description,
		Theme:       tmpl.Theme,
		Stylesheets: tmpl.Stylesheets,
		Scripts:     tmpl.Scripts,
		Generated:   g.env.Date().Format(dateLayout),
		Revision:    g.env.Revision(),
	}
	var err error
	if c.Header, err = g.env.Markdown().Render(tmpl.Header); err != nil {
		diag.Err("Cannot render template header: "+err.Error(), tmpl.Marker)
	}
	if c.Footer, err = g.env.Markdown().Render(tmpl.Footer); err != nil {
		diag.Err("Cannot render template footer: "+err.Error(), tmpl.Marker)
	}
	return c
}

func (g *Generator) renderContent(t *tree, diag *diagnostic.Diagnostic) {
	for _, p := range t.pages {
		html, err := g.env.Markdown().Render(p.Markdown)
		if err != nil {
			diag.Err("Cannot render content of '"+p.Title+"': "+err.Error(), p.Marker)
			continue
		}
		p.content = html
	}
}

func (g *Generator) prepareOutput() error {
	dir := g.opts.OutputDir
	if dir == "" {
		return errors.ConfigError("output directory is not set").Build()
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "resolve output directory").WithPath(dir).Build()
	}
	if g.opts.Clean {
		if abs == filepath.Dir(abs) {
			return errors.ValidationError("refusing to clean a filesystem root").WithPath(abs).Build()
		}
		if err := os.RemoveAll(abs); err != nil {
			return errors.WrapError(err, errors.CategoryFileSystem, "clean output directory").WithPath(abs).Build()
		}
		g.env.Logger().Debug("Cleaned output directory", logfields.Path(abs))
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create output directory").WithPath(abs).Build()
	}
	return nil
}

func (g *Generator) writePages(ctx context.Context, t *tree, c chrome) (int, error) {
	eg, ectx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Workers)

	var written atomic.Int64
	for _, p := range t.pages {
		eg.Go(func() error {
			if err := ectx.Err(); err != nil {
				return err
			}
			if err := g.writePage(t, p, c); err != nil {
				return err
			}
			written.Add(1)
			return nil
		})
	}
	err := eg.Wait()
	return int(written.Load()), err
}

func (g *Generator) writePage(t *tree, p *Page, c chrome) error {
	var buf bytes.Buffer
	if err := renderPage(&buf, g.view(t, p, c)); err != nil {
		return errors.WrapError(err, errors.CategoryGenerate, "render page").WithContext("page", p.Path).Build()
	}
	target := filepath.Join(g.opts.OutputDir, filepath.FromSlash(p.Path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "create page directory").WithPath(target).Build()
	}
	if err := os.WriteFile(target, buf.Bytes(), 0o644); err != nil { //nolint:gosec // public HTML output, non-sensitive
		return errors.WrapError(err, errors.CategoryFileSystem, "write page").WithPath(target).Build()
	}
	g.env.Logger().Debug("Page written", logfields.Page(p.Path))
	return nil
}
