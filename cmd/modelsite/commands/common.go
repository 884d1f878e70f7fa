package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/modelsite/internal/config"
	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/errors"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
	"git.home.luguber.info/inful/modelsite/internal/markdown"
	"git.home.luguber.info/inful/modelsite/internal/metrics"
	"git.home.luguber.info/inful/modelsite/internal/run"
	"git.home.luguber.info/inful/modelsite/internal/site"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
	Out    io.Writer
	Err    io.Writer
}

func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Global) stdout() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

func (g *Global) stderr() io.Writer {
	if g == nil || g.Err == nil {
		return os.Stderr
	}
	return g.Err
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"modelsite.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" help:"Generate the documentation site from the configured models"`
	Watch    WatchCmd    `cmd:"" help:"Generate, then regenerate whenever a model file changes"`
	Resolve  ResolveCmd  `cmd:"" help:"Print the source link of a marker location"`
	Init     InitCmd     `cmd:"" help:"Initialize a new configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// InputFlags override configuration values for generate and watch.
type InputFlags struct {
	Template    string   `short:"t" help:"UI template model file"`
	Site        string   `short:"s" help:"Site action model file"`
	Models      []string `short:"m" help:"Domain model files"`
	Output      string   `short:"o" help:"Output directory for the generated site"`
	Clean       bool     `help:"Clean the output directory before generating"`
	Workers     int      `help:"Number of pages written in parallel"`
	NoLinkCheck bool     `name:"no-link-check" help:"Skip checking links of generated pages"`
	BaseDir     string   `name:"base-dir" help:"Directory source locations are made relative to"`
}

func (f InputFlags) apply(cfg *config.Config) {
	if f.Template != "" {
		cfg.Template = f.Template
	}
	if f.Site != "" {
		cfg.Site = f.Site
	}
	if len(f.Models) > 0 {
		cfg.Models = f.Models
	}
	if f.Output != "" {
		cfg.Output.Directory = f.Output
	}
	if f.Clean {
		cfg.Output.Clean = true
	}
	if f.Workers > 0 {
		cfg.Render.Workers = f.Workers
	}
	if f.NoLinkCheck {
		off := false
		cfg.Render.CheckLinks = &off
	}
	if f.BaseDir != "" {
		cfg.Source.BaseDir = f.BaseDir
	}
}

// loadConfig reads the configuration file. A missing default file yields
// the default configuration; a missing explicit file is an error.
func loadConfig(root *CLI) (*config.Config, error) {
	if _, err := os.Stat(root.Config); err == nil {
		return config.Read(root.Config)
	}
	if root.Config != config.DefaultFile {
		return nil, errors.ConfigError("configuration file not found").WithPath(root.Config).Build()
	}
	return config.Default(), nil
}

func prepareConfig(root *CLI, flags InputFlags) (*config.Config, error) {
	cfg, err := loadConfig(root)
	if err != nil {
		return nil, err
	}
	flags.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// session holds what successive runs of one process share. Every run still
// gets its own run.Context.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prom.Registry
	recorder metrics.Recorder
	resolver *source.LinkResolver
	markdown *markdown.Renderer
	revision string
}

func newSession(cfg *config.Config, logger *slog.Logger) (*session, error) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	resolver, err := source.NewLinkResolver(cfg.Source.BaseDir,
		source.WithPrefixes(cfg.Source.Prefixes),
		source.WithLogger(logger),
		source.WithRecorder(rec))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid source base directory").WithContext("base_dir", cfg.Source.BaseDir).Build()
	}
	revision, err := run.Revision(cfg.Source.BaseDir)
	if err != nil {
		logger.Debug("No revision available", logfields.Path(cfg.Source.BaseDir), logfields.Error(err))
	}
	return &session{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		recorder: rec,
		resolver: resolver,
		markdown: markdown.NewRenderer(markdown.WithHeadingIDs()),
		revision: revision,
	}, nil
}

func (s *session) inputs() run.Inputs {
	return run.Inputs{Template: s.cfg.Template, Site: s.cfg.Site, Models: s.cfg.Models}
}

// generate runs the pipeline once and reports the run's diagnostic to errOut.
func (s *session) generate(ctx context.Context, errOut io.Writer) error {
	rc := run.NewContext(
		run.WithDocURI(s.cfg.DocURI),
		run.WithResolver(s.resolver),
		run.WithMarkdown(s.markdown),
		run.WithRecorder(s.recorder),
		run.WithLogger(s.logger),
		run.WithRevision(s.revision),
	)
	pipeline := run.NewPipeline(rc, site.Options{
		OutputDir:  s.cfg.Output.Directory,
		Clean:      s.cfg.Output.Clean,
		Workers:    s.cfg.Render.Workers,
		CheckLinks: s.cfg.Render.LinkCheck(),
	})

	root, err := pipeline.Run(ctx, s.inputs())
	reporter := &diagnostic.Reporter{Out: errOut, Indent: diagnostic.DefaultIndent, Resolver: s.resolver}
	err = reporter.Report(root, err)
	s.writeMetrics()

	if _, aborted := diagnostic.AsError(err); aborted {
		if _, classified := errors.AsClassified(err); !classified {
			err = errors.WrapError(err, errors.CategoryGenerate, "generation aborted").Build()
		}
	}
	return err
}

func (s *session) writeMetrics() {
	path := s.cfg.Metrics.Textfile
	if path == "" {
		return
	}
	if err := prom.WriteToTextfile(path, s.registry); err != nil {
		s.logger.Warn("Failed to write metrics textfile", logfields.Path(path), logfields.Error(err))
	}
}
