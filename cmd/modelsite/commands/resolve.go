package commands

import (
	"fmt"
	"net/url"
	"path/filepath"

	"git.home.luguber.info/inful/modelsite/internal/errors"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

// ResolveCmd implements the 'resolve' command.
type ResolveCmd struct {
	Location string `arg:"" help:"Marker location: a file URI or a filesystem path"`
	Line     int    `arg:"" optional:"" help:"1-based line, 0 when unknown"`
	Column   int    `arg:"" optional:"" help:"1-based column, 0 when unknown"`
	BaseDir  string `name:"base-dir" help:"Directory locations are made relative to (overrides source.base_dir)"`
}

func (r *ResolveCmd) Run(global *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	baseDir := cfg.Source.BaseDir
	if r.BaseDir != "" {
		baseDir = r.BaseDir
	}
	resolver, err := source.NewLinkResolver(baseDir,
		source.WithPrefixes(cfg.Source.Prefixes),
		source.WithLogger(global.logger()))
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid base directory").WithContext("base_dir", baseDir).Build()
	}

	location, err := markerLocation(r.Location)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "invalid location").WithContext("location", r.Location).Build()
	}
	m := &source.Marker{Location: location, Line: r.Line, Column: r.Column}
	link, ok := resolver.Resolve(m).Get()
	if !ok {
		return errors.SourceError("location does not resolve to a link").WithContext("location", r.Location).Build()
	}
	_, err = fmt.Fprintf(global.stdout(), "%s\n%s\n", link.Location, link.Text)
	return err
}

// markerLocation returns arg unchanged when it is a URI and the file URI of
// its absolute path otherwise. Single-letter schemes are drive letters.
func markerLocation(arg string) (string, error) {
	if u, err := url.Parse(arg); err == nil && len(u.Scheme) > 1 {
		return arg, nil
	}
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", err
	}
	return source.FileURI(abs), nil
}
