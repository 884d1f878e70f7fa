package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/modelsite/internal/diagnostic"
	"git.home.luguber.info/inful/modelsite/internal/errors"
	"git.home.luguber.info/inful/modelsite/internal/logfields"
	"git.home.luguber.info/inful/modelsite/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	InputFlags `embed:""`
	Debounce   time.Duration `help:"Quiet period before regenerating (overrides watch.debounce)"`
}

func (w *WatchCmd) Run(global *Global, root *CLI) error {
	cfg, err := prepareConfig(root, w.InputFlags)
	if err != nil {
		return err
	}
	debounce := w.Debounce
	if debounce <= 0 {
		if debounce, err = cfg.Watch.DebounceDuration(); err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "invalid watch.debounce").Build()
		}
	}
	logger := global.logger()
	s, err := newSession(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// A failed run is reported and watching continues; the next edit may fix it.
	regenerate := func(ctx context.Context) {
		if err := s.generate(ctx, global.stderr()); err != nil {
			if _, aborted := diagnostic.AsError(err); !aborted {
				logger.Error("Generation failed", logfields.Error(err))
			}
		}
	}
	regenerate(ctx)

	in := s.inputs()
	paths := append([]string{in.Site}, in.Models...)
	if in.Template != "" {
		paths = append(paths, in.Template)
	}
	logger.Info("Watching for changes", logfields.Count(len(paths)), logfields.Path(cfg.Output.Directory))
	return watch.Run(ctx, watch.Options{
		Paths:    paths,
		Ignore:   []string{cfg.Output.Directory},
		Debounce: debounce,
		Logger:   logger,
	}, regenerate)
}
