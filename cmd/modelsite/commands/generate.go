package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	InputFlags `embed:""`
}

func (g *GenerateCmd) Run(global *Global, root *CLI) error {
	cfg, err := prepareConfig(root, g.InputFlags)
	if err != nil {
		return err
	}
	s, err := newSession(cfg, global.logger())
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return s.generate(ctx, global.stderr())
}
