package main

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/modelsite/cmd/modelsite/commands"
	"git.home.luguber.info/inful/modelsite/internal/errors"
	"git.home.luguber.info/inful/modelsite/internal/version"
)

func main() {
	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("modelsite"),
		kong.Description("Generate a static documentation site from YAML models."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	// AfterApply has installed the configured default logger by now.
	global := &commands.Global{Logger: slog.Default(), Out: os.Stdout, Err: os.Stderr}
	err := parser.Run(global, &cli)
	os.Exit(errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Handle(err))
}
