package config

import "git.home.luguber.info/inful/modelsite/internal/source"

const (
	DefaultOutputDirectory = "docs"
	DefaultBaseDir         = "."
	DefaultDocURI          = "https://docs.nasdanika.org/engineering/engineering/"
	DefaultWorkers         = 4
	DefaultDebounce        = "300ms"
)

func applyDefaults(cfg *Config) {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDirectory
	}
	if cfg.Source.BaseDir == "" {
		cfg.Source.BaseDir = DefaultBaseDir
	}

	// Field by field so a config may override a single prefix.
	def := source.DefaultPrefixes()
	if cfg.Source.Known == "" {
		cfg.Source.Known = def.Known
	}
	if cfg.Source.PublicBaseURL == "" {
		cfg.Source.PublicBaseURL = def.PublicBaseURL
	}
	if cfg.Source.Local == "" {
		cfg.Source.Local = def.Local
	}

	if cfg.DocURI == "" {
		cfg.DocURI = DefaultDocURI
	}
	if cfg.Render.Workers == 0 {
		cfg.Render.Workers = DefaultWorkers
	}
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = DefaultDebounce
	}
}
