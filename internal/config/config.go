// Package config loads the modelsite.yaml run configuration.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/modelsite/internal/errors"
	"git.home.luguber.info/inful/modelsite/internal/source"
)

// DefaultFile is the configuration file looked up by the CLI.
const DefaultFile = "modelsite.yaml"

// Config is the configuration of a generation run.
type Config struct {
	Template string        `yaml:"template,omitempty"`
	Site     string        `yaml:"site"`
	Models   []string      `yaml:"models,omitempty"`
	Output   OutputConfig  `yaml:"output"`
	Source   SourceConfig  `yaml:"source"`
	DocURI   string        `yaml:"doc_uri,omitempty"`
	Render   RenderConfig  `yaml:"render"`
	Watch    WatchConfig   `yaml:"watch,omitempty"`
	Metrics  MetricsConfig `yaml:"metrics,omitempty"`
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before generation
}

// SourceConfig configures the source link resolver.
type SourceConfig struct {
	// BaseDir is the directory marker locations are made relative to.
	BaseDir         string `yaml:"base_dir"`
	source.Prefixes `yaml:",inline"`
}

// RenderConfig configures page rendering.
type RenderConfig struct {
	Workers    int   `yaml:"workers,omitempty"`
	CheckLinks *bool `yaml:"check_links,omitempty"`
}

// LinkCheck reports whether generated pages are link-checked. Defaults to true.
func (r RenderConfig) LinkCheck() bool {
	return r.CheckLinks == nil || *r.CheckLinks
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"` // duration string, e.g. "300ms"
}

// MetricsConfig configures metrics export.
type MetricsConfig struct {
	// Textfile is written in Prometheus text format after each run when set.
	Textfile string `yaml:"textfile,omitempty"`
}

// Load reads, expands, defaults and validates a configuration file. Relative
// paths in the file are resolved against the file's directory.
func Load(configPath string) (*Config, error) {
	cfg, err := Read(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that override values first.
func Read(configPath string) (*Config, error) {
	loadEnvFile(filepath.Dir(configPath))

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithPath(configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").WithPath(configPath).Build()
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").WithPath(configPath).Build()
	}

	applyDefaults(&cfg)
	dir, err := filepath.Abs(filepath.Dir(configPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to resolve config directory").WithPath(configPath).Build()
	}
	cfg.resolvePaths(dir)
	return &cfg, nil
}

// Default returns a defaulted configuration with paths relative to the
// working directory. The site model is left unset.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func (c *Config) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	c.Template = abs(c.Template)
	c.Site = abs(c.Site)
	for i := range c.Models {
		c.Models[i] = abs(c.Models[i])
	}
	c.Output.Directory = abs(c.Output.Directory)
	c.Source.BaseDir = abs(c.Source.BaseDir)
	c.Metrics.Textfile = abs(c.Metrics.Textfile)
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError("configuration file already exists (use --force to overwrite)").WithPath(configPath).Build()
	}

	checkLinks := true
	example := Config{
		Template: "template.yml",
		Site:     "site.yml",
		Models:   []string{"model.yml"},
		Output:   OutputConfig{Directory: DefaultOutputDirectory, Clean: true},
		Source:   SourceConfig{BaseDir: DefaultBaseDir, Prefixes: source.DefaultPrefixes()},
		DocURI:   DefaultDocURI,
		Render:   RenderConfig{Workers: DefaultWorkers, CheckLinks: &checkLinks},
		Watch:    WatchConfig{Debounce: DefaultDebounce},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil { //nolint:gosec // example configuration, non-sensitive
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").WithPath(configPath).Build()
	}
	return nil
}
