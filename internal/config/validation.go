package config

import (
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/modelsite/internal/errors"
)

// Validate checks a defaulted configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Site) == "" {
		return errors.ConfigError("site model is required").WithContext("field", "site").Build()
	}
	for i, m := range c.Models {
		if strings.TrimSpace(m) == "" {
			return errors.ConfigError("model path is empty").WithContext("field", "models").WithContext("index", i).Build()
		}
	}
	if c.Render.Workers < 1 {
		return errors.ConfigError("render.workers must be at least 1").WithContext("workers", c.Render.Workers).Build()
	}
	if err := validateAbsoluteURL("source.public_base_url", c.Source.PublicBaseURL); err != nil {
		return err
	}
	if err := validateAbsoluteURL("doc_uri", c.DocURI); err != nil {
		return err
	}
	if _, err := c.Watch.DebounceDuration(); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid watch.debounce").WithContext("debounce", c.Watch.Debounce).Build()
	}
	return nil
}

func validateAbsoluteURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "invalid URL").WithContext("field", field).Build()
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.ConfigError(field+" must be an absolute http(s) URL").WithContext("value", raw).Build()
	}
	return nil
}

// DebounceDuration parses Debounce. Zero or negative durations are errors.
func (w WatchConfig) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.ConfigError("duration must be positive").Build()
	}
	return d, nil
}
