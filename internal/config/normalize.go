// internal/config/normalize.go
package config

import "strings"

// Normalize applies post-validation defaults.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	a := &cfg.Aggregator
	if a.TimeoutMs <= 0 {
		a.TimeoutMs = DefaultTimeoutMs
	}
	if a.MaxBodyBytes <= 0 {
		a.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if a.MaxRedirects <= 0 {
		a.MaxRedirects = DefaultMaxRedirects
	}
	if strings.TrimSpace(a.UserAgent) == "" {
		a.UserAgent = DefaultUserAgent
	}

	for pi := range cfg.Providers {
		p := &cfg.Providers[pi]

		// rss window defaults to unconditional
		if p.Kind == KindRSS && p.Window == "" {
			p.Window = WindowAll
		}
	}
}
