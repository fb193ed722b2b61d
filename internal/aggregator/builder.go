// internal/aggregator/builder.go
package aggregator

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/status-aggregator/internal/config"
	"github.com/tamzrod/status-aggregator/internal/logger"
	"github.com/tamzrod/status-aggregator/internal/source"
)

// Build constructs an Aggregator from a validated, normalized config.
// All sources share one HTTP client; its idle connections are released at the end of every cycle.
func Build(c *cfg.Config, log logger.Logger, opts ...Option) (*Aggregator, error) {
	if c == nil {
		return nil, errors.New("aggregator build: nil config")
	}

	timeout := time.Duration(c.Aggregator.TimeoutMs) * time.Millisecond

	getter := source.NewHTTPGetter(nil, source.HTTPConfig{
		Timeout:      timeout,
		MaxBodyBytes: c.Aggregator.MaxBodyBytes,
		UserAgent:    c.Aggregator.UserAgent,
		MaxRedirects: c.Aggregator.MaxRedirects,
	})

	providers, err := BuildProviders(c.Providers, getter, time.Now)
	if err != nil {
		return nil, err
	}

	base := []Option{
		WithLogger(log),
		WithTimeout(timeout),
		WithRelease(getter.CloseIdleConnections),
	}
	return New(providers, append(base, opts...)...)
}

// BuildProviders wires provider configs to sources over get.
func BuildProviders(list []cfg.ProviderConfig, get source.Getter, now func() time.Time) ([]Provider, error) {
	providers := make([]Provider, 0, len(list))

	for _, pc := range list {
		p, err := buildProvider(pc, get, now)
		if err != nil {
			return nil, fmt.Errorf("provider build failed (provider=%s): %w", pc.ID, err)
		}
		providers = append(providers, p)
	}

	return providers, nil
}

func buildProvider(pc cfg.ProviderConfig, get source.Getter, now func() time.Time) (Provider, error) {
	p := Provider{ID: pc.ID, Policy: PolicyCount}

	switch pc.Kind {
	case cfg.KindComponents:
		s, err := source.NewComponents(source.ComponentsConfig{
			ID:       pc.ID,
			Endpoint: pc.Endpoint,
			Allow:    pc.Allow,
			Link:     pc.ComponentLink,
		}, get)
		if err != nil {
			return p, err
		}
		p.Sources = []source.Source{s}

	case cfg.KindIndicator:
		for _, r := range pc.Regions {
			s, err := source.NewIndicator(source.IndicatorConfig{
				Region:   r.ID,
				Endpoint: r.Endpoint,
			}, get)
			if err != nil {
				return p, err
			}
			p.Sources = append(p.Sources, s)
		}

	case cfg.KindPresence:
		s, err := source.NewPresence(source.PresenceConfig{
			ID:       pc.ID,
			Endpoint: pc.Endpoint,
			Markers:  pc.Markers,
		}, get)
		if err != nil {
			return p, err
		}
		p.Policy = PolicyPresence
		p.Sources = []source.Source{s}

	case cfg.KindRSS:
		s, err := source.NewRSS(source.RSSConfig{
			ID:       pc.ID,
			Endpoint: pc.Endpoint,
			Window:   source.Window(pc.Window),
			Now:      now,
		}, get)
		if err != nil {
			return p, err
		}
		p.Sources = []source.Source{s}

	default:
		return p, fmt.Errorf("unsupported kind %q", pc.Kind)
	}

	return p, nil
}
