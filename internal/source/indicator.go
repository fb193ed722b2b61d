// internal/source/indicator.go
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/status-aggregator/internal/status"
)

// IndicatorConfig describes one region of a multi-region provider.
type IndicatorConfig struct {
	Region   string
	Endpoint string
}

// indicatorNone is the page-wide indicator value meaning "all systems operational".
const indicatorNone = "none"

// IndicatorSource reads the page-wide status.indicator of one region.
// Exactly one record per fetch, named after the region.
type IndicatorSource struct {
	cfg IndicatorConfig
	get Getter
}

// NewIndicator creates an indicator source.
func NewIndicator(cfg IndicatorConfig, get Getter) (*IndicatorSource, error) {
	if cfg.Region == "" {
		return nil, errors.New("indicator source: region required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("indicator source %q: endpoint required", cfg.Region)
	}
	if get == nil {
		return nil, fmt.Errorf("indicator source %q: getter required", cfg.Region)
	}
	return &IndicatorSource{cfg: cfg, get: get}, nil
}

func (s *IndicatorSource) ID() string { return s.cfg.Region }

type indicatorDoc struct {
	Status *struct {
		Indicator *string `json:"indicator"`
	} `json:"status"`
}

// Fetch performs exactly one GET and parse.
func (s *IndicatorSource) Fetch(ctx context.Context) FetchResult {
	body, err := s.get.Get(ctx, s.cfg.Endpoint)
	if err != nil {
		return failed(s.cfg.Region, err)
	}

	var doc indicatorDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return failed(s.cfg.Region, fmt.Errorf("decode status: %w", err))
	}
	if doc.Status == nil || doc.Status.Indicator == nil {
		return failed(s.cfg.Region, errors.New("decode status: missing status.indicator"))
	}

	return FetchResult{
		SourceID: s.cfg.Region,
		At:       time.Now(),
		Records:  []status.ComponentRecord{NormalizeIndicator(s.cfg.Region, *doc.Status.Indicator)},
	}
}

// NormalizeIndicator normalizes one region indicator.
func NormalizeIndicator(region, indicator string) status.ComponentRecord {
	if indicator == indicatorNone {
		return status.ComponentRecord{
			Name:      region,
			RawStatus: status.RawOperational,
			Condition: status.ConditionOperational,
		}
	}
	return status.ComponentRecord{
		Name:        region,
		RawStatus:   indicator,
		Condition:   status.ConditionDegraded,
		SeverityTag: indicator,
	}
}
