// internal/source/presence.go
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultMarkers are the Atom and RSS entry markers.
var DefaultMarkers = []string{"<entry>", "<item>"}

// PresenceConfig describes one feed probed for incident markers.
type PresenceConfig struct {
	ID       string
	Endpoint string
	Markers  []string // empty => DefaultMarkers
}

// PresenceSource treats any entry marker in the raw feed body as an active incident.
// It is a presence probe, not a feed reader: the body is never parsed as XML.
type PresenceSource struct {
	cfg     PresenceConfig
	get     Getter
	markers [][]byte
}

// NewPresence creates a presence probe.
func NewPresence(cfg PresenceConfig, get Getter) (*PresenceSource, error) {
	if cfg.ID == "" {
		return nil, errors.New("presence source: id required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("presence source %q: endpoint required", cfg.ID)
	}
	if get == nil {
		return nil, fmt.Errorf("presence source %q: getter required", cfg.ID)
	}

	list := cfg.Markers
	if len(list) == 0 {
		list = DefaultMarkers
	}
	markers := make([][]byte, 0, len(list))
	for _, m := range list {
		if m == "" {
			continue
		}
		markers = append(markers, []byte(m))
	}
	if len(markers) == 0 {
		return nil, fmt.Errorf("presence source %q: at least one non-empty marker required", cfg.ID)
	}

	return &PresenceSource{cfg: cfg, get: get, markers: markers}, nil
}

func (s *PresenceSource) ID() string { return s.cfg.ID }

// Fetch performs exactly one GET and probe.
func (s *PresenceSource) Fetch(ctx context.Context) FetchResult {
	body, err := s.get.Get(ctx, s.cfg.Endpoint)
	if err != nil {
		return failed(s.cfg.ID, err)
	}

	return FetchResult{
		SourceID: s.cfg.ID,
		At:       time.Now(),
		Active:   s.hasMarker(body),
	}
}

func (s *PresenceSource) hasMarker(body []byte) bool {
	for _, m := range s.markers {
		if bytes.Contains(body, m) {
			return true
		}
	}
	return false
}
