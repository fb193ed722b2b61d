// internal/source/components.go
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tamzrod/status-aggregator/internal/status"
)

// ComponentsConfig describes one components.json-shaped endpoint.
type ComponentsConfig struct {
	ID       string
	Endpoint string

	// Allow, when non-empty, keeps only components whose name is listed.
	Allow []string

	// Link is an optional per-component URL template; "{id}" is replaced by the component id.
	Link string
}

// ComponentsSource reads a status page components list.
type ComponentsSource struct {
	cfg   ComponentsConfig
	get   Getter
	allow map[string]struct{}
}

// NewComponents creates a components source with immutable config.
func NewComponents(cfg ComponentsConfig, get Getter) (*ComponentsSource, error) {
	if cfg.ID == "" {
		return nil, errors.New("components source: id required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("components source %q: endpoint required", cfg.ID)
	}
	if get == nil {
		return nil, fmt.Errorf("components source %q: getter required", cfg.ID)
	}

	var allow map[string]struct{}
	if len(cfg.Allow) > 0 {
		allow = make(map[string]struct{}, len(cfg.Allow))
		for _, name := range cfg.Allow {
			allow[name] = struct{}{}
		}
	}

	return &ComponentsSource{cfg: cfg, get: get, allow: allow}, nil
}

func (s *ComponentsSource) ID() string { return s.cfg.ID }

// Components is a pointer so an absent or null list can be told apart from an empty one.
type componentsDoc struct {
	Components *[]json.RawMessage `json:"components"`
}

type componentEntry struct {
	ID     json.RawMessage `json:"id"`
	Name   *string         `json:"name"`
	Status *string         `json:"status"`
}

var errMissingComponents = errors.New("decode components: missing components list")

// Fetch performs exactly one GET and parse.
func (s *ComponentsSource) Fetch(ctx context.Context) FetchResult {
	body, err := s.get.Get(ctx, s.cfg.Endpoint)
	if err != nil {
		return failed(s.cfg.ID, err)
	}

	records, err := s.parse(body)
	if err != nil {
		return failed(s.cfg.ID, err)
	}

	return FetchResult{
		SourceID: s.cfg.ID,
		At:       time.Now(),
		Records:  records,
	}
}

func (s *ComponentsSource) parse(body []byte) ([]status.ComponentRecord, error) {
	var doc componentsDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode components: %w", err)
	}

	if doc.Components == nil {
		return nil, errMissingComponents
	}

	records := make([]status.ComponentRecord, 0, len(*doc.Components))
	for _, raw := range *doc.Components {
		// partial or mistyped entries are skipped, the rest of the document still counts
		var c componentEntry
		if err := json.Unmarshal(raw, &c); err != nil {
			continue
		}
		if c.Name == nil || c.Status == nil || *c.Name == "" {
			continue
		}
		if s.allow != nil {
			if _, ok := s.allow[*c.Name]; !ok {
				continue
			}
		}

		rec := NormalizeComponent(*c.Name, *c.Status)
		if s.cfg.Link != "" {
			if id := entryID(c.ID); id != "" {
				rec.Link = strings.ReplaceAll(s.cfg.Link, "{id}", id)
			}
		}
		records = append(records, rec)
	}

	return records, nil
}

// NormalizeComponent normalizes one raw component status.
// Operational iff raw equals "operational" ignoring case; anything else is degraded and tagged.
func NormalizeComponent(name, raw string) status.ComponentRecord {
	if strings.EqualFold(raw, status.RawOperational) {
		return status.ComponentRecord{
			Name:      name,
			RawStatus: raw,
			Condition: status.ConditionOperational,
		}
	}
	return status.ComponentRecord{
		Name:        name,
		RawStatus:   raw,
		Condition:   status.ConditionDegraded,
		SeverityTag: raw,
	}
}

// entryID accepts both string and numeric ids.
func entryID(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
