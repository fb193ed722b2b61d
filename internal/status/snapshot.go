// internal/status/snapshot.go
package status

import (
	"sort"
	"time"
)

// ComponentRecord is one named sub-system of a provider as seen in one refresh cycle.
// Produced fresh every cycle and never mutated afterwards.
type ComponentRecord struct {
	Name        string    `json:"name"`
	RawStatus   string    `json:"raw_status"`
	Condition   Condition `json:"condition"`
	SeverityTag string    `json:"severity_tag,omitempty"`
	Link        string    `json:"link,omitempty"`
}

// Operational reports whether the record is in the operational condition.
func (r ComponentRecord) Operational() bool {
	return r.Condition == ConditionOperational
}

// ProviderResult is the classified outcome for one provider.
// If FetchError is set, Records is empty and Condition/Label/Color carry the unknown policy.
type ProviderResult struct {
	ID         string            `json:"id"`
	Records    []ComponentRecord `json:"records"`
	Condition  Condition         `json:"condition"`
	Label      string            `json:"label"`
	Color      ColorTier         `json:"color"`
	FetchError string            `json:"fetch_error,omitempty"`
}

// Failed reports whether the provider could not be fetched this cycle.
func (p ProviderResult) Failed() bool {
	return p.FetchError != ""
}

// Snapshot is the complete aggregated result of one refresh cycle.
// It contains no logic and no memory of previous cycles.
type Snapshot struct {
	Providers   map[string]ProviderResult `json:"providers"`
	GeneratedAt time.Time                 `json:"generated_at"`
}

// ProviderIDs returns the provider ids in lexical order.
func (s Snapshot) ProviderIDs() []string {
	ids := make([]string, 0, len(s.Providers))
	for id := range s.Providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
