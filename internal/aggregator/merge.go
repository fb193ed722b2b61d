// internal/aggregator/merge.go
package aggregator

import (
	"errors"
	"fmt"

	"github.com/tamzrod/status-aggregator/internal/source"
	"github.com/tamzrod/status-aggregator/internal/status"
)

// merge turns one provider's fetch results into its ProviderResult.
//
// Single-source providers: an error fails the provider.
// Multi-source providers: only a total failure fails the provider; a failing
// region becomes an unknown record so the others still render.
func merge(p Provider, results []source.FetchResult) status.ProviderResult {
	if p.Policy == PolicyPresence {
		return mergePresence(p, results)
	}

	if len(results) == 1 {
		r := results[0]
		if r.Err != nil {
			return status.Unreachable(p.ID, r.Err)
		}
		return status.Summarize(p.ID, r.Records)
	}

	var errs []error
	records := make([]status.ComponentRecord, 0, len(results))

	for i, r := range results {
		if r.Err != nil {
			name := p.Sources[i].ID()
			errs = append(errs, fmt.Errorf("%s: %w", name, r.Err))
			records = append(records, status.ComponentRecord{
				Name:        name,
				RawStatus:   status.RawFetchFailed,
				Condition:   status.ConditionUnknown,
				SeverityTag: status.TagFetchFailed,
			})
			continue
		}
		records = append(records, r.Records...)
	}

	if len(errs) == len(results) {
		return status.Unreachable(p.ID, errors.Join(errs...))
	}
	return status.Summarize(p.ID, records)
}

// mergePresence: any source seeing a marker makes the provider active.
// Any failed source fails the provider.
func mergePresence(p Provider, results []source.FetchResult) status.ProviderResult {
	var errs []error
	active := false

	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
			continue
		}
		if r.Active {
			active = true
		}
	}

	if len(errs) > 0 {
		return status.Unreachable(p.ID, errors.Join(errs...))
	}
	return status.SummarizeProbe(p.ID, active)
}
