// internal/status/summarize.go
package status

import (
	"sort"
	"strings"
)

// SortRecords returns a copy of records with non-operational records first.
// Relative order inside each class is kept.
func SortRecords(records []ComponentRecord) []ComponentRecord {
	out := make([]ComponentRecord, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Operational() && out[j].Operational()
	})
	return out
}

// CountNonOperational counts records not in the operational condition.
func CountNonOperational(records []ComponentRecord) int {
	n := 0
	for _, r := range records {
		if !r.Operational() {
			n++
		}
	}
	return n
}

// Summarize builds the result for a count-based provider.
func Summarize(id string, records []ComponentRecord) ProviderResult {
	sorted := SortRecords(records)
	bad := CountNonOperational(sorted)
	color, label := Classify(bad)

	cond := ConditionOperational
	if bad > 0 {
		cond = ConditionDegraded
	}

	return ProviderResult{
		ID:        id,
		Records:   sorted,
		Condition: cond,
		Label:     label,
		Color:     color,
	}
}

// SummarizeProbe builds the result for a presence-probe provider.
func SummarizeProbe(id string, active bool) ProviderResult {
	color, label := Probe(active)

	cond := ConditionOperational
	if active {
		cond = ConditionError
	}

	return ProviderResult{
		ID:        id,
		Records:   []ComponentRecord{},
		Condition: cond,
		Label:     label,
		Color:     color,
	}
}

// Unreachable builds the result for a provider whose fetch failed.
// A failure is never reported as operational.
func Unreachable(id string, err error) ProviderResult {
	msg := "fetch failed"
	if err != nil && err.Error() != "" {
		// joined errors render on one line
		msg = strings.ReplaceAll(err.Error(), "\n", "; ")
	}

	return ProviderResult{
		ID:         id,
		Records:    []ComponentRecord{},
		Condition:  ConditionUnknown,
		Label:      LabelUnknown,
		Color:      ColorRed,
		FetchError: msg,
	}
}
