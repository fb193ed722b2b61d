// internal/source/types.go
package source

import (
	"context"
	"time"

	"github.com/tamzrod/status-aggregator/internal/status"
)

// Source fetches one endpoint and parses it into normalized records.
// Fetch never panics and never returns an error out of band: failures live in FetchResult.Err.
type Source interface {
	ID() string
	Fetch(ctx context.Context) FetchResult
}

// FetchResult is the raw outcome of one fetch.
type FetchResult struct {
	SourceID string
	At       time.Time

	// Records is used by count-based sources.
	Records []status.ComponentRecord

	// Active is used by presence probes: true means an incident marker was seen.
	Active bool

	Err error // non-nil means the fetch failed and Records is empty
}

func failed(id string, err error) FetchResult {
	return FetchResult{
		SourceID: id,
		At:       time.Now(),
		Err:      err,
	}
}
