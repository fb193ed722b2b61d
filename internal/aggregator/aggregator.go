// internal/aggregator/aggregator.go
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tamzrod/status-aggregator/internal/logger"
	"github.com/tamzrod/status-aggregator/internal/source"
	"github.com/tamzrod/status-aggregator/internal/status"
)

// DefaultTimeout is the per-call fetch budget.
const DefaultTimeout = 10 * time.Second

// Policy selects how a provider's fetch results are classified.
type Policy int

const (
	// PolicyCount classifies by the number of non-operational records.
	PolicyCount Policy = iota

	// PolicyPresence uses the two-state incident-marker policy.
	PolicyPresence
)

// Provider is one external status source and the sources that feed it.
// Multi-region providers carry one source per region, merged in order.
type Provider struct {
	ID      string
	Policy  Policy
	Sources []source.Source
}

// Aggregator fans out every source once per cycle and assembles a Snapshot.
// It holds no state between cycles.
type Aggregator struct {
	providers []Provider
	log       logger.Logger
	timeout   time.Duration
	now       func() time.Time
	release   func()
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger. Default: no-op.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) { a.log = l }
}

// WithTimeout sets the per-call budget. Non-positive values keep DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithRelease registers a hook run once at the end of every cycle,
// e.g. closing idle connections of the shared HTTP client.
func WithRelease(fn func()) Option {
	return func(a *Aggregator) { a.release = fn }
}

// New creates an aggregator with immutable provider wiring.
func New(providers []Provider, opts ...Option) (*Aggregator, error) {
	if len(providers) == 0 {
		return nil, errors.New("aggregator: at least one provider required")
	}

	seen := make(map[string]struct{}, len(providers))
	for _, p := range providers {
		if p.ID == "" {
			return nil, errors.New("aggregator: provider id required")
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("aggregator: duplicate provider %q", p.ID)
		}
		seen[p.ID] = struct{}{}

		if len(p.Sources) == 0 {
			return nil, fmt.Errorf("aggregator: provider %q has no sources", p.ID)
		}
		for _, s := range p.Sources {
			if s == nil {
				return nil, fmt.Errorf("aggregator: provider %q has a nil source", p.ID)
			}
		}
	}

	a := &Aggregator{
		providers: append([]Provider(nil), providers...),
		log:       logger.NewNop(),
		timeout:   DefaultTimeout,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.log == nil {
		a.log = logger.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}

	return a, nil
}

// ProviderIDs returns the configured provider ids in configuration order.
func (a *Aggregator) ProviderIDs() []string {
	ids := make([]string, 0, len(a.providers))
	for _, p := range a.providers {
		ids = append(ids, p.ID)
	}
	return ids
}

// job addresses one source of one provider.
type job struct {
	provider int
	source   int
}

// BuildSnapshot runs one refresh cycle.
// Every source is fetched concurrently; the call returns only after all of them
// have returned or timed out. Failures stay scoped to their provider.
func (a *Aggregator) BuildSnapshot(ctx context.Context) status.Snapshot {
	if a.release != nil {
		defer a.release()
	}

	ctx = logger.WithCycleID(ctx, uuid.NewString())
	start := time.Now()

	// ---- fan-out ----

	results := make([][]source.FetchResult, len(a.providers))
	jobs := make([]job, 0, len(a.providers))
	for pi, p := range a.providers {
		results[pi] = make([]source.FetchResult, len(p.Sources))
		for si := range p.Sources {
			jobs = append(jobs, job{provider: pi, source: si})
		}
	}

	var wg sync.WaitGroup
	for _, j := range jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			// each goroutine owns exactly one slot
			results[j.provider][j.source] = a.fetch(ctx, a.providers[j.provider].Sources[j.source])
		}(j)
	}

	// ---- fan-in ----

	wg.Wait()

	snap := status.Snapshot{
		Providers:   make(map[string]status.ProviderResult, len(a.providers)),
		GeneratedAt: a.now().UTC(),
	}

	failedCount := 0
	for pi, p := range a.providers {
		res := merge(p, results[pi])
		if res.Failed() {
			failedCount++
			a.log.Warnf(logger.WithProvider(ctx, p.ID), "provider fetch failed: %s", res.FetchError)
		} else {
			a.log.Debugf(logger.WithProvider(ctx, p.ID), "provider summarized: %s (%d records)", res.Label, len(res.Records))
		}
		snap.Providers[p.ID] = res
	}

	a.log.Infof(ctx, "snapshot built: providers=%d failed=%d elapsed=%s",
		len(snap.Providers), failedCount, time.Since(start).Round(time.Millisecond))

	return snap
}

// fetch runs one source under the per-call budget and contains panics.
func (a *Aggregator) fetch(ctx context.Context, src source.Source) (res source.FetchResult) {
	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			res = source.FetchResult{
				SourceID: src.ID(),
				At:       time.Now(),
				Err:      fmt.Errorf("source %s panicked: %v", src.ID(), r),
			}
		}
	}()

	res = src.Fetch(callCtx)
	if res.Err != nil {
		// drop anything a misbehaving source returned alongside its error
		res.Records = nil
		res.Active = false
	}
	return res
}
