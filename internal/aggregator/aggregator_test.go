// internal/aggregator/aggregator_test.go
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	cfg "github.com/tamzrod/status-aggregator/internal/config"
	"github.com/tamzrod/status-aggregator/internal/logger"
	"github.com/tamzrod/status-aggregator/internal/source"
	"github.com/tamzrod/status-aggregator/internal/status"
)

// ---- fakes ----

type fakeGetter struct {
	mu     sync.Mutex
	bodies map[string]string
	errs   map[string]error
}

func newFakeGetter() *fakeGetter {
	return &fakeGetter{bodies: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeGetter) Get(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	body, ok := f.bodies[url]
	err := f.errs[url]
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no fake response for %s", url)
	}
	return []byte(body), nil
}

// blockingSource waits for its context to end.
type blockingSource struct{ id string }

func (b blockingSource) ID() string { return b.id }

func (b blockingSource) Fetch(ctx context.Context) source.FetchResult {
	<-ctx.Done()
	return source.FetchResult{SourceID: b.id, Err: ctx.Err()}
}

type panicSource struct{}

func (panicSource) ID() string { return "boom" }

func (panicSource) Fetch(context.Context) source.FetchResult { panic("bad parser") }

type staticSource struct {
	id  string
	res source.FetchResult
}

func (s staticSource) ID() string { return s.id }

func (s staticSource) Fetch(context.Context) source.FetchResult { return s.res }

// ---- fixtures ----

const (
	jiraURL  = "https://jira.example.com/api/v2/components.json"
	ghURL    = "https://github.example.com/api/v2/components.json"
	awsURL   = "https://aws.example.com/rss/all.rss"
	oktaURL  = "https://okta.example.com/rss"
	azureURL = "https://azure.example.com/feed/"
	euURL    = "https://eu.example.com/api/v2/status.json"
	usURL    = "https://us.example.com/api/v2/status.json"
)

func fiveProviders() []cfg.ProviderConfig {
	return []cfg.ProviderConfig{
		{ID: "jira", Kind: cfg.KindComponents, Endpoint: jiraURL},
		{ID: "github", Kind: cfg.KindComponents, Endpoint: ghURL, Allow: []string{"Git Operations", "Actions"}},
		{ID: "aws", Kind: cfg.KindPresence, Endpoint: awsURL},
		{ID: "okta", Kind: cfg.KindRSS, Endpoint: oktaURL, Window: cfg.WindowAll},
		{ID: "azure", Kind: cfg.KindPresence, Endpoint: azureURL, Markers: []string{"<entry>"}},
	}
}

func healthyGetter() *fakeGetter {
	g := newFakeGetter()
	g.bodies[jiraURL] = `{"components":[{"name":"X","status":"Operational"},{"name":"Y","status":"Major Outage"}]}`
	g.bodies[ghURL] = `{"components":[{"name":"Git Operations","status":"operational"},{"name":"Other","status":"major_outage"},{"name":"Actions","status":"partial_outage"}]}`
	g.bodies[awsURL] = `<rss><channel><title>AWS</title></channel></rss>`
	g.bodies[oktaURL] = `<rss version="2.0"><channel><item><title>Okta is operational</title></item></channel></rss>`
	g.bodies[azureURL] = `<feed><entry><title>Outage</title></entry></feed>`
	return g
}

func build(t *testing.T, list []cfg.ProviderConfig, g source.Getter, opts ...Option) *Aggregator {
	t.Helper()
	providers, err := BuildProviders(list, g, time.Now)
	require.NoError(t, err)
	agg, err := New(providers, opts...)
	require.NoError(t, err)
	return agg
}

// ---- tests ----

func TestBuildSnapshot_AllProviders(t *testing.T) {
	agg := build(t, fiveProviders(), healthyGetter())

	snap := agg.BuildSnapshot(context.Background())
	require.Len(t, snap.Providers, 5)
	assert.False(t, snap.GeneratedAt.IsZero())

	jira := snap.Providers["jira"]
	require.Len(t, jira.Records, 2)
	assert.Equal(t, "Y", jira.Records[0].Name)
	assert.Equal(t, "X", jira.Records[1].Name)
	assert.Equal(t, status.ColorOrange, jira.Color)
	assert.Equal(t, status.LabelMinorIssue, jira.Label)

	gh := snap.Providers["github"]
	require.Len(t, gh.Records, 2)
	assert.Equal(t, "Actions", gh.Records[0].Name)
	assert.Equal(t, status.ColorOrange, gh.Color)

	aws := snap.Providers["aws"]
	assert.Equal(t, status.ColorGreen, aws.Color)
	assert.Equal(t, status.ConditionOperational, aws.Condition)

	azure := snap.Providers["azure"]
	assert.Equal(t, status.ColorRed, azure.Color)
	assert.Equal(t, status.LabelError, azure.Label)
	assert.Equal(t, status.ConditionError, azure.Condition)

	okta := snap.Providers["okta"]
	assert.Empty(t, okta.Records)
	assert.Equal(t, status.ColorGreen, okta.Color)
}

func TestBuildSnapshot_OneTransportFailure(t *testing.T) {
	g := healthyGetter()
	g.errs[ghURL] = errors.New("dial tcp: connection refused")

	agg := build(t, fiveProviders(), g)
	snap := agg.BuildSnapshot(context.Background())
	require.Len(t, snap.Providers, 5)

	gh := snap.Providers["github"]
	assert.NotEmpty(t, gh.FetchError)
	assert.Empty(t, gh.Records)
	assert.Equal(t, status.ConditionUnknown, gh.Condition)
	assert.NotEqual(t, status.LabelOperational, gh.Label)

	healthy := healthyGetter()
	ref := build(t, fiveProviders(), healthy).BuildSnapshot(context.Background())
	for _, id := range []string{"jira", "aws", "okta", "azure"} {
		assert.Empty(t, snap.Providers[id].FetchError, id)
		assert.Equal(t, ref.Providers[id], snap.Providers[id], id)
	}
}

func TestBuildSnapshot_Deterministic(t *testing.T) {
	agg := build(t, fiveProviders(), healthyGetter())

	a := agg.BuildSnapshot(context.Background())
	b := agg.BuildSnapshot(context.Background())
	assert.Equal(t, a.Providers, b.Providers)
}

func TestBuildSnapshot_MultiRegionMerge(t *testing.T) {
	list := []cfg.ProviderConfig{{
		ID:   "datadog",
		Kind: cfg.KindIndicator,
		Regions: []cfg.RegionConfig{
			{ID: "EU", Endpoint: euURL},
			{ID: "US", Endpoint: usURL},
		},
	}}

	g := newFakeGetter()
	g.bodies[euURL] = `{"status":{"indicator":"none"}}`
	g.bodies[usURL] = `{"status":{"indicator":"major"}}`

	snap := build(t, list, g).BuildSnapshot(context.Background())
	dd := snap.Providers["datadog"]
	require.Len(t, dd.Records, 2)
	assert.Equal(t, "US", dd.Records[0].Name)
	assert.Equal(t, "major", dd.Records[0].SeverityTag)
	assert.Equal(t, "EU", dd.Records[1].Name)
	assert.Equal(t, status.ColorOrange, dd.Color)
	assert.Empty(t, dd.FetchError)
}

func TestBuildSnapshot_MultiRegionPartialFailure(t *testing.T) {
	list := []cfg.ProviderConfig{{
		ID:   "datadog",
		Kind: cfg.KindIndicator,
		Regions: []cfg.RegionConfig{
			{ID: "EU", Endpoint: euURL},
			{ID: "US", Endpoint: usURL},
		},
	}}

	g := newFakeGetter()
	g.bodies[euURL] = `{"status":{"indicator":"none"}}`
	g.errs[usURL] = errors.New("timeout")

	dd := build(t, list, g).BuildSnapshot(context.Background()).Providers["datadog"]
	require.Len(t, dd.Records, 2)
	assert.Empty(t, dd.FetchError)
	assert.Equal(t, status.ComponentRecord{
		Name: "US", RawStatus: status.RawFetchFailed, Condition: status.ConditionUnknown, SeverityTag: status.TagFetchFailed,
	}, dd.Records[0])
	assert.Equal(t, status.LabelMinorIssue, dd.Label)
}

func TestBuildSnapshot_MultiRegionTotalFailure(t *testing.T) {
	list := []cfg.ProviderConfig{{
		ID:   "datadog",
		Kind: cfg.KindIndicator,
		Regions: []cfg.RegionConfig{
			{ID: "EU", Endpoint: euURL},
			{ID: "US", Endpoint: usURL},
		},
	}}

	g := newFakeGetter()
	g.errs[euURL] = errors.New("eu down")
	g.errs[usURL] = errors.New("us down")

	dd := build(t, list, g).BuildSnapshot(context.Background()).Providers["datadog"]
	assert.Empty(t, dd.Records)
	assert.Contains(t, dd.FetchError, "EU: eu down")
	assert.Contains(t, dd.FetchError, "US: us down")
	assert.NotContains(t, dd.FetchError, "\n")
}

func TestBuildSnapshot_PerCallTimeout(t *testing.T) {
	providers := []Provider{
		{ID: "slow", Sources: []source.Source{blockingSource{id: "slow"}}},
		{ID: "fast", Sources: []source.Source{staticSource{id: "fast", res: source.FetchResult{SourceID: "fast"}}}},
	}

	agg, err := New(providers, WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	snap := agg.BuildSnapshot(context.Background())
	assert.Less(t, time.Since(start), 2*time.Second)

	assert.Contains(t, snap.Providers["slow"].FetchError, "deadline")
	assert.Equal(t, status.ColorGreen, snap.Providers["fast"].Color)
}

func TestBuildSnapshot_CancelPropagates(t *testing.T) {
	providers := []Provider{
		{ID: "a", Sources: []source.Source{blockingSource{id: "a"}}},
		{ID: "b", Sources: []source.Source{blockingSource{id: "b"}}},
	}

	agg, err := New(providers, WithTimeout(time.Minute))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	done := make(chan status.Snapshot, 1)
	go func() { done <- agg.BuildSnapshot(ctx) }()

	select {
	case snap := <-done:
		require.Len(t, snap.Providers, 2)
		assert.True(t, snap.Providers["a"].Failed())
		assert.True(t, snap.Providers["b"].Failed())
	case <-time.After(5 * time.Second):
		t.Fatal("BuildSnapshot did not return after cancel")
	}
}

func TestBuildSnapshot_PanicContained(t *testing.T) {
	providers := []Provider{
		{ID: "bad", Sources: []source.Source{panicSource{}}},
		{ID: "ok", Sources: []source.Source{staticSource{id: "ok", res: source.FetchResult{SourceID: "ok"}}}},
	}

	agg, err := New(providers)
	require.NoError(t, err)

	snap := agg.BuildSnapshot(context.Background())
	assert.Contains(t, snap.Providers["bad"].FetchError, "panicked")
	assert.False(t, snap.Providers["ok"].Failed())
}

func TestBuildSnapshot_ErrorDropsRecords(t *testing.T) {
	res := source.FetchResult{
		SourceID: "liar",
		Records:  []status.ComponentRecord{{Name: "x", Condition: status.ConditionOperational}},
		Err:      errors.New("half parsed"),
	}
	agg, err := New([]Provider{{ID: "liar", Sources: []source.Source{staticSource{id: "liar", res: res}}}})
	require.NoError(t, err)

	p := agg.BuildSnapshot(context.Background()).Providers["liar"]
	assert.True(t, p.Failed())
	assert.Empty(t, p.Records)
}

func TestBuildSnapshot_ReleaseOncePerCycle(t *testing.T) {
	var released int32
	agg := build(t, fiveProviders(), healthyGetter(), WithRelease(func() {
		atomic.AddInt32(&released, 1)
	}))

	agg.BuildSnapshot(context.Background())
	agg.BuildSnapshot(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&released))
}

func TestBuildSnapshot_Clock(t *testing.T) {
	at := time.Date(2025, time.June, 3, 12, 0, 0, 0, time.FixedZone("X", 3600))
	agg := build(t, fiveProviders(), healthyGetter(), WithClock(func() time.Time { return at }))

	snap := agg.BuildSnapshot(context.Background())
	assert.True(t, snap.GeneratedAt.Equal(at))
	assert.Equal(t, time.UTC, snap.GeneratedAt.Location())
}

func TestNew_Validation(t *testing.T) {
	ok := staticSource{id: "x"}

	_, err := New(nil)
	assert.Error(t, err)

	_, err = New([]Provider{{ID: "", Sources: []source.Source{ok}}})
	assert.Error(t, err)

	_, err = New([]Provider{{ID: "x"}})
	assert.Error(t, err)

	_, err = New([]Provider{
		{ID: "x", Sources: []source.Source{ok}},
		{ID: "x", Sources: []source.Source{ok}},
	})
	assert.Error(t, err)

	agg, err := New([]Provider{
		{ID: "b", Sources: []source.Source{ok}},
		{ID: "a", Sources: []source.Source{ok}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, agg.ProviderIDs())
}

func TestBuildSnapshot_MissingComponentsListFails(t *testing.T) {
	g := healthyGetter()
	g.bodies[jiraURL] = `{"status":{"indicator":"none"}}`

	agg := build(t, fiveProviders(), g)
	snap := agg.BuildSnapshot(context.Background())

	jira := snap.Providers["jira"]
	assert.True(t, jira.Failed())
	assert.Contains(t, jira.FetchError, "missing components list")
	assert.Equal(t, status.ConditionUnknown, jira.Condition)
	assert.Equal(t, status.ColorRed, jira.Color)
	assert.Empty(t, jira.Records)

	assert.False(t, snap.Providers["github"].Failed())
}

func TestBuildSnapshot_ProviderLogCarriesField(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	agg := build(t, fiveProviders()[:1], healthyGetter(), WithLogger(logger.New(zap.New(core))))

	agg.BuildSnapshot(context.Background())

	entries := logs.FilterField(zap.String("provider", "jira")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "provider summarized: minor issue (2 records)", entries[0].Message)
}
