// internal/source/fake_test.go
package source

import (
	"context"
	"fmt"
	"sync"
)

// ---- fake getter ----

type fakeResponse struct {
	body string
	err  error
}

type fakeGetter struct {
	mu        sync.Mutex
	responses map[string]fakeResponse
	calls     []string
}

func newFakeGetter() *fakeGetter {
	return &fakeGetter{responses: make(map[string]fakeResponse)}
}

func (f *fakeGetter) on(url, body string) *fakeGetter {
	f.responses[url] = fakeResponse{body: body}
	return f
}

func (f *fakeGetter) fail(url string, err error) *fakeGetter {
	f.responses[url] = fakeResponse{err: err}
	return f
}

func (f *fakeGetter) Get(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	r, ok := f.responses[url]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no fake response for %s", url)
	}
	if r.err != nil {
		return nil, r.err
	}
	return []byte(r.body), nil
}
