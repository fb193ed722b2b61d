// internal/source/getter.go
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Getter abstracts the single HTTP operation sources need.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// StatusError is returned for a non-2xx response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// HTTPConfig is minimal transport config.
type HTTPConfig struct {
	Timeout      time.Duration
	MaxBodyBytes int64
	UserAgent    string
	MaxRedirects int
}

// HTTPGetter implements Getter over one shared http.Client.
type HTTPGetter struct {
	client  *http.Client
	maxBody int64
	agent   string
}

// NewHTTPClient builds the client shared by every source of one aggregator.
// Redirects are followed up to cfg.MaxRedirects.
func NewHTTPClient(cfg HTTPConfig) *http.Client {
	maxRedirects := cfg.MaxRedirects
	if maxRedirects <= 0 {
		maxRedirects = 10
	}

	return &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("stopped after %d redirects", maxRedirects)
			}
			return nil
		},
	}
}

// NewHTTPGetter wraps client. A nil client gets NewHTTPClient(cfg).
func NewHTTPGetter(client *http.Client, cfg HTTPConfig) *HTTPGetter {
	if client == nil {
		client = NewHTTPClient(cfg)
	}
	return &HTTPGetter{
		client:  client,
		maxBody: cfg.MaxBodyBytes,
		agent:   cfg.UserAgent,
	}
}

// Get performs exactly one GET. No retries.
func (g *HTTPGetter) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if g.agent != "" {
		req.Header.Set("User-Agent", g.agent)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if g.maxBody > 0 {
		body = io.LimitReader(resp.Body, g.maxBody+1)
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", url, err)
	}
	if g.maxBody > 0 && int64(len(data)) > g.maxBody {
		return nil, fmt.Errorf("read body %s: exceeds %d bytes", url, g.maxBody)
	}

	return data, nil
}

// CloseIdleConnections releases pooled connections of the shared client.
func (g *HTTPGetter) CloseIdleConnections() {
	g.client.CloseIdleConnections()
}
