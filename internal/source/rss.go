// internal/source/rss.go
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"

	"github.com/tamzrod/status-aggregator/internal/status"
)

// Window selects which feed items count as active incidents.
type Window string

const (
	// WindowAll: every item whose title does not mention "operational".
	WindowAll Window = "all"

	// WindowToday: every item published on the current UTC date.
	WindowToday Window = "today"
)

// pubDayLayout is the day prefix of an RFC 1123 pubDate, e.g. "Tue, 03 Jun 2025".
const pubDayLayout = "Mon, 02 Jan 2006"

// RSSConfig describes one RSS incident history feed.
type RSSConfig struct {
	ID       string
	Endpoint string
	Window   Window           // empty => WindowAll
	Now      func() time.Time // nil => time.Now
}

// RSSSource parses an RSS feed and turns matching items into incident records.
type RSSSource struct {
	cfg RSSConfig
	get Getter
}

// NewRSS creates an RSS incident source.
func NewRSS(cfg RSSConfig, get Getter) (*RSSSource, error) {
	if cfg.ID == "" {
		return nil, errors.New("rss source: id required")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("rss source %q: endpoint required", cfg.ID)
	}
	if get == nil {
		return nil, fmt.Errorf("rss source %q: getter required", cfg.ID)
	}
	switch cfg.Window {
	case "":
		cfg.Window = WindowAll
	case WindowAll, WindowToday:
	default:
		return nil, fmt.Errorf("rss source %q: unknown window %q", cfg.ID, cfg.Window)
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &RSSSource{cfg: cfg, get: get}, nil
}

func (s *RSSSource) ID() string { return s.cfg.ID }

// Fetch performs exactly one GET and parse.
// Zero matching items is a healthy result, not a failure.
func (s *RSSSource) Fetch(ctx context.Context) FetchResult {
	body, err := s.get.Get(ctx, s.cfg.Endpoint)
	if err != nil {
		return failed(s.cfg.ID, err)
	}

	fp := rss.Parser{}
	feed, err := fp.Parse(bytes.NewReader(body))
	if err != nil {
		return failed(s.cfg.ID, fmt.Errorf("parse rss: %w", err))
	}

	today := s.cfg.Now().UTC()
	seen := make(map[string]struct{})
	records := make([]status.ComponentRecord, 0)

	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}
		if !s.active(item, title, today) {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}

		records = append(records, status.ComponentRecord{
			Name:        title,
			RawStatus:   status.RawIncident,
			Condition:   status.ConditionError,
			SeverityTag: status.TagIncident,
		})
	}

	return FetchResult{
		SourceID: s.cfg.ID,
		At:       time.Now(),
		Records:  records,
	}
}

func (s *RSSSource) active(item *rss.Item, title string, today time.Time) bool {
	switch s.cfg.Window {
	case WindowToday:
		return publishedOn(item, today)
	default:
		return !strings.Contains(strings.ToLower(title), "operational")
	}
}

// publishedOn compares the item's pubDate with day on the UTC calendar.
// Unparseable dates fall back to a substring match of the RFC 1123 day prefix.
func publishedOn(item *rss.Item, day time.Time) bool {
	if item.PubDateParsed != nil {
		return sameUTCDay(*item.PubDateParsed, day)
	}
	if item.PubDate == "" {
		return false
	}
	return strings.Contains(item.PubDate, day.UTC().Format(pubDayLayout))
}

func sameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
