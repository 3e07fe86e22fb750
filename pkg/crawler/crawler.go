// Package crawler discovers the endpoints of a site by bounded-depth
// link traversal.
package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/webscan/webscan/pkg/defaults"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/session"
)

// Gate decides whether a URL may be fetched. A nil Gate permits
// everything with zero delay.
type Gate interface {
	Allowed(rawURL string) bool
	CrawlDelay() time.Duration
}

// Config holds crawl limits and scope.
type Config struct {
	// MaxDepth bounds traversal depth; the seed is depth 0.
	MaxDepth int

	// MaxPages caps fetched pages regardless of depth. Zero means no cap.
	MaxPages int

	// Delay is slept between page fetches. The gate's Crawl-delay is
	// honored when it is longer.
	Delay time.Duration

	// SameHost restricts traversal to the seed's host when set.
	SameHost bool
}

// DefaultConfig returns the stock crawl limits.
func DefaultConfig() Config {
	return Config{
		MaxDepth: defaults.CrawlDepth,
		Delay:    defaults.RequestDelay,
	}
}

// Discoverer walks a site and records every page it successfully
// fetches.
type Discoverer struct {
	cfg     Config
	session *session.Session
	gate    Gate

	visited   map[string]bool
	attempted map[string]bool
	pages     int
}

// New creates a Discoverer. gate may be nil.
func New(cfg Config, s *session.Session, gate Gate) *Discoverer {
	return &Discoverer{
		cfg:       cfg,
		session:   s,
		gate:      gate,
		visited:   make(map[string]bool),
		attempted: make(map[string]bool),
	}
}

type workItem struct {
	url   string
	depth int
}

// Discover walks from the seed URL and returns each successfully
// fetched page exactly once, in discovery order. Gate-refused URLs are
// never requested. An unreachable seed yields an empty slice, not an
// error.
func (d *Discoverer) Discover(ctx context.Context, seed string) ([]string, error) {
	seedURL, err := url.Parse(seed)
	if err != nil {
		return nil, err
	}

	var endpoints []string
	queue := []workItem{{url: normalize(seed), depth: 0}}

	for len(queue) > 0 {
		if ctx.Err() != nil {
			return endpoints, nil
		}
		item := queue[0]
		queue = queue[1:]

		if item.url == "" || d.attempted[item.url] {
			continue
		}
		if d.cfg.MaxPages > 0 && d.pages >= d.cfg.MaxPages {
			break
		}
		if d.cfg.SameHost && !sameHost(item.url, seedURL) {
			continue
		}
		if d.gate != nil && !d.gate.Allowed(item.url) {
			slog.Debug("crawler: blocked by policy", slog.String("url", item.url))
			continue
		}

		d.sleep(ctx)

		d.attempted[item.url] = true
		links, ok := d.fetch(ctx, item.url)
		if !ok {
			continue
		}
		d.visited[item.url] = true
		d.pages++
		endpoints = append(endpoints, item.url)

		if item.depth >= d.cfg.MaxDepth {
			continue
		}
		for _, link := range links {
			if n := normalize(link); n != "" && !d.attempted[n] {
				queue = append(queue, workItem{url: n, depth: item.depth + 1})
			}
		}
	}
	return endpoints, nil
}

// fetch retrieves one page and extracts its outbound references. A
// transport error or non-2xx status terminates the branch.
func (d *Discoverer) fetch(ctx context.Context, pageURL string) ([]string, bool) {
	resp, err := d.session.Get(ctx, pageURL)
	if err != nil {
		slog.Debug("crawler: fetch failed", slog.String("url", pageURL), slog.String("error", err.Error()))
		return nil, false
	}
	defer iohelper.DrainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(strings.ToLower(ct), "html") {
		// Still an endpoint, just nothing to extract from.
		return nil, true
	}

	body, err := iohelper.ReadBodyDefault(resp.Body)
	if err != nil {
		return nil, false
	}

	base := resp.Request.URL
	return ExtractLinks(body, base), true
}

func (d *Discoverer) sleep(ctx context.Context) {
	delay := d.cfg.Delay
	if d.gate != nil {
		if cd := d.gate.CrawlDelay(); cd > delay {
			delay = cd
		}
	}
	if delay <= 0 {
		return
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// normalize canonicalizes a URL for the visited set: fragment dropped,
// empty path becomes "/". Non-http schemes normalize to "".
func normalize(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

func sameHost(rawURL string, seed *url.URL) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, seed.Host)
}
