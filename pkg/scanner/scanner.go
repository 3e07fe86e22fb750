// Package scanner orchestrates a full scan: discover the site's
// endpoints, then run every vulnerability probe against every endpoint
// on a bounded worker pool.
package scanner

import (
	"context"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/webscan/webscan/pkg/clickjack"
	"github.com/webscan/webscan/pkg/cmdi"
	"github.com/webscan/webscan/pkg/crawler"
	"github.com/webscan/webscan/pkg/defaults"
	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/headerscan"
	"github.com/webscan/webscan/pkg/lfi"
	"github.com/webscan/webscan/pkg/mutation"
	"github.com/webscan/webscan/pkg/openredirect"
	"github.com/webscan/webscan/pkg/probe"
	"github.com/webscan/webscan/pkg/robots"
	"github.com/webscan/webscan/pkg/session"
	"github.com/webscan/webscan/pkg/sitemap"
	"github.com/webscan/webscan/pkg/sqli"
	"github.com/webscan/webscan/pkg/ssrf"
	"github.com/webscan/webscan/pkg/techdetect"
	"github.com/webscan/webscan/pkg/traversal"
	"github.com/webscan/webscan/pkg/ui"
	"github.com/webscan/webscan/pkg/workerpool"
	"github.com/webscan/webscan/pkg/xss"
)

// State is the orchestrator lifecycle phase.
type State int32

const (
	StateIdle State = iota
	StateDiscovering
	StateProbing
	StateComplete
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateDiscovering:
		return "discovering"
	case StateProbing:
		return "probing"
	case StateComplete:
		return "complete"
	case StateInterrupted:
		return "interrupted"
	}
	return "unknown"
}

// Config holds everything one scan needs.
type Config struct {
	// Target is the seed URL. Required.
	Target string

	// Depth bounds crawl depth from the seed.
	Depth int

	// Threads sizes the probe worker pool.
	Threads int

	// Delay is slept before each probe task. With N workers the
	// aggregate request rate stays near N tasks per Delay.
	Delay time.Duration

	// Timeout applies per HTTP request.
	Timeout time.Duration

	// TimeThreshold is the timing-oracle cutoff for the sqli and cmdi
	// probes. Zero means the stock threshold.
	TimeThreshold time.Duration

	// RPS caps the aggregate request rate across all workers when
	// positive. Zero disables the limiter and leaves pacing to Delay.
	RPS float64

	// SameHost restricts the crawl to the target's host.
	SameHost bool

	// IgnoreRobots skips fetching and honoring robots.txt.
	IgnoreRobots bool

	// Cookies is a raw "name=value; name2=value2" string seeded into
	// the session jar for the target's origin.
	Cookies string

	// Proxy routes all requests through the given proxy URL.
	Proxy string

	// UserAgent overrides the scanner's default User-Agent.
	UserAgent string

	// Probes overrides the stock probe list when non-nil.
	Probes []probe.Probe
}

// DefaultConfig returns the stock scan settings for a target.
func DefaultConfig(target string) Config {
	return Config{
		Target:  target,
		Depth:   defaults.CrawlDepth,
		Threads: defaults.Threads,
		Delay:   defaults.RequestDelay,
		Timeout: defaults.RequestTimeout,
	}
}

// Scanner runs one scan. Create a fresh Scanner per scan.
type Scanner struct {
	cfg     Config
	session *session.Session
	probes  []probe.Probe

	mu    sync.Mutex
	state State
}

// New validates the config and prepares a scanner.
func New(cfg Config) (*Scanner, error) {
	if cfg.Target == "" {
		return nil, finding.ErrMissingTarget
	}
	u, err := url.Parse(cfg.Target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, finding.ErrInvalidTarget
	}
	if cfg.Threads <= 0 {
		cfg.Threads = defaults.Threads
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.RequestTimeout
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = ui.UserAgent()
	}
	sess := session.New(session.Config{
		Timeout:    cfg.Timeout,
		Proxy:      cfg.Proxy,
		UserAgent:  cfg.UserAgent,
		SkipVerify: true,
	})
	if cfg.Cookies != "" {
		sess.SeedCookies(cfg.Target, cfg.Cookies)
	}

	s := &Scanner{
		cfg:     cfg,
		session: sess,
		probes:  cfg.Probes,
		state:   StateIdle,
	}
	if s.probes == nil {
		s.probes = DefaultProbes(cfg)
	}
	return s, nil
}

// DefaultProbes returns the stock ordered probe list.
func DefaultProbes(cfg Config) []probe.Probe {
	threshold := cfg.TimeThreshold
	if threshold <= 0 {
		threshold = defaults.TimeThreshold
	}
	engine := mutation.NewEngine()
	return []probe.Probe{
		xss.New(engine, xss.Config{}),
		sqli.New(engine, sqli.Config{TimeThreshold: threshold}),
		cmdi.New(engine, cmdi.Config{TimeThreshold: threshold}),
		openredirect.New(),
		lfi.New(),
		traversal.New(),
		ssrf.New(ssrf.Config{}),
		clickjack.New(),
		headerscan.New(),
	}
}

// State reports the current lifecycle phase.
func (s *Scanner) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Scanner) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// Run executes the scan: discovery first, then every probe against
// every endpoint. Cancelling the context stops the scan and returns
// whatever was found so far with Interrupted set. A target with no
// reachable endpoints yields an empty result and no error.
func (s *Scanner) Run(ctx context.Context) (*finding.ScanResult, error) {
	result := finding.NewScanResult(s.cfg.Target)

	s.setState(StateDiscovering)
	crawlStart := time.Now()
	endpoints := s.discover(ctx, result)
	result.Endpoints = endpoints
	result.Stats.CrawlElapsed = time.Since(crawlStart)

	if ctx.Err() != nil {
		result.Interrupted = true
		s.setState(StateInterrupted)
		return result, nil
	}
	if len(endpoints) == 0 {
		s.setState(StateComplete)
		return result, nil
	}

	s.setState(StateProbing)
	probeStart := time.Now()
	interrupted := s.probeAll(ctx, endpoints, result)
	result.Stats.ProbeElapsed = time.Since(probeStart)

	if interrupted {
		result.Interrupted = true
		s.setState(StateInterrupted)
	} else {
		s.setState(StateComplete)
	}
	return result, nil
}

// discover crawls the target and fingerprints its stack. Discovery
// runs exactly once and finishes before any probe task starts.
func (s *Scanner) discover(ctx context.Context, result *finding.ScanResult) []string {
	var gate crawler.Gate
	var extraSeeds []string

	if !s.cfg.IgnoreRobots {
		policy, _ := robots.Fetch(ctx, s.session, s.cfg.Target)
		gate = policy.ForAgent(s.cfg.UserAgent)
		for _, sm := range policy.Sitemaps() {
			urls, _ := sitemap.Fetch(ctx, s.session, sm)
			extraSeeds = append(extraSeeds, urls...)
		}
	}
	if len(extraSeeds) == 0 {
		extraSeeds = sitemap.Discover(ctx, s.session, s.cfg.Target)
	}

	d := crawler.New(crawler.Config{
		MaxDepth: s.cfg.Depth,
		Delay:    s.cfg.Delay,
		SameHost: s.cfg.SameHost,
	}, s.session, gate)

	endpoints, err := d.Discover(ctx, s.cfg.Target)
	if err != nil {
		slog.Debug("scanner: discovery failed", slog.String("error", err.Error()))
		return nil
	}

	seen := make(map[string]bool, len(endpoints))
	for _, e := range endpoints {
		seen[e] = true
	}
	for _, extra := range extraSeeds {
		if ctx.Err() != nil {
			break
		}
		if seen[extra] {
			continue
		}
		more, err := d.Discover(ctx, extra)
		if err != nil {
			continue
		}
		for _, e := range more {
			if !seen[e] {
				seen[e] = true
				endpoints = append(endpoints, e)
			}
		}
	}

	result.Technologies = techdetect.New().Detect(ctx, s.session, s.cfg.Target)
	return endpoints
}

// probeAll runs endpoints x probes on the worker pool and reports
// whether the run was cut short.
func (s *Scanner) probeAll(ctx context.Context, endpoints []string, result *finding.ScanResult) bool {
	pool := workerpool.New(s.cfg.Threads)

	var limiter *rate.Limiter
	if s.cfg.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(s.cfg.RPS), 1)
	}

	var mu sync.Mutex
submit:
	for _, endpoint := range endpoints {
		for _, p := range s.probes {
			if ctx.Err() != nil {
				break submit
			}
			endpoint, p := endpoint, p
			pool.Submit(func() {
				if ctx.Err() != nil {
					return
				}
				s.pause(ctx, limiter)

				defer func() {
					if r := recover(); r != nil {
						slog.Error("scanner: probe panic",
							slog.String("probe", p.Name()),
							slog.String("endpoint", endpoint),
							slog.Any("panic", r))
						mu.Lock()
						result.Stats.TasksRun++
						result.Stats.TasksFailed++
						mu.Unlock()
					}
				}()

				f, ok := p.Check(ctx, s.session, endpoint)

				mu.Lock()
				result.Stats.TasksRun++
				if ok && f != nil {
					result.Findings = append(result.Findings, *f)
				}
				mu.Unlock()
			})
		}
	}
	pool.Close()
	return ctx.Err() != nil
}

// pause enforces the per-task delay, and the aggregate limiter when
// one is configured.
func (s *Scanner) pause(ctx context.Context, limiter *rate.Limiter) {
	if s.cfg.Delay > 0 {
		t := time.NewTimer(s.cfg.Delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return
		}
	}
	if limiter != nil {
		_ = limiter.Wait(ctx)
	}
}
