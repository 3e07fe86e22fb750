// Package defaults holds the canonical configuration constants shared
// across the scanner. Components reference these instead of re-declaring
// magic numbers so a default changes in exactly one place.
package defaults

import "time"

const (
	// CrawlDepth is the default maximum link depth from the seed URL.
	CrawlDepth = 3

	// Threads is the default worker pool size for probing.
	Threads = 10

	// RequestDelay is the default per-task pause before each probe
	// request. With N workers the aggregate request rate is N/delay.
	RequestDelay = 1 * time.Second

	// RequestTimeout is the default timeout for any single HTTP request.
	RequestTimeout = 30 * time.Second

	// TimeThreshold is the round-trip time above which a timing oracle
	// treats a response as evidence of injected server-side delay.
	TimeThreshold = 5 * time.Second

	// ProbeTimeout bounds quick header-only checks.
	ProbeTimeout = 10 * time.Second
)

const (
	// ContentTypeForm is the media type for URL-encoded form submissions.
	ContentTypeForm = "application/x-www-form-urlencoded"
)
