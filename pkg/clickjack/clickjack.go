// Package clickjack detects pages that can be framed by a hostile site
// because they send neither X-Frame-Options nor a frame-ancestors CSP
// directive.
package clickjack

import (
	"context"
	"fmt"
	"strings"

	"github.com/webscan/webscan/pkg/defaults"
	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/session"
)

// Checker is the clickjacking probe.
type Checker struct{}

// New creates a clickjacking checker.
func New() *Checker { return &Checker{} }

// Name implements probe.Probe.
func (c *Checker) Name() string { return "Clickjacking" }

// Check fetches the endpoint once and inspects framing headers. Only
// successful HTML responses are judged; APIs and error pages are not
// framing targets.
func (c *Checker) Check(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool) {
	ctx, cancel := context.WithTimeout(ctx, defaults.ProbeTimeout)
	defer cancel()

	resp, err := s.Get(ctx, endpoint)
	if err != nil {
		return nil, false
	}
	iohelper.DrainAndClose(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(strings.ToLower(ct), "html") {
		return nil, false
	}

	if resp.Header.Get("X-Frame-Options") != "" {
		return nil, false
	}
	csp := strings.ToLower(resp.Header.Get("Content-Security-Policy"))
	if strings.Contains(csp, "frame-ancestors") {
		return nil, false
	}

	return &finding.Finding{
		Type:     "Clickjacking",
		Severity: finding.Medium,
		URL:      endpoint,
		Evidence: fmt.Sprintf("no X-Frame-Options header and no frame-ancestors directive (status %d)", resp.StatusCode),
		Description: "Without framing protection the page can be embedded in an attacker's iframe " +
			"and overlaid with invisible controls that hijack user clicks.",
	}, true
}
