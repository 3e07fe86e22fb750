// Package headerscan inventories missing security response headers.
package headerscan

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/webscan/webscan/pkg/defaults"
	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/session"
)

type headerCheck struct {
	name      string
	httpsOnly bool
	purpose   string
}

var checks = []headerCheck{
	{"Content-Security-Policy", false, "restricts script and resource origins"},
	{"X-Content-Type-Options", false, "prevents MIME type sniffing"},
	{"Strict-Transport-Security", true, "enforces HTTPS on future visits"},
	{"Referrer-Policy", false, "limits referrer leakage to third parties"},
	{"Permissions-Policy", false, "restricts powerful browser features"},
}

// Checker is the security header probe.
type Checker struct{}

// New creates a header checker.
func New() *Checker { return &Checker{} }

// Name implements probe.Probe.
func (c *Checker) Name() string { return "Security Headers" }

// Check fetches the endpoint and reports which recommended headers are
// absent. One finding covers the whole inventory.
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

	missing := Missing(resp.Header, isHTTPS(endpoint))
	if len(missing) == 0 {
		return nil, false
	}

	return &finding.Finding{
		Type:     "Missing Security Headers",
		Severity: finding.Low,
		URL:      endpoint,
		Evidence: fmt.Sprintf("missing: %s", strings.Join(missing, ", ")),
		Description: "Security response headers harden the browser against script injection, " +
			"MIME sniffing and protocol downgrade. Absent headers leave those defenses off.",
	}, true
}

// Missing returns the names of recommended headers absent from h.
// HSTS is only expected over HTTPS.
func Missing(h http.Header, https bool) []string {
	var missing []string
	for _, chk := range checks {
		if chk.httpsOnly && !https {
			continue
		}
		if h.Get(chk.name) == "" {
			missing = append(missing, chk.name)
		}
	}
	return missing
}

func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	return err == nil && u.Scheme == "https"
}
