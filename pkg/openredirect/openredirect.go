// Package openredirect detects open redirects: endpoints that accept an
// attacker-supplied URL in a parameter and redirect the browser off-site.
package openredirect

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/probe"
	"github.com/webscan/webscan/pkg/session"
)

// attackerHost is the marker destination; a redirect landing here proves
// the parameter controls the Location target.
const attackerHost = "evil.example.org"

var payloads = []string{
	"http://" + attackerHost,
	"https://" + attackerHost + "/",
	"//" + attackerHost,
	"/\\" + attackerHost,
}

// Checker is the open redirect probe.
type Checker struct{}

// New creates an open redirect checker.
func New() *Checker { return &Checker{} }

// Name implements probe.Probe.
func (c *Checker) Name() string { return "Open Redirect" }

// Check injects marker URLs into every query parameter and inspects the
// raw (unfollowed) redirect response.
func (c *Checker) Check(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool) {
	for _, point := range probe.QueryPoints(endpoint) {
		for _, payload := range payloads {
			if ctx.Err() != nil {
				return nil, false
			}

			u, err := url.Parse(point.Target)
			if err != nil {
				continue
			}
			q := u.Query()
			q.Set(point.Name, payload)
			u.RawQuery = q.Encode()

			req, err := s.NewRequest(ctx, http.MethodGet, u.String(), nil)
			if err != nil {
				continue
			}
			resp, err := s.NoRedirectClient.Do(req)
			if err != nil {
				continue
			}
			location := resp.Header.Get("Location")
			iohelper.DrainAndClose(resp.Body)

			if resp.StatusCode >= 300 && resp.StatusCode < 400 && redirectsOffsite(location) {
				return &finding.Finding{
					Type:     "Open Redirect",
					Severity: finding.Medium,
					URL:      endpoint,
					Evidence: fmt.Sprintf("parameter %s controls redirect target (Location: %s)", point.Name, location),
					Description: "Open redirects let attackers craft links on a trusted domain that forward " +
						"victims to arbitrary destinations, aiding phishing and token theft.",
				}, true
			}
		}
	}
	return nil, false
}

// redirectsOffsite reports whether location points at the marker host.
func redirectsOffsite(location string) bool {
	if location == "" {
		return false
	}
	if strings.HasPrefix(location, "//") && strings.Contains(location, attackerHost) {
		return true
	}
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return u.Host == attackerHost
}
