// Package ssrf detects server-side request forgery: parameters that
// accept a URL which the server fetches on the attacker's behalf.
package ssrf

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/probe"
	"github.com/webscan/webscan/pkg/regexcache"
	"github.com/webscan/webscan/pkg/session"
)

// urlParamNames are parameter names that commonly carry a URL the
// server will fetch. Other parameters are only tried when their current
// value already looks like a URL.
var urlParamNames = map[string]bool{
	"url":      true,
	"uri":      true,
	"target":   true,
	"dest":     true,
	"redirect": true,
	"link":     true,
	"src":      true,
	"source":   true,
	"feed":     true,
	"callback": true,
	"fetch":    true,
	"proxy":    true,
	"image":    true,
}

var payloads = []string{
	"http://169.254.169.254/latest/meta-data/",
	"http://[::1]/",
	"http://127.0.0.1/",
	"http://localhost/",
	"file:///etc/passwd",
}

// internalSignatures match content that only an internal or metadata
// service would return.
var internalSignatures = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"cloud metadata", regexcache.MustGet(`(?i)ami-id|instance-id|security-credentials`)},
	{"metadata index", regexcache.MustGet(`(?m)^(hostname|local-ipv4|public-keys)$`)},
	{"/etc/passwd", regexcache.MustGet(`root:.?:0:0:`)},
	{"internal service", regexcache.MustGet(`(?i)<title>\s*(localhost|internal)`)},
}

// Config controls SSRF probing.
type Config struct {
	// MaxPayloads caps payloads per input point. Zero means all.
	MaxPayloads int
}

// Checker is the server-side request forgery probe.
type Checker struct {
	cfg Config
}

// New creates an SSRF checker.
func New(cfg Config) *Checker { return &Checker{cfg: cfg} }

// Name implements probe.Probe.
func (c *Checker) Name() string { return "SSRF" }

// Check swaps URL-carrying parameters for internal addresses and looks
// for internal service content in the response.
func (c *Checker) Check(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool) {
	for _, point := range probe.QueryPoints(endpoint) {
		if !urlParamNames[strings.ToLower(point.Name)] && !looksLikeURL(point.Value) {
			continue
		}
		n := len(payloads)
		if c.cfg.MaxPayloads > 0 && c.cfg.MaxPayloads < n {
			n = c.cfg.MaxPayloads
		}
		for _, payload := range payloads[:n] {
			if ctx.Err() != nil {
				return nil, false
			}
			resp, _, err := probe.Send(ctx, s, point, payload)
			if err != nil {
				continue
			}
			body, _ := iohelper.ReadBodyDefault(resp.Body)
			iohelper.DrainAndClose(resp.Body)
			if resp.StatusCode >= 400 {
				continue
			}

			if name, ok := matchInternal(string(body)); ok {
				return &finding.Finding{
					Type:     "SSRF",
					Severity: finding.High,
					URL:      endpoint,
					Evidence: fmt.Sprintf("parameter %s fetched %q and returned %s content", point.Name, payload, name),
					Description: "Server-side request forgery lets attackers make the server issue " +
						"requests to internal hosts and cloud metadata services that are unreachable " +
						"from the outside.",
				}, true
			}
		}
	}
	return nil, false
}

func looksLikeURL(v string) bool {
	return strings.HasPrefix(v, "http://") || strings.HasPrefix(v, "https://") || strings.HasPrefix(v, "//")
}

func matchInternal(body string) (string, bool) {
	for _, sig := range internalSignatures {
		if sig.pattern.MatchString(body) {
			return sig.name, true
		}
	}
	return "", false
}
