// Package cmdi detects OS command injection. The timing oracle watches
// for delays induced by sleep/ping/timeout payloads; the content oracle
// looks for command output such as ping reply text leaking into the
// response.
package cmdi

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/webscan/webscan/pkg/defaults"
	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/iohelper"
	"github.com/webscan/webscan/pkg/mutation"
	"github.com/webscan/webscan/pkg/probe"
	"github.com/webscan/webscan/pkg/session"
)

// payloads chain a delay command behind every common shell separator.
// Unix and Windows forms are both tried; only the matching platform will
// actually delay, the other is inert.
var payloads = []string{
	"; sleep 5 ;",
	"| sleep 5 |",
	"& sleep 5 &",
	"` sleep 5 `",
	"$(sleep 5)",
	"%0a sleep 5 %0a",
	"; ping -c 5 localhost ;",
	"| ping -c 5 localhost |",
	"$(ping -c 5 localhost)",
	"& ping -n 5 localhost &",
	"; timeout 5 ;",
	"& timeout /t 5 &",
}

// outputMarkers betray command output echoed into the response.
var outputMarkers = []string{
	"bytes from localhost",
	"ping localhost",
	"reply from",
	"ttl=",
	"packets transmitted",
	"packets received",
}

// Config tunes the checker.
type Config struct {
	// TimeThreshold is the minimum round-trip time accepted as evidence
	// of an injected delay.
	TimeThreshold time.Duration

	// MaxPayloads caps payloads tried per input point (0 = all).
	MaxPayloads int
}

// Checker is the command injection probe.
type Checker struct {
	cfg     Config
	mutator *mutation.Engine
}

// New creates a command injection checker using the given mutation engine.
func New(mutator *mutation.Engine, cfg Config) *Checker {
	if cfg.TimeThreshold <= 0 {
		cfg.TimeThreshold = defaults.TimeThreshold
	}
	return &Checker{cfg: cfg, mutator: mutator}
}

// Name implements probe.Probe.
func (c *Checker) Name() string { return "Command Injection" }

// Check tests every query parameter of endpoint, stopping at the first
// confirmed injection.
func (c *Checker) Check(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool) {
	for _, point := range probe.QueryPoints(endpoint) {
		for i, payload := range payloads {
			if c.cfg.MaxPayloads > 0 && i >= c.cfg.MaxPayloads {
				break
			}
			for _, variant := range c.mutator.Variants(payload) {
				if ctx.Err() != nil {
					return nil, false
				}
				resp, rtt, err := probe.Send(ctx, s, point, variant)
				if err != nil {
					continue
				}
				body, _ := iohelper.ReadBodyDefault(resp.Body)
				iohelper.DrainAndClose(resp.Body)
				if resp.StatusCode >= 400 {
					continue
				}

				if rtt >= c.cfg.TimeThreshold {
					return &finding.Finding{
						Type:     "Command Injection",
						Severity: finding.Critical,
						URL:      endpoint,
						Evidence: fmt.Sprintf("time-based command injection in parameter: %s (response delayed %v)", point.Name, rtt.Round(time.Millisecond)),
						Description: "Command injection allows attackers to execute arbitrary commands on the " +
							"server. An injected delay command measurably stalled the response.",
					}, true
				}

				if marker, ok := matchOutput(string(body)); ok {
					return &finding.Finding{
						Type:     "Command Injection",
						Severity: finding.Critical,
						URL:      endpoint,
						Evidence: fmt.Sprintf("output-based command injection in parameter: %s (matched %q)", point.Name, marker),
						Description: "Command injection allows attackers to execute arbitrary commands on the " +
							"server and read their output from the response.",
					}, true
				}
			}
		}
	}
	return nil, false
}

// matchOutput reports the first command-output marker found in body.
func matchOutput(body string) (string, bool) {
	lower := strings.ToLower(body)
	for _, marker := range outputMarkers {
		if strings.Contains(lower, marker) {
			return marker, true
		}
	}
	return "", false
}
