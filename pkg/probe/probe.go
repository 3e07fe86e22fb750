// Package probe defines the contract every vulnerability checker
// implements and the input-point extraction shared between them.
//
// A probe examines one endpoint for one vulnerability class. It returns at
// most one finding per endpoint: the first input point and payload variant
// that satisfies an oracle wins, and the probe stops there rather than
// enumerating every injectable parameter. Transport and parsing failures
// inside a single trial mean "oracle not satisfied" for that trial only.
package probe

import (
	"context"

	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/session"
)

// Probe is the capability every checker implements. Check reports
// (finding, true) on a confirmed hit and (nil, false) otherwise; it never
// panics across the call boundary and never returns more than one finding.
type Probe interface {
	// Name identifies the vulnerability class, e.g. "SQL Injection".
	Name() string

	// Check probes endpoint through the shared session.
	Check(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool)
}

// Func adapts a plain function to the Probe interface.
type Func struct {
	ProbeName string
	CheckFunc func(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool)
}

func (f Func) Name() string { return f.ProbeName }

func (f Func) Check(ctx context.Context, s *session.Session, endpoint string) (*finding.Finding, bool) {
	return f.CheckFunc(ctx, s, endpoint)
}
