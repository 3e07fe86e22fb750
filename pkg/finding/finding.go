// Package finding provides the vulnerability record and scan result types
// shared by every probe package and the orchestrator.
package finding

import (
	"time"

	"github.com/google/uuid"
)

// Finding is one detected vulnerability. The JSON shape is a stable
// contract with downstream consumers (report writers, dashboards) and must
// not change.
type Finding struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	URL         string   `json:"url"`
	Evidence    string   `json:"evidence"`
	Description string   `json:"description"`
}

// Technology is one fingerprinted server, framework, or CMS.
type Technology struct {
	Name     string `json:"name"`
	Category string `json:"category"`           // "server", "framework", "cms"
	Evidence string `json:"evidence,omitempty"` // matched signature
}

// Stats summarizes the work a scan performed. Durations are written as
// integer nanoseconds on the wire.
type Stats struct {
	TasksRun     int           `json:"tasks_run"`
	TasksFailed  int           `json:"tasks_failed"`
	CrawlElapsed time.Duration `json:"crawl_elapsed,format:nano"`
	ProbeElapsed time.Duration `json:"probe_elapsed,format:nano"`
}

// ScanResult aggregates everything one scan produced. It is mutated only
// by the orchestrator while the scan is in flight and is read-only once
// returned to the caller.
type ScanResult struct {
	ScanID       string       `json:"scan_id"`
	Target       string       `json:"target"`
	ScanTime     time.Time    `json:"scan_time"`
	Endpoints    []string     `json:"endpoints"`
	Findings     []Finding    `json:"findings"`
	Technologies []Technology `json:"technologies,omitempty"`
	Stats        Stats        `json:"stats"`
	Interrupted  bool         `json:"interrupted,omitempty"`
}

// NewScanResult creates an empty result for the given target with a fresh
// scan ID.
func NewScanResult(target string) *ScanResult {
	return &ScanResult{
		ScanID:    uuid.NewString(),
		Target:    target,
		ScanTime:  time.Now(),
		Endpoints: []string{},
		Findings:  []Finding{},
	}
}

// BySeverity returns the findings matching sev, preserving order.
func (r *ScanResult) BySeverity(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}
