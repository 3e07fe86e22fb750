package finding

import (
	"encoding/json"
	"testing"
)

func TestSeverityIsValid(t *testing.T) {
	for _, s := range []Severity{Critical, High, Medium, Low, Info} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Severity("severe").IsValid() {
		t.Error("unknown severity should be invalid")
	}
}

func TestSeverityScore(t *testing.T) {
	order := []Severity{Info, Low, Medium, High, Critical}
	for i := 1; i < len(order); i++ {
		if order[i].Score() <= order[i-1].Score() {
			t.Errorf("%s should outrank %s", order[i], order[i-1])
		}
	}
	if Severity("bogus").Score() != 0 {
		t.Error("unknown severity should score 0")
	}
}

// The Finding JSON shape is a downstream contract; this test pins the
// field names.
func TestFindingWireShape(t *testing.T) {
	f := Finding{
		Type:        "SQL Injection",
		Severity:    Critical,
		URL:         "http://test/search?q=1",
		Evidence:    "error-based SQL injection in parameter: q",
		Description: "input reaches a database query unsanitized",
	}

	data, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"type", "severity", "url", "evidence", "description"} {
		if _, ok := m[key]; !ok {
			t.Errorf("wire shape missing %q", key)
		}
	}
	if m["severity"] != "critical" {
		t.Errorf("severity should serialize lowercase, got %v", m["severity"])
	}
}

func TestNewScanResult(t *testing.T) {
	r := NewScanResult("http://example.test")
	if r.ScanID == "" {
		t.Error("expected scan ID")
	}
	if r.Target != "http://example.test" {
		t.Errorf("unexpected target %q", r.Target)
	}
	if r.Endpoints == nil || r.Findings == nil {
		t.Error("slices should be initialized so empty results serialize as []")
	}
}

func TestBySeverity(t *testing.T) {
	r := NewScanResult("t")
	r.Findings = []Finding{
		{Type: "XSS", Severity: High},
		{Type: "SQL Injection", Severity: Critical},
		{Type: "Missing Security Headers", Severity: Low},
		{Type: "Command Injection", Severity: Critical},
	}
	crit := r.BySeverity(Critical)
	if len(crit) != 2 {
		t.Fatalf("expected 2 critical findings, got %d", len(crit))
	}
	if crit[0].Type != "SQL Injection" || crit[1].Type != "Command Injection" {
		t.Error("BySeverity should preserve order")
	}
}
