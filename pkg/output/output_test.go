package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/jsonutil"
)

func sampleResult() *finding.ScanResult {
	r := finding.NewScanResult("https://example.com")
	r.Endpoints = []string{"https://example.com/", "https://example.com/login"}
	r.Findings = []finding.Finding{
		{
			Type:        "XSS",
			Severity:    finding.High,
			URL:         "https://example.com/search?q=x",
			Evidence:    `parameter q reflected "<script>" unescaped`,
			Description: "reflected cross-site scripting",
		},
		{
			Type:     "Missing Security Headers",
			Severity: finding.Low,
			URL:      "https://example.com/",
			Evidence: "missing: Content-Security-Policy",
		},
	}
	r.Stats = finding.Stats{
		TasksRun:     18,
		TasksFailed:  1,
		CrawlElapsed: 1200 * time.Millisecond,
		ProbeElapsed: 3 * time.Second,
	}
	return r
}

func TestWriteJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResult(), "json"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var decoded finding.ScanResult
	if err := jsonutil.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Findings) != 2 || decoded.Findings[0].Type != "XSS" {
		t.Errorf("unexpected decoded result %+v", decoded)
	}
	if decoded.Stats.CrawlElapsed != 1200*time.Millisecond || decoded.Stats.ProbeElapsed != 3*time.Second {
		t.Errorf("stats durations did not round-trip: %+v", decoded.Stats)
	}
	for _, key := range []string{`"type"`, `"severity"`, `"url"`, `"evidence"`, `"description"`} {
		if !strings.Contains(buf.String(), key) {
			t.Errorf("wire output missing %s key", key)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleResult(), "csv"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "type" || rows[1][1] != "high" || rows[2][0] != "Missing Security Headers" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	if err := Write(&bytes.Buffer{}, sampleResult(), "xml"); err == nil {
		t.Error("expected an error for unknown format")
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	if err := WriteFile(path, sampleResult(), ""); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"XSS"`) {
		t.Error("file content missing findings")
	}
}
