// Package output serializes scan results for files and stdout.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/webscan/webscan/pkg/finding"
	"github.com/webscan/webscan/pkg/jsonutil"
)

// Formats supported by Write.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Write serializes the result in the given format.
func Write(w io.Writer, result *finding.ScanResult, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON, "":
		return WriteJSON(w, result)
	case FormatCSV:
		return WriteCSV(w, result)
	}
	return fmt.Errorf("output: unknown format %q", format)
}

// WriteFile writes the result to path, creating or truncating it.
func WriteFile(path string, result *finding.ScanResult, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer f.Close()

	if err := Write(f, result, format); err != nil {
		return err
	}
	return f.Close()
}

// WriteJSON writes the full result as indented JSON.
func WriteJSON(w io.Writer, result *finding.ScanResult) error {
	return jsonutil.EncodeIndent(w, result, "  ")
}

// WriteCSV writes one row per finding: type, severity, url, evidence,
// description.
func WriteCSV(w io.Writer, result *finding.ScanResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "severity", "url", "evidence", "description"}); err != nil {
		return err
	}
	for _, f := range result.Findings {
		row := []string{f.Type, string(f.Severity), f.URL, f.Evidence, f.Description}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
