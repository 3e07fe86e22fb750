package finding

// Severity classifies the impact of a finding. Values are lowercase
// strings and are part of the wire format consumed downstream.
type Severity string

const (
	// Critical findings allow direct compromise (SQL injection, command
	// injection).
	Critical Severity = "critical"

	// High findings have significant impact (XSS, file disclosure, SSRF).
	High Severity = "high"

	// Medium findings require user interaction or unusual conditions
	// (open redirect, clickjacking).
	Medium Severity = "medium"

	// Low findings are hardening gaps (missing security headers).
	Low Severity = "low"

	// Info findings carry no direct security impact.
	Info Severity = "info"
)

// IsValid reports whether s is a recognized severity level.
func (s Severity) IsValid() bool {
	switch s {
	case Critical, High, Medium, Low, Info:
		return true
	}
	return false
}

// Score returns a numeric rank for sorting: Critical=5 down to Info=1,
// unknown=0.
func (s Severity) Score() int {
	switch s {
	case Critical:
		return 5
	case High:
		return 4
	case Medium:
		return 3
	case Low:
		return 2
	case Info:
		return 1
	}
	return 0
}

func (s Severity) String() string { return string(s) }
