package finding

import "errors"

// Sentinel errors for scan-level failure modes. Check with errors.Is.
var (
	// ErrMissingTarget indicates the scan was started without a target
	// URL. This is the only configuration error that is fatal before any
	// work begins.
	ErrMissingTarget = errors.New("finding: missing target URL")

	// ErrInvalidTarget indicates the target URL could not be parsed.
	ErrInvalidTarget = errors.New("finding: invalid target URL")
)
