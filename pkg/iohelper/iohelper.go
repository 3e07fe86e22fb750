// Package iohelper bounds reads of untrusted HTTP response bodies.
// Probe targets are adversarial by definition, so every body read in the
// scanner goes through a size cap.
package iohelper

import "io"

const (
	// SmallBodySize caps header-adjacent reads such as robots.txt and
	// favicons (16KB).
	SmallBodySize int64 = 16 * 1024

	// DefaultBodySize caps ordinary HTML responses read by the crawler
	// and probes (512KB).
	DefaultBodySize int64 = 512 * 1024
)

// ReadBody reads at most max bytes from r. A nil reader yields an empty
// slice, not an error.
func ReadBody(r io.Reader, max int64) ([]byte, error) {
	if r == nil {
		return []byte{}, nil
	}
	return io.ReadAll(io.LimitReader(r, max))
}

// ReadBodyDefault reads from r with the DefaultBodySize cap.
func ReadBodyDefault(r io.Reader) ([]byte, error) {
	return ReadBody(r, DefaultBodySize)
}

// ReadBodySmall reads from r with the SmallBodySize cap.
func ReadBodySmall(r io.Reader) ([]byte, error) {
	return ReadBody(r, SmallBodySize)
}

// DrainAndClose consumes any remaining data on r and closes it so the
// underlying connection can be reused. Safe in defer; never returns an error.
func DrainAndClose(r io.Reader) error {
	if r == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(r, 64*1024))
	if rc, ok := r.(io.ReadCloser); ok {
		rc.Close()
	}
	return nil
}
