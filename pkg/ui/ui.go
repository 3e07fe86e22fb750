// Package ui provides terminal presentation for the CLI: severity-colored
// styles, the startup banner, and the User-Agent strings requests identify
// with.
package ui

import (
	"fmt"
	"math/rand"
	"os"
	"sync"
)

// Version can be overridden at build time:
//
//	go build -ldflags "-X github.com/webscan/webscan/pkg/ui.Version=1.0.0"
var Version = "0.3.0"

// UserAgent returns the scanner's default User-Agent string.
func UserAgent() string {
	return fmt.Sprintf("webscan/%s", Version)
}

// browserAgents mirror common desktop browsers so probe traffic blends in
// with ordinary visitors when a target filters on User-Agent.
var browserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:89.0) Gecko/20100101 Firefox/89.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.1.1 Safari/605.1.15",
}

// RandomBrowserAgent returns one of the browser User-Agent strings.
func RandomBrowserAgent() string {
	return browserAgents[rand.Intn(len(browserAgents))] //nolint:gosec // cosmetic rotation, not security-relevant
}

var (
	uiMu     sync.RWMutex
	quiet    bool
	debugOut bool
)

// SetQuiet suppresses informational output.
func SetQuiet(q bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	quiet = q
}

// IsQuiet reports whether informational output is suppressed.
func IsQuiet() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return quiet
}

// SetDebug enables verbose diagnostic output.
func SetDebug(d bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	debugOut = d
}

// IsDebug reports whether debug output is enabled.
func IsDebug() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return debugOut
}

// Infof prints an informational line unless quiet mode is on.
func Infof(format string, args ...any) {
	if IsQuiet() {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// Debugf prints a diagnostic line when debug output is enabled.
func Debugf(format string, args ...any) {
	if !IsDebug() {
		return
	}
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
