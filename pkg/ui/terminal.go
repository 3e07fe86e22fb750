package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// TermWidth returns the terminal width for stdout, or 80 when output is
// piped or the size cannot be determined.
func TermWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// ColorEnabled reports whether stdout supports colored output.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
}

// Banner prints the startup banner with the scan target, unless quiet
// mode is on. Styling is skipped when stdout does not support color.
func Banner(target string) {
	if IsQuiet() {
		return
	}
	line := strings.Repeat("─", min(TermWidth(), 60))
	if !ColorEnabled() {
		fmt.Fprintln(os.Stderr, "webscan "+Version)
		fmt.Fprintln(os.Stderr, "target: "+target)
		fmt.Fprintln(os.Stderr, line)
		return
	}
	fmt.Fprintln(os.Stderr, TitleStyle.Render("webscan "+Version))
	fmt.Fprintln(os.Stderr, MutedStyle.Render("target: ")+URLStyle.Render(target))
	fmt.Fprintln(os.Stderr, MutedStyle.Render(line))
}
