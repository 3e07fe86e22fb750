package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/webscan/webscan/pkg/finding"
)

// Severity colors follow the conventions of mainstream security tooling.
var (
	colorCritical = lipgloss.Color("#FF0000")
	colorHigh     = lipgloss.Color("#FF6B6B")
	colorMedium   = lipgloss.Color("#FFD93D")
	colorLow      = lipgloss.Color("#6BCB77")
	colorInfo     = lipgloss.Color("#4D96FF")
	colorMuted    = lipgloss.Color("#6B7280")
	colorBrand    = lipgloss.Color("#00D4AA")
)

var (
	// TitleStyle renders section headers.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorBrand)

	// MutedStyle renders secondary detail such as evidence snippets.
	MutedStyle = lipgloss.NewStyle().Foreground(colorMuted)

	// URLStyle renders endpoint URLs.
	URLStyle = lipgloss.NewStyle().Underline(true)

	severityStyles = map[finding.Severity]lipgloss.Style{
		finding.Critical: lipgloss.NewStyle().Bold(true).Foreground(colorCritical),
		finding.High:     lipgloss.NewStyle().Bold(true).Foreground(colorHigh),
		finding.Medium:   lipgloss.NewStyle().Foreground(colorMedium),
		finding.Low:      lipgloss.NewStyle().Foreground(colorLow),
		finding.Info:     lipgloss.NewStyle().Foreground(colorInfo),
	}
)

// SeverityStyle returns the render style for a severity level.
func SeverityStyle(s finding.Severity) lipgloss.Style {
	if st, ok := severityStyles[s]; ok {
		return st
	}
	return MutedStyle
}

// SeverityBadge renders a fixed-width, colored severity tag.
func SeverityBadge(s finding.Severity) string {
	return SeverityStyle(s).Render("[" + s.String() + "]")
}
