package cmd

import (
	"github.com/charmbracelet/lipgloss"
)

// Colors
var (
	colorPrimary = lipgloss.Color("#7C3AED")
	colorSuccess = lipgloss.Color("#10B981")
	colorWarning = lipgloss.Color("#F59E0B")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")
)

// styles holds the terminal styles for one run. The zero value prints
// plain text.
type styles struct {
	on bool

	title   lipgloss.Style
	pass    lipgloss.Style
	fail    lipgloss.Style
	kind    lipgloss.Style
	muted   lipgloss.Style
	warning lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		return styles{}
	}
	return styles{
		on:      true,
		title:   lipgloss.NewStyle().Bold(true).Foreground(colorPrimary),
		pass:    lipgloss.NewStyle().Bold(true).Foreground(colorSuccess),
		fail:    lipgloss.NewStyle().Bold(true).Foreground(colorError),
		kind:    lipgloss.NewStyle().Bold(true).Foreground(colorError),
		muted:   lipgloss.NewStyle().Foreground(colorMuted),
		warning: lipgloss.NewStyle().Foreground(colorWarning),
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if !s.on {
		return text
	}
	return st.Render(text)
}

// verdict styles a golden-check tag.
func (s styles) verdict(pass bool, tag string) string {
	if pass {
		return s.render(s.pass, tag)
	}
	return s.render(s.fail, tag)
}
