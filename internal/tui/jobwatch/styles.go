package jobwatch

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	colorPrimary   = lipgloss.Color("#7C3AED")
	colorSecondary = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorMuted     = lipgloss.Color("#6B7280")
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(colorPrimary)

	labelStyle = lipgloss.NewStyle().Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Italic(true)

	doneStyle = lipgloss.NewStyle().Foreground(colorSecondary)

	failedStyle = lipgloss.NewStyle().Foreground(colorError)
)
