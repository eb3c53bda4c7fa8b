// SPDX-License-Identifier: MPL-2.0

package help

import "github.com/charmbracelet/lipgloss"

// Color palette shared by help and error output.
const (
	// ColorPrimary is purple, used for headings.
	ColorPrimary = lipgloss.Color("#7C3AED")

	// ColorMuted is gray, used for descriptions.
	ColorMuted = lipgloss.Color("#6B7280")

	// ColorError is red, used for error messages.
	ColorError = lipgloss.Color("#EF4444")

	// ColorHighlight is blue, used for commands and options.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// HeadingStyle is for section headings and the usage label.
	HeadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// LabelStyle is for command and option names.
	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// TextStyle is for entry descriptions.
	TextStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// ErrorStyle is for "error:" prefixes.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)
)
