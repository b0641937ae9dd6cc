// Package tui provides the interactive SD card browser. It uses
// Charmbracelet's Bubble Tea, Lip Gloss, and Bubbles for the terminal UI.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette for the TUI.
var (
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#00D9FF")

	successColor = lipgloss.Color("#28A745")
	dangerColor  = lipgloss.Color("#DC3545")

	mutedColor     = lipgloss.Color("#666666")
	borderColor    = lipgloss.Color("#333333")
	highlightColor = lipgloss.Color("#1A1A2E")
)

var (
	// outerBoxStyle is the main container style.
	outerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)

	// titleStyle for the path header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	// mutedTextStyle for less important text.
	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// errorTextStyle for error messages.
	errorTextStyle = lipgloss.NewStyle().
			Foreground(dangerColor)

	// dirStyle for directory entries.
	dirStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	// romStyle for ROM file entries.
	romStyle = lipgloss.NewStyle().
			Foreground(successColor)

	// normalItemStyle for other files.
	normalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	// selectedItemStyle for the cursor row.
	selectedItemStyle = lipgloss.NewStyle().
				Background(highlightColor).
				Foreground(lipgloss.Color("#FFFFFF")).
				Bold(true)

	// fileSizeStyle for the size column.
	fileSizeStyle = lipgloss.NewStyle().
			Width(10).
			Align(lipgloss.Right).
			Foreground(accentColor)

	// keyStyle for keyboard key hints.
	keyStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	// keyDescStyle for key descriptions.
	keyDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// dividerStyle for horizontal rules.
	dividerStyle = lipgloss.NewStyle().
			Foreground(borderColor)
)

// renderDivider creates a horizontal divider line.
func renderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	line := make([]rune, width)
	for i := range line {
		line[i] = '─'
	}
	return dividerStyle.Render(string(line))
}

// truncatePath truncates a path to fit within maxLen, preserving the end.
func truncatePath(path string, maxLen int) string {
	if len(path) <= maxLen {
		return path
	}
	if maxLen <= 3 {
		return path[:maxLen]
	}
	return "..." + path[len(path)-(maxLen-3):]
}
