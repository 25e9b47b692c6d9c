// Package tui provides the bubbletea + lipgloss terminal UI for building
// patterns step by step.
package tui

import "github.com/charmbracelet/lipgloss"

// defaultAccentColor is the default accent color (indigo).
const defaultAccentColor = "#7D56F4"

var (
	colorWhite  = lipgloss.Color("#FAFAFA")
	colorGray   = lipgloss.Color("#888888")
	colorBlue   = lipgloss.Color("#5B9BD5")
	colorGreen  = lipgloss.Color("#6BCB77")
	colorYellow = lipgloss.Color("#FFD93D")
	colorRed    = lipgloss.Color("#FF6B6B")
	colorOrange = lipgloss.Color("#FFA54F")
)

// Styles used across the TUI. Accent-dependent styles live on the Theme.
var (
	timestampStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	editStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	undoStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	reloadStyle = lipgloss.NewStyle().
			Foreground(colorBlue)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorOrange)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(colorWhite)
)

// activityIcon returns the icon for an activity kind.
func activityIcon(k activityKind) string {
	switch k {
	case actEdit:
		return "✚"
	case actUndo:
		return "↶"
	case actReload:
		return "⟳"
	case actWarn:
		return "⚠"
	case actError:
		return "✗"
	default:
		return "·"
	}
}

// activityStyle returns the lipgloss style for an activity kind.
func activityStyle(k activityKind) lipgloss.Style {
	switch k {
	case actEdit:
		return editStyle
	case actUndo:
		return undoStyle
	case actReload:
		return reloadStyle
	case actWarn:
		return warnStyle
	case actError:
		return errorStyle
	default:
		return infoStyle
	}
}
