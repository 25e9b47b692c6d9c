// Package components provides reusable TUI components for the rxp
// constructor.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// defaultAccent matches the config default accent color.
const defaultAccent = "#7D56F4"

// tabInactiveStyle renders inactive tabs in a dimmed style.
var tabInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// TabBar is a stateless tab bar component that renders a row of labelled tabs.
// The active tab is highlighted with accent color and bold text.
type TabBar struct {
	tabs   []string
	active int
	width  int
	accent lipgloss.Style
}

// NewTabBar creates a TabBar with the given tab titles. The first tab is active.
func NewTabBar(tabs []string) TabBar {
	return TabBar{tabs: tabs, accent: accentStyle(defaultAccent)}
}

func accentStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// WithAccent returns a TabBar that highlights the active tab in color.
func (t TabBar) WithAccent(color string) TabBar {
	if color != "" {
		t.accent = accentStyle(color)
	}
	return t
}

// SetTabs replaces the tab titles, keeping the active index in range.
func (t TabBar) SetTabs(tabs []string) TabBar {
	t.tabs = tabs
	return t.SetActive(t.active)
}

// SetActive returns a TabBar with tab i active, clamped to the tab count.
func (t TabBar) SetActive(i int) TabBar {
	switch {
	case len(t.tabs) == 0 || i < 0:
		t.active = 0
	case i >= len(t.tabs):
		t.active = len(t.tabs) - 1
	default:
		t.active = i
	}
	return t
}

// Active returns the index of the currently active tab.
func (t TabBar) Active() int {
	return t.active
}

// Len returns the number of tabs.
func (t TabBar) Len() int { return len(t.tabs) }

// Next returns a TabBar with the next tab active (wraps around).
func (t TabBar) Next() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	t.active = (t.active + 1) % len(t.tabs)
	return t
}

// Prev returns a TabBar with the previous tab active (wraps around).
func (t TabBar) Prev() TabBar {
	if len(t.tabs) == 0 {
		return t
	}
	t.active = (t.active + len(t.tabs) - 1) % len(t.tabs)
	return t
}

// SetWidth returns a TabBar configured for the given render width.
func (t TabBar) SetWidth(w int) TabBar {
	t.width = w
	return t
}

// View renders the tab bar as a single line. Tabs are separated by " │ ".
// When the row is wider than the configured width, leading tabs are dropped
// until the active one fits.
func (t TabBar) View() string {
	if len(t.tabs) == 0 {
		return ""
	}

	first := 0
	if t.width > 0 {
		for first < t.active && rowWidth(t.tabs[first:]) > t.width {
			first++
		}
	}

	parts := make([]string, 0, len(t.tabs)-first)
	for i := first; i < len(t.tabs); i++ {
		if i == t.active {
			parts = append(parts, t.accent.Render(t.tabs[i]))
		} else {
			parts = append(parts, tabInactiveStyle.Render(t.tabs[i]))
		}
	}
	line := strings.Join(parts, "  │  ")
	if first > 0 {
		line = tabInactiveStyle.Render("‹ ") + line
	}
	return line
}

func rowWidth(tabs []string) int {
	w := 0
	for i, s := range tabs {
		if i > 0 {
			w += 5
		}
		w += lipgloss.Width(s)
	}
	return w
}
