package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/store"
)

// Theme holds accent-color-derived styles for the TUI.
type Theme struct {
	accent          string
	accentStyle     lipgloss.Style // header background
	eventStyle      lipgloss.Style // journal event kinds
	borderFocused   lipgloss.Style
	borderUnfocused lipgloss.Style
}

// NewTheme creates a Theme from a hex accent color string (e.g. "#7D56F4").
// If accentColor is empty, the default accent color is used.
func NewTheme(accentColor string) Theme {
	color := defaultAccentColor
	if accentColor != "" {
		color = accentColor
	}
	c := lipgloss.Color(color)
	return Theme{
		accent: color,
		accentStyle: lipgloss.NewStyle().
			Background(c).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true),
		eventStyle: lipgloss.NewStyle().
			Foreground(c),
		borderFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c),
		borderUnfocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray),
	}
}

// Accent returns the accent color.
func (t Theme) Accent() string { return t.accent }

// AccentHeaderStyle returns the style for the header bar.
func (t Theme) AccentHeaderStyle() lipgloss.Style {
	return t.accentStyle
}

// PanelBorderStyle returns the border style for a panel based on whether it
// currently holds keyboard focus.
func (t Theme) PanelBorderStyle(focused bool) lipgloss.Style {
	if focused {
		return t.borderFocused
	}
	return t.borderUnfocused
}

// RenderActivity renders one activity entry as a single terminal line no
// wider than width.
func (t Theme) RenderActivity(a activity, width int) string {
	ts := timestampStyle.Render(fmt.Sprintf("[%s]", a.At.Format("15:04:05")))
	text := singleLine(a.Text)
	if limit := max(width-14, 20); len([]rune(text)) > limit {
		text = string([]rune(text)[:limit-1]) + "…"
	}
	return fmt.Sprintf("%s  %s", ts, activityStyle(a.Kind).Render(activityIcon(a.Kind)+" "+text))
}

// RenderEvent renders one journal event as a single terminal line.
func (t Theme) RenderEvent(e store.Event) string {
	ts := timestampStyle.Render(e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	kind := t.eventStyle.Render(fmt.Sprintf("%-7s", e.Kind))
	return fmt.Sprintf("%s  %s %s", ts, kind, eventDetail(e))
}

// eventDetail describes what an event changed.
func eventDetail(e store.Event) string {
	switch e.Kind {
	case store.EventCreate, store.EventReset:
		return fmt.Sprintf("%s (%d steps)", e.Name, len(e.Steps))
	case store.EventAdd:
		return describeWire(e.Step)
	case store.EventReplace:
		return fmt.Sprintf("step %d → %s", e.Index, describeWire(e.Step))
	case store.EventRename:
		return e.Name
	default:
		return ""
	}
}

func describeWire(w *history.Wire) string {
	if w == nil {
		return "?"
	}
	in, err := w.Decode()
	if err != nil {
		return "invalid step: " + err.Error()
	}
	return history.Describe(in)
}
