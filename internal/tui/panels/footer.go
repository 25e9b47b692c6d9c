package panels

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

// FooterProps holds all data needed to render the footer bar.
type FooterProps struct {
	Focus    string // "history", "ops", "pattern", "activity"
	Status   string // last action or error, shown on the left
	Typing   bool   // a prompt is open
	Confirm  string // pending yes/no question; overrides the hints
	EditStep int    // step being replaced, or -1
}

// RenderFooter renders the context-sensitive footer bar.
// Left side: status. Right side: keybinding hints for the focus plus globals.
func RenderFooter(props FooterProps, width int) string {
	left := props.Status

	var right string
	switch {
	case props.Confirm != "":
		right = props.Confirm + "  y:yes  any key:no"
	case props.Typing:
		right = "enter:apply  esc:cancel"
	default:
		hints := panelHints(props.Focus)
		if props.EditStep >= 0 {
			hints = "editing step " + strconv.Itoa(props.EditStep) + "  esc:stop editing  " + hints
		}
		right = hints + "  tab:unit  n:new  r:rename  x:close  u:undo  t:test  q:quit"
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}

	return footerStyle.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}

// panelHints returns the context-sensitive keybinding hints for a given focus.
func panelHints(focus string) string {
	switch focus {
	case "history":
		return "j/k:navigate  e:edit step"
	case "ops":
		return "j/k:navigate  enter:apply"
	case "pattern":
		return "[/]:tab  j/k:scroll"
	case "activity":
		return "[/]:tab  f:follow  j/k:scroll"
	default:
		return ""
	}
}
