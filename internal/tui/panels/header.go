// Package panels provides the panel components for the rxp constructor TUI.
package panels

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// HeaderProps holds all data needed to render the header bar.
type HeaderProps struct {
	ProjectName string
	WorkDir     string
	Units       int
	Policy      string // replay policy, "strict" or "permissive"
	Flags       string
	Elapsed     time.Duration
	Clock       time.Time
}

// AbbreviatePath returns a display-friendly path, replacing the home directory
// with "~" and converting backslashes to forward slashes.
func AbbreviatePath(path string) string {
	if path == "" {
		return ""
	}
	if home, err := os.UserHomeDir(); err == nil && strings.HasPrefix(path, home) {
		path = "~" + path[len(home):]
	}
	return strings.ReplaceAll(path, "\\", "/")
}

// FormatElapsed renders a duration as a compact string: "5s", "2m30s", "1h15m".
func FormatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh%dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}

// RenderHeader renders the header bar. accentStyle is applied to the full
// header width.
func RenderHeader(props HeaderProps, width int, accentStyle lipgloss.Style) string {
	name := "rxp"
	if props.ProjectName != "" {
		name = "rxp · " + props.ProjectName
	}

	parts := []string{name}
	if props.WorkDir != "" {
		parts = append(parts, "dir: "+AbbreviatePath(props.WorkDir))
	}

	flags := props.Flags
	if flags == "" {
		flags = "—"
	}
	parts = append(parts,
		fmt.Sprintf("units: %d", props.Units),
		fmt.Sprintf("replay: %s", props.Policy),
		fmt.Sprintf("flags: %s", flags),
	)
	if props.Elapsed > 0 {
		parts = append(parts, "session: "+FormatElapsed(props.Elapsed))
	}
	if !props.Clock.IsZero() {
		parts = append(parts, props.Clock.Format("15:04"))
	}

	return accentStyle.Width(width).Render(strings.Join(parts, "  │  "))
}
