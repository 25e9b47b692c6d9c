package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
	"github.com/LISSConsulting/LISSTech.RXP/internal/tui/components"
)

// SecondaryTab identifies the active content tab in the secondary panel.
type SecondaryTab int

const (
	TabActivity SecondaryTab = iota // Edits, errors and reloads
	TabMatches                      // Result of the last match test
)

var secondaryTabLabels = []string{"Activity", "Matches"}

// MatchResult is one match test against a pattern.
type MatchResult struct {
	Pattern rxp.Pattern
	Input   string
	Matches []string
	Err     error
}

// SecondaryPanel is the right-bottom panel with activity and match tabs.
type SecondaryPanel struct {
	tabbar    components.TabBar
	activity  components.LogView
	result    *MatchResult
	width     int
	height    int
	activeTab SecondaryTab
}

// activityLimit bounds the activity lines kept in memory.
const activityLimit = 1000

// NewSecondaryPanel creates a secondary panel.
func NewSecondaryPanel(w, h int) SecondaryPanel {
	return SecondaryPanel{
		tabbar:    components.NewTabBar(secondaryTabLabels).SetWidth(w),
		activity:  components.NewLogView(w, max(h-1, 1)).WithLimit(activityLimit),
		width:     w,
		height:    h,
		activeTab: TabActivity,
	}
}

// AppendActivity appends a pre-rendered line to the activity tab.
func (p SecondaryPanel) AppendActivity(rendered string) SecondaryPanel {
	p.activity = p.activity.AppendLine(rendered)
	return p
}

// ShowMatches records r and switches to the matches tab.
func (p SecondaryPanel) ShowMatches(r MatchResult) SecondaryPanel {
	p.result = &r
	p.activeTab = TabMatches
	p.tabbar = p.tabbar.SetActive(int(TabMatches))
	return p
}

// ActiveTab returns the visible tab.
func (p SecondaryPanel) ActiveTab() SecondaryTab { return p.activeTab }

// ActivityLines returns the activity log.
func (p SecondaryPanel) ActivityLines() []string { return p.activity.Lines() }

// SetSize resizes all internal viewports.
func (p SecondaryPanel) SetSize(w, h int) SecondaryPanel {
	p.width = w
	p.height = h
	p.tabbar = p.tabbar.SetWidth(w)
	p.activity = p.activity.SetSize(w, max(h-1, 1))
	return p
}

// Update handles key messages for the secondary panel.
func (p SecondaryPanel) Update(msg tea.Msg) (SecondaryPanel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "]":
			p.tabbar = p.tabbar.Next()
			p.activeTab = SecondaryTab(p.tabbar.Active())
		case "[":
			p.tabbar = p.tabbar.Prev()
			p.activeTab = SecondaryTab(p.tabbar.Active())
		case "f":
			p.activity = p.activity.ToggleFollow()
		default:
			if p.activeTab == TabActivity {
				p.activity, cmd = p.activity.Update(msg)
			}
		}
	default:
		if p.activeTab == TabActivity {
			p.activity, cmd = p.activity.Update(msg)
		}
	}
	return p, cmd
}

// View renders the secondary panel: tab bar + active tab content.
func (p SecondaryPanel) View() string {
	var content string
	switch p.activeTab {
	case TabMatches:
		content = p.renderMatches()
	default:
		content = p.activity.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, p.tabbar.View(), content)
}

func (p SecondaryPanel) renderMatches() string {
	style := lipgloss.NewStyle().Width(p.width).Height(max(p.height-1, 1))
	if p.result == nil {
		return style.
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No test yet\npress t to try the pattern")
	}
	r := p.result
	var sb strings.Builder
	sb.WriteString(dimStyle.Render("pattern ") + r.Pattern.String() + "\n")
	sb.WriteString(dimStyle.Render("input   ") + fmt.Sprintf("%q", r.Input) + "\n\n")
	switch {
	case r.Err != nil:
		sb.WriteString(failStyle.Render("✗ " + r.Err.Error()))
	case len(r.Matches) == 0:
		sb.WriteString(failStyle.Render("no match"))
	default:
		sb.WriteString(okStyle.Render(fmt.Sprintf("%d match(es)", len(r.Matches))))
		for i, m := range r.Matches {
			fmt.Fprintf(&sb, "\n%3d  %q", i+1, m)
		}
	}
	return style.Render(sb.String())
}
