package panels

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/tui/components"
)

// MainTab identifies the active content tab in the pattern view.
type MainTab int

const (
	TabPattern MainTab = iota // Current pattern and compile status
	TabJournal                // Journal events for the selected unit
)

var mainTabLabels = []string{"Pattern", "Journal"}

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	patternStyle = lipgloss.NewStyle().Bold(true)
)

// MainView is the right-top panel: the selected unit's pattern and its
// journal.
type MainView struct {
	tabbar    components.TabBar
	journal   components.LogView
	summary   []string
	width     int
	height    int
	activeTab MainTab
}

// NewMainView creates a MainView with the pattern tab active.
func NewMainView(w, h int) MainView {
	contentH := max(h-1, 1) // subtract tab bar row
	return MainView{
		tabbar:  components.NewTabBar(mainTabLabels).SetWidth(w),
		journal: components.NewLogView(w, contentH),
		width:   w,
		height:  h,
	}
}

// SummaryLines describes u's current pattern under flags.
func SummaryLines(u history.Unit, flags string) []string {
	p := u.Current().WithFlags(flags)
	lines := []string{
		fmt.Sprintf("%s  %s", patternStyle.Render(u.Name()), dimStyle.Render(shortID(u.ID()))),
		"",
		patternStyle.Render(p.String()),
		"",
	}
	if _, err := p.Compile(); err != nil {
		lines = append(lines, failStyle.Render("✗ "+err.Error()))
	} else {
		lines = append(lines, okStyle.Render("✓ compiles"))
	}
	avail := u.Available()
	lines = append(lines,
		fmt.Sprintf("steps: %d", u.Len()),
		fmt.Sprintf("available: %d operations", avail.Len()),
	)
	if avail.Len() == 0 {
		lines = append(lines, dimStyle.Render("chain is finished; edit a step or start a new unit"))
	}
	return lines
}

// SetUnit shows u's pattern.
func (v MainView) SetUnit(u history.Unit, flags string) MainView {
	v.summary = SummaryLines(u, flags)
	return v
}

// Clear empties both tabs.
func (v MainView) Clear() MainView {
	v.summary = nil
	v.journal = v.journal.Clear()
	return v
}

// ShowJournal loads pre-rendered journal lines into the journal tab.
func (v MainView) ShowJournal(rendered []string) MainView {
	v.journal = v.journal.SetContent(rendered)
	return v
}

// ActiveTab returns the visible tab.
func (v MainView) ActiveTab() MainTab { return v.activeTab }

// SetSize resizes the main view.
func (v MainView) SetSize(w, h int) MainView {
	v.width = w
	v.height = h
	v.tabbar = v.tabbar.SetWidth(w)
	v.journal = v.journal.SetSize(w, max(h-1, 1))
	return v
}

// Update handles key messages for the main panel.
func (v MainView) Update(msg tea.Msg) (MainView, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "]":
			v.tabbar = v.tabbar.Next()
			v.activeTab = MainTab(v.tabbar.Active())
		case "[":
			v.tabbar = v.tabbar.Prev()
			v.activeTab = MainTab(v.tabbar.Active())
		default:
			if v.activeTab == TabJournal {
				v.journal, cmd = v.journal.Update(msg)
			}
		}
	default:
		if v.activeTab == TabJournal {
			v.journal, cmd = v.journal.Update(msg)
		}
	}
	return v, cmd
}

// View renders the main panel: tab bar + content area.
func (v MainView) View() string {
	var content string
	if v.activeTab == TabJournal {
		content = v.journal.View()
	} else {
		content = v.renderSummary()
	}
	return lipgloss.JoinVertical(lipgloss.Left, v.tabbar.View(), content)
}

func (v MainView) renderSummary() string {
	style := lipgloss.NewStyle().Width(v.width).Height(max(v.height-1, 1))
	if len(v.summary) == 0 {
		return style.
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No unit selected")
	}
	return style.Padding(0, 1).Render(strings.Join(v.summary, "\n"))
}

// shortID returns the first eight characters of a unit id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
