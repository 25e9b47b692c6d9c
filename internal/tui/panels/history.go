package panels

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
)

// EditStepRequestMsg is emitted when the user asks to replace a step.
// Defined here (not in parent tui package) to avoid circular imports.
type EditStepRequestMsg struct{ Index int }

// stepItem implements list.Item for one history step.
type stepItem struct {
	index int
	step  history.StepResult
}

func (i stepItem) Title() string {
	return fmt.Sprintf("%2d  %s", i.index, history.Describe(i.step.Instruction))
}

func (i stepItem) Description() string { return i.step.Pattern.Source }

func (i stepItem) FilterValue() string { return history.Describe(i.step.Instruction) }

// stepDelegate renders a step on one line: index, instruction, pattern.
type stepDelegate struct{}

var (
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func (d stepDelegate) Height() int                             { return 1 }
func (d stepDelegate) Spacing() int                            { return 0 }
func (d stepDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d stepDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(stepItem)
	if !ok {
		return
	}
	s := item.Title()
	budget := m.Width() - lipgloss.Width(s) - 6
	if src := item.Description(); budget > 4 {
		s += "  " + dimStyle.Render(truncate(src, budget))
	}
	if index == m.Index() {
		s = selectedStyle.Render("> ") + s
	} else {
		s = "  " + s
	}
	fmt.Fprint(w, s)
}

// HistoryPanel lists the steps of the selected unit, seed first.
type HistoryPanel struct {
	list   list.Model
	unitID string
	steps  []history.StepResult
	width  int
	height int
}

// NewHistoryPanel creates an empty history panel.
func NewHistoryPanel(w, h int) HistoryPanel {
	l := list.New(nil, stepDelegate{}, w, h)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return HistoryPanel{list: l, width: w, height: h}
}

// SetUnit shows u's history. The selection moves to the last step when the
// unit or its length changed; otherwise it is kept.
func (p HistoryPanel) SetUnit(u history.Unit) HistoryPanel {
	steps := u.History()
	changed := u.ID() != p.unitID || len(steps) != len(p.steps)
	p.unitID = u.ID()
	p.steps = steps
	items := make([]list.Item, len(steps))
	for i, s := range steps {
		items[i] = stepItem{index: i, step: s}
	}
	p.list.SetItems(items)
	if changed && len(items) > 0 {
		p.list.Select(len(items) - 1)
	}
	return p
}

// Clear empties the panel.
func (p HistoryPanel) Clear() HistoryPanel {
	p.unitID = ""
	p.steps = nil
	p.list.SetItems(nil)
	return p
}

// Selected returns the index of the highlighted step.
func (p HistoryPanel) Selected() (int, bool) {
	if item, ok := p.list.SelectedItem().(stepItem); ok {
		return item.index, true
	}
	return 0, false
}

// SetSize resizes the panel.
func (p HistoryPanel) SetSize(w, h int) HistoryPanel {
	p.width = w
	p.height = h
	p.list.SetSize(w, h)
	return p
}

// Update handles key/mouse messages for the panel.
func (p HistoryPanel) Update(msg tea.Msg) (HistoryPanel, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "e", "enter":
			if idx, ok := p.Selected(); ok {
				return p, func() tea.Msg { return EditStepRequestMsg{Index: idx} }
			}
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p, cmd
}

// View renders the history panel.
func (p HistoryPanel) View() string {
	if len(p.steps) == 0 {
		return lipgloss.NewStyle().
			Width(p.width).Height(p.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No unit open\npress n to start one")
	}
	return p.list.View()
}

// truncate shortens s to at most n display columns, marking the cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
