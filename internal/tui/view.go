package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.RXP/internal/tui/panels"
)

// View renders the full multi-panel TUI.
func (m Model) View() string {
	if m.layout.TooSmall {
		msg := fmt.Sprintf("Terminal too small (%dx%d).\nPlease resize to at least 80x24.", m.width, m.height)
		return lipgloss.NewStyle().
			Width(m.width).
			Align(lipgloss.Center).
			Render(msg)
	}

	header := panels.RenderHeader(panels.HeaderProps{
		ProjectName: m.projectName,
		WorkDir:     m.workDir,
		Units:       m.units.Len(),
		Policy:      m.policy.String(),
		Flags:       m.flags,
		Elapsed:     m.now.Sub(m.startedAt),
		Clock:       m.now,
	}, m.layout.Header.Width, m.theme.AccentHeaderStyle())

	tabs := m.tabs.View()
	if m.tabs.Len() == 0 {
		tabs = timestampStyle.Render(" no units open")
	}

	var confirm string
	if m.stale != nil {
		confirm = fmt.Sprintf("step %d no longer fits; drop it and later steps?", m.stale.index)
	}
	footer := panels.RenderFooter(panels.FooterProps{
		Focus:    m.focus.String(),
		Status:   m.status,
		Typing:   m.asking != promptNone || m.ops.InputActive(),
		Confirm:  confirm,
		EditStep: m.editStep,
	}, m.layout.Footer.Width)

	histW, histH := innerDims(m.layout.History)
	opsW, opsH := innerDims(m.layout.Ops)
	patW, patH := innerDims(m.layout.Pattern)
	secW, secH := innerDims(m.layout.Secondary)

	sidebar := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelBorderStyle(m.focus == FocusHistory).
			Width(histW).Height(histH).
			Render(m.steps.View()),
		m.theme.PanelBorderStyle(m.focus == FocusOps).
			Width(opsW).Height(opsH).
			Render(m.ops.View()),
	)

	pattern := m.mainView.View()
	if m.asking != promptNone {
		pattern = m.prompt.View()
	}
	rightCol := lipgloss.JoinVertical(lipgloss.Left,
		m.theme.PanelBorderStyle(m.focus == FocusPattern || m.asking != promptNone).
			Width(patW).Height(patH).
			Render(pattern),
		m.theme.PanelBorderStyle(m.focus == FocusActivity).
			Width(secW).Height(secH).
			Render(m.secondary.View()),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, rightCol)
	return lipgloss.JoinVertical(lipgloss.Left, header, tabs, body, footer)
}
