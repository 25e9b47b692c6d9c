package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
	"github.com/LISSConsulting/LISSTech.RXP/internal/store"
	"github.com/LISSConsulting/LISSTech.RXP/internal/tui/components"
	"github.com/LISSConsulting/LISSTech.RXP/internal/tui/panels"
)

// Options configures a Model.
type Options struct {
	Editor  Editor
	Journal store.Reader    // source for the journal tab; may be nil
	Changes <-chan struct{} // journal changes made by other processes; may be nil

	AccentColor string
	ProjectName string
	WorkDir     string
	Flags       string // flags applied when displaying and testing patterns
	Policy      history.ReplayPolicy
}

// Model is the root bubbletea model for the constructor TUI.
type Model struct {
	editor  Editor
	journal store.Reader
	changes <-chan struct{}

	// Sub-panels
	tabs      components.TabBar
	steps     panels.HistoryPanel
	ops       panels.OpsPanel
	mainView  panels.MainView
	secondary panels.SecondaryPanel
	prompt    components.Prompt

	// Layout and focus
	layout Layout
	focus  FocusTarget
	theme  Theme
	width  int
	height int

	// Selection and editing
	units    history.Collection
	selected string // id of the selected unit
	editStep int    // step being replaced, or -1
	asking   promptKind
	stale    *staleRecovery
	status   string

	// Time
	startedAt time.Time
	now       time.Time

	// Identity
	projectName string
	workDir     string
	flags       string
	policy      history.ReplayPolicy
}

// New creates the TUI Model. The last open unit starts selected.
func New(opts Options) Model {
	now := time.Now()
	th := NewTheme(opts.AccentColor)
	layout := Calculate(80, 24)

	histW, histH := innerDims(layout.History)
	opsW, opsH := innerDims(layout.Ops)
	patW, patH := innerDims(layout.Pattern)
	secW, secH := innerDims(layout.Secondary)

	m := Model{
		editor:      opts.Editor,
		journal:     opts.Journal,
		changes:     opts.Changes,
		tabs:        components.NewTabBar(nil).WithAccent(th.Accent()).SetWidth(80),
		steps:       panels.NewHistoryPanel(histW, histH),
		ops:         panels.NewOpsPanel(opsW, opsH),
		mainView:    panels.NewMainView(patW, patH),
		secondary:   panels.NewSecondaryPanel(secW, secH),
		prompt:      components.NewPrompt(patW),
		layout:      layout,
		focus:       FocusOps,
		theme:       th,
		width:       80,
		height:      24,
		editStep:    -1,
		startedAt:   now,
		now:         now,
		projectName: opts.ProjectName,
		workDir:     opts.WorkDir,
		flags:       opts.Flags,
		policy:      opts.Policy,
	}
	m.units = m.editor.Units()
	if n := m.units.Len(); n > 0 {
		m.selected = m.units.At(n - 1).ID()
	}
	return m.refresh()
}

// Init returns the initial commands: clock ticker, journal watcher and the
// journal tab for the selected unit.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForChange(m.changes), m.loadJournal())
}

// Selected returns the selected unit.
func (m Model) Selected() (history.Unit, bool) {
	if m.selected == "" {
		return history.Unit{}, false
	}
	return m.units.Get(m.selected)
}

// tickCmd schedules the next one-second clock tick.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForChange blocks on the change channel. A nil channel disables
// watching.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return watchClosedMsg{}
		}
		return journalChangedMsg{}
	}
}

// loadJournal reads the selected unit's events for the journal tab.
func (m Model) loadJournal() tea.Cmd {
	if m.journal == nil || m.selected == "" {
		return nil
	}
	r, id := m.journal, m.selected
	return func() tea.Msg {
		events, err := r.UnitLog(id)
		return journalLoadedMsg{unitID: id, events: events, err: err}
	}
}

// refresh pushes the selected unit into every panel. A selection that no
// longer exists falls back to the last unit.
func (m Model) refresh() Model {
	if _, ok := m.units.Get(m.selected); !ok {
		m.selected = ""
		if n := m.units.Len(); n > 0 {
			m.selected = m.units.At(n - 1).ID()
		}
	}

	names := make([]string, m.units.Len())
	for i, u := range m.units.Units() {
		names[i] = u.Name()
	}
	m.tabs = m.tabs.SetTabs(names)

	u, ok := m.Selected()
	if !ok {
		m.editStep = -1
		m.steps = m.steps.Clear()
		m.ops = m.ops.SetAvailable(0, -1)
		m.mainView = m.mainView.Clear()
		return m
	}
	m.tabs = m.tabs.SetActive(m.units.Index(u.ID()))
	if m.editStep >= u.Len() {
		m.editStep = -1
	}
	m.steps = m.steps.SetUnit(u)
	m.ops = m.ops.SetAvailable(availableAt(u, m.editStep), m.editStep)
	m.mainView = m.mainView.SetUnit(u, m.flags)
	return m
}

// availableAt returns the operations legal for the instruction at step
// index of u, or after its last step when index is negative.
func availableAt(u history.Unit, index int) rxp.OperationSet {
	steps := u.History()
	if index <= 0 || index > len(steps) {
		return u.Available()
	}
	return steps[index-1].Available
}
