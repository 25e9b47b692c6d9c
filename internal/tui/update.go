package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
	"github.com/LISSConsulting/LISSTech.RXP/internal/tui/components"
	"github.com/LISSConsulting/LISSTech.RXP/internal/tui/panels"
)

// Update handles all incoming bubbletea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()
	case editDoneMsg:
		return m.handleEditDone(msg)
	case journalChangedMsg:
		ed := m.editor
		return m, func() tea.Msg { return reloadedMsg{err: ed.Reload()} }
	case reloadedMsg:
		return m.handleReloaded(msg)
	case watchClosedMsg:
		m.changes = nil
		return m.logActivity(actInfo, "stopped watching the journal"), nil
	case journalLoadedMsg:
		return m.handleJournalLoaded(msg), nil
	case panels.EditStepRequestMsg:
		return m.startEdit(msg.Index)
	case panels.ApplyOpMsg:
		return m.applyOp(msg)
	}
	if m.asking != promptNone {
		var cmd tea.Cmd
		m.prompt, _, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m.delegateToFocused(msg)
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.layout = Calculate(msg.Width, msg.Height)
	if !m.layout.TooSmall {
		histW, histH := innerDims(m.layout.History)
		opsW, opsH := innerDims(m.layout.Ops)
		patW, patH := innerDims(m.layout.Pattern)
		secW, secH := innerDims(m.layout.Secondary)
		m.tabs = m.tabs.SetWidth(m.layout.Tabs.Width)
		m.steps = m.steps.SetSize(histW, histH)
		m.ops = m.ops.SetSize(opsW, opsH)
		m.mainView = m.mainView.SetSize(patW, patH)
		m.secondary = m.secondary.SetSize(secW, secH)
		m.prompt = m.prompt.SetWidth(patW)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if m.stale != nil {
		return m.answerStale(key)
	}
	if m.asking != promptNone {
		return m.handlePrompt(msg)
	}
	if m.ops.InputActive() {
		var cmd tea.Cmd
		m.ops, cmd = m.ops.Update(msg)
		return m, cmd
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "tab":
		return m.selectOffset(1)
	case "shift+tab":
		return m.selectOffset(-1)
	case "1":
		m.focus = FocusHistory
		return m, nil
	case "2":
		m.focus = FocusOps
		return m, nil
	case "3":
		m.focus = FocusPattern
		return m, nil
	case "4":
		m.focus = FocusActivity
		return m, nil
	case "right":
		m.focus = m.focus.Next()
		return m, nil
	case "left":
		m.focus = m.focus.Prev()
		return m, nil
	case "esc":
		if m.editStep >= 0 {
			m.editStep = -1
			m.status = "stopped editing"
			return m.refresh(), nil
		}
		return m, nil
	case "n":
		return m.openPrompt(promptNew, "New unit: seed text", "text, text or /raw pattern/", "")
	}

	u, ok := m.Selected()
	switch key {
	case "r", "t", "x", "u":
		if !ok {
			m.status = "no unit selected"
			return m, nil
		}
	}
	switch key {
	case "r":
		return m.openPrompt(promptRename, "Rename "+u.Name(), "", u.Name())
	case "t":
		return m.openPrompt(promptTest, "Test "+u.Current().WithFlags(m.flags).String(), "input text", "")
	case "x":
		return m, m.closeCmd(u.ID())
	case "u":
		if !u.CanUndo() {
			m.status = "nothing to undo"
			return m, nil
		}
		ed, id := m.editor, u.ID()
		return m, editCmd("undid", -1, func() (history.Unit, error) { return ed.Undo(id) })
	}
	return m.delegateToFocused(msg)
}

func (m Model) delegateToFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case FocusHistory:
		m.steps, cmd = m.steps.Update(msg)
	case FocusOps:
		m.ops, cmd = m.ops.Update(msg)
	case FocusPattern:
		m.mainView, cmd = m.mainView.Update(msg)
	case FocusActivity:
		m.secondary, cmd = m.secondary.Update(msg)
	}
	return m, cmd
}

// selectOffset moves the unit selection by delta, wrapping around.
func (m Model) selectOffset(delta int) (tea.Model, tea.Cmd) {
	n := m.units.Len()
	if n == 0 {
		return m, nil
	}
	i := m.units.Index(m.selected)
	i = ((i+delta)%n + n) % n
	m.selected = m.units.At(i).ID()
	m.editStep = -1
	m = m.refresh()
	return m, m.loadJournal()
}

func (m Model) openPrompt(kind promptKind, label, hint, value string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.asking = kind
	m.prompt, cmd = m.prompt.Open(label, hint, value)
	return m, cmd
}

func (m Model) handlePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var res components.PromptResult
	var cmd tea.Cmd
	m.prompt, res, cmd = m.prompt.Update(msg)
	switch res {
	case components.PromptSubmitted:
		kind := m.asking
		m.asking = promptNone
		return m.submitPrompt(kind, m.prompt.Value())
	case components.PromptCancelled:
		m.asking = promptNone
	}
	return m, cmd
}

func (m Model) submitPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	ed := m.editor
	switch kind {
	case promptNew:
		in, err := panels.BuildInstruction(rxp.OpInit, value)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		seed := in.(history.InitStep)
		name := unitName(value)
		return m, editCmd("created", -1, func() (history.Unit, error) { return ed.Create(name, seed) })

	case promptRename:
		name := strings.TrimSpace(value)
		u, ok := m.Selected()
		if name == "" || !ok {
			m.status = "rename needs a name"
			return m, nil
		}
		id := u.ID()
		return m, editCmd("renamed", -1, func() (history.Unit, error) { return ed.Rename(id, name) })

	case promptTest:
		u, ok := m.Selected()
		if !ok {
			return m, nil
		}
		p := u.Current().WithFlags(m.flags)
		matches, err := p.Matches(value)
		m.secondary = m.secondary.ShowMatches(panels.MatchResult{Pattern: p, Input: value, Matches: matches, Err: err})
		if err != nil {
			return m.logActivity(actError, "test: "+err.Error()), nil
		}
		return m.logActivity(actInfo, fmt.Sprintf("tested %s against %q: %d match(es)", p, value, len(matches))), nil
	}
	return m, nil
}

// unitName derives a display name from seed text.
func unitName(seed string) string {
	name := strings.Join(strings.Fields(seed), " ")
	if name == "" {
		return "unit"
	}
	if r := []rune(name); len(r) > 24 {
		name = string(r[:23]) + "…"
	}
	return name
}

func (m Model) startEdit(index int) (tea.Model, tea.Cmd) {
	if _, ok := m.Selected(); !ok {
		return m, nil
	}
	m.editStep = index
	m.focus = FocusOps
	m.status = ""
	return m.refresh(), nil
}

func (m Model) applyOp(msg panels.ApplyOpMsg) (tea.Model, tea.Cmd) {
	u, ok := m.Selected()
	if !ok {
		m.status = "no unit selected"
		return m, nil
	}
	ed, id, in := m.editor, u.ID(), msg.Instruction
	if msg.Index < 0 {
		return m, editCmd("added", -1, func() (history.Unit, error) { return ed.Add(id, in) })
	}
	index := msg.Index
	return m, editCmd("replaced", index, func() (history.Unit, error) { return ed.Replace(id, index, in) })
}

// editCmd runs fn off the update loop and reports it as an editDoneMsg.
func editCmd(verb string, index int, fn func() (history.Unit, error)) tea.Cmd {
	return func() tea.Msg {
		u, err := fn()
		return editDoneMsg{verb: verb, unit: u, index: index, err: err}
	}
}

func (m Model) closeCmd(id string) tea.Cmd {
	ed := m.editor
	return func() tea.Msg {
		return editDoneMsg{verb: "closed", closed: id, index: -1, err: ed.CloseUnit(id)}
	}
}

func (m Model) handleEditDone(msg editDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		var stale *history.StaleInstructionError
		if errors.As(msg.err, &stale) {
			m.stale = &staleRecovery{partial: stale.Partial, index: stale.Index}
			m.status = ""
			return m.logActivity(actWarn, stale.Error()), nil
		}
		m.status = msg.err.Error()
		return m.logActivity(actError, msg.err.Error()), nil
	}

	closedAt := m.units.Index(msg.closed)
	m.units = m.editor.Units()

	var text string
	kind := actEdit
	switch msg.verb {
	case "closed":
		m.selected = ""
		if n := m.units.Len(); n > 0 {
			m.selected = m.units.At(min(max(closedAt, 0), n-1)).ID()
		}
		text = "closed unit " + shortID(msg.closed)
	case "undid", "truncated":
		kind = actUndo
		fallthrough
	default:
		m.selected = msg.unit.ID()
		text = fmt.Sprintf("%s %s  %s", msg.verb, msg.unit.Name(), msg.unit.Current().WithFlags(m.flags))
	}
	if msg.verb == "replaced" || msg.verb == "truncated" {
		m.editStep = -1
	}
	m.status = text
	m = m.logActivity(kind, text).refresh()
	return m, m.loadJournal()
}

// answerStale resolves a pending stale-replace offer: y truncates the unit
// to the partial history, anything else abandons the replace.
func (m Model) answerStale(key string) (tea.Model, tea.Cmd) {
	rec := m.stale
	m.stale = nil
	if key != "y" {
		m.status = "kept history; replace abandoned"
		return m, nil
	}
	ed, partial := m.editor, rec.partial
	return m, editCmd("truncated", rec.index, func() (history.Unit, error) { return ed.Truncate(partial) })
}

func (m Model) handleReloaded(msg reloadedMsg) (tea.Model, tea.Cmd) {
	next := waitForChange(m.changes)
	if msg.err != nil {
		return m.logActivity(actError, "reload: "+msg.err.Error()), next
	}
	units := m.editor.Units()
	if sameUnits(m.units, units) {
		return m, next
	}
	m.units = units
	m = m.logActivity(actReload, "journal changed on disk; reloaded").refresh()
	return m, tea.Batch(next, m.loadJournal())
}

func (m Model) handleJournalLoaded(msg journalLoadedMsg) Model {
	if msg.unitID != m.selected {
		return m
	}
	if msg.err != nil {
		m.mainView = m.mainView.ShowJournal([]string{errorStyle.Render(msg.err.Error())})
		return m
	}
	lines := make([]string, len(msg.events))
	for i, e := range msg.events {
		lines[i] = m.theme.RenderEvent(e)
	}
	m.mainView = m.mainView.ShowJournal(lines)
	return m
}

func (m Model) logActivity(kind activityKind, text string) Model {
	line := m.theme.RenderActivity(activity{At: time.Now(), Kind: kind, Text: text}, m.layout.Secondary.Width)
	m.secondary = m.secondary.AppendActivity(line)
	return m
}

// sameUnits reports whether a and b hold the same units with the same
// names and patterns.
func sameUnits(a, b history.Collection) bool {
	if a.Len() != b.Len() {
		return false
	}
	for i := range a.Len() {
		x, y := a.At(i), b.At(i)
		if x.ID() != y.ID() || x.Name() != y.Name() || x.Len() != y.Len() || x.Current() != y.Current() {
			return false
		}
	}
	return true
}

// shortID returns the first eight characters of a unit id.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
