package panels

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
	"github.com/LISSConsulting/LISSTech.RXP/internal/tui/components"
)

// ApplyOpMsg is emitted when the user completes an instruction. Index is the
// step to replace, or -1 to append.
type ApplyOpMsg struct {
	Instruction history.Instruction
	Index       int
}

// opItem wraps an operation as a list.Item.
type opItem struct{ op rxp.Operation }

func (o opItem) Title() string       { return string(o.op) }
func (o opItem) Description() string { return o.op.Description() }
func (o opItem) FilterValue() string { return string(o.op) }

// levelColors tints operations by legality level.
var levelColors = []lipgloss.Color{"#FAFAFA", "#5B9BD5", "#6BCB77", "#FFD93D", "#FFA54F", "#FF6B6B"}

type opDelegate struct{}

func (d opDelegate) Height() int                             { return 1 }
func (d opDelegate) Spacing() int                            { return 0 }
func (d opDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d opDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(opItem)
	if !ok {
		return
	}
	level := item.op.Level()
	name := fmt.Sprintf("%d %-17s", level, item.op)
	if level >= 0 && level < len(levelColors) {
		name = lipgloss.NewStyle().Foreground(levelColors[level]).Render(name)
	}
	budget := m.Width() - 24
	if budget > 4 {
		name += " " + dimStyle.Render(truncate(item.Description(), budget))
	}
	if index == m.Index() {
		fmt.Fprint(w, selectedStyle.Render("> ")+name)
	} else {
		fmt.Fprint(w, "  "+name)
	}
}

// OpsPanel lists the operations available at the current position and
// collects their arguments.
type OpsPanel struct {
	list    list.Model
	ops     []rxp.Operation
	target  int // step index being replaced, or -1 to append
	prompt  components.Prompt
	pending rxp.Operation
	err     string
	width   int
	height  int
}

// NewOpsPanel creates an empty operations panel.
func NewOpsPanel(w, h int) OpsPanel {
	l := list.New(nil, opDelegate{}, w, h)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return OpsPanel{list: l, target: -1, prompt: components.NewPrompt(w), width: w, height: h}
}

// SetAvailable lists the operations in set. target is the step index the
// next instruction replaces, or -1 to append one; replacing step 0 only
// offers init.
func (p OpsPanel) SetAvailable(set rxp.OperationSet, target int) OpsPanel {
	if target == 0 {
		set = rxp.NewOperationSet(rxp.OpInit)
	}
	ops := set.Ops()
	keep := -1
	if sel, ok := p.list.SelectedItem().(opItem); ok {
		for i, op := range ops {
			if op == sel.op {
				keep = i
			}
		}
	}
	items := make([]list.Item, len(ops))
	for i, op := range ops {
		items[i] = opItem{op: op}
	}
	p.ops = ops
	p.target = target
	p.list.SetItems(items)
	if keep < 0 {
		keep = 0
	}
	p.list.Select(keep)
	return p
}

// Target returns the step index being replaced, or -1.
func (p OpsPanel) Target() int { return p.target }

// InputActive reports whether the argument prompt has keyboard focus.
func (p OpsPanel) InputActive() bool { return p.prompt.Active() }

// Selected returns the highlighted operation.
func (p OpsPanel) Selected() (rxp.Operation, bool) {
	if item, ok := p.list.SelectedItem().(opItem); ok {
		return item.op, true
	}
	return "", false
}

// SetSize resizes the panel.
func (p OpsPanel) SetSize(w, h int) OpsPanel {
	p.width = w
	p.height = h
	p.list.SetSize(w, h)
	p.prompt = p.prompt.SetWidth(w)
	return p
}

// ArgHint describes the arguments op takes. ok is false for operations
// without arguments.
func ArgHint(op rxp.Operation) (hint string, ok bool) {
	switch op {
	case rxp.OpInit, rxp.OpOr, rxp.OpFollowedBy, rxp.OpNotFollowedBy, rxp.OpPrecededBy, rxp.OpNotPrecededBy:
		return "text, text or /raw pattern/", true
	case rxp.OpOccurs, rxp.OpOccursAtLeast:
		return "count", true
	case rxp.OpOccursBetween:
		return "min,max", true
	case rxp.OpIsVariable:
		return "name (blank for automatic)", true
	default:
		return "", false
	}
}

// BuildInstruction turns op and the typed argument text into an
// instruction.
func BuildInstruction(op rxp.Operation, args string) (history.Instruction, error) {
	args = strings.TrimSpace(args)
	if args == "" {
		if op == rxp.OpIsVariable {
			return history.VariableStep{}, nil
		}
		if _, needs := ArgHint(op); needs {
			return nil, fmt.Errorf("%s needs an argument", op)
		}
		return history.ParseInstruction(string(op))
	}
	return history.ParseInstruction(string(op) + ":" + args)
}

// Update handles key/mouse messages for the panel.
func (p OpsPanel) Update(msg tea.Msg) (OpsPanel, tea.Cmd) {
	if p.prompt.Active() {
		var res components.PromptResult
		var cmd tea.Cmd
		p.prompt, res, cmd = p.prompt.Update(msg)
		switch res {
		case components.PromptSubmitted:
			return p.emit(p.pending, p.prompt.Value())
		case components.PromptCancelled:
			p.err = ""
		}
		return p, cmd
	}

	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyDown})
		case "k", "up":
			p.list, cmd = p.list.Update(tea.KeyMsg{Type: tea.KeyUp})
		case "enter":
			op, ok := p.Selected()
			if !ok {
				return p, nil
			}
			hint, needs := ArgHint(op)
			if !needs {
				return p.emit(op, "")
			}
			p.pending = op
			p.err = ""
			p.prompt, cmd = p.prompt.Open(string(op)+": "+op.Description(), hint, "")
		default:
			p.list, cmd = p.list.Update(msg)
		}
	default:
		p.list, cmd = p.list.Update(msg)
	}
	return p, cmd
}

func (p OpsPanel) emit(op rxp.Operation, args string) (OpsPanel, tea.Cmd) {
	in, err := BuildInstruction(op, args)
	if err != nil {
		p.err = err.Error()
		return p, nil
	}
	p.err = ""
	target := p.target
	return p, func() tea.Msg { return ApplyOpMsg{Instruction: in, Index: target} }
}

// View renders the operations panel.
func (p OpsPanel) View() string {
	if p.prompt.Active() {
		return lipgloss.NewStyle().Width(p.width).Height(p.height).Render(p.prompt.View())
	}
	var head string
	if p.target >= 0 {
		head = selectedStyle.Render(fmt.Sprintf("replace step %d", p.target))
	}
	if p.err != "" {
		head = lipgloss.JoinVertical(lipgloss.Left, head,
			lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Render(p.err))
	}
	if len(p.ops) == 0 {
		body := lipgloss.NewStyle().
			Width(p.width).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("#888888")).
			Render("No operations available")
		return lipgloss.JoinVertical(lipgloss.Left, head, body)
	}
	if head == "" {
		return p.list.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, p.list.View())
}
