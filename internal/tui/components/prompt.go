package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PromptResult reports what a key did to an open Prompt.
type PromptResult int

const (
	PromptEditing   PromptResult = iota // still typing
	PromptSubmitted                     // enter pressed; Value holds the input
	PromptCancelled                     // esc pressed
)

var (
	promptLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(defaultAccent))
	promptHintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Prompt is a one-line text input overlay with a label and a hint line.
type Prompt struct {
	input  textinput.Model
	label  string
	hint   string
	active bool
	width  int
}

// NewPrompt creates a closed prompt.
func NewPrompt(w int) Prompt {
	ti := textinput.New()
	ti.CharLimit = 256
	p := Prompt{input: ti}
	return p.SetWidth(w)
}

// Open focuses the prompt with the given label, hint and initial value.
func (p Prompt) Open(label, hint, value string) (Prompt, tea.Cmd) {
	p.label = label
	p.hint = hint
	p.active = true
	p.input.Reset()
	p.input.SetValue(value)
	p.input.CursorEnd()
	p.input.Focus()
	return p, textinput.Blink
}

// Close hides the prompt.
func (p Prompt) Close() Prompt {
	p.active = false
	p.input.Blur()
	return p
}

// Active reports whether the prompt is open.
func (p Prompt) Active() bool { return p.active }

// Value returns the current input. It stays readable after submission until
// the prompt is opened again.
func (p Prompt) Value() string { return p.input.Value() }

// SetWidth resizes the input field.
func (p Prompt) SetWidth(w int) Prompt {
	p.width = w
	if w > 4 {
		p.input.Width = w - 4
	}
	return p
}

// Update feeds msg to the input. Enter submits and esc cancels; both close
// the prompt.
func (p Prompt) Update(msg tea.Msg) (Prompt, PromptResult, tea.Cmd) {
	if !p.active {
		return p, PromptEditing, nil
	}
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return p.Close(), PromptCancelled, nil
		case "enter":
			return p.Close(), PromptSubmitted, nil
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, PromptEditing, cmd
}

// View renders label, input and hint stacked vertically.
func (p Prompt) View() string {
	lines := []string{promptLabelStyle.Render(p.label), p.input.View()}
	if p.hint != "" {
		lines = append(lines, promptHintStyle.Render(p.hint))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
