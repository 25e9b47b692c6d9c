package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// LogView is a line-oriented scrolling panel over bubbles/viewport. While
// tailing, every change keeps the newest line in view; scrolling away with a
// key or the mouse stops tailing until ToggleFollow turns it back on.
type LogView struct {
	vp      viewport.Model
	lines   []string // pre-styled
	limit   int      // 0 keeps every line
	tailing bool
}

// NewLogView returns an empty, tailing LogView of the given size.
func NewLogView(w, h int) LogView {
	return LogView{vp: viewport.New(w, h), tailing: true}
}

// WithLimit caps the lines kept at n, dropping the oldest first. n <= 0
// removes the cap.
func (v LogView) WithLimit(n int) LogView {
	v.limit = max(n, 0)
	return v.render()
}

// AppendLine adds one pre-styled line. The receiver's lines are never
// written through, so older copies of v stay intact.
func (v LogView) AppendLine(line string) LogView {
	v.lines = append(v.lines[:len(v.lines):len(v.lines)], line)
	return v.render()
}

// SetContent replaces every line with a copy of lines.
func (v LogView) SetContent(lines []string) LogView {
	v.lines = append([]string(nil), lines...)
	return v.render()
}

// Clear drops every line.
func (v LogView) Clear() LogView {
	v.lines = nil
	return v.render()
}

// ToggleFollow switches tailing on or off.
func (v LogView) ToggleFollow() LogView {
	v.tailing = !v.tailing
	if v.tailing {
		v.vp.GotoBottom()
	}
	return v
}

// SetSize resizes the viewport.
func (v LogView) SetSize(w, h int) LogView {
	v.vp.Width, v.vp.Height = w, h
	if v.tailing {
		v.vp.GotoBottom()
	}
	return v
}

// Len returns the number of lines held.
func (v LogView) Len() int { return len(v.lines) }

// Lines returns a copy of the held lines.
func (v LogView) Lines() []string {
	return append([]string(nil), v.lines...)
}

// Following reports whether the view is tailing.
func (v LogView) Following() bool { return v.tailing }

// Update scrolls on key and mouse input.
func (v LogView) Update(msg tea.Msg) (LogView, tea.Cmd) {
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	if v.tailing && !v.vp.AtBottom() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			v.tailing = false
		}
	}
	return v, cmd
}

// View renders the visible lines.
func (v LogView) View() string { return v.vp.View() }

func (v LogView) render() LogView {
	if v.limit > 0 && len(v.lines) > v.limit {
		v.lines = v.lines[len(v.lines)-v.limit:]
	}
	v.vp.SetContent(strings.Join(v.lines, "\n"))
	if v.tailing {
		v.vp.GotoBottom()
	}
	return v
}
