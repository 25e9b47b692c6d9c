package components

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestLogView_NewTails(t *testing.T) {
	lv := NewLogView(80, 24)
	if !lv.Following() {
		t.Error("a new LogView should tail")
	}
	if lv.Len() != 0 {
		t.Errorf("Len = %d, want 0", lv.Len())
	}
	_ = lv.View()
}

func TestLogView_AppendLine(t *testing.T) {
	lv := NewLogView(80, 10)
	for i := 1; i <= 3; i++ {
		lv = lv.AppendLine(fmt.Sprintf("line %d", i))
	}
	if lv.Len() != 3 {
		t.Errorf("Len = %d, want 3", lv.Len())
	}
	view := lv.View()
	for _, want := range []string{"line 1", "line 2", "line 3"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q: %q", want, view)
		}
	}
}

func TestLogView_SetContentCopies(t *testing.T) {
	src := []string{"a", "b"}
	lv := NewLogView(80, 10).AppendLine("old").SetContent(src)
	src[0] = "mutated"
	if got := lv.Lines(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Lines = %v, want [a b]", got)
	}

	out := lv.Lines()
	out[1] = "mutated"
	if lv.Lines()[1] != "b" {
		t.Error("Lines should return a copy")
	}
}

func TestLogView_Clear(t *testing.T) {
	lv := NewLogView(80, 10).AppendLine("x").Clear()
	if lv.Len() != 0 || strings.Contains(lv.View(), "x") {
		t.Errorf("Clear left %d lines: %q", lv.Len(), lv.View())
	}
}

func TestLogView_WithLimit(t *testing.T) {
	lv := NewLogView(80, 10).WithLimit(3)
	for i := range 5 {
		lv = lv.AppendLine(fmt.Sprintf("line %d", i))
	}
	if got := lv.Lines(); len(got) != 3 || got[0] != "line 2" {
		t.Errorf("Lines = %v, want the newest three", got)
	}

	lv = NewLogView(80, 10).SetContent([]string{"a", "b", "c"}).WithLimit(1)
	if got := lv.Lines(); len(got) != 1 || got[0] != "c" {
		t.Errorf("lowering the limit: Lines = %v, want [c]", got)
	}
}

func TestLogView_AppendDoesNotAlias(t *testing.T) {
	base := NewLogView(80, 10).AppendLine("shared")
	a := base.AppendLine("a")
	b := base.AppendLine("b")
	if a.Lines()[1] != "a" || b.Lines()[1] != "b" {
		t.Errorf("branches share storage: %v / %v", a.Lines(), b.Lines())
	}
}

func TestLogView_SetSize(t *testing.T) {
	lv := NewLogView(80, 10).SetSize(100, 20)
	if lv.vp.Width != 100 || lv.vp.Height != 20 {
		t.Errorf("viewport = %dx%d, want 100x20", lv.vp.Width, lv.vp.Height)
	}
}

// scrolledUp returns a tailing LogView whose viewport sits at the top of
// more content than fits.
func scrolledUp(t *testing.T) LogView {
	t.Helper()
	lv := NewLogView(80, 2)
	for i := range 20 {
		lv = lv.AppendLine(fmt.Sprintf("line %02d", i))
	}
	lv.vp.YOffset = 0
	if lv.vp.AtBottom() {
		t.Skip("content does not exceed the viewport height")
	}
	return lv
}

func TestLogView_Update(t *testing.T) {
	tests := []struct {
		name      string
		tailing   bool
		msg       tea.Msg
		wantTails bool
	}{
		{"key scroll stops tailing", true, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, false},
		{"mouse scroll stops tailing", true, tea.MouseMsg{Button: tea.MouseButtonWheelUp}, false},
		{"resize keeps tailing", true, tea.WindowSizeMsg{Width: 80, Height: 2}, true},
		{"already stopped stays stopped", false, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lv := scrolledUp(t)
			if !tt.tailing {
				lv = lv.ToggleFollow()
				lv.vp.YOffset = 0
			}
			got, _ := lv.Update(tt.msg)
			if got.Following() != tt.wantTails {
				t.Errorf("Following = %v, want %v", got.Following(), tt.wantTails)
			}
		})
	}
}

func TestLogView_UpdateAtBottomKeepsTailing(t *testing.T) {
	lv := NewLogView(80, 100).AppendLine("only line")
	got, _ := lv.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if !got.Following() {
		t.Error("a view that fits should keep tailing")
	}
}

func TestLogView_ToggleFollow(t *testing.T) {
	lv := NewLogView(80, 10).ToggleFollow()
	if lv.Following() {
		t.Error("first toggle should stop tailing")
	}
	if !lv.ToggleFollow().Following() {
		t.Error("second toggle should resume tailing")
	}
}
