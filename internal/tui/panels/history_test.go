package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
)

// buildUnit seeds a unit with seed and applies steps in order.
func buildUnit(t *testing.T, name, seed string, steps ...string) history.Unit {
	t.Helper()
	u, err := history.New().NewUnit(name, history.Seed(seed))
	if err != nil {
		t.Fatalf("NewUnit: %v", err)
	}
	for _, s := range steps {
		in, err := history.ParseInstruction(s)
		if err != nil {
			t.Fatalf("ParseInstruction(%q): %v", s, err)
		}
		if u, err = u.AddStep(in); err != nil {
			t.Fatalf("AddStep(%q): %v", s, err)
		}
	}
	return u
}

func TestHistoryPanel_Empty(t *testing.T) {
	p := NewHistoryPanel(40, 6)
	if _, ok := p.Selected(); ok {
		t.Error("empty panel should have no selection")
	}
	if !strings.Contains(p.View(), "No unit open") {
		t.Errorf("empty view = %q", p.View())
	}
}

func TestHistoryPanel_SetUnitSelectsLastStep(t *testing.T) {
	u := buildUnit(t, "digits", "abc", "followedBy:x", "isCaptured")
	p := NewHistoryPanel(60, 10).SetUnit(u)

	idx, ok := p.Selected()
	if !ok || idx != 2 {
		t.Fatalf("Selected() = %d, %v; want 2, true", idx, ok)
	}
	view := p.View()
	for _, want := range []string{"init:abc", "followedBy:x", "isCaptured"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q: %q", want, view)
		}
	}
}

func TestHistoryPanel_KeepsSelectionOnSameUnit(t *testing.T) {
	u := buildUnit(t, "digits", "abc", "followedBy:x", "isCaptured")
	p := NewHistoryPanel(60, 10).SetUnit(u)
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	if idx, _ := p.Selected(); idx != 1 {
		t.Fatalf("after k: Selected() = %d, want 1", idx)
	}

	p = p.SetUnit(u)
	if idx, _ := p.Selected(); idx != 1 {
		t.Errorf("same unit refresh moved selection to %d", idx)
	}

	grown, err := u.AddStep(history.GetterStep{Op: rxp.OpIsOptional})
	if err != nil {
		t.Fatal(err)
	}
	p = p.SetUnit(grown)
	if idx, _ := p.Selected(); idx != 3 {
		t.Errorf("longer history should select the new step, got %d", idx)
	}
}

func TestHistoryPanel_EditRequest(t *testing.T) {
	u := buildUnit(t, "digits", "abc", "occurs:3")
	p := NewHistoryPanel(60, 10).SetUnit(u)
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})

	_, cmd := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	if cmd == nil {
		t.Fatal("e should emit a command")
	}
	msg, ok := cmd().(EditStepRequestMsg)
	if !ok || msg.Index != 0 {
		t.Errorf("got %#v, want EditStepRequestMsg{Index: 0}", cmd())
	}
}

func TestHistoryPanel_Clear(t *testing.T) {
	p := NewHistoryPanel(60, 10).SetUnit(buildUnit(t, "a", "abc")).Clear()
	if _, ok := p.Selected(); ok {
		t.Error("Clear should drop the selection")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"abc", 5, "abc"},
		{"abcdef", 4, "abc…"},
		{"abcdef", 1, "…"},
		{"ääää", 3, "ää…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}
