package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestMainView_EmptyPattern(t *testing.T) {
	v := NewMainView(60, 10)
	if v.ActiveTab() != TabPattern {
		t.Fatalf("initial tab = %v, want TabPattern", v.ActiveTab())
	}
	if !strings.Contains(v.View(), "No unit selected") {
		t.Errorf("empty view = %q", v.View())
	}
}

func TestMainView_SetUnit(t *testing.T) {
	u := buildUnit(t, "greeting", "hello", "atStart")
	view := NewMainView(80, 12).SetUnit(u, "i").View()
	for _, want := range []string{"greeting", "/^(?:hello)/i", "✓ compiles", "steps: 2"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q: %q", want, view)
		}
	}
}

func TestSummaryLines_InvalidFlags(t *testing.T) {
	u := buildUnit(t, "greeting", "hello")
	got := strings.Join(SummaryLines(u, "zz"), "\n")
	if !strings.Contains(got, "✗") {
		t.Errorf("invalid flags should report a compile failure: %q", got)
	}
}

func TestSummaryLines_FinishedChain(t *testing.T) {
	u := buildUnit(t, "word", "w", "isOptional", "isCaptured", "isVariable:v")
	got := strings.Join(SummaryLines(u, ""), "\n")
	if u.Available().Len() == 0 && !strings.Contains(got, "chain is finished") {
		t.Errorf("exhausted unit should say so: %q", got)
	}
}

func TestMainView_TabSwitchAndJournal(t *testing.T) {
	v := NewMainView(60, 10).ShowJournal([]string{"create greeting", "add atStart"})
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{']'}})
	if v.ActiveTab() != TabJournal {
		t.Fatalf("] should switch to journal, got %v", v.ActiveTab())
	}
	if !strings.Contains(v.View(), "add atStart") {
		t.Errorf("journal tab missing lines: %q", v.View())
	}
	v, _ = v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'['}})
	if v.ActiveTab() != TabPattern {
		t.Errorf("[ should switch back, got %v", v.ActiveTab())
	}
}

func TestMainView_Clear(t *testing.T) {
	v := NewMainView(60, 10).SetUnit(buildUnit(t, "a", "a"), "").ShowJournal([]string{"x"}).Clear()
	if !strings.Contains(v.View(), "No unit selected") {
		t.Errorf("Clear should reset the summary: %q", v.View())
	}
}

func TestMainView_SetSize(t *testing.T) {
	v := NewMainView(60, 10).SetSize(100, 1)
	if v.width != 100 || v.height != 1 {
		t.Errorf("SetSize: got %dx%d", v.width, v.height)
	}
	if v.View() == "" {
		t.Error("View() should render at minimum height")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID(short) = %q", got)
	}
}
