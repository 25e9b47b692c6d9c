package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
	"github.com/LISSConsulting/LISSTech.RXP/internal/store"
)

func mustBuild(t *testing.T, text string, steps ...string) history.Unit {
	t.Helper()
	ins, err := parseSteps(steps)
	if err != nil {
		t.Fatal(err)
	}
	u, err := buildUnit(history.New(), text, ins)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestFormatUnit(t *testing.T) {
	tests := []struct {
		name     string
		unit     history.Unit
		flags    string
		contains []string
		excludes []string
	}{
		{
			name:     "seed only",
			unit:     mustBuild(t, "sample"),
			contains: []string{"build (", "/sample/", "✓", "  0  init:sample", "available"},
			excludes: []string{"chain is finished"},
		},
		{
			name:     "steps with flags",
			unit:     mustBuild(t, "sample", "occurs:3", "atStart"),
			flags:    "g",
			contains: []string{`/^(?:(?:sample){3})/g`, "1  occurs:3", "2  atStart", "isOptional"},
		},
		{
			name:     "finished chain",
			unit:     mustBuild(t, "a", "atEnd", "isOptional", "isCaptured", "isVariable"),
			contains: []string{"none (chain is finished)"},
		},
		{
			name:     "raw seed that does not compile",
			unit:     mustBuild(t, "/(/"),
			contains: []string{"init:/(/", "✗"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatUnit(tt.unit, tt.flags)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output should contain %q\ngot:\n%s", want, got)
				}
			}
			for _, exclude := range tt.excludes {
				if strings.Contains(got, exclude) {
					t.Errorf("output should NOT contain %q\ngot:\n%s", exclude, got)
				}
			}
		})
	}
}

func TestFormatUnitList(t *testing.T) {
	if got := formatUnitList(nil, nil); !strings.Contains(got, "No open units") {
		t.Errorf("empty list = %q", got)
	}

	u := mustBuild(t, "abc", "isOptional")
	closed := []store.UnitSummary{{ID: "0123456789", Name: "old", Closed: true, UpdatedAt: time.Now()}}
	got := formatUnitList([]history.Unit{u}, closed)
	for _, want := range []string{"Units", "build", "2 steps", "/(?:abc)?/", "01234567", "old", "closed"} {
		if !strings.Contains(got, want) {
			t.Errorf("output should contain %q\ngot:\n%s", want, got)
		}
	}
	if strings.Contains(got, "0123456789") {
		t.Errorf("ids should be abbreviated\ngot:\n%s", got)
	}
}

func TestFormatOps(t *testing.T) {
	if got := formatOps(0); !strings.Contains(got, "chain is finished") {
		t.Errorf("empty set = %q", got)
	}
	got := formatOps(rxp.NewOperationSet(rxp.OpOccurs, rxp.OpIsVariable))
	for _, want := range []string{"L2  occurs", "repeat exactly n times", "L5  isVariable"} {
		if !strings.Contains(got, want) {
			t.Errorf("output should contain %q\ngot:\n%s", want, got)
		}
	}
	if lines := strings.Count(got, "\n"); lines != 2 {
		t.Errorf("got %d lines, want 2", lines)
	}
}

func TestFormatMatches(t *testing.T) {
	p := rxp.Pattern{Source: "a", Flags: "g"}
	if got := formatMatches(p, "xyz", nil); !strings.Contains(got, "no match") {
		t.Errorf("no matches = %q", got)
	}
	got := formatMatches(p, "aba", []string{"a", "a"})
	for _, want := range []string{`/a/g against "aba"`, `  0  "a"`, `  1  "a"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output should contain %q\ngot:\n%s", want, got)
		}
	}
}

func TestFormatEvent(t *testing.T) {
	step := func(s string) *history.Wire {
		in, err := history.ParseInstruction(s)
		if err != nil {
			t.Fatal(err)
		}
		w, err := history.Encode(in)
		if err != nil {
			t.Fatal(err)
		}
		return &w
	}
	seed, _ := history.Encode(history.Seed("x"))
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		event store.Event
		want  string
	}{
		{store.Event{Kind: store.EventCreate, Name: "u", Steps: []history.Wire{seed}}, "create   u (1 steps)"},
		{store.Event{Kind: store.EventAdd, Step: step("occurs:2")}, "add      occurs:2"},
		{store.Event{Kind: store.EventReplace, Index: 1, Step: step("atEnd")}, "replace  step 1 → atEnd"},
		{store.Event{Kind: store.EventRename, Name: "v"}, "rename   v"},
		{store.Event{Kind: store.EventAdd}, "add      ?"},
	}
	for _, tt := range tests {
		t.Run(string(tt.event.Kind), func(t *testing.T) {
			tt.event.Timestamp = ts
			got := formatEvent(tt.event)
			if !strings.HasPrefix(got, "2026-03-01 12:00:00") {
				t.Errorf("got %q, want a local timestamp prefix", got)
			}
			if !strings.HasSuffix(got, tt.want) {
				t.Errorf("got %q, want suffix %q", got, tt.want)
			}
		})
	}

	if got := formatEvent(store.Event{Kind: store.EventUndo, Timestamp: ts}); strings.HasSuffix(got, " ") {
		t.Errorf("undo line should not end in padding: %q", got)
	}
}

func TestFormatStatus(t *testing.T) {
	s := store.JournalSummary{Path: "/p/journal.jsonl", Events: 7, OpenUnits: 2, Closed: 1}
	got := formatStatus(s, "", history.ReplayPermissive)
	for _, want := range []string{"/p/journal.jsonl", "Events:", "7", "Open units:", "2", "permissive"} {
		if !strings.Contains(got, want) {
			t.Errorf("output should contain %q\ngot:\n%s", want, got)
		}
	}
	for _, exclude := range []string{"Flags:", "Last edit:"} {
		if strings.Contains(got, exclude) {
			t.Errorf("output should NOT contain %q\ngot:\n%s", exclude, got)
		}
	}
}

func TestSeedFrom(t *testing.T) {
	seed := seedFrom([]string{"a.b", `/\d+/`})
	if len(seed.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(seed.Args))
	}
	if seed.Args[0].Raw || seed.Args[0].Text != "a.b" {
		t.Errorf("arg 0 = %+v, want literal a.b", seed.Args[0])
	}
	if !seed.Args[1].Raw || seed.Args[1].Text != `\d+` {
		t.Errorf("arg 1 = %+v, want raw \\d+", seed.Args[1])
	}
}

func TestParseSteps_NamesBadStep(t *testing.T) {
	_, err := parseSteps([]string{"occurs:2", "nope"})
	if err == nil || !strings.Contains(err.Error(), "step 2") {
		t.Errorf("err = %v, want it to name step 2", err)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	quiet := newLogger(&buf, false)
	if quiet.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("non-verbose logger should drop info")
	}
	loud := newLogger(&buf, true)
	loud.Debug("hello", "k", "v")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("verbose logger output = %q", buf.String())
	}
}

func TestRedirectLogs(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var terminal bytes.Buffer
	slog.SetDefault(newLogger(&terminal, false))
	restore, err := redirectLogs(t.TempDir() + "/journal.jsonl")
	if err != nil {
		t.Fatal(err)
	}
	slog.Error("hidden")
	restore()
	if terminal.Len() != 0 {
		t.Errorf("logs reached the terminal while the TUI ran: %q", terminal.String())
	}

	dir := t.TempDir()
	slog.SetDefault(newLogger(&bytes.Buffer{}, true))
	restore, err = redirectLogs(dir + "/sub/journal.jsonl")
	if err != nil {
		t.Fatal(err)
	}
	slog.Debug("into the file")
	restore()
	data, err := os.ReadFile(dir + "/sub/tui.log")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "into the file") {
		t.Errorf("tui.log = %q", data)
	}
}
