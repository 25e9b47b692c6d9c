package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.RXP/internal/config"
	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
	"github.com/LISSConsulting/LISSTech.RXP/internal/store"
)

// workspace bundles the configuration and open session most commands need.
type workspace struct {
	cfg     *config.Config
	hist    *history.Store
	session *store.Session
}

// loadConfig reads the --config file, or rxp.toml above the working
// directory, falling back to defaults when there is none.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newHistory(cfg *config.Config) *history.Store {
	return history.New(
		history.WithReplayPolicy(cfg.ReplayPolicy()),
		history.WithLogger(slog.Default()),
	)
}

// withWorkspace opens the journal named by the configuration, runs fn and
// closes the journal again.
func withWorkspace(cmd *cobra.Command, fn func(w *workspace) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	hs := newHistory(cfg)
	s, err := store.OpenSession(cfg.JournalPath(), hs)
	if err != nil {
		return err
	}
	defer s.Close()
	slog.Debug("session opened", "journal", cfg.JournalPath(), "units", s.Units().Len())
	return fn(&workspace{cfg: cfg, hist: hs, session: s})
}

// patternFlags returns --flags when given, else construct.flags.
func patternFlags(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if !cmd.Flags().Changed("flags") {
		return cfg.Construct.Flags, nil
	}
	flags, _ := cmd.Flags().GetString("flags")
	if err := rxp.ValidateFlags(flags); err != nil {
		return "", err
	}
	return flags, nil
}

// seedFrom builds the init step for texts. Texts wrapped in slashes are raw
// pattern source.
func seedFrom(texts []string) history.InitStep {
	args := make([]rxp.Fragment, len(texts))
	for i, t := range texts {
		args[i] = rxp.ParseFragment(t)
	}
	return history.InitStep{Args: args}
}

// parseSteps parses each argument in the step syntax.
func parseSteps(args []string) ([]history.Instruction, error) {
	out := make([]history.Instruction, 0, len(args))
	for i, a := range args {
		in, err := history.ParseInstruction(a)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		out = append(out, in)
	}
	return out, nil
}

// shortID abbreviates a unit id for listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// formatUnit renders a unit's full history.
func formatUnit(u history.Unit, flags string) string {
	var b strings.Builder
	title := fmt.Sprintf("%s (%s)", u.Name(), shortID(u.ID()))
	fmt.Fprintln(&b, title)
	fmt.Fprintln(&b, strings.Repeat("─", len([]rune(title))))

	p := u.Current().WithFlags(flags)
	fmt.Fprintf(&b, "  %-10s %s\n", "pattern", p)
	if _, err := p.Compile(); err != nil {
		fmt.Fprintf(&b, "  %-10s ✗ %v\n", "compiles", err)
	} else {
		fmt.Fprintf(&b, "  %-10s ✓\n", "compiles")
	}

	fmt.Fprintln(&b)
	for i, r := range u.History() {
		fmt.Fprintf(&b, "  %3d  %-28s %s\n", i, history.Describe(r.Instruction), r.Pattern)
	}

	fmt.Fprintln(&b)
	if u.Available().Len() == 0 {
		fmt.Fprintf(&b, "  %-10s none (chain is finished)\n", "available")
	} else {
		fmt.Fprintf(&b, "  %-10s %s\n", "available", strings.Join(opNames(u.Available()), ", "))
	}
	return b.String()
}

func opNames(set rxp.OperationSet) []string {
	ops := set.Ops()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return names
}

// formatUnitList renders one line per open unit, followed by closed units
// from the journal when closed is non-empty.
func formatUnitList(units []history.Unit, closed []store.UnitSummary) string {
	if len(units) == 0 && len(closed) == 0 {
		return "No open units. Run 'rxp new <name> <text>' to start one.\n"
	}
	var b strings.Builder
	fmt.Fprintln(&b, "Units")
	fmt.Fprintln(&b, "─────")
	for _, u := range units {
		fmt.Fprintf(&b, "  %-8s  %-20s  %3d steps  %s\n", shortID(u.ID()), u.Name(), u.Len(), u.Current())
	}
	for _, s := range closed {
		fmt.Fprintf(&b, "  %-8s  %-20s  closed %s\n", shortID(s.ID), s.Name, s.UpdatedAt.Local().Format(time.DateTime))
	}
	return b.String()
}

// formatOps renders each operation in set with its level and description.
func formatOps(set rxp.OperationSet) string {
	if set.Len() == 0 {
		return "No operations available; the chain is finished.\n"
	}
	var b strings.Builder
	for _, op := range set.Ops() {
		fmt.Fprintf(&b, "  L%d  %-18s %s\n", op.Level(), op, op.Description())
	}
	return b.String()
}

// formatMatches renders the outcome of testing p against input.
func formatMatches(p rxp.Pattern, input string, matches []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s against %q\n", p, input)
	if len(matches) == 0 {
		fmt.Fprintln(&b, "  no match")
		return b.String()
	}
	for i, m := range matches {
		fmt.Fprintf(&b, "  %3d  %q\n", i, m)
	}
	return b.String()
}

// formatEvent renders one journal event as a single line.
func formatEvent(e store.Event) string {
	ts := e.Timestamp.Local().Format(time.DateTime)
	d := eventDetail(e)
	if d == "" {
		return fmt.Sprintf("%s  %s", ts, e.Kind)
	}
	return fmt.Sprintf("%s  %-7s  %s", ts, e.Kind, d)
}

func eventDetail(e store.Event) string {
	switch e.Kind {
	case store.EventCreate, store.EventReset:
		return fmt.Sprintf("%s (%d steps)", e.Name, len(e.Steps))
	case store.EventAdd:
		return describeWire(e.Step)
	case store.EventReplace:
		return fmt.Sprintf("step %d → %s", e.Index, describeWire(e.Step))
	case store.EventRename:
		return e.Name
	default:
		return ""
	}
}

func describeWire(w *history.Wire) string {
	if w == nil {
		return "?"
	}
	in, err := w.Decode()
	if err != nil {
		return "? " + err.Error()
	}
	return history.Describe(in)
}

// formatStatus renders a journal summary.
func formatStatus(s store.JournalSummary, flags string, policy history.ReplayPolicy) string {
	var b strings.Builder
	fmt.Fprintln(&b, "rxp status")
	fmt.Fprintln(&b, "──────────")
	fmt.Fprintf(&b, "  %-14s %s\n", "Journal:", s.Path)
	fmt.Fprintf(&b, "  %-14s %d\n", "Events:", s.Events)
	fmt.Fprintf(&b, "  %-14s %d\n", "Open units:", s.OpenUnits)
	fmt.Fprintf(&b, "  %-14s %d\n", "Closed units:", s.Closed)
	fmt.Fprintf(&b, "  %-14s %s\n", "Replay:", policy)
	if flags != "" {
		fmt.Fprintf(&b, "  %-14s %s\n", "Flags:", flags)
	}
	if !s.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "  %-14s %s\n", "Last edit:", s.UpdatedAt.Local().Format(time.DateTime))
	}
	return b.String()
}

// staleHint explains how to accept a replace that stranded later steps.
func staleHint(e *history.StaleInstructionError) string {
	return fmt.Sprintf("step %d (%s) no longer fits after the replacement; rerun with --truncate to keep steps 0-%d only",
		e.Index, e.Op, e.Index-1)
}
