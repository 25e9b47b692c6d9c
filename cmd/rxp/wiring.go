package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/LISSTech.RXP/internal/store"
	"github.com/LISSConsulting/LISSTech.RXP/internal/tui"
)

// runTUI runs the interactive constructor over w's session until the user
// quits or ctx is cancelled. With tui.watch set, edits other processes
// append to the journal are picked up live.
func runTUI(ctx context.Context, w *workspace) error {
	var changes <-chan struct{}
	if w.cfg.TUI.Watch {
		ch, watchErr := store.Watch(ctx, w.cfg.JournalPath(), w.hist.Logger())
		if watchErr != nil {
			slog.Warn("journal watch disabled", "err", watchErr)
		} else {
			changes = ch
		}
	}

	model := tui.New(tui.Options{
		Editor:      w.session,
		Journal:     w.session.Journal(),
		Changes:     changes,
		AccentColor: w.cfg.TUI.AccentColor,
		ProjectName: w.cfg.Project.Name,
		WorkDir:     w.cfg.Dir(),
		Flags:       w.cfg.Construct.Flags,
		Policy:      w.cfg.ReplayPolicy(),
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	return finishTUI(program)
}

// finishTUI runs the bubbletea program. Cancellation is a normal exit.
func finishTUI(program *tea.Program) error {
	_, err := program.Run()
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return fmt.Errorf("tui: %w", err)
}

// redirectLogs points the default logger away from the terminal while the
// TUI owns it: into tui.log beside the journal when debug logging is on,
// nowhere otherwise. The returned func restores the previous logger. Call it
// before building the history store, which keeps the logger it is given.
func redirectLogs(journal string) (func(), error) {
	prev := slog.Default()
	if !prev.Enabled(context.Background(), slog.LevelDebug) {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() { slog.SetDefault(prev) }, nil
	}

	path := filepath.Join(filepath.Dir(journal), "tui.log")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	slog.SetDefault(newLogger(f, true))
	return func() {
		slog.SetDefault(prev)
		f.Close()
	}, nil
}
