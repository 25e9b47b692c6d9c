package tui

import "github.com/LISSConsulting/LISSTech.RXP/internal/history"

// Editor applies journaled edits on behalf of the TUI. *store.Session
// satisfies it. Every method may block on disk I/O, so the model only calls
// it from commands.
type Editor interface {
	// Units returns the open units.
	Units() history.Collection

	Create(name string, seed history.InitStep) (history.Unit, error)
	Add(id string, in history.Instruction) (history.Unit, error)
	Undo(id string) (history.Unit, error)
	Replace(id string, index int, in history.Instruction) (history.Unit, error)

	// Truncate replaces a unit's history with partial, the recovery path
	// after a stale replace.
	Truncate(partial history.Unit) (history.Unit, error)

	Rename(id, name string) (history.Unit, error)
	CloseUnit(id string) error

	// Reload rereads the journal, picking up edits made by other processes.
	Reload() error
}
