// Package store persists construction sessions to an append-only JSONL
// journal and rebuilds them on load. Only instructions are written; patterns
// and available operations are recomputed by replaying the journal through a
// history.Store, so the journal stays valid if the builder's output changes.
package store

import (
	"time"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
)

// EventKind identifies one kind of journaled edit.
type EventKind string

const (
	EventCreate  EventKind = "create"  // new unit; Steps holds its full instruction list
	EventAdd     EventKind = "add"     // Step appended
	EventUndo    EventKind = "undo"    // last step removed
	EventReplace EventKind = "replace" // Step substituted at Index, later steps replayed
	EventReset   EventKind = "reset"   // history replaced by Steps (stale-replay recovery)
	EventRename  EventKind = "rename"  // Name changed
	EventClose   EventKind = "close"   // unit closed
)

// Event is one journal line.
type Event struct {
	Kind      EventKind      `json:"kind"`
	Timestamp time.Time      `json:"ts"`
	UnitID    string         `json:"unit"`
	Name      string         `json:"name,omitempty"`
	Index     int            `json:"index,omitempty"`
	Step      *history.Wire  `json:"step,omitempty"`
	Steps     []history.Wire `json:"steps,omitempty"`
}

// Writer persists journal events to durable storage.
type Writer interface {
	Append(e Event) error
	Close() error
}

// Reader retrieves journaled data.
type Reader interface {
	Units() ([]UnitSummary, error)
	UnitLog(id string) ([]Event, error)
	Summary() (JournalSummary, error)
}

// Store combines Writer and Reader into a single journal handle.
type Store interface {
	Writer
	Reader
}

// UnitSummary summarises the journaled events of one unit.
type UnitSummary struct {
	ID        string
	Name      string
	Events    int
	Closed    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// JournalSummary summarises a whole journal.
type JournalSummary struct {
	Path      string
	Events    int
	OpenUnits int
	Closed    int
	UpdatedAt time.Time
}
