package tui

import (
	"strings"
	"time"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
	"github.com/LISSConsulting/LISSTech.RXP/internal/store"
)

// tickMsg is sent every second for the clock.
type tickMsg time.Time

// editDoneMsg carries the outcome of one Editor call.
type editDoneMsg struct {
	verb   string       // "created", "added", "undid", "replaced", "truncated", "renamed", "closed"
	unit   history.Unit // the edited unit; zero for closed
	closed string       // id of the closed unit
	index  int          // replaced step, for stale recovery
	err    error
}

// journalChangedMsg signals that the journal file changed on disk.
type journalChangedMsg struct{}

// watchClosedMsg signals that the change channel closed.
type watchClosedMsg struct{}

// reloadedMsg carries the outcome of Editor.Reload.
type reloadedMsg struct{ err error }

// journalLoadedMsg carries the journal events of one unit.
type journalLoadedMsg struct {
	unitID string
	events []store.Event
	err    error
}

type activityKind int

const (
	actInfo activityKind = iota
	actEdit
	actUndo
	actReload
	actWarn
	actError
)

// activity is one line of the activity log.
type activity struct {
	At   time.Time
	Kind activityKind
	Text string
}

// staleRecovery is a pending offer to drop the steps a replace invalidated.
type staleRecovery struct {
	partial history.Unit
	index   int // first dropped step
}

// singleLine collapses newlines and tabs into spaces.
func singleLine(s string) string {
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ").Replace(s)
}
