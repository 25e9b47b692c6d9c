package store

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/LISSConsulting/LISSTech.RXP/internal/history"
)

// Session owns the open units of one journal. Every successful edit is
// journaled before the in-memory collection changes, so a failed Append
// leaves the session as it was.
type Session struct {
	mu    sync.Mutex
	w     Writer
	hist  *history.Store
	path  string
	units history.Collection
	now   func() time.Time
}

// NewSession wraps an already-loaded collection and a journal writer.
func NewSession(w Writer, hs *history.Store, units history.Collection) *Session {
	return &Session{w: w, hist: hs, units: units, now: time.Now}
}

// OpenSession loads the journal at path and opens it for appending.
func OpenSession(path string, hs *history.Store) (*Session, error) {
	units, err := Load(path, hs)
	if err != nil {
		return nil, err
	}
	j, err := OpenJSONL(path, hs.Logger())
	if err != nil {
		return nil, err
	}
	s := NewSession(j, hs, units)
	s.path = path
	return s, nil
}

// Close closes the journal writer.
func (s *Session) Close() error { return s.w.Close() }

// Journal returns the session's writer as a Reader, or nil when it cannot
// read events back.
func (s *Session) Journal() Reader {
	r, _ := s.w.(Reader)
	return r
}

// History returns the history store edits are applied through.
func (s *Session) History() *history.Store { return s.hist }

// Units returns the current collection.
func (s *Session) Units() history.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.units
}

// Find resolves an id or unique id prefix.
func (s *Session) Find(prefix string) (history.Unit, error) {
	return s.Units().Find(prefix)
}

// Reload rereads the journal from disk, picking up events other processes
// appended. Sessions built with NewSession have no path and keep their state.
func (s *Session) Reload() error {
	if s.path == "" {
		return nil
	}
	units, err := Load(s.path, s.hist)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.units = units
	s.mu.Unlock()
	return nil
}

// Create starts a new unit from seed.
func (s *Session) Create(name string, seed history.InitStep) (history.Unit, error) {
	u, err := s.hist.NewUnit(name, seed)
	if err != nil {
		return history.Unit{}, err
	}
	return s.adopt(u)
}

// Adopt journals an already-built unit, such as one read by Import. A unit
// whose id is already open replaces it.
func (s *Session) Adopt(u history.Unit) (history.Unit, error) {
	return s.adopt(u)
}

func (s *Session) adopt(u history.Unit) (history.Unit, error) {
	steps, err := encodeAll(u.Instructions())
	if err != nil {
		return history.Unit{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := Event{Kind: EventCreate, Timestamp: s.now().UTC(), UnitID: u.ID(), Name: u.Name(), Steps: steps}
	if err := s.w.Append(e); err != nil {
		return history.Unit{}, err
	}
	s.units = s.units.Add(u)
	return u, nil
}

// Add appends one instruction to unit id.
func (s *Session) Add(id string, in history.Instruction) (history.Unit, error) {
	return s.edit(id, func(u history.Unit) (history.Unit, Event, error) {
		w, err := history.Encode(in)
		if err != nil {
			return u, Event{}, err
		}
		next, err := u.AddStep(in)
		return next, Event{Kind: EventAdd, Step: &w}, err
	})
}

// Undo removes the last step of unit id.
func (s *Session) Undo(id string) (history.Unit, error) {
	return s.edit(id, func(u history.Unit) (history.Unit, Event, error) {
		next, err := u.RemoveLastStep()
		return next, Event{Kind: EventUndo}, err
	})
}

// Replace substitutes in at index of unit id and replays the later steps.
// A *history.StaleInstructionError is returned unchanged so the caller can
// offer Truncate with its partial unit.
func (s *Session) Replace(id string, index int, in history.Instruction) (history.Unit, error) {
	return s.edit(id, func(u history.Unit) (history.Unit, Event, error) {
		w, err := history.Encode(in)
		if err != nil {
			return u, Event{}, err
		}
		next, err := u.ReplaceStepAndReplay(index, in)
		return next, Event{Kind: EventReplace, Index: index, Step: &w}, err
	})
}

// Truncate replaces the history of partial's unit with partial's own, which
// is how a stale replay is accepted up to the failing step.
func (s *Session) Truncate(partial history.Unit) (history.Unit, error) {
	return s.edit(partial.ID(), func(u history.Unit) (history.Unit, Event, error) {
		steps, err := encodeAll(partial.Instructions())
		if err != nil {
			return u, Event{}, err
		}
		return partial.Rename(u.Name()), Event{Kind: EventReset, Steps: steps}, nil
	})
}

// Rename changes the display label of unit id.
func (s *Session) Rename(id, name string) (history.Unit, error) {
	return s.edit(id, func(u history.Unit) (history.Unit, Event, error) {
		return u.Rename(name), Event{Kind: EventRename, Name: name}, nil
	})
}

// CloseUnit journals that unit id is finished and drops it from the session.
func (s *Session) CloseUnit(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.units.Find(id)
	if err != nil {
		return err
	}
	if err := s.w.Append(Event{Kind: EventClose, Timestamp: s.now().UTC(), UnitID: u.ID()}); err != nil {
		return err
	}
	units, err := s.units.Remove(u.ID())
	if err != nil {
		return err
	}
	s.units = units
	return nil
}

func (s *Session) edit(id string, fn func(history.Unit) (history.Unit, Event, error)) (history.Unit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, err := s.units.Find(id)
	if err != nil {
		return history.Unit{}, err
	}
	next, e, err := fn(u)
	if err != nil {
		return u, err
	}
	e.Timestamp = s.now().UTC()
	e.UnitID = u.ID()
	if err := s.w.Append(e); err != nil {
		return u, err
	}
	units, err := s.units.Replace(next)
	if err != nil {
		return u, err
	}
	s.units = units
	return next, nil
}

func encodeAll(ins []history.Instruction) ([]history.Wire, error) {
	out := make([]history.Wire, 0, len(ins))
	for _, in := range ins {
		w, err := history.Encode(in)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func decodeAll(ws []history.Wire) ([]history.Instruction, error) {
	out := make([]history.Instruction, 0, len(ws))
	for _, w := range ws {
		in, err := w.Decode()
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// Load replays the journal at path into a collection of open units. A
// missing journal yields an empty collection. Lines that do not parse, or
// events that no longer apply, are logged and skipped.
func Load(path string, hs *history.Store) (history.Collection, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return history.NewCollection(), nil
		}
		return history.Collection{}, fmt.Errorf("store: open %q: %w", path, err)
	}
	defer f.Close()
	return ReadEvents(f, path, hs)
}

// ReadEvents replays a JSONL event stream from r. name labels log output,
// which goes to the logger of hs.
func ReadEvents(r io.Reader, name string, hs *history.Store) (history.Collection, error) {
	log := hs.Logger()
	c := history.NewCollection()
	br := bufio.NewReader(r)
	line := 0
	for {
		data, err := br.ReadBytes('\n')
		if len(data) > 0 {
			line++
			if e, ok := decodeLine(log, data, name); ok {
				next, applyErr := ApplyEvent(c, hs, e)
				if applyErr != nil {
					log.Warn("store: skipping journal event",
						"path", name, "line", line, "kind", e.Kind, "unit", e.UnitID, "err", applyErr)
				} else {
					c = next
				}
			}
		}
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		if err != nil {
			return c, fmt.Errorf("store: read %q: %w", name, err)
		}
	}
}

// ApplyEvent returns c with e applied. Journaled edits were accepted when
// they were written, so they are restored without the replay policy gate.
func ApplyEvent(c history.Collection, hs *history.Store, e Event) (history.Collection, error) {
	if e.Kind == EventCreate {
		ins, err := decodeAll(e.Steps)
		if err != nil {
			return c, err
		}
		u, err := hs.Restore(e.UnitID, e.Name, ins)
		if err != nil {
			return c, err
		}
		return c.Add(u), nil
	}

	u, ok := c.Get(e.UnitID)
	if !ok {
		return c, fmt.Errorf("%w: %s", history.ErrUnitNotFound, e.UnitID)
	}
	var next history.Unit
	var err error
	switch e.Kind {
	case EventAdd, EventReplace:
		if e.Step == nil {
			return c, fmt.Errorf("store: %s event without a step", e.Kind)
		}
		in, decErr := e.Step.Decode()
		if decErr != nil {
			return c, decErr
		}
		if e.Kind == EventAdd {
			next, err = u.AddStep(in)
		} else {
			next, err = u.RestoreReplace(e.Index, in)
		}
	case EventUndo:
		next, err = u.RemoveLastStep()
	case EventReset:
		ins, decErr := decodeAll(e.Steps)
		if decErr != nil {
			return c, decErr
		}
		next, err = hs.Restore(u.ID(), u.Name(), ins)
	case EventRename:
		next = u.Rename(e.Name)
	case EventClose:
		return c.Remove(u.ID())
	default:
		return c, fmt.Errorf("store: unknown event kind %q", e.Kind)
	}
	if err != nil {
		return c, err
	}
	return c.Replace(next)
}
