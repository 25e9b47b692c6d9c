package history

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
)

// Unit is one named construction session. The zero Unit is not usable;
// create units with Store.NewUnit or Store.Replay.
type Unit struct {
	store   *Store
	name    string
	id      string
	history []StepResult // never empty; history[0] is the seed
}

// NewUnit starts a session from a seed step. The unit gets a random id.
func (s *Store) NewUnit(name string, seed InitStep) (Unit, error) {
	return s.NewUnitWithID(uuid.NewString(), name, seed)
}

// NewUnitWithID starts a session with a caller-chosen id.
func (s *Store) NewUnitWithID(id, name string, seed InitStep) (Unit, error) {
	first, err := s.step(rxp.Pattern{}, seed, rxp.AllChainable())
	if err != nil {
		return Unit{}, err
	}
	s.log.Debug("unit created", "id", id, "name", name, "pattern", first.Pattern.String())
	return Unit{store: s, name: name, id: id, history: []StepResult{first}}, nil
}

// Replay rebuilds a unit from its instruction list, the first of which must
// be an InitStep. Later steps follow the store's replay policy, so under
// ReplayStrict a list holding an out-of-order step fails with a
// *StaleInstructionError. Use Restore for lists that were already accepted.
func (s *Store) Replay(id, name string, ins []Instruction) (Unit, error) {
	return s.rebuild(id, name, ins, s.policy)
}

// Restore rebuilds a unit the way Replay does but applies every step, ignoring
// the replay policy. A list saved from a unit always restores that unit, even
// when it was built under ReplayPermissive and the store is now strict.
func (s *Store) Restore(id, name string, ins []Instruction) (Unit, error) {
	return s.rebuild(id, name, ins, ReplayPermissive)
}

func (s *Store) rebuild(id, name string, ins []Instruction, policy ReplayPolicy) (Unit, error) {
	if len(ins) == 0 {
		return Unit{}, ErrEmptyHistory
	}
	seed, ok := ins[0].(InitStep)
	if !ok {
		return Unit{}, fmt.Errorf("%w: first step is %s, want init", ErrOperationUnavailable, ins[0].Operation())
	}
	u, err := s.NewUnitWithID(id, name, seed)
	if err != nil {
		return Unit{}, err
	}
	out, err := u.replay(ins[1:], 1, policy)
	if err != nil {
		return Unit{}, err
	}
	return out, nil
}

// Name returns the display label.
func (u Unit) Name() string { return u.name }

// ID returns the unit's identifier.
func (u Unit) ID() string { return u.id }

// Len returns the number of steps, including the seed.
func (u Unit) Len() int { return len(u.history) }

// History returns a copy of the step results in application order.
func (u Unit) History() []StepResult {
	out := make([]StepResult, len(u.history))
	copy(out, u.history)
	return out
}

// Step returns the i-th step result.
func (u Unit) Step(i int) (StepResult, error) {
	if i < 0 || i >= len(u.history) {
		return StepResult{}, fmt.Errorf("%w: %d (history has %d steps)", ErrIndexOutOfRange, i, len(u.history))
	}
	return u.history[i], nil
}

// Instructions returns the instructions of every step, seed first.
func (u Unit) Instructions() []Instruction {
	out := make([]Instruction, len(u.history))
	for i, r := range u.history {
		out[i] = r.Instruction
	}
	return out
}

// Current returns the pattern after the last step.
func (u Unit) Current() rxp.Pattern { return u.last().Pattern }

// Available returns the operations legal after the last step.
func (u Unit) Available() rxp.OperationSet { return u.last().Available }

// CanUndo reports whether RemoveLastStep would succeed.
func (u Unit) CanUndo() bool { return len(u.history) > 1 }

func (u Unit) last() StepResult { return u.history[len(u.history)-1] }

func (u Unit) with(history []StepResult) Unit {
	u.history = history
	return u
}

// Rename returns u with a new display label.
func (u Unit) Rename(name string) Unit {
	u.name = name
	return u
}

// AddStep applies in to the current pattern and appends the result. The
// operation must be in Available().
func (u Unit) AddStep(in Instruction) (Unit, error) {
	if op := in.Operation(); !u.Available().Has(op) {
		return u, fmt.Errorf("%w: %s after %s", ErrOperationUnavailable, op, Describe(u.last().Instruction))
	}
	r, err := u.store.step(u.Current(), in, u.Available())
	if err != nil {
		return u, err
	}
	return u.append(r), nil
}

func (u Unit) append(r StepResult) Unit {
	h := make([]StepResult, len(u.history), len(u.history)+1)
	copy(h, u.history)
	return u.with(append(h, r))
}

// RemoveLastStep drops the last step. The seed step cannot be removed; on
// ErrEmptyHistory the returned unit is u unchanged.
func (u Unit) RemoveLastStep() (Unit, error) {
	if !u.CanUndo() {
		return u, ErrEmptyHistory
	}
	h := make([]StepResult, len(u.history)-1)
	copy(h, u.history)
	return u.with(h), nil
}

// ReplaceStepAndReplay substitutes in for step index and re-applies every
// later instruction, in order, against the new chain. Index 0 only accepts
// an InitStep. The result equals building the whole edited sequence from
// scratch.
//
// Under ReplayStrict a later step that is no longer available fails with a
// *StaleInstructionError; under ReplayPermissive it is applied anyway.
func (u Unit) ReplaceStepAndReplay(index int, in Instruction) (Unit, error) {
	return u.replaceStep(index, in, u.store.policy)
}

// RestoreReplace repeats a replacement that was already accepted, applying
// every later step regardless of the replay policy.
func (u Unit) RestoreReplace(index int, in Instruction) (Unit, error) {
	return u.replaceStep(index, in, ReplayPermissive)
}

func (u Unit) replaceStep(index int, in Instruction, policy ReplayPolicy) (Unit, error) {
	if index < 0 || index >= len(u.history) {
		return u, fmt.Errorf("%w: %d (history has %d steps)", ErrIndexOutOfRange, index, len(u.history))
	}
	future := make([]Instruction, 0, len(u.history)-index-1)
	for _, r := range u.history[index+1:] {
		future = append(future, r.Instruction)
	}

	var base Unit
	if index == 0 {
		seed, ok := in.(InitStep)
		if !ok {
			return u, fmt.Errorf("%w: step 0 must be init, got %s", ErrOperationUnavailable, in.Operation())
		}
		first, err := u.store.step(rxp.Pattern{}, seed, rxp.AllChainable())
		if err != nil {
			return u, err
		}
		base = u.with([]StepResult{first})
	} else {
		prefix := make([]StepResult, index)
		copy(prefix, u.history[:index])
		var err error
		base, err = u.with(prefix).AddStep(in)
		if err != nil {
			return u, err
		}
	}

	out, err := base.replay(future, index+1, policy)
	if err != nil {
		return u, err
	}
	return out, nil
}

// replay re-applies ins, numbering them from first for error reports.
func (u Unit) replay(ins []Instruction, first int, policy ReplayPolicy) (Unit, error) {
	cur := u
	for i, in := range ins {
		op := in.Operation()
		if !cur.Available().Has(op) {
			if policy == ReplayStrict {
				return u, &StaleInstructionError{Index: first + i, Op: op, Partial: cur}
			}
			cur.store.log.Debug("replaying unavailable operation",
				"unit", cur.id, "step", first+i, "op", op, "available", cur.Available().String())
		}
		r, err := cur.store.step(cur.Current(), in, cur.Available())
		if err != nil {
			return u, fmt.Errorf("history: replay step %d: %w", first+i, err)
		}
		cur = cur.append(r)
	}
	return cur, nil
}
