package history

import (
	"errors"
	"fmt"

	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
)

var (
	// ErrInvalidInstructionKind means an instruction is not one of the known
	// variants, or names an operation its variant cannot carry. It is a
	// programming error, not a user condition.
	ErrInvalidInstructionKind = errors.New("history: invalid instruction kind")

	// ErrEmptyHistory is returned when removing the seed step.
	ErrEmptyHistory = errors.New("history: cannot remove the seed step")

	// ErrOperationUnavailable is returned when an edit asks for an operation
	// the unit no longer exposes at that point.
	ErrOperationUnavailable = errors.New("history: operation not available")

	// ErrIndexOutOfRange is returned for a step index outside the history.
	ErrIndexOutOfRange = errors.New("history: step index out of range")

	// ErrStaleInstruction matches every *StaleInstructionError.
	ErrStaleInstruction = errors.New("history: stale instruction")

	// ErrUnitNotFound is returned when a collection has no unit with an id.
	ErrUnitNotFound = errors.New("history: unit not found")

	// ErrAmbiguousID is returned when an id prefix matches several units.
	ErrAmbiguousID = errors.New("history: ambiguous unit id")
)

// StaleInstructionError reports a downstream step that an edit made
// illegal during strict replay. Partial holds the unit rebuilt up to, but
// not including, the stale step.
type StaleInstructionError struct {
	Index   int
	Op      rxp.Operation
	Partial Unit
}

func (e *StaleInstructionError) Error() string {
	return fmt.Sprintf("history: step %d (%s) is no longer available after the edit", e.Index, e.Op)
}

// Is makes errors.Is(err, ErrStaleInstruction) hold.
func (e *StaleInstructionError) Is(target error) bool {
	return target == ErrStaleInstruction
}
