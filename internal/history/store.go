// Package history keeps the edit history of regex construction sessions.
//
// A Unit is one named session: an ordered list of StepResults, each holding
// the instruction applied, the pattern it produced and the operations still
// legal afterwards. Units are immutable. AddStep, RemoveLastStep and
// ReplaceStepAndReplay all return a new Unit, and editing a step in the
// middle re-applies every later instruction against the new chain.
package history

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
)

// ReplayPolicy decides what happens when an edit makes a later step illegal.
type ReplayPolicy int

const (
	// ReplayStrict stops the replay with a *StaleInstructionError.
	ReplayStrict ReplayPolicy = iota
	// ReplayPermissive applies the step anyway.
	ReplayPermissive
)

// ParseReplayPolicy reads "strict" or "permissive".
func ParseReplayPolicy(s string) (ReplayPolicy, error) {
	switch s {
	case "strict", "":
		return ReplayStrict, nil
	case "permissive":
		return ReplayPermissive, nil
	default:
		return ReplayStrict, fmt.Errorf("history: unknown replay policy %q (want strict or permissive)", s)
	}
}

func (p ReplayPolicy) String() string {
	if p == ReplayPermissive {
		return "permissive"
	}
	return "strict"
}

// StepResult is the outcome of applying one instruction.
type StepResult struct {
	Pattern     rxp.Pattern
	Available   rxp.OperationSet
	Instruction Instruction
}

// Store applies instructions through an Engine and creates Units. A Store
// holds no session state and may be shared by any number of units.
type Store struct {
	engine Engine
	policy ReplayPolicy
	log    *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithEngine replaces the default RXPEngine.
func WithEngine(e Engine) Option {
	return func(s *Store) { s.engine = e }
}

// WithReplayPolicy sets the replay policy. The default is ReplayStrict.
func WithReplayPolicy(p ReplayPolicy) Option {
	return func(s *Store) { s.policy = p }
}

// WithLogger sets the logger used for replay diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates a Store.
func New(opts ...Option) *Store {
	s := &Store{
		engine: RXPEngine{},
		policy: ReplayStrict,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the store's replay policy.
func (s *Store) Policy() ReplayPolicy { return s.policy }

// Logger returns the logger set by WithLogger.
func (s *Store) Logger() *slog.Logger { return s.log }

// Apply wraps current into a fresh builder and makes the call described by
// in. It does not check whether the operation is legal at this point.
func (s *Store) Apply(current rxp.Pattern, in Instruction) (Builder, error) {
	b := s.engine.Wrap(current)
	switch step := in.(type) {
	case InitStep:
		return b.Init(step.Args), nil
	case TextStep:
		if !isTextOp(step.Op) {
			return nil, fmt.Errorf("%w: %s cannot take text arguments", ErrInvalidInstructionKind, step.Op)
		}
		return b.Text(step.Op, step.Args), nil
	case FrequencyStep:
		if step.Op != rxp.OpOccurs && step.Op != rxp.OpOccursAtLeast {
			return nil, fmt.Errorf("%w: %s is not a frequency", ErrInvalidInstructionKind, step.Op)
		}
		return b.Frequency(step.Op, step.Count), nil
	case RangeStep:
		return b.Range(step.Min, step.Max), nil
	case GetterStep:
		if !isGetterOp(step.Op) {
			return nil, fmt.Errorf("%w: %s is not an argument-free operation", ErrInvalidInstructionKind, step.Op)
		}
		return b.Getter(step.Op), nil
	case VariableStep:
		return b.Variable(step.Name), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidInstructionKind, in)
	}
}

// BuildStepResult constructs b and records the operations it exposes that
// were also available at the previous step, so the available set can only
// shrink as a history grows.
func BuildStepResult(b Builder, in Instruction, prev rxp.OperationSet) (StepResult, error) {
	p, err := b.Construct("")
	if err != nil {
		return StepResult{}, fmt.Errorf("history: %s: %w", Describe(in), err)
	}
	return StepResult{
		Pattern:     p,
		Available:   b.Operations().Intersect(prev),
		Instruction: in,
	}, nil
}

func (s *Store) step(current rxp.Pattern, in Instruction, prev rxp.OperationSet) (StepResult, error) {
	b, err := s.Apply(current, in)
	if err != nil {
		return StepResult{}, err
	}
	return BuildStepResult(b, in, prev)
}

func isTextOp(op rxp.Operation) bool {
	switch op {
	case rxp.OpOr, rxp.OpFollowedBy, rxp.OpNotFollowedBy, rxp.OpPrecededBy, rxp.OpNotPrecededBy:
		return true
	}
	return false
}

func isGetterOp(op rxp.Operation) bool {
	switch op {
	case rxp.OpOccursOnceOrMore, rxp.OpOccursZeroOrMore,
		rxp.OpGreedyOnceOrMore, rxp.OpGreedyZeroOrMore,
		rxp.OpAtStart, rxp.OpAtEnd, rxp.OpIsOptional, rxp.OpIsCaptured:
		return true
	}
	return false
}
