package history

import "github.com/LISSConsulting/LISSTech.RXP/internal/rxp"

// Engine wraps constructed patterns into fresh builders.
type Engine interface {
	Wrap(p rxp.Pattern) Builder
}

// Builder is the slice of a regex-construction library the history store
// needs. Implementations are immutable; every call returns a new Builder.
type Builder interface {
	Init(args []rxp.Fragment) Builder
	Text(op rxp.Operation, args []rxp.Fragment) Builder
	Frequency(op rxp.Operation, n int) Builder
	Range(min, max int) Builder
	Getter(op rxp.Operation) Builder
	Variable(name string) Builder

	// Construct finalizes the builder into a pattern.
	Construct(flags string) (rxp.Pattern, error)
	// Operations lists the operations the builder exposes next.
	Operations() rxp.OperationSet
}

// RXPEngine adapts package rxp.
type RXPEngine struct{}

// Wrap implements Engine.
func (RXPEngine) Wrap(p rxp.Pattern) Builder {
	return rxpBuilder{u: rxp.Wrap(p)}
}

type rxpBuilder struct {
	u rxp.Unit
}

func (b rxpBuilder) Init(args []rxp.Fragment) Builder {
	frags := append([]rxp.Fragment{rxp.FromUnit(b.u)}, args...)
	return rxpBuilder{u: rxp.Init(frags...)}
}

func (b rxpBuilder) Text(op rxp.Operation, args []rxp.Fragment) Builder {
	switch op {
	case rxp.OpOr:
		return rxpBuilder{u: b.u.Or(args...)}
	case rxp.OpFollowedBy:
		return rxpBuilder{u: b.u.FollowedBy(args...)}
	case rxp.OpNotFollowedBy:
		return rxpBuilder{u: b.u.NotFollowedBy(args...)}
	case rxp.OpPrecededBy:
		return rxpBuilder{u: b.u.PrecededBy(args...)}
	default:
		return rxpBuilder{u: b.u.NotPrecededBy(args...)}
	}
}

func (b rxpBuilder) Frequency(op rxp.Operation, n int) Builder {
	if op == rxp.OpOccursAtLeast {
		return rxpBuilder{u: b.u.OccursAtLeast(n)}
	}
	return rxpBuilder{u: b.u.Occurs(n)}
}

func (b rxpBuilder) Range(min, max int) Builder {
	return rxpBuilder{u: b.u.OccursBetween(min, max)}
}

func (b rxpBuilder) Getter(op rxp.Operation) Builder {
	u := b.u
	switch op {
	case rxp.OpOccursOnceOrMore:
		u = u.OccursOnceOrMore()
	case rxp.OpOccursZeroOrMore:
		u = u.OccursZeroOrMore()
	case rxp.OpGreedyOnceOrMore:
		u = u.OccursOnceOrMore().IsGreedy()
	case rxp.OpGreedyZeroOrMore:
		u = u.OccursZeroOrMore().IsGreedy()
	case rxp.OpAtStart:
		u = u.AtStart()
	case rxp.OpAtEnd:
		u = u.AtEnd()
	case rxp.OpIsOptional:
		u = u.IsOptional()
	case rxp.OpIsCaptured:
		u = u.IsCaptured()
	}
	return rxpBuilder{u: u}
}

func (b rxpBuilder) Variable(name string) Builder {
	return rxpBuilder{u: b.u.IsVariable(name)}
}

func (b rxpBuilder) Construct(flags string) (rxp.Pattern, error) {
	return b.u.Construct(flags)
}

func (b rxpBuilder) Operations() rxp.OperationSet {
	return b.u.Operations()
}
