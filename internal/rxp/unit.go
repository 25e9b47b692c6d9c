// Package rxp builds regular expressions from readable, chainable steps.
//
// A Unit is immutable: every method returns a new Unit. Methods are grouped
// into legality levels (see the Level constants) and a unit only exposes the
// operations still valid after its last step, which keeps a chain from
// producing patterns such as an anchor inside a repetition.
package rxp

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCount is returned for a negative repetition count or an
	// inverted range.
	ErrInvalidCount = errors.New("rxp: invalid repetition count")

	// ErrInvalidVariableName is returned when a variable name is not a valid
	// group name.
	ErrInvalidVariableName = errors.New("rxp: invalid variable name")

	// ErrNotRepeating is returned by IsGreedy when the last step was not a
	// lazy one-or-more or zero-or-more repetition.
	ErrNotRepeating = errors.New("rxp: isGreedy requires occursOnceOrMore or occursZeroOrMore")
)

var variableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Unit is an immutable, chainable regex under construction.
type Unit struct {
	text string
	last Operation
	err  error
}

// Init combines fragments into a new unit.
func Init(frags ...Fragment) Unit {
	return Unit{text: joinFragments(frags), last: OpInit}
}

// Wrap starts a fresh unit from an already constructed pattern. The new unit
// exposes every chainable operation regardless of how p was built.
func Wrap(p Pattern) Unit {
	return Init(FromPattern(p))
}

// Text returns the pattern source built so far.
func (u Unit) Text() string { return u.text }

// Last returns the last operation applied.
func (u Unit) Last() Operation { return u.last }

// Err returns the first error recorded along the chain.
func (u Unit) Err() error { return u.err }

// Operations returns the operations u exposes for the next step.
func (u Unit) Operations() OperationSet {
	return exposedAfter(u.last)
}

// Construct finalizes u into a pattern with the given flags. Repeated
// variables are rewritten into back-references.
func (u Unit) Construct(flags string) (Pattern, error) {
	if u.err != nil {
		return Pattern{}, u.err
	}
	if err := ValidateFlags(flags); err != nil {
		return Pattern{}, err
	}
	return Pattern{Source: resolveVariables(u.text), Flags: flags}, nil
}

func (u Unit) then(op Operation, text string) Unit {
	if u.err != nil {
		return u
	}
	return Unit{text: text, last: op}
}

func (u Unit) fail(err error) Unit {
	if u.err != nil {
		return u
	}
	u.err = err
	return u
}

// Or adds alternatives: (?:(?:text)|(?:alt)...).
func (u Unit) Or(alts ...Fragment) Unit {
	parts := make([]string, 0, len(alts)+1)
	parts = append(parts, "(?:"+u.text+")")
	for _, a := range alts {
		parts = append(parts, "(?:"+a.source()+")")
	}
	return u.then(OpOr, "(?:"+strings.Join(parts, "|")+")")
}

// Occurs repeats the unit exactly n times.
func (u Unit) Occurs(n int) Unit {
	if n < 0 {
		return u.fail(fmt.Errorf("%w: occurs(%d)", ErrInvalidCount, n))
	}
	return u.then(OpOccurs, fmt.Sprintf("(?:%s){%d}", u.text, n))
}

// OccursAtLeast repeats the unit n or more times.
func (u Unit) OccursAtLeast(n int) Unit {
	if n < 0 {
		return u.fail(fmt.Errorf("%w: occursAtLeast(%d)", ErrInvalidCount, n))
	}
	return u.then(OpOccursAtLeast, fmt.Sprintf("(?:%s){%d,}", u.text, n))
}

// OccursBetween repeats the unit between min and max times.
func (u Unit) OccursBetween(min, max int) Unit {
	if min < 0 || max < min {
		return u.fail(fmt.Errorf("%w: occursBetween(%d, %d)", ErrInvalidCount, min, max))
	}
	return u.then(OpOccursBetween, fmt.Sprintf("(?:%s){%d,%d}", u.text, min, max))
}

// OccursOnceOrMore repeats the unit lazily one or more times.
func (u Unit) OccursOnceOrMore() Unit {
	return u.then(OpOccursOnceOrMore, "(?:"+u.text+")+?")
}

// OccursZeroOrMore repeats the unit lazily zero or more times.
func (u Unit) OccursZeroOrMore() Unit {
	return u.then(OpOccursZeroOrMore, "(?:"+u.text+")*?")
}

// IsGreedy turns the preceding lazy repetition greedy.
func (u Unit) IsGreedy() Unit {
	if u.err != nil {
		return u
	}
	var op Operation
	switch u.last {
	case OpOccursOnceOrMore:
		op = OpGreedyOnceOrMore
	case OpOccursZeroOrMore:
		op = OpGreedyZeroOrMore
	default:
		return u.fail(ErrNotRepeating)
	}
	return u.then(op, strings.TrimSuffix(u.text, "?"))
}

// FollowedBy requires the combined fragments to follow the unit.
func (u Unit) FollowedBy(frags ...Fragment) Unit {
	return u.then(OpFollowedBy, u.text+"(?="+joinFragments(frags)+")")
}

// NotFollowedBy requires the combined fragments not to follow the unit.
func (u Unit) NotFollowedBy(frags ...Fragment) Unit {
	return u.then(OpNotFollowedBy, u.text+"(?!"+joinFragments(frags)+")")
}

// PrecededBy requires the combined fragments to precede the unit.
func (u Unit) PrecededBy(frags ...Fragment) Unit {
	return u.then(OpPrecededBy, "(?<="+joinFragments(frags)+")"+u.text)
}

// NotPrecededBy requires the combined fragments not to precede the unit.
func (u Unit) NotPrecededBy(frags ...Fragment) Unit {
	return u.then(OpNotPrecededBy, "(?<!"+joinFragments(frags)+")"+u.text)
}

// AtStart anchors the unit at the start of the input.
func (u Unit) AtStart() Unit {
	return u.then(OpAtStart, "^(?:"+u.text+")")
}

// AtEnd anchors the unit at the end of the input.
func (u Unit) AtEnd() Unit {
	return u.then(OpAtEnd, "(?:"+u.text+")$")
}

// IsOptional makes the unit optional.
func (u Unit) IsOptional() Unit {
	return u.then(OpIsOptional, "(?:"+u.text+")?")
}

// IsCaptured wraps the unit in a numbered capture group.
func (u Unit) IsCaptured() Unit {
	return u.then(OpIsCaptured, "((?:"+u.text+"))")
}

// IsVariable captures the unit as a named variable. Every later occurrence
// of the same variable in a constructed pattern becomes a back-reference.
// An empty name is replaced by one derived from the unit's text.
func (u Unit) IsVariable(name string) Unit {
	if name == "" {
		name = VariableName(u.text)
	}
	if !variableNameRe.MatchString(name) {
		return u.fail(fmt.Errorf("%w: %q", ErrInvalidVariableName, name))
	}
	return u.then(OpIsVariable, "(?<"+name+">"+u.text+")")
}

// VariableName returns the generated name for an unnamed variable over text.
// The same text always yields the same name.
func VariableName(text string) string {
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(text))
	return "v" + strings.ReplaceAll(id.String(), "-", "")[:12]
}
