package rxp

import "strings"

// Operation names one chainable builder method.
type Operation string

const (
	OpInit Operation = "init" // seed only; never chainable

	OpOr Operation = "or"

	OpOccurs           Operation = "occurs"
	OpOccursAtLeast    Operation = "occursAtLeast"
	OpOccursBetween    Operation = "occursBetween"
	OpOccursOnceOrMore Operation = "occursOnceOrMore"
	OpOccursZeroOrMore Operation = "occursZeroOrMore"
	OpGreedyOnceOrMore Operation = "greedyOnceOrMore"
	OpGreedyZeroOrMore Operation = "greedyZeroOrMore"

	OpFollowedBy    Operation = "followedBy"
	OpNotFollowedBy Operation = "notFollowedBy"
	OpPrecededBy    Operation = "precededBy"
	OpNotPrecededBy Operation = "notPrecededBy"

	OpAtStart Operation = "atStart"
	OpAtEnd   Operation = "atEnd"

	OpIsOptional Operation = "isOptional"
	OpIsCaptured Operation = "isCaptured"
	OpIsVariable Operation = "isVariable"
)

// Legality levels. Applying an operation at level k removes every operation
// below k for the rest of the chain.
const (
	LevelSeed        = 0
	LevelAlternation = 1
	LevelRepetition  = 2
	LevelLookaround  = 3
	LevelAnchor      = 4
	LevelModifier    = 5
)

type opInfo struct {
	op    Operation
	level int
	desc  string
}

// operations is the legality table, in display order. An operation's bit in
// OperationSet is its index here.
var operations = []opInfo{
	{OpInit, LevelSeed, "combine text, patterns or units into a new unit"},
	{OpOr, LevelAlternation, "match any one of the given alternatives"},
	{OpOccurs, LevelRepetition, "repeat exactly n times"},
	{OpOccursAtLeast, LevelRepetition, "repeat at least n times"},
	{OpOccursBetween, LevelRepetition, "repeat between min and max times"},
	{OpOccursOnceOrMore, LevelRepetition, "repeat one or more times (lazy)"},
	{OpOccursZeroOrMore, LevelRepetition, "repeat zero or more times (lazy)"},
	{OpGreedyOnceOrMore, LevelRepetition, "repeat one or more times (greedy)"},
	{OpGreedyZeroOrMore, LevelRepetition, "repeat zero or more times (greedy)"},
	{OpFollowedBy, LevelLookaround, "require the given text to follow"},
	{OpNotFollowedBy, LevelLookaround, "require the given text not to follow"},
	{OpPrecededBy, LevelLookaround, "require the given text to precede"},
	{OpNotPrecededBy, LevelLookaround, "require the given text not to precede"},
	{OpAtStart, LevelAnchor, "anchor at the start of the input"},
	{OpAtEnd, LevelAnchor, "anchor at the end of the input"},
	{OpIsOptional, LevelModifier, "make the match optional"},
	{OpIsCaptured, LevelModifier, "capture the match in a numbered group"},
	{OpIsVariable, LevelModifier, "capture as a named variable, reused as a back-reference"},
}

var opIndex = func() map[Operation]int {
	m := make(map[Operation]int, len(operations))
	for i, info := range operations {
		m[info.op] = i
	}
	return m
}()

// LookupOperation resolves an operation by its method name.
func LookupOperation(name string) (Operation, bool) {
	op := Operation(name)
	_, ok := opIndex[op]
	return op, ok
}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	_, ok := opIndex[o]
	return ok
}

// Level returns the legality level of o, or -1 if o is unknown.
func (o Operation) Level() int {
	i, ok := opIndex[o]
	if !ok {
		return -1
	}
	return operations[i].level
}

// Description returns a one-line summary of what o does.
func (o Operation) Description() string {
	i, ok := opIndex[o]
	if !ok {
		return ""
	}
	return operations[i].desc
}

func (o Operation) String() string { return string(o) }

// Operations returns every known operation in table order, including OpInit.
func Operations() []Operation {
	out := make([]Operation, len(operations))
	for i, info := range operations {
		out[i] = info.op
	}
	return out
}

// OperationSet is a set of operations.
type OperationSet uint32

// NewOperationSet returns a set holding ops. Unknown operations are ignored.
func NewOperationSet(ops ...Operation) OperationSet {
	var s OperationSet
	for _, op := range ops {
		s = s.Add(op)
	}
	return s
}

// AllChainable is every operation a freshly wrapped unit exposes.
func AllChainable() OperationSet {
	return exposedAfter(OpInit)
}

// Has reports whether op is in s.
func (s OperationSet) Has(op Operation) bool {
	i, ok := opIndex[op]
	return ok && s&(1<<uint(i)) != 0
}

// Add returns s with op added.
func (s OperationSet) Add(op Operation) OperationSet {
	if i, ok := opIndex[op]; ok {
		s |= 1 << uint(i)
	}
	return s
}

// Remove returns s without op.
func (s OperationSet) Remove(op Operation) OperationSet {
	if i, ok := opIndex[op]; ok {
		s &^= 1 << uint(i)
	}
	return s
}

// Intersect returns the operations present in both s and o.
func (s OperationSet) Intersect(o OperationSet) OperationSet { return s & o }

// SubsetOf reports whether every operation in s is also in o.
func (s OperationSet) SubsetOf(o OperationSet) bool { return s&^o == 0 }

// Len returns the number of operations in s.
func (s OperationSet) Len() int {
	n := 0
	for v := s; v != 0; v &= v - 1 {
		n++
	}
	return n
}

// Ops returns the members of s in table order.
func (s OperationSet) Ops() []Operation {
	var out []Operation
	for i, info := range operations {
		if s&(1<<uint(i)) != 0 {
			out = append(out, info.op)
		}
	}
	return out
}

func (s OperationSet) String() string {
	ops := s.Ops()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = string(op)
	}
	return strings.Join(names, ", ")
}

// exposedAfter returns the operations a unit exposes once op was the last
// operation applied to it. Levels 3 to 5 keep their unused siblings, and a
// lookbehind (lookahead) rules out a start (end) anchor.
func exposedAfter(op Operation) OperationSet {
	lvl := op.Level()
	var s OperationSet
	for _, info := range operations {
		switch {
		case info.level == LevelSeed:
		case info.level > lvl:
			s = s.Add(info.op)
		case info.level == lvl && lvl >= LevelLookaround && info.op != op:
			s = s.Add(info.op)
		}
	}
	switch op {
	case OpPrecededBy, OpNotPrecededBy:
		s = s.Remove(OpAtStart)
	case OpFollowedBy, OpNotFollowedBy:
		s = s.Remove(OpAtEnd)
	}
	return s
}
