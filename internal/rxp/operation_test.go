package rxp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllChainable_ExcludesInit(t *testing.T) {
	all := AllChainable()
	assert.False(t, all.Has(OpInit))
	assert.Equal(t, len(Operations())-1, all.Len())
}

func TestOperations_LevelGating(t *testing.T) {
	tests := []struct {
		name    string
		unit    Unit
		has     []Operation
		missing []Operation
	}{
		{
			name:    "after or",
			unit:    sample().Or(Literal("x")),
			has:     []Operation{OpOccurs, OpFollowedBy, OpAtStart, OpIsVariable},
			missing: []Operation{OpOr, OpInit},
		},
		{
			name:    "after repetition",
			unit:    sample().Occurs(3),
			has:     []Operation{OpFollowedBy, OpAtStart, OpAtEnd, OpIsOptional},
			missing: []Operation{OpOr, OpOccurs, OpOccursBetween, OpGreedyOnceOrMore},
		},
		{
			name:    "lookbehind drops start anchor",
			unit:    sample().PrecededBy(Literal("a")),
			has:     []Operation{OpFollowedBy, OpNotFollowedBy, OpNotPrecededBy, OpAtEnd},
			missing: []Operation{OpPrecededBy, OpAtStart, OpOccurs},
		},
		{
			name:    "lookahead drops end anchor",
			unit:    sample().FollowedBy(Literal("a")),
			has:     []Operation{OpPrecededBy, OpAtStart},
			missing: []Operation{OpFollowedBy, OpAtEnd},
		},
		{
			name:    "anchor keeps sibling",
			unit:    sample().AtStart(),
			has:     []Operation{OpAtEnd, OpIsOptional, OpIsCaptured, OpIsVariable},
			missing: []Operation{OpAtStart, OpFollowedBy, OpOccurs, OpOr},
		},
		{
			name:    "modifier keeps siblings",
			unit:    sample().IsOptional(),
			has:     []Operation{OpIsCaptured, OpIsVariable},
			missing: []Operation{OpIsOptional, OpAtStart},
		},
		{
			name:    "greedy",
			unit:    sample().OccursOnceOrMore().IsGreedy(),
			has:     []Operation{OpFollowedBy},
			missing: []Operation{OpOccurs, OpGreedyZeroOrMore},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops := tt.unit.Operations()
			for _, op := range tt.has {
				assert.True(t, ops.Has(op), "expected %s in %s", op, ops)
			}
			for _, op := range tt.missing {
				assert.False(t, ops.Has(op), "unexpected %s in %s", op, ops)
			}
		})
	}
}

func TestOperationSet(t *testing.T) {
	s := NewOperationSet(OpAtEnd, OpOr, Operation("bogus"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []Operation{OpOr, OpAtEnd}, s.Ops())
	assert.Equal(t, "or, atEnd", s.String())

	assert.True(t, NewOperationSet(OpOr).SubsetOf(s))
	assert.False(t, s.SubsetOf(NewOperationSet(OpOr)))
	assert.Equal(t, NewOperationSet(OpOr), s.Intersect(NewOperationSet(OpOr, OpAtStart)))
	assert.Equal(t, NewOperationSet(OpAtEnd), s.Remove(OpOr))
}

func TestLookupOperation(t *testing.T) {
	op, ok := LookupOperation("occursBetween")
	assert.True(t, ok)
	assert.Equal(t, OpOccursBetween, op)
	assert.Equal(t, LevelRepetition, op.Level())
	assert.NotEmpty(t, op.Description())

	_, ok = LookupOperation("construct")
	assert.False(t, ok)
	assert.Equal(t, -1, Operation("construct").Level())
}
