package rxp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Unit { return Init(Literal("sample")) }

func TestUnit_MethodOutput(t *testing.T) {
	tests := []struct {
		name string
		unit Unit
		want string
	}{
		{"or", sample().Or(Literal("something else")), `(?:(?:sample)|(?:something else))`},
		{"or many", sample().Or(Literal("a"), Literal("b")), `(?:(?:sample)|(?:a)|(?:b))`},
		{"occurs", sample().Occurs(3), `(?:sample){3}`},
		{"occursAtLeast", sample().OccursAtLeast(2), `(?:sample){2,}`},
		{"occursBetween", sample().OccursBetween(2, 4), `(?:sample){2,4}`},
		{"occursOnceOrMore", sample().OccursOnceOrMore(), `(?:sample)+?`},
		{"occursZeroOrMore", sample().OccursZeroOrMore(), `(?:sample)*?`},
		{"greedy once", sample().OccursOnceOrMore().IsGreedy(), `(?:sample)+`},
		{"greedy zero", sample().OccursZeroOrMore().IsGreedy(), `(?:sample)*`},
		{"followedBy", sample().FollowedBy(Literal("next")), `sample(?=next)`},
		{"notFollowedBy", sample().NotFollowedBy(Literal("nada")), `sample(?!nada)`},
		{"precededBy", sample().PrecededBy(Literal("before")), `(?<=before)sample`},
		{"notPrecededBy", sample().NotPrecededBy(Literal("nada")), `(?<!nada)sample`},
		{"atStart", sample().AtStart(), `^(?:sample)`},
		{"atEnd", sample().AtEnd(), `(?:sample)$`},
		{"isOptional", sample().IsOptional(), `(?:sample)?`},
		{"isCaptured", sample().IsCaptured(), `((?:sample))`},
		{"isVariable", sample().IsVariable("myVariable"), `(?<myVariable>sample)`},
		{"chained", sample().Occurs(3).AtStart(), `^(?:(?:sample){3})`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := tt.unit.Construct("")
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Source)
		})
	}
}

func TestInit_CombinesAndEscapes(t *testing.T) {
	assert.Equal(t, `escape \[ me`, Init(Literal("escape [ me")).Text())

	inner := Init(Literal("init"))
	u := Init(Literal("sample"), Raw(" for "), FromUnit(inner))
	assert.Equal(t, "sample for init", u.Text())

	assert.Equal(t, `a\/b\.c`, Escape("a/b.c"))
}

func TestWrap_UsesSourceVerbatim(t *testing.T) {
	p, err := sample().Occurs(3).Construct("")
	require.NoError(t, err)

	u := Wrap(p)
	assert.Equal(t, p.Source, u.Text())
	assert.Equal(t, AllChainable(), u.Operations())
}

func TestUnit_Errors(t *testing.T) {
	tests := []struct {
		name string
		unit Unit
		want error
	}{
		{"negative occurs", sample().Occurs(-1), ErrInvalidCount},
		{"negative at least", sample().OccursAtLeast(-2), ErrInvalidCount},
		{"inverted range", sample().OccursBetween(4, 2), ErrInvalidCount},
		{"greedy without repetition", sample().IsGreedy(), ErrNotRepeating},
		{"bad variable name", sample().IsVariable("1abc"), ErrInvalidVariableName},
		{"error sticks", sample().Occurs(-1).AtStart().IsCaptured(), ErrInvalidCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.unit.Construct("")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConstruct_Flags(t *testing.T) {
	p, err := sample().Construct("gi")
	require.NoError(t, err)
	assert.Equal(t, "/sample/gi", p.String())

	_, err = sample().Construct("gg")
	assert.ErrorIs(t, err, ErrInvalidFlags)

	_, err = sample().Construct("x")
	assert.ErrorIs(t, err, ErrInvalidFlags)
}

func TestVariables_ReuseBecomesBackReference(t *testing.T) {
	v := Init(Literal("ab")).IsVariable("x")
	u := Init(FromUnit(v), Literal("-"), FromUnit(v))

	p, err := u.Construct("")
	require.NoError(t, err)
	assert.Equal(t, `(?<x>ab)-\k<x>`, p.Source)

	matches, err := p.Matches("ab-ab ab-cd")
	require.NoError(t, err)
	assert.Equal(t, []string{"ab-ab"}, matches)
}

func TestVariables_UnnamedIsDeterministic(t *testing.T) {
	a, err := sample().IsVariable("").Construct("")
	require.NoError(t, err)
	b, err := sample().IsVariable("").Construct("")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Contains(t, a.Source, "(?<"+VariableName("sample")+">")
	assert.NotEqual(t, VariableName("sample"), VariableName("other"))
}

func TestResolveVariables_LeavesLookbehindAndClasses(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`(?<=a)b`, `(?<=a)b`},
		{`(?<!a)b`, `(?<!a)b`},
		{`[(?<x>]a`, `[(?<x>]a`},
		{`(?<x>a(b))c(?<x>a(b))`, `(?<x>a(b))c\k<x>`},
		{`(?<x>\))(?<x>\))`, `(?<x>\))\k<x>`},
		{`(?<x>a)(?<y>b)(?<x>a)(?<y>b)`, `(?<x>a)(?<y>b)\k<x>\k<y>`},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveVariables(tt.src))
		})
	}
}

func TestPattern_MatchesLookaround(t *testing.T) {
	p, err := Init(Literal("sample")).PrecededBy(Literal("a ")).Construct("g")
	require.NoError(t, err)

	matches, err := p.Matches("a sample, the sample, a sample")
	require.NoError(t, err)
	assert.Equal(t, []string{"sample", "sample"}, matches)
}

func TestPattern_MatchesFirstOnlyWithoutGlobal(t *testing.T) {
	p, err := Init(Literal("x")).Construct("i")
	require.NoError(t, err)

	matches, err := p.Matches("X x X")
	require.NoError(t, err)
	assert.Equal(t, []string{"X"}, matches)
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern(`/a\/b/gi`)
	require.NoError(t, err)
	assert.Equal(t, Pattern{Source: `a\/b`, Flags: "gi"}, p)

	for _, bad := range []string{"", "abc", "/", "/abc", "/a/q"} {
		_, err := ParsePattern(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseFragment(t *testing.T) {
	assert.Equal(t, Raw(`\d+`), ParseFragment(`/\d+/`))
	assert.Equal(t, Literal("plain"), ParseFragment("plain"))
	assert.Equal(t, Literal("/x/g"), ParseFragment("/x/g"))
	assert.Equal(t, Literal("/usr/"), ParseFragment(`\/usr/`))

	for _, f := range []Fragment{Literal("/usr/"), Literal("/x/g"), Literal("a/b"), Raw(`\d+`)} {
		assert.Equal(t, f, ParseFragment(f.String()), "round trip of %q", f.String())
	}
}
