package rxp

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// ErrInvalidFlags is returned for unknown or repeated pattern flags.
var ErrInvalidFlags = errors.New("rxp: invalid flags")

// validFlags lists the accepted flag letters.
const validFlags = "dgimsuy"

// Pattern is a constructed regular expression: the artifact a unit compiles to.
type Pattern struct {
	Source string `json:"source" yaml:"source"`
	Flags  string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// String renders p in /source/flags literal form.
func (p Pattern) String() string {
	return "/" + p.Source + "/" + p.Flags
}

// WithFlags returns p with its flags replaced.
func (p Pattern) WithFlags(flags string) Pattern {
	p.Flags = flags
	return p
}

// ParsePattern reads a /source/flags literal.
func ParsePattern(lit string) (Pattern, error) {
	if len(lit) < 2 || lit[0] != '/' {
		return Pattern{}, fmt.Errorf("rxp: pattern literal %q must look like /source/flags", lit)
	}
	end := strings.LastIndexByte(lit, '/')
	if end == 0 {
		return Pattern{}, fmt.Errorf("rxp: pattern literal %q is missing its closing slash", lit)
	}
	p := Pattern{Source: lit[1:end], Flags: lit[end+1:]}
	if err := ValidateFlags(p.Flags); err != nil {
		return Pattern{}, err
	}
	return p, nil
}

// ValidateFlags checks that flags holds only unique letters from "dgimsuy".
func ValidateFlags(flags string) error {
	seen := make(map[rune]bool, len(flags))
	for _, r := range flags {
		if !strings.ContainsRune(validFlags, r) {
			return fmt.Errorf("%w: unknown flag %q (allowed: %s)", ErrInvalidFlags, r, validFlags)
		}
		if seen[r] {
			return fmt.Errorf("%w: flag %q repeated", ErrInvalidFlags, r)
		}
		seen[r] = true
	}
	return nil
}

// Compile compiles p. The i, m and s flags map onto regexp2 options; the
// remaining flags only affect how Matches iterates.
func (p Pattern) Compile() (*regexp2.Regexp, error) {
	if err := ValidateFlags(p.Flags); err != nil {
		return nil, err
	}
	var opts regexp2.RegexOptions
	if strings.ContainsRune(p.Flags, 'i') {
		opts |= regexp2.IgnoreCase
	}
	if strings.ContainsRune(p.Flags, 'm') {
		opts |= regexp2.Multiline
	}
	if strings.ContainsRune(p.Flags, 's') {
		opts |= regexp2.Singleline
	}
	re, err := regexp2.Compile(p.Source, opts)
	if err != nil {
		return nil, fmt.Errorf("rxp: compile %s: %w", p, err)
	}
	return re, nil
}

// Matches returns the matches of p in input: every match when the g flag is
// set, otherwise at most the first one.
func (p Pattern) Matches(input string) ([]string, error) {
	re, err := p.Compile()
	if err != nil {
		return nil, err
	}
	global := strings.ContainsRune(p.Flags, 'g')
	var out []string
	m, err := re.FindStringMatch(input)
	for m != nil && err == nil {
		out = append(out, m.String())
		if !global {
			break
		}
		m, err = re.FindNextMatch(m)
	}
	if err != nil {
		return nil, fmt.Errorf("rxp: match %s: %w", p, err)
	}
	return out, nil
}

// Fragment is one text argument to a builder method.
type Fragment struct {
	Text string `json:"text" yaml:"text"`
	Raw  bool   `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Literal is text matched as-is; special characters are escaped.
func Literal(s string) Fragment { return Fragment{Text: s} }

// Raw is pattern source inserted without escaping.
func Raw(src string) Fragment { return Fragment{Text: src, Raw: true} }

// FromPattern inserts the source of an already constructed pattern.
func FromPattern(p Pattern) Fragment { return Raw(p.Source) }

// FromUnit inserts the current text of another unit.
func FromUnit(u Unit) Fragment { return Raw(u.text) }

// ParseFragment reads a command-line argument: /source/ is raw pattern
// source, anything else is literal text. A leading backslash before the
// slash (\/usr/) keeps the rest literal.
func ParseFragment(arg string) Fragment {
	if rest, ok := strings.CutPrefix(arg, `\/`); ok {
		return Literal("/" + rest)
	}
	if p, err := ParsePattern(arg); err == nil && p.Flags == "" {
		return Raw(p.Source)
	}
	return Literal(arg)
}

func (f Fragment) source() string {
	if f.Raw {
		return f.Text
	}
	return Escape(f.Text)
}

// String renders f the way it is written on the command line.
func (f Fragment) String() string {
	if f.Raw {
		return "/" + f.Text + "/"
	}
	if strings.HasPrefix(f.Text, "/") {
		return `\` + f.Text
	}
	return f.Text
}

// Escape quotes every regex metacharacter in s, including the / delimiter.
func Escape(s string) string {
	return strings.ReplaceAll(regexp.QuoteMeta(s), "/", `\/`)
}

func joinFragments(frags []Fragment) string {
	var b strings.Builder
	for _, f := range frags {
		b.WriteString(f.source())
	}
	return b.String()
}
