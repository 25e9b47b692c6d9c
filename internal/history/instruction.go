package history

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/LISSConsulting/LISSTech.RXP/internal/rxp"
)

// Instruction describes one builder-method call. The set of variants is
// closed: InitStep, TextStep, FrequencyStep, RangeStep, GetterStep and
// VariableStep. Instructions are values and never change once built.
type Instruction interface {
	Operation() rxp.Operation
	instruction()
}

// InitStep combines text into a new unit. It only ever seeds a history.
type InitStep struct {
	Args []rxp.Fragment
}

// TextStep is a method taking text arguments: or and the lookarounds.
type TextStep struct {
	Op   rxp.Operation
	Args []rxp.Fragment
}

// FrequencyStep is occurs or occursAtLeast.
type FrequencyStep struct {
	Op    rxp.Operation
	Count int
}

// RangeStep is occursBetween.
type RangeStep struct {
	Min, Max int
}

// GetterStep is a method without arguments: lazy or greedy open-ended
// repetition, anchors, isOptional and isCaptured.
type GetterStep struct {
	Op rxp.Operation
}

// VariableStep is isVariable. An empty Name lets the builder pick one.
type VariableStep struct {
	Name string
}

func (s InitStep) Operation() rxp.Operation      { return rxp.OpInit }
func (s TextStep) Operation() rxp.Operation      { return s.Op }
func (s FrequencyStep) Operation() rxp.Operation { return s.Op }
func (s RangeStep) Operation() rxp.Operation     { return rxp.OpOccursBetween }
func (s GetterStep) Operation() rxp.Operation    { return s.Op }
func (s VariableStep) Operation() rxp.Operation  { return rxp.OpIsVariable }

func (InitStep) instruction()      {}
func (TextStep) instruction()      {}
func (FrequencyStep) instruction() {}
func (RangeStep) instruction()     {}
func (GetterStep) instruction()    {}
func (VariableStep) instruction()  {}

// Seed returns an InitStep over literal text.
func Seed(texts ...string) InitStep {
	args := make([]rxp.Fragment, len(texts))
	for i, s := range texts {
		args[i] = rxp.Literal(s)
	}
	return InitStep{Args: args}
}

// Describe renders in in the command-line step syntax accepted by
// ParseInstruction.
func Describe(in Instruction) string {
	switch s := in.(type) {
	case InitStep:
		return "init:" + joinArgs(s.Args)
	case TextStep:
		return string(s.Op) + ":" + joinArgs(s.Args)
	case FrequencyStep:
		return fmt.Sprintf("%s:%d", s.Op, s.Count)
	case RangeStep:
		return fmt.Sprintf("%s:%d,%d", rxp.OpOccursBetween, s.Min, s.Max)
	case GetterStep:
		return string(s.Op)
	case VariableStep:
		if s.Name == "" {
			return string(rxp.OpIsVariable)
		}
		return string(rxp.OpIsVariable) + ":" + s.Name
	default:
		return fmt.Sprintf("%T", in)
	}
}

func joinArgs(args []rxp.Fragment) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = strings.ReplaceAll(a.String(), ",", `\,`)
	}
	return strings.Join(parts, ",")
}

// ParseInstruction reads the step syntax "op" or "op:arg,arg".
//
// Text arguments wrapped in slashes (/\d+/) are raw pattern source; a
// leading \/ keeps slash-delimited text literal (\/usr/). \, is a comma
// inside an argument rather than a separator, in raw source as well
// (/a{2\,3}/). Every other backslash is kept as written.
func ParseInstruction(s string) (Instruction, error) {
	name, rest, hasArgs := strings.Cut(strings.TrimSpace(s), ":")
	op, ok := rxp.LookupOperation(name)
	if !ok {
		return nil, fmt.Errorf("history: unknown operation %q", name)
	}
	var args []string
	if hasArgs {
		args = splitArgs(rest)
	}

	switch op {
	case rxp.OpInit:
		if len(args) == 0 {
			return nil, fmt.Errorf("history: %s needs at least one text argument", op)
		}
		return InitStep{Args: fragments(args)}, nil
	case rxp.OpOr, rxp.OpFollowedBy, rxp.OpNotFollowedBy, rxp.OpPrecededBy, rxp.OpNotPrecededBy:
		if len(args) == 0 {
			return nil, fmt.Errorf("history: %s needs at least one text argument", op)
		}
		return TextStep{Op: op, Args: fragments(args)}, nil
	case rxp.OpOccurs, rxp.OpOccursAtLeast:
		n, err := intArgs(op, args, 1)
		if err != nil {
			return nil, err
		}
		return FrequencyStep{Op: op, Count: n[0]}, nil
	case rxp.OpOccursBetween:
		n, err := intArgs(op, args, 2)
		if err != nil {
			return nil, err
		}
		return RangeStep{Min: n[0], Max: n[1]}, nil
	case rxp.OpIsVariable:
		if len(args) > 1 {
			return nil, fmt.Errorf("history: %s takes at most one name", op)
		}
		var name string
		if len(args) == 1 {
			name = strings.TrimSpace(args[0])
		}
		return VariableStep{Name: name}, nil
	default:
		if hasArgs {
			return nil, fmt.Errorf("history: %s takes no arguments", op)
		}
		return GetterStep{Op: op}, nil
	}
}

// splitArgs splits on commas not preceded by a backslash and unescapes \,.
func splitArgs(s string) []string {
	var args []string
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == ',':
			b.WriteByte(',')
			i++
		case s[i] == '\\' && i+1 < len(s):
			b.WriteString(s[i : i+2])
			i++
		case s[i] == ',':
			args = append(args, b.String())
			b.Reset()
		default:
			b.WriteByte(s[i])
		}
	}
	return append(args, b.String())
}

func fragments(args []string) []rxp.Fragment {
	out := make([]rxp.Fragment, len(args))
	for i, a := range args {
		out[i] = rxp.ParseFragment(a)
	}
	return out
}

func intArgs(op rxp.Operation, args []string, want int) ([]int, error) {
	if len(args) != want {
		return nil, fmt.Errorf("history: %s takes %d numeric argument(s), got %d", op, want, len(args))
	}
	out := make([]int, want)
	for i, a := range args {
		n, err := strconv.Atoi(strings.TrimSpace(a))
		if err != nil {
			return nil, fmt.Errorf("history: %s argument %q: %w", op, a, err)
		}
		out[i] = n
	}
	return out, nil
}

// Wire is the serialized form of an Instruction.
type Wire struct {
	Op    rxp.Operation  `json:"op" yaml:"op"`
	Args  []rxp.Fragment `json:"args,omitempty" yaml:"args,omitempty"`
	Count int            `json:"count,omitempty" yaml:"count,omitempty"`
	Min   int            `json:"min,omitempty" yaml:"min,omitempty"`
	Max   int            `json:"max,omitempty" yaml:"max,omitempty"`
	Name  string         `json:"name,omitempty" yaml:"name,omitempty"`
}

// Encode converts in to its serialized form.
func Encode(in Instruction) (Wire, error) {
	switch s := in.(type) {
	case InitStep:
		return Wire{Op: rxp.OpInit, Args: s.Args}, nil
	case TextStep:
		return Wire{Op: s.Op, Args: s.Args}, nil
	case FrequencyStep:
		return Wire{Op: s.Op, Count: s.Count}, nil
	case RangeStep:
		return Wire{Op: rxp.OpOccursBetween, Min: s.Min, Max: s.Max}, nil
	case GetterStep:
		return Wire{Op: s.Op}, nil
	case VariableStep:
		return Wire{Op: rxp.OpIsVariable, Name: s.Name}, nil
	default:
		return Wire{}, fmt.Errorf("%w: %T", ErrInvalidInstructionKind, in)
	}
}

// Decode converts a serialized instruction back into its variant.
func (w Wire) Decode() (Instruction, error) {
	var in Instruction
	switch w.Op {
	case rxp.OpInit:
		in = InitStep{Args: w.Args}
	case rxp.OpOr, rxp.OpFollowedBy, rxp.OpNotFollowedBy, rxp.OpPrecededBy, rxp.OpNotPrecededBy:
		in = TextStep{Op: w.Op, Args: w.Args}
	case rxp.OpOccurs, rxp.OpOccursAtLeast:
		in = FrequencyStep{Op: w.Op, Count: w.Count}
	case rxp.OpOccursBetween:
		in = RangeStep{Min: w.Min, Max: w.Max}
	case rxp.OpIsVariable:
		in = VariableStep{Name: w.Name}
	default:
		if !w.Op.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidInstructionKind, w.Op)
		}
		in = GetterStep{Op: w.Op}
	}
	return in, nil
}

// MarshalInstruction encodes in as JSON.
func MarshalInstruction(in Instruction) ([]byte, error) {
	w, err := Encode(in)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// UnmarshalInstruction decodes JSON produced by MarshalInstruction.
func UnmarshalInstruction(data []byte) (Instruction, error) {
	var w Wire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("history: decode instruction: %w", err)
	}
	return w.Decode()
}
