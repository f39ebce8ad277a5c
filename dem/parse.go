package dem

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

// The grammar mirrors the line-oriented text format: a flat list of
// instructions, where a repeat instruction nests a block of further
// instructions between braces.

type fileAst struct {
	Instructions []*instrAst `parser:"@@*"`
}

type instrAst struct {
	Repeat *repeatAst `parser:"  @@"`
	Plain  *plainAst  `parser:"| @@"`
}

type repeatAst struct {
	Count string      `parser:"'repeat' @Number '{'"`
	Body  []*instrAst `parser:"@@* '}'"`
}

type plainAst struct {
	Name    string   `parser:"@Ident"`
	Args    []string `parser:"('(' (@Number (',' @Number)*)? ')')?"`
	Targets []string `parser:"(@DetTarget | @ObsTarget | @Caret | @Number)*"`
}

var demLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "DetTarget", Pattern: `D\d+`},
	{Name: "ObsTarget", Pattern: `L\d+`},
	{Name: "Ident", Pattern: `[a-z_][a-z_0-9]*`},
	{Name: "Number", Pattern: `[-+]?(\d+\.\d*|\.\d+|\d+)([eE][-+]?\d+)?`},
	{Name: "Caret", Pattern: `\^`},
	{Name: "Punct", Pattern: `[(),{}]`},
})

var demParser = participle.MustBuild[fileAst](
	participle.Lexer(demLexer),
	participle.UseLookahead(2),
)

// Parse reads a detector error model from its text form.
func Parse(text string) (*Model, error) {
	ast, err := demParser.ParseString("", text)
	if err != nil {
		return nil, errors.Wrap(ErrParse, err.Error())
	}
	instructions, err := convertInstructions(ast.Instructions)
	if err != nil {
		return nil, err
	}
	return &Model{Instructions: instructions}, nil
}

func convertInstructions(asts []*instrAst) ([]Instruction, error) {
	out := make([]Instruction, 0, len(asts))
	for _, a := range asts {
		if a.Repeat != nil {
			count, err := strconv.ParseUint(a.Repeat.Count, 10, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrBadInstr, "repeat count %q", a.Repeat.Count)
			}
			body, err := convertInstructions(a.Repeat.Body)
			if err != nil {
				return nil, err
			}
			out = append(out, Instruction{
				Type:   InstrRepeat,
				Repeat: &RepeatBlock{Count: count, Body: body},
			})
			continue
		}
		instr, err := convertPlain(a.Plain)
		if err != nil {
			return nil, err
		}
		out = append(out, instr)
	}
	return out, nil
}

func convertPlain(a *plainAst) (Instruction, error) {
	args := make([]float64, len(a.Args))
	for i, s := range a.Args {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Instruction{}, errors.Wrapf(ErrBadInstr, "argument %q of %s", s, a.Name)
		}
		args[i] = v
	}

	instr := Instruction{Args: args}
	switch a.Name {
	case "error":
		instr.Type = InstrError
		if len(args) != 1 || args[0] < 0 || args[0] > 1 {
			return Instruction{}, errors.Wrapf(ErrBadInstr, "error must have one probability in [0,1], got %v", args)
		}
	case "detector":
		instr.Type = InstrDetector
	case "shift_detectors":
		instr.Type = InstrShiftDetectors
	case "logical_observable":
		instr.Type = InstrLogicalObservable
	default:
		return Instruction{}, errors.Wrapf(ErrBadInstr, "unrecognized instruction %q", a.Name)
	}

	for _, t := range a.Targets {
		switch {
		case t == "^":
			if instr.Type != InstrError {
				return Instruction{}, errors.Wrapf(ErrBadInstr, "separator target in %s", a.Name)
			}
			instr.Targets = append(instr.Targets, Separator())
		case t[0] == 'D':
			id, err := strconv.ParseUint(t[1:], 10, 64)
			if err != nil {
				return Instruction{}, errors.Wrapf(ErrBadInstr, "target %q", t)
			}
			if instr.Type == InstrLogicalObservable || instr.Type == InstrShiftDetectors {
				return Instruction{}, errors.Wrapf(ErrBadInstr, "detector target in %s", a.Name)
			}
			instr.Targets = append(instr.Targets, DetTarget(id))
		case t[0] == 'L':
			id, err := strconv.ParseUint(t[1:], 10, 64)
			if err != nil {
				return Instruction{}, errors.Wrapf(ErrBadInstr, "target %q", t)
			}
			if instr.Type != InstrError && instr.Type != InstrLogicalObservable {
				return Instruction{}, errors.Wrapf(ErrBadInstr, "observable target in %s", a.Name)
			}
			instr.Targets = append(instr.Targets, ObsTarget(id))
		default:
			// Bare integer: only valid as the shift amount.
			if instr.Type != InstrShiftDetectors {
				return Instruction{}, errors.Wrapf(ErrBadInstr, "unexpected target %q in %s", t, a.Name)
			}
			n, err := strconv.ParseUint(t, 10, 64)
			if err != nil {
				return Instruction{}, errors.Wrapf(ErrBadInstr, "shift amount %q", t)
			}
			instr.Shift = n
		}
	}
	return instr, nil
}
