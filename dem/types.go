package dem

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for model parsing and validation.
var (
	// ErrParse indicates the model text could not be parsed.
	ErrParse = errors.New("dem: parse error")
	// ErrBadInstr indicates an instruction with invalid arguments or targets.
	ErrBadInstr = errors.New("dem: invalid instruction")
)

// TargetKind distinguishes the entries of an instruction's target list.
type TargetKind uint8

const (
	// TargetDetector is a relative detector id (D#).
	TargetDetector TargetKind = iota
	// TargetObservable is a logical observable id (L#).
	TargetObservable
	// TargetSeparator is the component separator (^).
	TargetSeparator
)

// Target is one entry of an instruction's target list.
type Target struct {
	Kind TargetKind
	Val  uint64
}

// DetTarget returns a relative detector id target.
func DetTarget(id uint64) Target { return Target{Kind: TargetDetector, Val: id} }

// ObsTarget returns an observable id target.
func ObsTarget(id uint64) Target { return Target{Kind: TargetObservable, Val: id} }

// Separator returns the component separator target.
func Separator() Target { return Target{Kind: TargetSeparator} }

func (t Target) String() string {
	switch t.Kind {
	case TargetDetector:
		return fmt.Sprintf("D%d", t.Val)
	case TargetObservable:
		return fmt.Sprintf("L%d", t.Val)
	default:
		return "^"
	}
}

// InstructionType enumerates the instruction kinds of a model.
type InstructionType uint8

const (
	InstrError InstructionType = iota
	InstrDetector
	InstrShiftDetectors
	InstrLogicalObservable
	InstrRepeat
)

func (t InstructionType) String() string {
	switch t {
	case InstrError:
		return "error"
	case InstrDetector:
		return "detector"
	case InstrShiftDetectors:
		return "shift_detectors"
	case InstrLogicalObservable:
		return "logical_observable"
	case InstrRepeat:
		return "repeat"
	default:
		return fmt.Sprintf("InstructionType(%d)", uint8(t))
	}
}

// Instruction is one line of a model. The fields used depend on Type:
//
//	InstrError:             Args[0] is the probability, Targets the symptoms.
//	InstrDetector:          Args are coordinates, Targets the declared ids.
//	InstrShiftDetectors:    Args are coordinate offsets, Shift the id offset.
//	InstrLogicalObservable: Targets are observable ids.
//	InstrRepeat:            Repeat holds the count and body.
type Instruction struct {
	Type    InstructionType
	Args    []float64
	Targets []Target
	Shift   uint64
	Repeat  *RepeatBlock
}

// RepeatBlock is the body of a repeat instruction.
type RepeatBlock struct {
	Count uint64
	Body  []Instruction
}

// ErrorInstruction is a flattened error mechanism: detector ids are
// absolute and the probability is explicit.
type ErrorInstruction struct {
	Probability float64
	Targets     []Target
}

func (e ErrorInstruction) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "error(%s)", formatArg(e.Probability))
	for _, t := range e.Targets {
		sb.WriteByte(' ')
		sb.WriteString(t.String())
	}
	return sb.String()
}

// Model is a parsed detector error model.
type Model struct {
	Instructions []Instruction
}

// AppendError appends an error instruction with the given probability and
// target list. The target slice is copied.
func (m *Model) AppendError(p float64, targets []Target) {
	m.Instructions = append(m.Instructions, Instruction{
		Type:    InstrError,
		Args:    []float64{p},
		Targets: append([]Target(nil), targets...),
	})
}

// AppendDetector appends a detector declaration with the given coordinates.
// The coordinate slice is copied.
func (m *Model) AppendDetector(coords []float64, id uint64) {
	m.Instructions = append(m.Instructions, Instruction{
		Type:    InstrDetector,
		Args:    append([]float64(nil), coords...),
		Targets: []Target{DetTarget(id)},
	})
}
