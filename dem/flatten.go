package dem

// flattenState accumulates the detector and coordinate offsets applied by
// shift_detectors instructions while walking a model.
type flattenState struct {
	detOffset    uint64
	coordOffsets []float64
}

func (s *flattenState) applyShift(instr *Instruction) {
	s.detOffset += instr.Shift
	for k := range instr.Args {
		if len(s.coordOffsets) < len(instr.Args) {
			s.coordOffsets = append(s.coordOffsets, 0)
		}
		s.coordOffsets[k] += instr.Args[k]
	}
}

// resolvedCoords returns args with the accumulated coordinate offsets
// applied elementwise.
func (s *flattenState) resolvedCoords(args []float64) []float64 {
	out := append([]float64(nil), args...)
	for k := 0; k < len(s.coordOffsets) && k < len(out); k++ {
		out[k] += s.coordOffsets[k]
	}
	return out
}

// DetectorDecl is one detector declaration seen during flattening, with its
// absolute id and shift-resolved coordinates.
type DetectorDecl struct {
	ID     uint64
	Coords []float64
	Instr  *Instruction
}

// IterFlattenErrors walks the model, expanding repeat blocks and applying
// detector offsets, and calls fn for each error instruction with absolute
// detector ids. Iteration stops at the first error returned by fn.
func (m *Model) IterFlattenErrors(fn func(ErrorInstruction) error) error {
	var st flattenState
	return flattenWalk(m.Instructions, &st, fn, nil)
}

// IterFlattenDetectors walks the model the same way, calling fn for each
// detector declaration.
func (m *Model) IterFlattenDetectors(fn func(DetectorDecl) error) error {
	var st flattenState
	return flattenWalk(m.Instructions, &st, nil, fn)
}

func flattenWalk(
	instructions []Instruction,
	st *flattenState,
	onError func(ErrorInstruction) error,
	onDetector func(DetectorDecl) error,
) error {
	for i := range instructions {
		instr := &instructions[i]
		switch instr.Type {
		case InstrError:
			if onError == nil {
				continue
			}
			targets := make([]Target, len(instr.Targets))
			for k, t := range instr.Targets {
				if t.Kind == TargetDetector {
					t.Val += st.detOffset
				}
				targets[k] = t
			}
			if err := onError(ErrorInstruction{Probability: instr.Args[0], Targets: targets}); err != nil {
				return err
			}
		case InstrDetector:
			if onDetector == nil {
				continue
			}
			coords := st.resolvedCoords(instr.Args)
			for _, t := range instr.Targets {
				if err := onDetector(DetectorDecl{ID: t.Val + st.detOffset, Coords: coords, Instr: instr}); err != nil {
					return err
				}
			}
		case InstrShiftDetectors:
			st.applyShift(instr)
		case InstrRepeat:
			for k := uint64(0); k < instr.Repeat.Count; k++ {
				if err := flattenWalk(instr.Repeat.Body, st, onError, onDetector); err != nil {
					return err
				}
			}
		case InstrLogicalObservable:
			// Declares an observable's existence; nothing to do here.
		}
	}
	return nil
}

// CountDetectors returns one past the largest absolute detector index
// referenced anywhere in the model.
func (m *Model) CountDetectors() uint64 {
	var n uint64
	var st flattenState
	_ = flattenWalk(m.Instructions, &st,
		func(e ErrorInstruction) error {
			for _, t := range e.Targets {
				if t.Kind == TargetDetector && t.Val+1 > n {
					n = t.Val + 1
				}
			}
			return nil
		},
		func(d DetectorDecl) error {
			if d.ID+1 > n {
				n = d.ID + 1
			}
			return nil
		})
	return n
}

// CountObservables returns one past the largest observable index referenced
// anywhere in the model.
func (m *Model) CountObservables() uint64 {
	var n uint64
	var walk func([]Instruction)
	walk = func(instructions []Instruction) {
		for i := range instructions {
			instr := &instructions[i]
			if instr.Type == InstrRepeat {
				walk(instr.Repeat.Body)
				continue
			}
			for _, t := range instr.Targets {
				if t.Kind == TargetObservable && t.Val+1 > n {
					n = t.Val + 1
				}
			}
		}
	}
	walk(m.Instructions)
	return n
}

// DetectorCoordinates resolves the coordinate list of every declared
// detector, keyed by absolute detector index.
func (m *Model) DetectorCoordinates() map[uint64][]float64 {
	coords := make(map[uint64][]float64)
	_ = m.IterFlattenDetectors(func(d DetectorDecl) error {
		coords[d.ID] = d.Coords
		return nil
	})
	return coords
}
