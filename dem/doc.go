// Package dem provides an in-memory detector error model: a list of
// independent error mechanisms, detector coordinate declarations, detector
// index shifts, and repeat blocks.
//
// The text format is line-oriented:
//
//	error(0.125) D0 D1 L0 ^ D2
//	detector(1, 2, 0, 3) D5
//	shift_detectors(0, 0, 0, 1) 1
//	logical_observable L3
//	repeat 100 {
//	    ...
//	}
//
// Targets are relative detector ids (D#), observable ids (L#), and the
// component separator (^). Inside repeat blocks and after shift_detectors
// instructions, detector ids are relative to the accumulated detector
// offset; observable ids are always absolute. Parsing is handled by a
// participle grammar; Parse reports syntax errors with line context.
//
// Flattening (IterFlattenErrors) walks the model, expanding repeat blocks
// and applying detector offsets, and yields each error instruction with
// absolute detector indices. Coordinate offsets accumulate the same way and
// are resolved by DetectorCoordinates.
//
// Errors (sentinel):
//
//	– ErrParse     if the text cannot be parsed.
//	– ErrBadInstr  if an instruction has invalid arguments or targets.
//
// A Model is a plain value; it is safe for concurrent reads after
// construction.
package dem
