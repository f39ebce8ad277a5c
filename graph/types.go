package graph

import "errors"

// Sentinel errors for decoder configuration and per-shot graph processing.
var (
	// ErrColorAnnotation indicates a detector without a valid color/basis
	// annotation in its 4th coordinate.
	ErrColorAnnotation = errors.New("graph: detector missing color/basis annotation")
	// ErrObservableTooLarge indicates an observable index beyond the mask width.
	ErrObservableTooLarge = errors.New("graph: logical observable index too large")
	// ErrDetectorTooLarge indicates a detector index beyond the node width.
	ErrDetectorTooLarge = errors.New("graph: detector index too large")
	// ErrDecompositionFailure indicates an error instruction that cannot be
	// written as a sum of atomic errors.
	ErrDecompositionFailure = errors.New("graph: failed to decompose error into atomic errors")
	// ErrMalformedMatching indicates matcher output that does not decompose
	// into Euler tours.
	ErrMalformedMatching = errors.New("graph: matching didn't decompose into Euler tours")
)
