package decode

import (
	"fmt"
	"strings"

	"github.com/qec-tools/mobiusdec/color"
	"github.com/qec-tools/mobiusdec/dem"
	"github.com/qec-tools/mobiusdec/graph"
)

// Decoder predicts observable flips from detection events. All fields are
// built once by FromDem and then only read; the scratch buffers at the
// bottom are reused across shots, so one Decoder must not be shared between
// concurrent decodes.
type Decoder struct {
	// NodeColors is the color and basis of each detector.
	NodeColors []color.ColorBasis
	// AtomicErrors is the table of building-block errors, remnants merged.
	AtomicErrors *graph.AtomicErrorMap
	// MobiusDem is the doubled, edge-only model given to the matcher.
	MobiusDem dem.Model

	ChargeGraph graph.ChargeGraph
	RgbReps     []color.RgbEdge
	DragGraph   graph.DragGraph

	// Matcher is the configured matching engine for the mobius problem.
	Matcher Matcher

	sparseDetBuffer  []uint64
	matcherEdgeBuf   []int64
	eulerTourSolver  *graph.EulerTourGraph
	resolvedEventBuf []uint64
}

// FromDem configures a decoder for a model with annotated detector colors
// and bases. Each detector's 4th coordinate identifies its tag: RedX=0,
// GreenX=1, BlueX=2, RedZ=3, GreenZ=4, BlueZ=5; −1 marks the detector as
// ignored.
func FromDem(d *dem.Model, options DecoderConfigOptions) (*Decoder, error) {
	result := &Decoder{}

	// Find the color of each detector, while optionally adding coordinate
	// data to the mobius model.
	var mobiusForCoords *dem.Model
	if options.IncludeCoordsInMobiusDem {
		mobiusForCoords = &result.MobiusDem
	}
	var err error
	result.NodeColors, err = graph.CollectNodesFromDem(d, mobiusForCoords)
	if err != nil {
		return nil, err
	}

	// Find the basic building-block errors that errors will be decomposed into.
	result.AtomicErrors, err = graph.CollectAtomicErrors(d, result.NodeColors)
	if err != nil {
		return nil, err
	}

	// Decompose all errors into the building blocks, adding them into the
	// mobius model. A composite error may split into a known building block
	// plus a remnant; the remnants accumulate and join the building blocks
	// before the lifting structures are built.
	remnants := graph.NewAtomicErrorMap()
	err = graph.CollectCompositeErrorsAndRemnantsIntoMobiusDem(
		d,
		result.NodeColors,
		result.AtomicErrors,
		options.DropMobiusErrorsInvolvingRemnantErrors,
		options.IgnoreDecompositionFailures,
		&result.MobiusDem,
		remnants)
	if err != nil {
		return nil, err
	}
	remnants.Each(func(k color.AtomicErrorKey, v color.ObsMask) {
		if !result.AtomicErrors.Contains(k) {
			result.AtomicErrors.Put(k, v)
		}
	})

	// Ensure the mobius model's detector count is exactly doubled by
	// appending a bare declaration of the last doubled detector: always when
	// coordinates are off, otherwise only if the declarations fall short.
	numDetectors := uint64(len(result.NodeColors))
	if numDetectors > 0 &&
		(!options.IncludeCoordsInMobiusDem || result.MobiusDem.CountDetectors() < numDetectors*2) {
		result.MobiusDem.AppendDetector(nil, numDetectors*2-1)
	}

	// For each node, pick nearby RGB representatives for holding charge.
	result.RgbReps = graph.ChooseRgbRepsFromAtomicErrors(result.AtomicErrors, result.NodeColors)

	// Find the basic ways of moving charge around the graph.
	result.ChargeGraph = graph.ChargeGraphFromAtomicErrors(result.AtomicErrors, len(result.NodeColors))

	// Solve for how to drag charge around while travelling node to node.
	result.DragGraph = graph.DragGraphFromChargeGraphPathsForSubEdgesOfAtomicErrors(
		&result.ChargeGraph, result.AtomicErrors, result.RgbReps, result.NodeColors)

	// Prepare the matcher and the per-shot Euler tour solver.
	result.Matcher, err = options.matcherFor(&result.MobiusDem)
	if err != nil {
		return nil, err
	}
	result.eulerTourSolver = graph.NewEulerTourGraph(2 * len(result.NodeColors))

	return result, nil
}

// CheckInvariants verifies that every error of the mobius model was split
// into pairs of detectors.
func (d *Decoder) CheckInvariants() error {
	for i := range d.MobiusDem.Instructions {
		instr := &d.MobiusDem.Instructions[i]
		if instr.Type != dem.InstrError {
			continue
		}
		valid := len(instr.Targets)%3 == 2
		for k, t := range instr.Targets {
			if k%3 == 2 {
				valid = valid && t.Kind == dem.TargetSeparator
			} else {
				valid = valid && t.Kind == dem.TargetDetector
			}
		}
		if !valid {
			return fmt.Errorf("%w: a mobius model error wasn't split into pairs of detectors: %s",
				ErrNotGraphlike, dem.ErrorInstruction{Probability: instr.Args[0], Targets: instr.Targets}.String())
		}
	}
	return nil
}

// DecodeDetectionEvents predicts the observables flipped by errors
// producing the given bit-packed detection events (bit b of byte k is
// detector 8k+b). The buffer must cover at least ceil(num_detectors/8)
// bytes.
func (d *Decoder) DecodeDetectionEvents(bitPackedDetectionEvents []byte) (color.ObsMask, error) {
	// Derive the mobius matching problem.
	d.sparseDetBuffer = d.sparseDetBuffer[:0]
	d.matcherEdgeBuf = d.matcherEdgeBuf[:0]
	numDetectors := uint64(len(d.NodeColors))
	for k, byteVal := range bitPackedDetectionEvents {
		for k2 := uint64(0); byteVal != 0; byteVal, k2 = byteVal>>1, k2+1 {
			if byteVal&1 == 0 {
				continue
			}
			det := uint64(k)*8 + k2
			if det >= numDetectors || d.NodeColors[det].Ignored {
				continue
			}
			d.sparseDetBuffer = append(d.sparseDetBuffer, det*2+0, det*2+1)
		}
	}

	if err := d.Matcher.MatchEdges(d.sparseDetBuffer, &d.matcherEdgeBuf, nil); err != nil {
		return 0, err
	}

	// Lift the solution by decomposing into disjoint Euler cycles and
	// solving each cycle.
	var solution color.ObsMask
	err := d.eulerTourSolver.IterEulerToursOfInterleavedEdgeList(
		d.matcherEdgeBuf,
		d.sparseDetBuffer,
		func(cycle []color.NodeOffset) error {
			contribution, err := d.dischargeCycle(bitPackedDetectionEvents, cycle)
			if err != nil {
				return err
			}
			solution ^= contribution
			return nil
		})
	if err != nil {
		return 0, err
	}
	return solution, nil
}

// String renders the decoder's internal structures: the charge graph, the
// RGB representative table, the drag graph, and the mobius model.
func (d *Decoder) String() string {
	var sb strings.Builder
	sb.WriteString("mobiusdec::Decoder{\n\n")
	fmt.Fprintf(&sb, ".charge_graph=%v\n\n", d.ChargeGraph)
	sb.WriteString(".rgb_reps={")
	for k := range d.RgbReps {
		fmt.Fprintf(&sb, "\n    %v // rep %d", d.RgbReps[k], k)
	}
	sb.WriteString("\n}\n\n")
	fmt.Fprintf(&sb, ".drag_graph=%v\n\n", d.DragGraph)
	fmt.Fprintf(&sb, ".mobius_dem=DetectorErrorModel{\n%s\n}", d.MobiusDem.String())
	sb.WriteString("\n\n}")
	return sb.String()
}
