package graph

import (
	"fmt"

	"github.com/qec-tools/mobiusdec/color"
	"github.com/qec-tools/mobiusdec/dem"
)

// ExtractObsAndDets converts a flattened error instruction into its
// XOR-sparse detector set and observable mask. Detectors annotated as
// ignored are dropped; duplicated detector ids cancel.
func ExtractObsAndDets(
	e dem.ErrorInstruction,
	nodeColors []color.ColorBasis,
	outDets *color.XorVec,
) (color.ObsMask, error) {
	outDets.Clear()
	var obsFlip color.ObsMask
	for _, t := range e.Targets {
		switch t.Kind {
		case dem.TargetDetector:
			if t.Val >= uint64(color.Boundary) {
				return 0, fmt.Errorf(
					"%w: the detector error model has a detector with index %d but the max supported is %d",
					ErrDetectorTooLarge, t.Val, uint64(color.Boundary)-1)
			}
			if nodeColors[t.Val].Ignored {
				continue
			}
			outDets.XorItem(color.NodeOffset(t.Val))
		case dem.TargetObservable:
			if t.Val >= color.MaxObservables {
				return 0, fmt.Errorf(
					"%w: max logical observable is L%d but a larger one appeared in %q",
					ErrObservableTooLarge, color.MaxObservables-1, e.String())
			}
			obsFlip ^= color.ObsMask(1) << t.Val
		case dem.TargetSeparator:
			// Component separators carry no information here.
		}
	}
	return obsFlip, nil
}

// extractAtomicFromDets records the detector set as an atomic error if it
// has a valid atomic shape: a singlet, a single-basis pair, or a
// single-basis neutral triplet. Last write wins for duplicate keys.
func extractAtomicFromDets(
	dets []color.NodeOffset,
	obsFlip color.ObsMask,
	nodeColors []color.ColorBasis,
	out *AtomicErrorMap,
) {
	switch len(dets) {
	case 1:
		out.Put(color.NewAtomicErrorKey(dets[0], color.Boundary, color.Boundary), obsFlip)
	case 2:
		c0 := nodeColors[dets[0]]
		c1 := nodeColors[dets[1]]
		if c0.Basis == c1.Basis {
			out.Put(color.NewAtomicErrorKey(dets[0], dets[1], color.Boundary), obsFlip)
		}
	case 3:
		c0 := nodeColors[dets[0]]
		c1 := nodeColors[dets[1]]
		c2 := nodeColors[dets[2]]
		netCharge := c0.Color ^ c1.Color ^ c2.Color
		if netCharge == color.Neutral && c0.Basis == c1.Basis && c1.Basis == c2.Basis {
			out.Put(color.NewAtomicErrorKey(dets[0], dets[1], dets[2]), obsFlip)
		}
	}
}

// CollectAtomicErrors walks the model's errors and collects every one whose
// reduced symptom set already forms a valid atomic shape.
func CollectAtomicErrors(d *dem.Model, nodeColors []color.ColorBasis) (*AtomicErrorMap, error) {
	result := NewAtomicErrorMap()
	var dets color.XorVec
	err := d.IterFlattenErrors(func(e dem.ErrorInstruction) error {
		obsFlip, err := ExtractObsAndDets(e, nodeColors, &dets)
		if err != nil {
			return err
		}
		extractAtomicFromDets(dets.Sorted(), obsFlip, nodeColors, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
