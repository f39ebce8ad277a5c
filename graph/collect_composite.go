package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/qec-tools/mobiusdec/color"
	"github.com/qec-tools/mobiusdec/dem"
)

// The composite decomposer rewrites an error's single-basis symptom set as
// a sum of atomic errors. It is a best-of search over the split schedules
// listed below, scoring each candidate split (e1, e2) by
//
//	score = [e1 known] + 2*[e2 known]
//
// A score of 3 means both halves are known atoms. A score of 1 or 2 means
// one half is known and the other becomes a remnant: a new atom whose mask
// is fixed to obs_flip ^ mask(known half).

// tryGrowDecomposition scores the candidate split (e1, e2) and, if it beats
// the best so far, replaces the previous best pair at the tail of outAtoms.
// Triple candidates with non-neutral charge are rejected outright.
func tryGrowDecomposition(
	e1, e2 color.AtomicErrorKey,
	nodeColors []color.ColorBasis,
	atomicErrors *AtomicErrorMap,
	outAtoms *[]color.AtomicErrorKey,
	bestScore *int,
) {
	c1 := atomicErrors.Contains(e1)
	c2 := atomicErrors.Contains(e2)
	score := 0
	if c1 {
		score++
	}
	if c2 {
		score += 2
	}
	if score <= *bestScore {
		return
	}
	if score == 1 && e2.Weight() == 3 && e2.NetCharge(nodeColors) != color.Neutral {
		return
	}
	if score == 2 && e1.Weight() == 3 && e1.NetCharge(nodeColors) != color.Neutral {
		return
	}

	if *bestScore > 0 {
		*outAtoms = (*outAtoms)[:len(*outAtoms)-2]
	}
	*outAtoms = append(*outAtoms, e1, e2)
	*bestScore = score
}

// tryFinishDecomposition records the remnant half (if any) of the winning
// split and reports whether the search succeeded.
func tryFinishDecomposition(
	bestScore int,
	obsFlip color.ObsMask,
	atomicErrors *AtomicErrorMap,
	outAtoms *[]color.AtomicErrorKey,
	outRemnants *AtomicErrorMap,
) bool {
	atoms := *outAtoms
	switch bestScore {
	case 1:
		cur := atoms[len(atoms)-2]
		rem := atoms[len(atoms)-1]
		known, _ := atomicErrors.Get(cur)
		outRemnants.Put(rem, obsFlip^known)
	case 2:
		cur := atoms[len(atoms)-1]
		rem := atoms[len(atoms)-2]
		known, _ := atomicErrors.Get(cur)
		outRemnants.Put(rem, obsFlip^known)
	}
	return bestScore > 0
}

// residual helpers: pick k ascending indices k_1 < k_2 < ... out of dets,
// and the residual entries are the order-preserving complement
// dets[i + Σ_j (k_j <= i + j - 1)], with j counting picks from 1.

func decomposeHelperN2(
	dets []color.NodeOffset,
	obsFlip color.ObsMask,
	nodeColors []color.ColorBasis,
	atomicErrors *AtomicErrorMap,
	outAtoms *[]color.AtomicErrorKey,
	outRemnants *AtomicErrorMap,
) bool {
	// Check if it's just directly included.
	e := color.NewAtomicErrorKey(dets[0], dets[1], color.Boundary)
	if atomicErrors.Contains(e) {
		*outAtoms = append(*outAtoms, e)
		return true
	}

	bestScore := 0

	// 1:1 decomposition.
	for k1 := 0; k1 < len(dets); k1++ {
		tryGrowDecomposition(
			color.NewAtomicErrorKey(dets[k1], color.Boundary, color.Boundary),
			color.NewAtomicErrorKey(dets[0+b(k1 <= 0)], color.Boundary, color.Boundary),
			nodeColors, atomicErrors, outAtoms, &bestScore)
	}

	return tryFinishDecomposition(bestScore, obsFlip, atomicErrors, outAtoms, outRemnants)
}

func decomposeHelperN3(
	dets []color.NodeOffset,
	obsFlip color.ObsMask,
	nodeColors []color.ColorBasis,
	atomicErrors *AtomicErrorMap,
	outAtoms *[]color.AtomicErrorKey,
	outRemnants *AtomicErrorMap,
) bool {
	// Check if it's just directly included.
	e := color.NewAtomicErrorKey(dets[0], dets[1], dets[2])
	if atomicErrors.Contains(e) {
		*outAtoms = append(*outAtoms, e)
		return true
	}

	bestScore := 0

	// 1:2 decomposition.
	for k1 := 0; k1 < len(dets); k1++ {
		tryGrowDecomposition(
			color.NewAtomicErrorKey(dets[k1], color.Boundary, color.Boundary),
			color.NewAtomicErrorKey(dets[0+b(k1 <= 0)], dets[1+b(k1 <= 1)], color.Boundary),
			nodeColors, atomicErrors, outAtoms, &bestScore)
	}

	return tryFinishDecomposition(bestScore, obsFlip, atomicErrors, outAtoms, outRemnants)
}

func decomposeHelperN4(
	dets []color.NodeOffset,
	obsFlip color.ObsMask,
	nodeColors []color.ColorBasis,
	atomicErrors *AtomicErrorMap,
	outAtoms *[]color.AtomicErrorKey,
	outRemnants *AtomicErrorMap,
) bool {
	bestScore := 0

	// 2:2 decomposition.
	for k1 := 0; k1 < len(dets) && bestScore < 2; k1++ {
		for k2 := k1 + 1; k2 < len(dets); k2++ {
			tryGrowDecomposition(
				color.NewAtomicErrorKey(dets[k1], dets[k2], color.Boundary),
				color.NewAtomicErrorKey(
					dets[0+b(k1 <= 0)+b(k2 <= 1)],
					dets[1+b(k1 <= 1)+b(k2 <= 2)],
					color.Boundary),
				nodeColors, atomicErrors, outAtoms, &bestScore)
		}
	}

	// 1:3 decomposition.
	for k1 := 0; k1 < len(dets); k1++ {
		tryGrowDecomposition(
			color.NewAtomicErrorKey(dets[k1], color.Boundary, color.Boundary),
			color.NewAtomicErrorKey(
				dets[0+b(k1 <= 0)],
				dets[1+b(k1 <= 1)],
				dets[2+b(k1 <= 2)]),
			nodeColors, atomicErrors, outAtoms, &bestScore)
	}

	return tryFinishDecomposition(bestScore, obsFlip, atomicErrors, outAtoms, outRemnants)
}

func decomposeHelperN5(
	dets []color.NodeOffset,
	obsFlip color.ObsMask,
	nodeColors []color.ColorBasis,
	atomicErrors *AtomicErrorMap,
	outAtoms *[]color.AtomicErrorKey,
	outRemnants *AtomicErrorMap,
) bool {
	bestScore := 0

	// 2:3 decomposition.
	for k1 := 0; k1 < len(dets) && bestScore < 2; k1++ {
		for k2 := k1 + 1; k2 < len(dets); k2++ {
			tryGrowDecomposition(
				color.NewAtomicErrorKey(dets[k1], dets[k2], color.Boundary),
				color.NewAtomicErrorKey(
					dets[0+b(k1 <= 0)+b(k2 <= 1)],
					dets[1+b(k1 <= 1)+b(k2 <= 2)],
					dets[2+b(k1 <= 2)+b(k2 <= 3)]),
				nodeColors, atomicErrors, outAtoms, &bestScore)
		}
	}

	return tryFinishDecomposition(bestScore, obsFlip, atomicErrors, outAtoms, outRemnants)
}

func decomposeHelperN6(
	dets []color.NodeOffset,
	obsFlip color.ObsMask,
	nodeColors []color.ColorBasis,
	atomicErrors *AtomicErrorMap,
	outAtoms *[]color.AtomicErrorKey,
	outRemnants *AtomicErrorMap,
) bool {
	bestScore := 0

	// 3:3 decomposition.
	for k1 := 0; k1 < len(dets) && bestScore < 2; k1++ {
		for k2 := k1 + 1; k2 < len(dets); k2++ {
			for k3 := k2 + 1; k3 < len(dets); k3++ {
				tryGrowDecomposition(
					color.NewAtomicErrorKey(dets[k1], dets[k2], dets[k3]),
					color.NewAtomicErrorKey(
						dets[0+b(k1 <= 0)+b(k2 <= 1)+b(k3 <= 2)],
						dets[1+b(k1 <= 1)+b(k2 <= 2)+b(k3 <= 3)],
						dets[2+b(k1 <= 2)+b(k2 <= 3)+b(k3 <= 4)]),
					nodeColors, atomicErrors, outAtoms, &bestScore)
			}
		}
	}

	return tryFinishDecomposition(bestScore, obsFlip, atomicErrors, outAtoms, outRemnants)
}

// b converts a bool to an index offset.
func b(v bool) int {
	if v {
		return 1
	}
	return 0
}

// decomposeSingleBasisDetsIntoAtoms decomposes one basis side of an error's
// symptom set. Sets with more than six symptoms are not decomposable.
func decomposeSingleBasisDetsIntoAtoms(
	dets []color.NodeOffset,
	obsFlip color.ObsMask,
	nodeColors []color.ColorBasis,
	atomicErrors *AtomicErrorMap,
	outAtoms *[]color.AtomicErrorKey,
	outRemnants *AtomicErrorMap,
) bool {
	switch len(dets) {
	case 0:
		return true
	case 1:
		e := color.NewAtomicErrorKey(dets[0], color.Boundary, color.Boundary)
		*outAtoms = append(*outAtoms, e)
		return atomicErrors.Contains(e)
	case 2:
		return decomposeHelperN2(dets, obsFlip, nodeColors, atomicErrors, outAtoms, outRemnants)
	case 3:
		return decomposeHelperN3(dets, obsFlip, nodeColors, atomicErrors, outAtoms, outRemnants)
	case 4:
		return decomposeHelperN4(dets, obsFlip, nodeColors, atomicErrors, outAtoms, outRemnants)
	case 5:
		return decomposeHelperN5(dets, obsFlip, nodeColors, atomicErrors, outAtoms, outRemnants)
	case 6:
		return decomposeHelperN6(dets, obsFlip, nodeColors, atomicErrors, outAtoms, outRemnants)
	default:
		return false
	}
}

// decomposeDetsIntoAtoms splits an error's symptom set by basis, decomposes
// each side independently, and reports failure with a full diagnostic
// unless ignoreDecompositionFailures authorises a silent drop (signalled by
// returning ok=false with a nil error).
func decomposeDetsIntoAtoms(
	dets []color.NodeOffset,
	obsFlip color.ObsMask,
	nodeColors []color.ColorBasis,
	atomicErrors *AtomicErrorMap,
	ignoreDecompositionFailures bool,
	bufXDetectors, bufZDetectors *[]color.NodeOffset,
	instr dem.ErrorInstruction,
	demForErrorMessage *dem.Model,
	outAtoms *[]color.AtomicErrorKey,
	outRemnants *AtomicErrorMap,
) (bool, error) {
	// Split into X and Z parts.
	*bufXDetectors = (*bufXDetectors)[:0]
	*bufZDetectors = (*bufZDetectors)[:0]
	for _, t := range dets {
		cb := nodeColors[t]
		c := int(cb.Color) - 1
		bs := int(cb.Basis) - 1
		if c < 0 || c >= 3 || bs < 0 || bs >= 2 {
			return false, fmt.Errorf(
				"%w: detector D%d originating from instruction (after shifting) %q "+
					"is missing coordinate data indicating its color and basis.\n"+
					"Every detector used in an error must have a 4th coordinate in "+
					"[0,6) where RedX=0, GreenX=1, BlueX=2, RedZ=3, GreenZ=4, BlueZ=5",
				ErrColorAnnotation, t, instr.String())
		}
		if bs == 0 {
			*bufXDetectors = append(*bufXDetectors, t)
		} else {
			*bufZDetectors = append(*bufZDetectors, t)
		}
	}

	// Split into atomic errors.
	*outAtoms = (*outAtoms)[:0]
	xWorked := decomposeSingleBasisDetsIntoAtoms(
		*bufXDetectors, obsFlip, nodeColors, atomicErrors, outAtoms, outRemnants)
	zWorked := decomposeSingleBasisDetsIntoAtoms(
		*bufZDetectors, obsFlip, nodeColors, atomicErrors, outAtoms, outRemnants)
	if xWorked && zWorked {
		return true, nil
	}
	if ignoreDecompositionFailures {
		return false, nil
	}
	return false, decompositionFailureError(instr, demForErrorMessage, nodeColors, *bufXDetectors, *bufZDetectors, xWorked, zWorked)
}

func decompositionFailureError(
	instr dem.ErrorInstruction,
	d *dem.Model,
	nodeColors []color.ColorBasis,
	xDets, zDets []color.NodeOffset,
	xWorked, zWorked bool,
) error {
	var sb strings.Builder
	sb.WriteString("failed to decompose a complex error instruction into basic errors.\n")
	fmt.Fprintf(&sb, "    The instruction (after shifting): %s\n", instr.String())
	if !xWorked {
		fmt.Fprintf(&sb, "    The undecomposed X detectors: %s\n", commaSepDets(xDets))
	}
	if !zWorked {
		fmt.Fprintf(&sb, "    The undecomposed Z detectors: %s\n", commaSepDets(zDets))
	}
	sb.WriteString("    Detector data:\n")
	var coords map[uint64][]float64
	if d != nil {
		coords = d.DetectorCoordinates()
	}
	seen := map[uint64]bool{}
	var ids []uint64
	for _, t := range instr.Targets {
		if t.Kind == dem.TargetDetector && !seen[t.Val] {
			seen[t.Val] = true
			ids = append(ids, t.Val)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Fprintf(&sb, "        D%d: coords=%v %v\n", id, coords[id], nodeColors[id])
	}
	sb.WriteString("Likely causes are:\n")
	sb.WriteString("    (1) The source circuit has detectors with invalid color/basis annotations.\n")
	sb.WriteString("    (2) The source circuit is producing errors too complex to decompose (e.g. more than 6 symptoms in one basis).\n")
	sb.WriteString("    (3) The decoder is missing logic for a corner case present in the source circuit.")
	return fmt.Errorf("%w: %s", ErrDecompositionFailure, sb.String())
}

func commaSepDets(dets []color.NodeOffset) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, d := range dets {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "D%d", d)
	}
	sb.WriteByte(']')
	return sb.String()
}

// CollectCompositeErrorsAndRemnantsIntoMobiusDem decomposes every error of
// the model into atomic errors and appends the resulting edge-only mobius
// error instructions to outMobiusDem.
//
// Remnants discovered along the way are written to outRemnants; the caller
// merges them into the atomic table before building lifting structures.
// An instruction whose decomposition used a remnant is skipped when
// dropMobiusErrorsInvolvingRemnantErrors is set. An instruction containing
// a corner (singlet) atom has its probability squared, because its corner
// edge crosses both subgraphs.
func CollectCompositeErrorsAndRemnantsIntoMobiusDem(
	d *dem.Model,
	nodeColors []color.ColorBasis,
	atomicErrors *AtomicErrorMap,
	dropMobiusErrorsInvolvingRemnantErrors bool,
	ignoreDecompositionFailures bool,
	outMobiusDem *dem.Model,
	outRemnants *AtomicErrorMap,
) error {
	var dets color.XorVec
	var xBuf, zBuf []color.NodeOffset
	var atomsBuf []color.AtomicErrorKey
	var targetBuf []dem.Target

	return d.IterFlattenErrors(func(e dem.ErrorInstruction) error {
		obsFlip, err := ExtractObsAndDets(e, nodeColors, &dets)
		if err != nil {
			return err
		}

		ok, err := decomposeDetsIntoAtoms(
			dets.Sorted(), obsFlip, nodeColors, atomicErrors, ignoreDecompositionFailures,
			&xBuf, &zBuf, e, d, &atomsBuf, outRemnants)
		if err != nil {
			return err
		}
		if !ok {
			// Authorised silent drop.
			return nil
		}

		// Convert the decomposition into one mobius error instruction.
		targetBuf = targetBuf[:0]
		hasCornerNode := false
		usedRemnant := false
		for _, atom := range atomsBuf {
			usedRemnant = usedRemnant || !atomicErrors.Contains(atom)
			hasCornerNode = hasCornerNode || atom.Weight() == 1
			atom.IterMobiusEdges(nodeColors, func(a, bn color.NodeOffset) {
				targetBuf = append(targetBuf,
					dem.DetTarget(uint64(a)),
					dem.DetTarget(uint64(bn)),
					dem.Separator())
			})
		}
		if usedRemnant && dropMobiusErrorsInvolvingRemnantErrors {
			return nil
		}
		if len(targetBuf) == 0 {
			return nil
		}
		targetBuf = targetBuf[:len(targetBuf)-1]
		p := e.Probability
		if hasCornerNode {
			p *= p
		}
		outMobiusDem.AppendError(p, targetBuf)
		return nil
	})
}
