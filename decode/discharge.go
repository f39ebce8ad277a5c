package decode

import (
	"fmt"
	"strings"

	"github.com/qec-tools/mobiusdec/color"
	"github.com/qec-tools/mobiusdec/graph"
)

// chargeState is one of the four tracked lift states: the observable mask
// accumulated while holding that charge, and whether the state is
// reachable.
type chargeState struct {
	mask color.ObsMask
	ok   bool
}

// dischargeCycleSingleStart walks one Euler cycle of halved mobius nodes,
// starting (and required to finish) in startCharge.
//
// At a bridge self-revisit carrying an unresolved detection event, the
// event is picked up: the Neutral state trades places with the state of the
// detector's own color, and — when the detector's representative is a full
// triangle — the other two colors trade places at the triangle's cost,
// encoding that crossing a triangle converts either other charge into its
// complement. Otherwise the step is a drag: every (current charge → next
// charge) transition present in the drag graph propagates its source mask
// XOR the transition's mask. States with no incoming transition become
// unreachable.
func dischargeCycleSingleStart(
	nodeColors []color.ColorBasis,
	rgbReps []color.RgbEdge,
	dragGraph *graph.DragGraph,
	packedDetectionEvents []byte,
	cycle []color.NodeOffset,
	startCharge color.Charge,
	usedBuf *[]uint64,
) (color.ObsMask, bool) {
	*usedBuf = (*usedBuf)[:0]
	var curStates [4]chargeState
	curStates[startCharge] = chargeState{ok: true}
	curLoc := cycle[len(cycle)-1] >> 1

	for k := 0; k < len(cycle); k++ {
		nextLoc := cycle[k] >> 1

		hasEvent := packedDetectionEvents[curLoc>>3]&(1<<(curLoc&7)) != 0
		if nextLoc == curLoc && hasEvent && !containsUint64(*usedBuf, uint64(curLoc)) {
			// Pick up the detection event.
			*usedBuf = append(*usedBuf, uint64(curLoc))
			detCharge := nodeColors[curLoc].Color
			var after [4]chargeState
			after[detCharge] = curStates[color.Neutral]
			after[color.Neutral] = curStates[detCharge]
			r := rgbReps[curLoc]
			if r.Weight() == 3 {
				c1 := color.NextNonNeutral(detCharge)
				c2 := color.NextNonNeutral(c1)
				if curStates[c1].ok {
					after[c2] = chargeState{mask: curStates[c1].mask ^ r.ObsFlip, ok: true}
				}
				if curStates[c2].ok {
					after[c1] = chargeState{mask: curStates[c2].mask ^ r.ObsFlip, ok: true}
				}
			}
			curStates = after
		} else {
			// Drag the held charge to the new location, potentially
			// switching its type.
			var after [4]chargeState
			for curCharge := 0; curCharge < 4; curCharge++ {
				if !curStates[curCharge].ok {
					continue
				}
				for nextCharge := 0; nextCharge < 4; nextCharge++ {
					f, ok := dragGraph.Lookup(graph.ChargedEdge{
						N1: curLoc,
						N2: nextLoc,
						C1: color.Charge(curCharge),
						C2: color.Charge(nextCharge),
					})
					if ok {
						after[nextCharge] = chargeState{mask: curStates[curCharge].mask ^ f, ok: true}
					}
				}
			}
			curStates = after
		}
		curLoc = nextLoc
	}

	return curStates[startCharge].mask, curStates[startCharge].ok
}

func containsUint64(s []uint64, v uint64) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// dischargeCycle tries every start charge until one closes the cycle.
func (d *Decoder) dischargeCycle(
	packedDetectionEvents []byte,
	cycle []color.NodeOffset,
) (color.ObsMask, error) {
	for c := 0; c < 4; c++ {
		mask, ok := dischargeCycleSingleStart(
			d.NodeColors,
			d.RgbReps,
			&d.DragGraph,
			packedDetectionEvents,
			cycle,
			color.Charge(c),
			&d.resolvedEventBuf)
		if ok {
			return mask, nil
		}
	}
	return 0, d.liftFailureError(packedDetectionEvents, cycle)
}

// liftFailureError dumps the cycle and the shot's detection events. A lift
// failure points at a coloring error in the configuring model, or a decoder
// bug.
func (d *Decoder) liftFailureError(packedDetectionEvents []byte, cycle []color.NodeOffset) error {
	var sb strings.Builder
	sb.WriteString("failed to lift a flattened edge cycle from the matcher into an explanation of the detection events in the cycle.\n")
	sb.WriteString("This could be due to a coloring error in the model used to configure the decoder, or a bug in the decoder.\n")
	sb.WriteString("The cycle: {")
	for _, e := range cycle {
		det := e >> 1
		fmt.Fprintf(&sb, "\n    D%d[%v%v", det, d.NodeColors[det].Color, d.NodeColors[det].Basis)
		if packedDetectionEvents[det>>3]&(1<<(det&7)) != 0 {
			sb.WriteString(", triggered")
		}
		sb.WriteString("]")
	}
	sb.WriteString("\n}\n")
	sb.WriteString("All detection events in the shot: {")
	for k := range d.NodeColors {
		if packedDetectionEvents[k>>3]&(1<<(k&7)) != 0 {
			fmt.Fprintf(&sb, "\n    D%d[%v%v, triggered]", k, d.NodeColors[k].Color, d.NodeColors[k].Basis)
		}
	}
	sb.WriteString("\n}")
	return fmt.Errorf("%w: %s", ErrLiftFailure, sb.String())
}
