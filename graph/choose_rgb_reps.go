package graph

import "github.com/qec-tools/mobiusdec/color"

// ChooseRgbRepsFromAtomicErrors assigns every detector a nearby RgbEdge
// whose nodes are its local representatives for each color, used to park
// charge during lifting.
//
// Pass 1 takes, for each detector, the highest-weight atom touching it
// whose colors are all distinct. Pass 2 propagates representatives across
// same-color pair atoms: a detector with no triangle of its own (as happens
// in the final measurement layer of a phenomenological circuit) inherits
// its partner's triangle with the shared color slot rebound to itself and
// the pair's mask folded into the triangle's flip.
func ChooseRgbRepsFromAtomicErrors(
	atomicErrors *AtomicErrorMap,
	nodeColors []color.ColorBasis,
) []color.RgbEdge {
	result := make([]color.RgbEdge, len(nodeColors))
	for k := range result {
		result[k] = color.EmptyRgbEdge()
	}

	// Assign node representatives from the highest weight RGB edges they
	// are part of.
	atomicErrors.Each(func(err color.AtomicErrorKey, obsFlip color.ObsMask) {
		rep := color.RgbEdge{
			RedNode:    color.Boundary,
			GreenNode:  color.Boundary,
			BlueNode:   color.Boundary,
			ObsFlip:    obsFlip,
			ChargeFlip: color.Neutral,
		}
		weight := 0
		for _, n := range err.Dets {
			if n != color.Boundary {
				c := nodeColors[n].Color
				rep.SetColorNode(c, n)
				rep.ChargeFlip ^= c
				weight++
			}
		}

		if rep.Weight() != weight {
			// Color appeared more than once.
			return
		}

		for _, n := range err.Dets {
			if n != color.Boundary && weight > result[n].Weight() {
				result[n] = rep
			}
		}
	})

	// Inherit triangles across same-color pairs.
	atomicErrors.Each(func(e color.AtomicErrorKey, obsFlip color.ObsMask) {
		if e.Weight() != 2 {
			return
		}
		c1 := nodeColors[e.Dets[0]].Color
		c2 := nodeColors[e.Dets[1]].Color
		if c1 != c2 {
			return
		}
		r1 := &result[e.Dets[0]]
		r2 := &result[e.Dets[1]]
		w1 := r1.Weight()
		w2 := r2.Weight()
		if w1 == 0 && w2 > 0 {
			*r1 = *r2
			r1.SetColorNode(c1, e.Dets[0])
			r1.ObsFlip ^= obsFlip
		}
		if w2 == 0 && w1 > 0 {
			*r2 = *r1
			r2.SetColorNode(c2, e.Dets[1])
			r2.ObsFlip ^= obsFlip
		}
	})

	return result
}
