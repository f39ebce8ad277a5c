package color

import (
	"fmt"
	"strings"
)

// AtomicErrorKey names one building-block error as a canonical triple of
// detector indices: sorted ascending and right-padded with Boundary.
//
// Invariants:
//
//	sorted:    Dets[0] <= Dets[1] <= Dets[2]
//	not empty: Dets[0] != Boundary
//	triplets:  Dets[2] != Boundary implies net color charge is Neutral
//	basis:     all real detectors share one basis
type AtomicErrorKey struct {
	Dets [3]NodeOffset
}

// NewAtomicErrorKey canonicalizes the given detector triple.
func NewAtomicErrorKey(d1, d2, d3 NodeOffset) AtomicErrorKey {
	return AtomicErrorKey{Dets: Sort3(d1, d2, d3)}
}

// AtomicErrorKeyFromDets canonicalizes a slice of at most three detectors,
// padding with Boundary.
func AtomicErrorKeyFromDets(dets []NodeOffset) AtomicErrorKey {
	d := [3]NodeOffset{Boundary, Boundary, Boundary}
	copy(d[:], dets)
	return AtomicErrorKey{Dets: Sort3(d[0], d[1], d[2])}
}

// Less orders keys lexicographically by their det triples.
func (k AtomicErrorKey) Less(other AtomicErrorKey) bool {
	for i := 0; i < 3; i++ {
		if k.Dets[i] != other.Dets[i] {
			return k.Dets[i] < other.Dets[i]
		}
	}
	return false
}

// Weight counts the real (non-Boundary) detectors in the key.
func (k AtomicErrorKey) Weight() int {
	w := 0
	for _, d := range k.Dets {
		if d != Boundary {
			w++
		}
	}
	return w
}

// NetCharge XORs together the colors of the key's real detectors.
func (k AtomicErrorKey) NetCharge(nodeColors []ColorBasis) Charge {
	c := Neutral
	for _, d := range k.Dets {
		if d != Boundary {
			c ^= nodeColors[d].Color
		}
	}
	return c
}

// CheckInvariants validates the key against the node annotations, returning
// a descriptive error on the first violation.
func (k AtomicErrorKey) CheckInvariants(nodeColors []ColorBasis) error {
	netCharge := Neutral
	for _, d := range k.Dets {
		if int(d) < len(nodeColors) {
			netCharge ^= nodeColors[d].Color
		} else if d != Boundary {
			return fmt.Errorf("color: %v has a too-large detector index; num detectors = %d", k, len(nodeColors))
		}
	}
	if k.Dets[0] == Boundary {
		return fmt.Errorf("color: vacuous atomic error %v", k)
	}
	if k.Dets[0] > k.Dets[1] || k.Dets[1] > k.Dets[2] {
		return fmt.Errorf("color: atomic error %v is not sorted", k)
	}
	if netCharge != Neutral && k.Dets[2] != Boundary {
		return fmt.Errorf("color: triplet %v has non-neutral charge %v", k, netCharge)
	}
	for _, d := range k.Dets[1:] {
		if d != Boundary && nodeColors[d].Basis != nodeColors[k.Dets[0]].Basis {
			return fmt.Errorf("color: atomic error %v mixes bases", k)
		}
	}
	return nil
}

func (k AtomicErrorKey) String() string {
	var sb strings.Builder
	sb.WriteString("AtomicErrorKey{.dets={")
	for i, d := range k.Dets {
		if i > 0 {
			sb.WriteString(", ")
		}
		if d == Boundary {
			sb.WriteString("BOUNDARY_NODE")
		} else {
			fmt.Fprintf(&sb, "%d", d)
		}
	}
	sb.WriteString("}}")
	return sb.String()
}

// IterMobiusEdges expands the atomic error into its mobius-graph edges.
//
// Each symptom splits into its two doubled nodes, which are then paired up
// across the two-color subgraphs. The pairing matters: it is what connects
// (and disconnects) the subgraphs in the way the matching lift depends on.
//
//	Singlet {a}:          (2a+0, 2a+1), a self-bouncing corner edge.
//	Same-color pair:      (2a+0, 2b+0), (2a+1, 2b+1).
//	Cross-color pair:     the order of b's doubled nodes flips when
//	                      c(a)⊕c(b) == G, so each endpoint lands in a
//	                      subgraph that includes its color.
//	Neutral triplet:      one edge per two-color subgraph.
func (k AtomicErrorKey) IterMobiusEdges(nodeColors []ColorBasis, emit func(a, b NodeOffset)) {
	n1, n2, n3 := k.Dets[0], k.Dets[1], k.Dets[2]
	switch {
	case n1 == Boundary:
		// No edge.
	case n2 == Boundary:
		emit(n1*2+0, n1*2+1)
	case n3 == Boundary:
		c1 := nodeColors[n1].Color
		c2 := nodeColors[n2].Color
		var flip NodeOffset
		if c1^c2 == G {
			flip = 1
		}
		emit(n1*2+0, (n2*2+0)^flip)
		emit(n1*2+1, (n2*2+1)^flip)
	default:
		rgb := [3]NodeOffset{Boundary, Boundary, Boundary}
		rgb[nodeColors[n1].Color-1] = n1
		rgb[nodeColors[n2].Color-1] = n2
		rgb[nodeColors[n3].Color-1] = n3
		r, g, b := rgb[0], rgb[1], rgb[2]
		a0 := r*2 + SubgraphOffsetRedNotBlue
		b0 := g*2 + SubgraphOffsetGreenNotBlue
		a1 := g*2 + SubgraphOffsetGreenNotRed
		b1 := b*2 + SubgraphOffsetBlueNotRed
		a2 := r*2 + SubgraphOffsetRedNotGreen
		b2 := b*2 + SubgraphOffsetBlueNotGreen
		InplaceSort2(&a0, &b0)
		InplaceSort2(&a1, &b1)
		InplaceSort2(&a2, &b2)
		emit(a0, b0)
		emit(a1, b1)
		emit(a2, b2)
	}
}
