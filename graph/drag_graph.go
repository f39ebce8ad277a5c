package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/qec-tools/mobiusdec/color"
)

// SortedPair is an unordered pair of detector indices in canonical order.
type SortedPair struct {
	A, B color.NodeOffset
}

// NewSortedPair canonicalizes the pair.
func NewSortedPair(a, b color.NodeOffset) SortedPair {
	color.InplaceSort2(&a, &b)
	return SortedPair{A: a, B: b}
}

// ChargedEdge is one transition of the drag graph: arriving at N2 holding
// charge C2, having left N1 holding charge C1.
type ChargedEdge struct {
	N1, N2 color.NodeOffset
	C1, C2 color.Charge
}

func (e ChargedEdge) less(other ChargedEdge) bool {
	if e.N1 != other.N1 {
		return e.N1 < other.N1
	}
	if e.N2 != other.N2 {
		return e.N2 < other.N2
	}
	if e.C1 != other.C1 {
		return e.C1 < other.C1
	}
	return e.C2 < other.C2
}

// DragGraph tells us: starting at node n1 holding charge c1, after one
// transition to node n2, which charges c2 can we end up holding and at what
// observable cost. Entries are always inserted symmetrically: (n1→n2,
// c1→c2) and (n2→n1, c2→c1) carry the same mask.
type DragGraph struct {
	M map[ChargedEdge]color.ObsMask
}

// Lookup returns the mask of the transition, if it exists.
func (g *DragGraph) Lookup(e ChargedEdge) (color.ObsMask, bool) {
	m, ok := g.M[e]
	return m, ok
}

func (g DragGraph) String() string {
	keys := make([]ChargedEdge, 0, len(g.M))
	for k := range g.M {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
	var sb strings.Builder
	sb.WriteString("DragGraph{.mmm={\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "    %v@%d:%v@%d = %d\n", k.C1, k.N1, k.C2, k.N2, uint64(g.M[k]))
	}
	sb.WriteString("}}")
	return sb.String()
}

// DragGraphFromChargeGraphPathsForSubEdgesOfAtomicErrors builds the drag
// graph from the atomic errors and short charge-graph paths between their
// endpoints' representatives.
//
// Construction rules, per atom weight:
//
//	3: the triplet's three node pairs become draggable; for each color c,
//	   if both endpoints' reps carry a real c node within a two-hop charge
//	   path of each other, (n1,n2,c,c) costs that path's mask. Neutral
//	   drags cost nothing.
//	2: the pair converts charge c(a) at a into c(b) at b at the pair's
//	   mask; neutral drags cost nothing; if an endpoint's rep is a full
//	   triangle, the pair can also dump the combined charge c(a)⊕c(b) into
//	   the boundary.
//	1: the corner error dumps (or restores) the node's own charge; with a
//	   full triangle it also flips between the two other charges at the
//	   triangle's mask XOR the corner's mask.
func DragGraphFromChargeGraphPathsForSubEdgesOfAtomicErrors(
	chargeGraph *ChargeGraph,
	atomicErrors *AtomicErrorMap,
	rgbReps []color.RgbEdge,
	nodeColors []color.ColorBasis,
) DragGraph {
	const maxCost = 2

	decomposedEdges := make(map[SortedPair]struct{})
	searcher := newBfsSearcher(len(nodeColors))
	dragGraph := DragGraph{M: make(map[ChargedEdge]color.ObsMask)}

	addEdge := func(n1, n2 color.NodeOffset, c1, c2 color.Charge, flip color.ObsMask) {
		dragGraph.M[ChargedEdge{N1: n1, N2: n2, C1: c1, C2: c2}] = flip
		dragGraph.M[ChargedEdge{N1: n2, N2: n1, C1: c2, C2: c1}] = flip
	}

	addBoundaryDumpingEdge := func(a, bn color.NodeOffset, abObsFlip color.ObsMask) {
		if rgbReps[a].Weight() != 3 {
			return
		}
		ca := nodeColors[a].Color
		cb := nodeColors[bn].Color
		c := ca ^ cb
		if c == color.Neutral {
			return
		}
		r1Flip, ok1 := searcher.findShortestPathObsFlip(chargeGraph, rgbReps[a].ColorNode(ca), a, maxCost)
		r2Flip, ok2 := searcher.findShortestPathObsFlip(chargeGraph, rgbReps[a].ColorNode(cb), bn, maxCost)
		if ok1 && ok2 {
			addEdge(a, bn, c, color.Neutral, r1Flip^r2Flip^rgbReps[a].ObsFlip^abObsFlip)
		}
	}

	atomicErrors.Each(func(err color.AtomicErrorKey, errObsFlip color.ObsMask) {
		switch err.Weight() {
		case 3:
			a, bn, c := err.Dets[0], err.Dets[1], err.Dets[2]
			decomposedEdges[NewSortedPair(a, bn)] = struct{}{}
			decomposedEdges[NewSortedPair(a, c)] = struct{}{}
			decomposedEdges[NewSortedPair(bn, c)] = struct{}{}
		case 2:
			a := err.Dets[0]
			bn := err.Dets[1]
			ca := nodeColors[a].Color
			cb := nodeColors[bn].Color
			p := chargeGraph.Nodes[a].Neighbors[bn]
			// The boundary error turns charge on one node into charge on the other node.
			addEdge(a, bn, ca, cb, p)
			addEdge(a, bn, color.Neutral, color.Neutral, 0)
			// The boundary error can also be used to dump the other type of charge, if it's nearby.
			addBoundaryDumpingEdge(a, bn, errObsFlip)
			addBoundaryDumpingEdge(bn, a, errObsFlip)
			decomposedEdges[NewSortedPair(a, bn)] = struct{}{}
		case 1:
			n := err.Dets[0]
			c := nodeColors[n].Color

			// Applying the corner error dumps (or restores) the node's charge.
			addEdge(n, n, c, color.Neutral, errObsFlip)
			addEdge(n, n, color.Neutral, color.Neutral, 0)

			// The corner error, plus the node's rep error, will flip between
			// the other two nearby charges.
			r := rgbReps[n]
			if r.Weight() == 3 {
				f := r.ObsFlip ^ errObsFlip
				c1 := color.NextNonNeutral(c)
				c2 := color.NextNonNeutral(c1)
				addEdge(n, n, c1, c2, f)
			}
		}
	})

	pairs := make([]SortedPair, 0, len(decomposedEdges))
	for p := range decomposedEdges {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})

	for _, p := range pairs {
		n1, n2 := p.A, p.B
		reps1 := rgbReps[n1]
		reps2 := rgbReps[n2]
		for k := 1; k < 4; k++ {
			c := color.Charge(k)
			r1 := reps1.ColorNode(c)
			r2 := reps2.ColorNode(c)
			if r1 != color.Boundary && r2 != color.Boundary {
				// Solve for how to drag charge type c from near n1 to near n2.
				res, ok := searcher.findShortestPathObsFlip(chargeGraph, r1, r2, maxCost)
				if ok {
					addEdge(n1, n2, c, c, res)
				}
			}
		}
		// Can drag neutral charge around by doing nothing.
		addEdge(n1, n2, color.Neutral, color.Neutral, 0)
	}

	return dragGraph
}
