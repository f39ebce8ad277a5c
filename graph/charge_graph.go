package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/qec-tools/mobiusdec/color"
)

// ChargeGraphNode holds the graph-like moves available from one detector:
// neighbor → observable flip of the move. An edge (a, b) ↦ m means some
// combination of atomic errors has net symptom set {a, b} (or {a} when b is
// Boundary) and flips the observables in m. Self edges (a, a) ↦ 0 are
// always present.
type ChargeGraphNode struct {
	Neighbors map[color.NodeOffset]color.ObsMask
}

// SortedNeighbors returns the neighbor ids in ascending order. Searches
// iterate neighbors through this to stay deterministic.
func (n *ChargeGraphNode) SortedNeighbors() []color.NodeOffset {
	out := make([]color.NodeOffset, 0, len(n.Neighbors))
	for k := range n.Neighbors {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (n ChargeGraphNode) String() string {
	var sb strings.Builder
	sb.WriteString("ChargeGraphNode{.neighbors={")
	ns := n.SortedNeighbors()
	for i, k := range ns {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteByte('{')
		if k == color.Boundary {
			sb.WriteString("BOUNDARY_NODE")
		} else {
			fmt.Fprintf(&sb, "%d", k)
		}
		fmt.Fprintf(&sb, ",%d}", uint64(n.Neighbors[k]))
	}
	sb.WriteString("}}")
	return sb.String()
}

// ChargeGraph is the adjacency of graph-like charge moves, one node per
// detector. Edges are undirected: both endpoint maps carry the same mask.
type ChargeGraph struct {
	Nodes []ChargeGraphNode
	// sortedNeighbors caches SortedNeighbors per node once construction is
	// done, for the drag-graph searches.
	sortedNeighbors [][]color.NodeOffset
}

// AddEdge inserts the undirected edge (n1, n2) with the given mask.
// Boundary endpoints get no map entry of their own.
func (g *ChargeGraph) AddEdge(n1, n2 color.NodeOffset, obsFlip color.ObsMask) {
	if n1 != color.Boundary {
		g.Nodes[n1].Neighbors[n2] = obsFlip
	}
	if n2 != color.Boundary {
		g.Nodes[n2].Neighbors[n1] = obsFlip
	}
}

// freeze precomputes the per-node sorted neighbor lists.
func (g *ChargeGraph) freeze() {
	g.sortedNeighbors = make([][]color.NodeOffset, len(g.Nodes))
	for k := range g.Nodes {
		g.sortedNeighbors[k] = g.Nodes[k].SortedNeighbors()
	}
}

func (g ChargeGraph) String() string {
	var sb strings.Builder
	sb.WriteString("ChargeGraph{.nodes={\n")
	for k := range g.Nodes {
		fmt.Fprintf(&sb, "    %v, // node %d\n", g.Nodes[k], k)
	}
	sb.WriteString("}}")
	return sb.String()
}

// ChargeGraphFromAtomicErrors builds the charge graph: self loops on every
// node, one direct edge per pair atom, and synthetic edges formed by XORing
// pairs of overlapping atoms when at least one of them is a triplet and the
// combination cancels down to one or two surviving symptoms.
func ChargeGraphFromAtomicErrors(atomicErrors *AtomicErrorMap, numNodes int) ChargeGraph {
	g := ChargeGraph{Nodes: make([]ChargeGraphNode, numNodes)}
	for k := range g.Nodes {
		g.Nodes[k].Neighbors = map[color.NodeOffset]color.ObsMask{color.NodeOffset(k): 0}
	}

	// Add all directly included edges.
	atomicErrors.Each(func(err color.AtomicErrorKey, obsFlip color.ObsMask) {
		if err.Dets[2] == color.Boundary {
			g.AddEdge(err.Dets[0], err.Dets[1], obsFlip)
		}
	})

	// Index errors by each node they touch. Atomic iteration is sorted, so
	// each per-node list is in ascending key order.
	node2neighbors := make(map[color.NodeOffset][]color.AtomicErrorKey)
	atomicErrors.Each(func(err color.AtomicErrorKey, _ color.ObsMask) {
		for _, n := range err.Dets {
			if n != color.Boundary {
				node2neighbors[n] = append(node2neighbors[n], err)
			}
		}
	})
	touched := make([]color.NodeOffset, 0, len(node2neighbors))
	for n := range node2neighbors {
		touched = append(touched, n)
	}
	sort.Slice(touched, func(i, j int) bool { return touched[i] < touched[j] })

	// Form more graphlike edges by pairing overlapping errors.
	var xorBuf color.XorVec
	for _, n := range touched {
		neighbors := node2neighbors[n]
		for k1 := 0; k1 < len(neighbors); k1++ {
			for k2 := k1 + 1; k2 < len(neighbors); k2++ {
				e1 := neighbors[k1]
				e2 := neighbors[k2]
				if e1.Weight() < 3 && e2.Weight() < 3 {
					// These errors were already graphlike.
					continue
				}

				// Merge the errors.
				xorBuf.Clear()
				for _, d := range e1.Dets {
					xorBuf.XorItem(d)
				}
				for _, d := range e2.Dets {
					xorBuf.XorItem(d)
				}

				// Keep only combinations that are themselves graphlike.
				items := xorBuf.Sorted()
				var a, bn color.NodeOffset
				switch {
				case len(items) == 1:
					a, bn = items[0], color.Boundary
				case len(items) == 2,
					len(items) == 3 && items[2] == color.Boundary:
					a, bn = items[0], items[1]
				default:
					continue
				}

				m1, _ := atomicErrors.Get(e1)
				m2, _ := atomicErrors.Get(e2)
				g.AddEdge(a, bn, m1^m2)
			}
		}
	}

	g.freeze()
	return g
}
