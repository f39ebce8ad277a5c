package graph

import (
	"fmt"
	"strings"

	"github.com/qec-tools/mobiusdec/color"
)

// EulerTourNeighbor is one half-edge. BackIndex points at the opposite
// half-edge in the neighbor's list, so consuming an edge from one side can
// void it from the other.
type EulerTourNeighbor struct {
	Node      color.NodeOffset
	BackIndex int
}

// EulerTourNode is the per-node half-edge list. Entries whose Node is
// Boundary are voided and skipped.
type EulerTourNode struct {
	Neighbors    []EulerTourNeighbor
	NextNeighbor int
}

// lookNextNeighbor advances NextNeighbor past voided entries and returns
// the index of the next live neighbor, or -1 when none remain.
func (n *EulerTourNode) lookNextNeighbor() int {
	for {
		if n.NextNeighbor >= len(n.Neighbors) {
			return -1
		}
		if n.Neighbors[n.NextNeighbor].Node == color.Boundary {
			n.NextNeighbor++
			continue
		}
		return n.NextNeighbor
	}
}

func (n EulerTourNode) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "EulerTourNode{.next_neighbor=%d, .neighbors={", n.NextNeighbor)
	for _, e := range n.Neighbors {
		fmt.Fprintf(&sb, "%d,", e.Node)
	}
	sb.WriteString("}}")
	return sb.String()
}

// EulerTourGraph decomposes a multigraph into disjoint Euler cycles via
// Hierholzer's algorithm. The graph must have even degree everywhere; it
// may have multiple connected components, yielding one tour each.
//
// The structure is reused across shots: after a successful iteration only
// the touched nodes are cleared, so a decode costs time proportional to the
// matched edges rather than the node count.
type EulerTourGraph struct {
	nodes     []EulerTourNode
	cycleBuf  []color.NodeOffset
	cycleBuf2 []color.NodeOffset
}

// NewEulerTourGraph returns a graph sized for numNodes nodes.
func NewEulerTourGraph(numNodes int) *EulerTourGraph {
	return &EulerTourGraph{nodes: make([]EulerTourNode, numNodes)}
}

// AddEdge inserts an undirected edge, linking the two half-edges.
func (g *EulerTourGraph) AddEdge(a, bn color.NodeOffset) {
	na := len(g.nodes[a].Neighbors)
	nb := len(g.nodes[bn].Neighbors)
	g.nodes[a].Neighbors = append(g.nodes[a].Neighbors, EulerTourNeighbor{Node: bn, BackIndex: nb})
	g.nodes[bn].Neighbors = append(g.nodes[bn].Neighbors, EulerTourNeighbor{Node: a, BackIndex: na})
}

// HardReset deletes all edges and buffer contents. It takes time
// proportional to the number of nodes rather than the number of edges.
func (g *EulerTourGraph) HardReset() {
	for k := range g.nodes {
		g.nodes[k].Neighbors = g.nodes[k].Neighbors[:0]
		g.nodes[k].NextNeighbor = 0
	}
	g.cycleBuf = g.cycleBuf[:0]
	g.cycleBuf2 = g.cycleBuf2[:0]
}

// extendCycleDepthFirst walks unburned edges from the cycle's tail until it
// gets stuck, voiding each consumed edge's partner half-edge.
func (g *EulerTourGraph) extendCycleDepthFirst() {
	for {
		n := &g.nodes[g.cycleBuf[len(g.cycleBuf)-1]]
		neighborK := n.lookNextNeighbor()
		if neighborK < 0 {
			return
		}
		n.NextNeighbor++
		neighbor := n.Neighbors[neighborK]
		g.cycleBuf = append(g.cycleBuf, neighbor.Node)
		g.nodes[neighbor.Node].Neighbors[neighbor.BackIndex].Node = color.Boundary
	}
}

// rotateCycleToEndWithUnfinishedNode pops the duplicated start entry, then
// rotates the cycle so a node that still has unburned neighbors sits at the
// end, ready for a spliced sub-cycle. Returns false when no such node
// remains. A walk that ends away from its start means the input had odd
// degree somewhere; that is a malformed matching.
func (g *EulerTourGraph) rotateCycleToEndWithUnfinishedNode() (bool, error) {
	if g.cycleBuf[len(g.cycleBuf)-1] != g.cycleBuf[0] {
		g.HardReset()
		return false, fmt.Errorf("%w: graph didn't decompose into Euler tours", ErrMalformedMatching)
	}
	g.cycleBuf = g.cycleBuf[:len(g.cycleBuf)-1]

	cycleK := 1
	for ; cycleK < len(g.cycleBuf) && g.nodes[g.cycleBuf[cycleK]].lookNextNeighbor() < 0; cycleK++ {
	}
	if cycleK < len(g.cycleBuf) {
		g.cycleBuf2 = append(g.cycleBuf2, g.cycleBuf[cycleK:]...)
		g.cycleBuf2 = append(g.cycleBuf2, g.cycleBuf[:cycleK+1]...)
		g.cycleBuf, g.cycleBuf2 = g.cycleBuf2, g.cycleBuf
		g.cycleBuf2 = g.cycleBuf2[:0]
		return true, nil
	}
	return false, nil
}

// burnComponentAt consumes the component containing n (if any edges remain
// there) and fires the callback with its finished cycle.
func (g *EulerTourGraph) burnComponentAt(n color.NodeOffset, callback func(cycle []color.NodeOffset) error) error {
	if g.nodes[n].lookNextNeighbor() < 0 {
		return nil
	}
	g.cycleBuf = append(g.cycleBuf, n)
	for {
		g.extendCycleDepthFirst()
		more, err := g.rotateCycleToEndWithUnfinishedNode()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	err := callback(g.cycleBuf)
	g.cycleBuf = g.cycleBuf[:0]
	return err
}

// IterEulerToursOfInterleavedEdgeList inserts the interleaved edge list
// (pairs of endpoints) plus one bridge edge per detection-event pair, then
// decomposes the whole multigraph into Euler cycles, firing the callback
// once per cycle. Afterwards the touched nodes are cleared for reuse.
func (g *EulerTourGraph) IterEulerToursOfInterleavedEdgeList(
	interleavedEdgeList []int64,
	mobiusDets []uint64,
	callback func(cycle []color.NodeOffset) error,
) error {
	ee := interleavedEdgeList
	for k := 0; k+1 < len(ee); k += 2 {
		g.AddEdge(color.NodeOffset(ee[k]), color.NodeOffset(ee[k+1]))
	}
	for k := 0; k+1 < len(mobiusDets); k += 2 {
		g.AddEdge(color.NodeOffset(mobiusDets[k]), color.NodeOffset(mobiusDets[k+1]))
	}
	for _, n := range ee {
		if err := g.burnComponentAt(color.NodeOffset(n), callback); err != nil {
			return err
		}
	}
	for _, n := range ee {
		g.nodes[n].NextNeighbor = 0
		g.nodes[n].Neighbors = g.nodes[n].Neighbors[:0]
	}
	for _, n := range mobiusDets {
		g.nodes[n].NextNeighbor = 0
		g.nodes[n].Neighbors = g.nodes[n].Neighbors[:0]
	}
	return nil
}

func (g EulerTourGraph) String() string {
	var sb strings.Builder
	sb.WriteString("EulerTourGraph{\n")
	fmt.Fprintf(&sb, "    .cycle_buf={%v}\n", g.cycleBuf)
	fmt.Fprintf(&sb, "    .nodes.size()=%d\n", len(g.nodes))
	for k := range g.nodes {
		if len(g.nodes[k].Neighbors) > 0 {
			fmt.Fprintf(&sb, "    .nodes[%d]=%v\n", k, g.nodes[k])
		}
	}
	sb.WriteString("}")
	return sb.String()
}
