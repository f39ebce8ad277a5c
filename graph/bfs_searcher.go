package graph

import "github.com/qec-tools/mobiusdec/color"

// bfsSearcher finds the observable flip of a short path between two nodes
// of the charge graph. A monotonically increasing tag marks visited nodes,
// so the visited buffer never needs clearing between queries: junk left by
// a previous search carries a stale tag and is ignored. The tag is 64 bits
// wide; wraparound is unreachable within any realistic run.
type bfsSearcher struct {
	nextSeenTag   uint64
	nodeSeenTags  []uint64
	curCostStack  []bfsEntry
	nextCostStack []bfsEntry
}

type bfsEntry struct {
	node    color.NodeOffset
	obsFlip color.ObsMask
}

func newBfsSearcher(numNodes int) *bfsSearcher {
	return &bfsSearcher{
		nextSeenTag:  1,
		nodeSeenTags: make([]uint64, numNodes),
	}
}

// findShortestPathObsFlip searches for a path of at most maxCost hops from
// src to dst within the charge graph, returning the XOR of the masks along
// the path. Boundary neighbors are skipped: the search stays in the bulk.
func (s *bfsSearcher) findShortestPathObsFlip(
	g *ChargeGraph,
	src, dst color.NodeOffset,
	maxCost int,
) (color.ObsMask, bool) {
	// Trivial case: same node.
	if src == dst {
		return 0, true
	}

	// Trivial case: neighbor.
	if flip, ok := g.Nodes[src].Neighbors[dst]; ok {
		return flip, true
	}

	tag := s.nextSeenTag
	s.nextSeenTag++

	s.curCostStack = s.curCostStack[:0]
	s.nextCostStack = s.nextCostStack[:0]
	s.curCostStack = append(s.curCostStack, bfsEntry{node: src})
	curCost := 0
	for {
		if len(s.curCostStack) == 0 {
			s.curCostStack, s.nextCostStack = s.nextCostStack, s.curCostStack
			s.nextCostStack = s.nextCostStack[:0]
			curCost++
			if len(s.curCostStack) == 0 || curCost >= maxCost {
				return 0, false
			}
		}
		entry := s.curCostStack[len(s.curCostStack)-1]
		s.curCostStack = s.curCostStack[:len(s.curCostStack)-1]

		for _, neighbor := range g.sortedNeighbors[entry.node] {
			newPathFlip := entry.obsFlip ^ g.Nodes[entry.node].Neighbors[neighbor]
			if neighbor == dst {
				return newPathFlip, true
			}
			if neighbor == color.Boundary {
				// We're only searching in the bulk.
				continue
			}
			if s.nodeSeenTags[neighbor] == tag {
				// Already been here.
				continue
			}
			s.nodeSeenTags[neighbor] = tag
			s.nextCostStack = append(s.nextCostStack, bfsEntry{node: neighbor, obsFlip: newPathFlip})
		}
	}
}
