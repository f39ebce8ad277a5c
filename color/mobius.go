package color

import "fmt"

// MobiusNodeToDetector recovers the (detector, color, subgraph) triple a
// doubled mobius node corresponds to.
func MobiusNodeToDetector(mobiusNode uint64, colors []ColorBasis) (NodeOffset, Charge, SubGraphCoord) {
	n := NodeOffset(mobiusNode >> 1)
	g := uint8(mobiusNode&1) + 1
	c := colors[n].Color
	if g >= uint8(c) {
		g++
	}
	return n, c, SubGraphCoord(g)
}

// DetectorToMobiusNode maps a detector into one of its two doubled nodes.
// The subgraph must be one of the two that include the detector's color;
// otherwise ErrBadSubgraph is returned.
func DetectorToMobiusNode(node NodeOffset, subgraph SubGraphCoord, colors []ColorBasis) (uint64, error) {
	c := colors[node].Color
	var offset uint64
	switch {
	case c == R && subgraph == NotGreen:
		offset = SubgraphOffsetRedNotGreen
	case c == R && subgraph == NotBlue:
		offset = SubgraphOffsetRedNotBlue
	case c == G && subgraph == NotRed:
		offset = SubgraphOffsetGreenNotRed
	case c == G && subgraph == NotBlue:
		offset = SubgraphOffsetGreenNotBlue
	case c == B && subgraph == NotRed:
		offset = SubgraphOffsetBlueNotRed
	case c == B && subgraph == NotGreen:
		offset = SubgraphOffsetBlueNotGreen
	default:
		return 0, fmt.Errorf("%w: detector %d has color %v, subgraph %v", ErrBadSubgraph, node, c, subgraph)
	}
	return uint64(node)*2 + offset, nil
}
