package color

import (
	"fmt"
	"strings"
)

// RgbEdge is an error with at most one symptom of each color. Holes are
// allowed: Boundary means "no node of that color". ChargeFlip is the XOR of
// the colors actually present, Neutral when the triangle is full.
type RgbEdge struct {
	RedNode    NodeOffset
	GreenNode  NodeOffset
	BlueNode   NodeOffset
	ObsFlip    ObsMask
	ChargeFlip Charge
}

// EmptyRgbEdge is the all-holes edge used as the initial representative.
func EmptyRgbEdge() RgbEdge {
	return RgbEdge{
		RedNode:    Boundary,
		GreenNode:  Boundary,
		BlueNode:   Boundary,
		ObsFlip:    0,
		ChargeFlip: Neutral,
	}
}

// ColorNode returns the node slot for charge c (Boundary for Neutral).
func (e *RgbEdge) ColorNode(c Charge) NodeOffset {
	switch c {
	case R:
		return e.RedNode
	case G:
		return e.GreenNode
	case B:
		return e.BlueNode
	default:
		return Boundary
	}
}

// SetColorNode assigns the node slot for the non-neutral charge c.
func (e *RgbEdge) SetColorNode(c Charge, n NodeOffset) {
	switch c {
	case R:
		e.RedNode = n
	case G:
		e.GreenNode = n
	case B:
		e.BlueNode = n
	}
}

// Weight counts the filled slots of the triangle.
func (e *RgbEdge) Weight() int {
	w := 0
	if e.RedNode != Boundary {
		w++
	}
	if e.GreenNode != Boundary {
		w++
	}
	if e.BlueNode != Boundary {
		w++
	}
	return w
}

func (e RgbEdge) String() string {
	var sb strings.Builder
	sb.WriteString("RgbEdge{")
	writeNode := func(name string, n NodeOffset) {
		if n == Boundary {
			fmt.Fprintf(&sb, ".%s=BOUNDARY_NODE, ", name)
		} else {
			fmt.Fprintf(&sb, ".%s=%d, ", name, n)
		}
	}
	writeNode("red_node", e.RedNode)
	writeNode("green_node", e.GreenNode)
	writeNode("blue_node", e.BlueNode)
	fmt.Fprintf(&sb, ".obs_flip=%d, .charge_flip=%v}", uint64(e.ObsFlip), e.ChargeFlip)
	return sb.String()
}
