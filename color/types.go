package color

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for mobius node mapping.
var (
	// ErrBadSubgraph indicates a detector was mapped into the two-color
	// subgraph that excludes its own color.
	ErrBadSubgraph = errors.New("color: detector does not participate in that subgraph")
)

// NodeOffset indexes a detector. Boundary is a reserved max-sentinel and is
// never a real index.
type NodeOffset uint32

// Boundary is the sentinel "no detector" value. It sorts after every real
// index, which keeps Boundary-padded triples canonical under Sort3.
const Boundary NodeOffset = math.MaxUint32

// ObsMask is a bitmask over logical observables; bit k is observable k.
// XOR is the group operation.
type ObsMask uint64

// MaxObservables is the number of observable bits an ObsMask can hold.
const MaxObservables = 64

// Charge is a color charge: an element of Z₂×Z₂ under XOR.
// The encoding makes `c1 ^ c2` the group operation directly.
type Charge uint8

const (
	Neutral Charge = 0
	R       Charge = 1
	G       Charge = 2
	B       Charge = 3
)

// NextNonNeutral cycles R→G→B→R. The argument must be non-neutral.
func NextNonNeutral(c Charge) Charge {
	return c%3 + 1
}

func (c Charge) String() string {
	switch c {
	case Neutral:
		return "NEUTRAL"
	case R:
		return "R"
	case G:
		return "G"
	case B:
		return "B"
	default:
		return fmt.Sprintf("Charge(%d)", uint8(c))
	}
}

// Basis distinguishes X-type from Z-type detectors. BasisUnknown only
// appears while loading, on detectors that are ignored or not yet declared.
type Basis uint8

const (
	BasisUnknown Basis = 0
	BasisX       Basis = 1
	BasisZ       Basis = 2
)

func (b Basis) String() string {
	switch b {
	case BasisUnknown:
		return "UNKNOWN_BASIS"
	case BasisX:
		return "X"
	case BasisZ:
		return "Z"
	default:
		return fmt.Sprintf("Basis(%d)", uint8(b))
	}
}

// SubGraphCoord names one of the three two-color subgraphs by the color it
// excludes.
type SubGraphCoord uint8

const (
	SubGraphUnknown SubGraphCoord = 0
	NotRed          SubGraphCoord = 1
	NotGreen        SubGraphCoord = 2
	NotBlue         SubGraphCoord = 3
)

func (g SubGraphCoord) String() string {
	switch g {
	case SubGraphUnknown:
		return "UNKNOWN_SUBGRAPH_COORD"
	case NotRed:
		return "NotRed"
	case NotGreen:
		return "NotGreen"
	case NotBlue:
		return "NotBlue"
	default:
		return fmt.Sprintf("SubGraphCoord(%d)", uint8(g))
	}
}

// Doubling offsets: the mobius node of detector d in subgraph g is 2d+k
// where k is fixed by (color(d), g).
const (
	SubgraphOffsetRedNotGreen  = 0
	SubgraphOffsetRedNotBlue   = 1
	SubgraphOffsetGreenNotRed  = 0
	SubgraphOffsetGreenNotBlue = 1
	SubgraphOffsetBlueNotRed   = 0
	SubgraphOffsetBlueNotGreen = 1
)

// ColorBasis is the per-detector annotation resolved from the detector's
// 4th coordinate. Ignored detectors participate in no decoding; errors
// touching them are reduced as if the detector did not exist.
type ColorBasis struct {
	Color   Charge
	Basis   Basis
	Ignored bool
}

func (cb ColorBasis) String() string {
	if cb.Ignored {
		return fmt.Sprintf("ColorBasis{.color=%v, .basis=%v, .ignored=true}", cb.Color, cb.Basis)
	}
	return fmt.Sprintf("ColorBasis{.color=%v, .basis=%v}", cb.Color, cb.Basis)
}
