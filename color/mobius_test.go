package color_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qec-tools/mobiusdec/color"
)

// subgraphsOf lists the two subgraphs a color participates in, in doubled
// node order.
func subgraphsOf(c color.Charge) [2]color.SubGraphCoord {
	switch c {
	case color.R:
		return [2]color.SubGraphCoord{color.NotGreen, color.NotBlue}
	case color.G:
		return [2]color.SubGraphCoord{color.NotRed, color.NotBlue}
	default:
		return [2]color.SubGraphCoord{color.NotRed, color.NotGreen}
	}
}

func TestMobiusNodeRoundTrip(t *testing.T) {
	colors := sixNodeColors()
	for n := color.NodeOffset(0); n < 6; n++ {
		for offset, g := range subgraphsOf(colors[n].Color) {
			mobius, err := color.DetectorToMobiusNode(n, g, colors)
			require.NoError(t, err)
			require.Equal(t, uint64(n)*2+uint64(offset), mobius)

			backN, backC, backG := color.MobiusNodeToDetector(mobius, colors)
			require.Equal(t, n, backN)
			require.Equal(t, colors[n].Color, backC)
			require.Equal(t, g, backG)
		}
	}
}

func TestDetectorToMobiusNodeRejectsOwnColorSubgraph(t *testing.T) {
	colors := sixNodeColors()
	// Detector 0 is red; NotRed excludes it.
	_, err := color.DetectorToMobiusNode(0, color.NotRed, colors)
	require.ErrorIs(t, err, color.ErrBadSubgraph)
}

func TestRgbEdgeColorNodeAndWeight(t *testing.T) {
	e := color.EmptyRgbEdge()
	require.Equal(t, 0, e.Weight())
	e.SetColorNode(color.R, 4)
	e.SetColorNode(color.B, 9)
	require.Equal(t, 2, e.Weight())
	require.Equal(t, color.NodeOffset(4), e.ColorNode(color.R))
	require.Equal(t, color.Boundary, e.ColorNode(color.G))
	require.Equal(t, color.NodeOffset(9), e.ColorNode(color.B))
	require.Equal(t, color.Boundary, e.ColorNode(color.Neutral))
}
