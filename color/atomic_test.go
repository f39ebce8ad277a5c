package color_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qec-tools/mobiusdec/color"
)

// sixNodeColors tags detectors 0,3 red, 1,4 green, 2,5 blue (X basis on
// 0..2, Z basis on 3..5).
func sixNodeColors() []color.ColorBasis {
	return []color.ColorBasis{
		{Color: color.R, Basis: color.BasisX},
		{Color: color.G, Basis: color.BasisX},
		{Color: color.B, Basis: color.BasisX},
		{Color: color.R, Basis: color.BasisZ},
		{Color: color.G, Basis: color.BasisZ},
		{Color: color.B, Basis: color.BasisZ},
	}
}

func TestAtomicErrorKeyCanonicalOverPermutations(t *testing.T) {
	want := color.NewAtomicErrorKey(1, 5, 9)
	perms := [][3]color.NodeOffset{
		{1, 5, 9}, {1, 9, 5}, {5, 1, 9}, {5, 9, 1}, {9, 1, 5}, {9, 5, 1},
	}
	for _, p := range perms {
		require.Equal(t, want, color.NewAtomicErrorKey(p[0], p[1], p[2]))
	}
}

func TestAtomicErrorKeyFromDetsPads(t *testing.T) {
	require.Equal(
		t,
		color.NewAtomicErrorKey(7, color.Boundary, color.Boundary),
		color.AtomicErrorKeyFromDets([]color.NodeOffset{7}))
	require.Equal(
		t,
		color.NewAtomicErrorKey(3, 7, color.Boundary),
		color.AtomicErrorKeyFromDets([]color.NodeOffset{7, 3}))
}

func TestAtomicErrorKeyWeight(t *testing.T) {
	require.Equal(t, 1, color.NewAtomicErrorKey(4, color.Boundary, color.Boundary).Weight())
	require.Equal(t, 2, color.NewAtomicErrorKey(4, 5, color.Boundary).Weight())
	require.Equal(t, 3, color.NewAtomicErrorKey(4, 5, 6).Weight())
}

func TestAtomicErrorKeyNetCharge(t *testing.T) {
	colors := sixNodeColors()
	require.Equal(t, color.Neutral, color.NewAtomicErrorKey(0, 1, 2).NetCharge(colors))
	require.Equal(t, color.B, color.NewAtomicErrorKey(0, 1, color.Boundary).NetCharge(colors))
	require.Equal(t, color.R, color.NewAtomicErrorKey(0, color.Boundary, color.Boundary).NetCharge(colors))
	require.Equal(t, color.Neutral, color.NewAtomicErrorKey(0, 3, color.Boundary).NetCharge(colors))
}

func TestAtomicErrorKeyCheckInvariants(t *testing.T) {
	colors := sixNodeColors()
	require.NoError(t, color.NewAtomicErrorKey(0, 1, 2).CheckInvariants(colors))
	require.NoError(t, color.NewAtomicErrorKey(0, color.Boundary, color.Boundary).CheckInvariants(colors))
	require.Error(t, color.NewAtomicErrorKey(color.Boundary, color.Boundary, color.Boundary).CheckInvariants(colors))
	// A triplet with repeated color is charged, hence invalid.
	require.Error(t, color.NewAtomicErrorKey(0, 1, 4).CheckInvariants(colors))
	// Out-of-range detector index.
	require.Error(t, color.NewAtomicErrorKey(0, 99, color.Boundary).CheckInvariants(colors))
}

func collectEdges(k color.AtomicErrorKey, colors []color.ColorBasis) [][2]color.NodeOffset {
	var out [][2]color.NodeOffset
	k.IterMobiusEdges(colors, func(a, b color.NodeOffset) {
		out = append(out, [2]color.NodeOffset{a, b})
	})
	return out
}

func TestIterMobiusEdgesSinglet(t *testing.T) {
	colors := sixNodeColors()
	got := collectEdges(color.NewAtomicErrorKey(0, color.Boundary, color.Boundary), colors)
	require.Equal(t, [][2]color.NodeOffset{{0, 1}}, got)
}

func TestIterMobiusEdgesSameColorPair(t *testing.T) {
	colors := sixNodeColors()
	// {0,3} is an RR pair: straight doubled edges.
	got := collectEdges(color.NewAtomicErrorKey(0, 3, color.Boundary), colors)
	require.Equal(t, [][2]color.NodeOffset{{0, 6}, {1, 7}}, got)
}

func TestIterMobiusEdgesCrossColorPair(t *testing.T) {
	colors := sixNodeColors()
	// {0,1} is an RG pair: R^G = B, so the pairing is not flipped.
	got := collectEdges(color.NewAtomicErrorKey(0, 1, color.Boundary), colors)
	require.Equal(t, [][2]color.NodeOffset{{0, 2}, {1, 3}}, got)

	// {0,2} is an RB pair: R^B = G, so the second node's halves swap.
	got = collectEdges(color.NewAtomicErrorKey(0, 2, color.Boundary), colors)
	require.Equal(t, [][2]color.NodeOffset{{0, 5}, {1, 4}}, got)
}

func TestIterMobiusEdgesTriplet(t *testing.T) {
	colors := sixNodeColors()
	// {0,1,2} is an RGB triplet: one edge per two-color subgraph.
	got := collectEdges(color.NewAtomicErrorKey(0, 1, 2), colors)
	require.Equal(t, [][2]color.NodeOffset{
		{1, 3}, // NotBlue: R's offset-1 node with G's offset-1 node.
		{2, 4}, // NotRed:  G's offset-0 node with B's offset-0 node.
		{0, 5}, // NotGreen: R's offset-0 node with B's offset-1 node.
	}, got)
}

func TestIterMobiusEdgesEmpty(t *testing.T) {
	colors := sixNodeColors()
	got := collectEdges(
		color.NewAtomicErrorKey(color.Boundary, color.Boundary, color.Boundary), colors)
	require.Empty(t, got)
}
