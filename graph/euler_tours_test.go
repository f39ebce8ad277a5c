package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qec-tools/mobiusdec/color"
	"github.com/qec-tools/mobiusdec/graph"
)

func collectTours(
	t *testing.T,
	numNodes int,
	edges []int64,
	bridges []uint64,
) ([][]color.NodeOffset, error) {
	t.Helper()
	g := graph.NewEulerTourGraph(numNodes)
	var tours [][]color.NodeOffset
	err := g.IterEulerToursOfInterleavedEdgeList(edges, bridges, func(cycle []color.NodeOffset) error {
		tours = append(tours, append([]color.NodeOffset(nil), cycle...))
		return nil
	})
	return tours, err
}

func TestEulerToursSimpleTriangle(t *testing.T) {
	tours, err := collectTours(t, 3, []int64{0, 1, 1, 2, 2, 0}, nil)
	require.NoError(t, err)
	require.Len(t, tours, 1)
	require.Equal(t, []color.NodeOffset{0, 1, 2}, tours[0])
}

func TestEulerToursTwoComponents(t *testing.T) {
	tours, err := collectTours(t, 8, []int64{0, 1, 4, 5}, []uint64{0, 1, 4, 5})
	require.NoError(t, err)
	require.Len(t, tours, 2)
	require.Equal(t, []color.NodeOffset{0, 1}, tours[0])
	require.Equal(t, []color.NodeOffset{4, 5}, tours[1])
}

func TestEulerToursSplicesSubCycles(t *testing.T) {
	// A figure-eight: two triangles joined at node 2. The walk must rotate
	// and splice to cover both lobes in one tour.
	tours, err := collectTours(t, 5,
		[]int64{0, 1, 1, 2, 2, 0, 2, 3, 3, 4, 4, 2}, nil)
	require.NoError(t, err)
	require.Len(t, tours, 1)
	require.Len(t, tours[0], 6)

	// Every edge must appear exactly once along the closed walk.
	seen := map[[2]color.NodeOffset]int{}
	cycle := tours[0]
	for k := range cycle {
		a := cycle[k]
		b := cycle[(k+1)%len(cycle)]
		color.InplaceSort2(&a, &b)
		seen[[2]color.NodeOffset{a, b}]++
	}
	require.Equal(t, map[[2]color.NodeOffset]int{
		{0, 1}: 1, {1, 2}: 1, {0, 2}: 1, {2, 3}: 1, {3, 4}: 1, {2, 4}: 1,
	}, seen)
}

func TestEulerToursRejectsOddDegree(t *testing.T) {
	_, err := collectTours(t, 3, []int64{0, 1}, nil)
	require.ErrorIs(t, err, graph.ErrMalformedMatching)
}

func TestEulerToursReusableAcrossRuns(t *testing.T) {
	g := graph.NewEulerTourGraph(4)
	for round := 0; round < 3; round++ {
		var tours int
		err := g.IterEulerToursOfInterleavedEdgeList(
			[]int64{0, 1, 1, 0}, nil,
			func(cycle []color.NodeOffset) error {
				tours++
				require.Equal(t, []color.NodeOffset{0, 1}, cycle)
				return nil
			})
		require.NoError(t, err)
		require.Equal(t, 1, tours)
	}
}
