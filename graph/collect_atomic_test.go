package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qec-tools/mobiusdec/color"
	"github.com/qec-tools/mobiusdec/graph"
)

func TestCollectAtomicErrorsRepCode(t *testing.T) {
	d := mustParse(t, `
        error(0.1) D0 L0
        error(0.1) D0 D1 L1
        error(0.1) D1 L2
        detector(0, 0, 0, 0) D0
        detector(0, 0, 0, 1) D1
    `)
	colors, err := graph.CollectNodesFromDem(d, nil)
	require.NoError(t, err)
	atomic, err := graph.CollectAtomicErrors(d, colors)
	require.NoError(t, err)
	require.Equal(t, 3, atomic.Len())

	m, ok := atomic.Get(color.NewAtomicErrorKey(0, color.Boundary, color.Boundary))
	require.True(t, ok)
	require.Equal(t, color.ObsMask(0b001), m)

	m, ok = atomic.Get(color.NewAtomicErrorKey(0, 1, color.Boundary))
	require.True(t, ok)
	require.Equal(t, color.ObsMask(0b010), m)

	m, ok = atomic.Get(color.NewAtomicErrorKey(1, color.Boundary, color.Boundary))
	require.True(t, ok)
	require.Equal(t, color.ObsMask(0b100), m)
}

func TestCollectAtomicErrorsSkipsChargedTriplets(t *testing.T) {
	d := mustParse(t, `
        error(0.1) D0 D1 D2
        error(0.1) D0 D1 D3
        detector(0, 0, 0, 0) D0
        detector(0, 0, 0, 1) D1
        detector(0, 0, 0, 2) D2
        detector(0, 0, 0, 1) D3
    `)
	colors, err := graph.CollectNodesFromDem(d, nil)
	require.NoError(t, err)
	atomic, err := graph.CollectAtomicErrors(d, colors)
	require.NoError(t, err)
	// {0,1,2} has neutral charge; {0,1,3} is R^G^G = R, not atomic.
	require.Equal(t, 1, atomic.Len())
	require.True(t, atomic.Contains(color.NewAtomicErrorKey(0, 1, 2)))
}

func TestCollectAtomicErrorsDropsIgnoredDetectors(t *testing.T) {
	d := mustParse(t, `
        error(0.1) D0 D2 L0
        detector(0, 0, 0, 0) D0
        detector(0, 0, 0, 1) D1
        detector(0, 0, 0, -1) D2
    `)
	colors, err := graph.CollectNodesFromDem(d, nil)
	require.NoError(t, err)
	atomic, err := graph.CollectAtomicErrors(d, colors)
	require.NoError(t, err)
	// D2 vanishes, leaving the singlet {D0}.
	m, ok := atomic.Get(color.NewAtomicErrorKey(0, color.Boundary, color.Boundary))
	require.True(t, ok)
	require.Equal(t, color.ObsMask(1), m)
}

func TestCollectAtomicErrorsCancelsDuplicateTargets(t *testing.T) {
	d := mustParse(t, `
        error(0.1) D0 D1 D1 L0
        detector(0, 0, 0, 0) D0
        detector(0, 0, 0, 1) D1
    `)
	colors, err := graph.CollectNodesFromDem(d, nil)
	require.NoError(t, err)
	atomic, err := graph.CollectAtomicErrors(d, colors)
	require.NoError(t, err)
	require.True(t, atomic.Contains(color.NewAtomicErrorKey(0, color.Boundary, color.Boundary)))
	require.Equal(t, 1, atomic.Len())
}

func TestCollectAtomicErrorsRejectsHugeObservable(t *testing.T) {
	d := mustParse(t, `
        error(0.1) D0 L64
        detector(0, 0, 0, 0) D0
    `)
	colors, err := graph.CollectNodesFromDem(d, nil)
	require.NoError(t, err)
	_, err = graph.CollectAtomicErrors(d, colors)
	require.ErrorIs(t, err, graph.ErrObservableTooLarge)
}

func TestAtomicErrorMapIteratesSorted(t *testing.T) {
	m := graph.NewAtomicErrorMap()
	m.Put(color.NewAtomicErrorKey(9, color.Boundary, color.Boundary), 1)
	m.Put(color.NewAtomicErrorKey(1, 2, color.Boundary), 2)
	m.Put(color.NewAtomicErrorKey(1, color.Boundary, color.Boundary), 3)
	var keys []color.AtomicErrorKey
	m.Each(func(k color.AtomicErrorKey, _ color.ObsMask) {
		keys = append(keys, k)
	})
	require.Equal(t, []color.AtomicErrorKey{
		color.NewAtomicErrorKey(1, 2, color.Boundary),
		color.NewAtomicErrorKey(1, color.Boundary, color.Boundary),
		color.NewAtomicErrorKey(9, color.Boundary, color.Boundary),
	}, keys)
}
