package decode_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qec-tools/mobiusdec/decode"
)

func TestMwpmMatcherPairsAdjacentEvents(t *testing.T) {
	// A four-node path graph 0-1-2-3 with uniform edge probability.
	d := mustParse(t, `
        error(0.1) D0 D1
        error(0.1) D1 D2
        error(0.1) D2 D3
    `)
	base := decode.NewMwpmMatcher()
	m, err := base.ConfiguredForMobiusDem(d)
	require.NoError(t, err)

	var out []int64
	var weight float64
	require.NoError(t, m.MatchEdges([]uint64{0, 1, 2, 3}, &out, &weight))
	// The min-weight pairing is (0,1) and (2,3): two single edges.
	require.Len(t, out, 4)
	edges := map[[2]int64]bool{}
	for k := 0; k < len(out); k += 2 {
		a, b := out[k], out[k+1]
		if a > b {
			a, b = b, a
		}
		edges[[2]int64{a, b}] = true
	}
	require.True(t, edges[[2]int64{0, 1}])
	require.True(t, edges[[2]int64{2, 3}])
	require.Greater(t, weight, 0.0)
}

func TestMwpmMatcherExpandsPaths(t *testing.T) {
	d := mustParse(t, `
        error(0.1) D0 D1
        error(0.1) D1 D2
    `)
	base := decode.NewMwpmMatcher()
	m, err := base.ConfiguredForMobiusDem(d)
	require.NoError(t, err)

	var out []int64
	require.NoError(t, m.MatchEdges([]uint64{0, 2}, &out, nil))
	// Matching 0 with 2 must traverse the middle node: two real edges,
	// never a shortcut pair (0,2).
	require.Len(t, out, 4)
	for k := 0; k < len(out); k += 2 {
		a, b := out[k], out[k+1]
		diff := a - b
		if diff < 0 {
			diff = -diff
		}
		require.Equal(t, int64(1), diff)
	}
}

func TestMwpmMatcherCombinesParallelEdges(t *testing.T) {
	// Two parallel mechanisms across the same pair combine rather than
	// double-count; matching still works.
	d := mustParse(t, `
        error(0.01) D0 D1
        error(0.02) D0 D1
    `)
	base := decode.NewMwpmMatcher()
	m, err := base.ConfiguredForMobiusDem(d)
	require.NoError(t, err)
	var out []int64
	require.NoError(t, m.MatchEdges([]uint64{0, 1}, &out, nil))
	require.Equal(t, []int64{0, 1}, out)
}

func TestMwpmMatcherErrors(t *testing.T) {
	d := mustParse(t, "error(0.1) D0 D1")
	base := decode.NewMwpmMatcher()
	m, err := base.ConfiguredForMobiusDem(d)
	require.NoError(t, err)

	var out []int64
	require.ErrorIs(t, m.MatchEdges([]uint64{0}, &out, nil), decode.ErrOddEvents)

	var unconfigured decode.Matcher = decode.NewMwpmMatcher()
	require.ErrorIs(t, unconfigured.MatchEdges([]uint64{0, 1}, &out, nil), decode.ErrUnconfigured)

	// Disconnected events cannot be matched.
	d2 := mustParse(t, `
        error(0.1) D0 D1
        error(0.1) D2 D3
        error(0.1) D4 D5
    `)
	m2, err := base.ConfiguredForMobiusDem(d2)
	require.NoError(t, err)
	out = out[:0]
	require.ErrorIs(t, m2.MatchEdges([]uint64{0, 2}, &out, nil), decode.ErrNoMatching)
}

func TestMwpmMatcherRejectsNonEdgeModels(t *testing.T) {
	d := mustParse(t, "error(0.1) D0 D1 D2")
	base := decode.NewMwpmMatcher()
	_, err := base.ConfiguredForMobiusDem(d)
	require.ErrorIs(t, err, decode.ErrNotGraphlike)
}
