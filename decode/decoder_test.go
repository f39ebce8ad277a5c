package decode_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/qec-tools/mobiusdec/color"
	"github.com/qec-tools/mobiusdec/decode"
	"github.com/qec-tools/mobiusdec/dem"
	"github.com/qec-tools/mobiusdec/graph"
)

func mustParse(t *testing.T, text string) *dem.Model {
	t.Helper()
	m, err := dem.Parse(text)
	require.NoError(t, err)
	return m
}

// d5ColorCodeXDem is a distance-5 color code patch restricted to the X
// basis, with nine detectors across the three colors.
const d5ColorCodeXDem = `
    error(0.1) D0 L0 L1
    error(0.1) D0 D2 L0
    error(0.1) D2 D3 L0
    error(0.1) D3 D7 L0
    error(0.1) D7 L0
    error(0.1) D0 D1
    error(0.1) D0 D1 D2 L1
    error(0.1) D1 D2 D4 L1
    error(0.1) D1 D4
    error(0.1) D4 D6
    error(0.1) D6
    error(0.1) D6 D8
    error(0.1) D4 D5 D8 L1
    error(0.1) D2 D4 D5
    error(0.1) D3 D5 D7
    error(0.1) D5 D7
    error(0.1) D5 D8 L1
    error(0.1) D2 D3 D5
    error(0.1) D4 D6 D8
    detector(0, 0, 0, 0) D0
    detector(0, 2, 0, 1) D2
    detector(0, 4, 0, 2) D5
    detector(1, 1, 0, 2) D1
    detector(1, 3, 0, 0) D4
    detector(1, 5, 0, 1) D8
    detector(2, 4, 0, 2) D6
    detector(-1, 3, 0, 0) D3
    detector(-1, 5, 0, 1) D7
`

// repCodeDem is a three-detection-event repetition chain with one
// observable per error.
const repCodeDem = `
    error(0.1) D0 L0
    error(0.1) D0 D1 L1
    error(0.1) D1 L2
    detector(0, 0, 0, 0) D0
    detector(0, 0, 0, 1) D1
`

func shotBytes(numDetectors int, fired ...int) []byte {
	buf := make([]byte, (numDetectors+7)/8)
	for _, d := range fired {
		buf[d>>3] |= 1 << (d & 7)
	}
	return buf
}

func TestDecodeRepCodeShots(t *testing.T) {
	d := mustParse(t, repCodeDem)
	decoder, err := decode.FromDem(d, decode.DefaultDecoderConfigOptions())
	require.NoError(t, err)

	cases := []struct {
		fired []int
		want  color.ObsMask
	}{
		{fired: nil, want: 0},
		{fired: []int{0}, want: 0b001},
		{fired: []int{1}, want: 0b100},
		{fired: []int{0, 1}, want: 0b010},
	}
	for _, tc := range cases {
		got, err := decoder.DecodeDetectionEvents(shotBytes(2, tc.fired...))
		require.NoError(t, err, "shot %v", tc.fired)
		require.Equal(t, tc.want, got, "shot %v", tc.fired)
	}
}

func TestFromDemD5ColorCodeNodeColors(t *testing.T) {
	d := mustParse(t, d5ColorCodeXDem)
	decoder, err := decode.FromDem(d, decode.DefaultDecoderConfigOptions())
	require.NoError(t, err)
	require.Equal(t, []color.ColorBasis{
		{Color: color.R, Basis: color.BasisX},
		{Color: color.B, Basis: color.BasisX},
		{Color: color.G, Basis: color.BasisX},
		{Color: color.R, Basis: color.BasisX},
		{Color: color.R, Basis: color.BasisX},
		{Color: color.B, Basis: color.BasisX},
		{Color: color.B, Basis: color.BasisX},
		{Color: color.G, Basis: color.BasisX},
		{Color: color.G, Basis: color.BasisX},
	}, decoder.NodeColors)
}

func TestFromDemD5ColorCodeRgbReps(t *testing.T) {
	d := mustParse(t, d5ColorCodeXDem)
	decoder, err := decode.FromDem(d, decode.DefaultDecoderConfigOptions())
	require.NoError(t, err)

	want := []color.RgbEdge{
		{RedNode: 0, GreenNode: 2, BlueNode: 1, ObsFlip: 0b10},
		{RedNode: 0, GreenNode: 2, BlueNode: 1, ObsFlip: 0b10},
		{RedNode: 0, GreenNode: 2, BlueNode: 1, ObsFlip: 0b10},
		{RedNode: 3, GreenNode: 2, BlueNode: 5, ObsFlip: 0b00},
		{RedNode: 4, GreenNode: 2, BlueNode: 1, ObsFlip: 0b10},
		{RedNode: 3, GreenNode: 2, BlueNode: 5, ObsFlip: 0b00},
		{RedNode: 4, GreenNode: 8, BlueNode: 6, ObsFlip: 0b00},
		{RedNode: 3, GreenNode: 7, BlueNode: 5, ObsFlip: 0b00},
		{RedNode: 4, GreenNode: 8, BlueNode: 5, ObsFlip: 0b10},
	}
	if diff := cmp.Diff(want, decoder.RgbReps); diff != "" {
		t.Fatalf("rgb reps mismatch (-want +got):\n%s", diff)
	}
}

func TestFromDemD5ColorCodeMobiusDem(t *testing.T) {
	d := mustParse(t, d5ColorCodeXDem)
	decoder, err := decode.FromDem(d, decode.DefaultDecoderConfigOptions())
	require.NoError(t, err)

	expected := mustParse(t, `
        error(0.01) D0 D1
        error(0.1) D0 D4 ^ D1 D5
        error(0.1) D4 D6 ^ D5 D7
        error(0.1) D6 D14 ^ D7 D15
        error(0.01) D14 D15
        error(0.1) D0 D3 ^ D1 D2
        error(0.1) D1 D5 ^ D2 D4 ^ D0 D3
        error(0.1) D5 D9 ^ D2 D4 ^ D3 D8
        error(0.1) D2 D9 ^ D3 D8
        error(0.1) D8 D13 ^ D9 D12
        error(0.01) D12 D13
        error(0.1) D12 D16 ^ D13 D17
        error(0.1) D9 D17 ^ D10 D16 ^ D8 D11
        error(0.1) D5 D9 ^ D4 D10 ^ D8 D11
        error(0.1) D7 D15 ^ D10 D14 ^ D6 D11
        error(0.1) D10 D14 ^ D11 D15
        error(0.1) D10 D16 ^ D11 D17
        error(0.1) D5 D7 ^ D4 D10 ^ D6 D11
        error(0.1) D9 D17 ^ D12 D16 ^ D8 D13
        detector D17
    `)
	require.True(t, decoder.MobiusDem.ApproxEquals(expected, 1e-5),
		"mobius model mismatch, got:\n%s", decoder.MobiusDem.String())
}

func TestFromDemMobiusDemWithCoordsAndRepeats(t *testing.T) {
	d := mustParse(t, `
        error(0.125) D0 D1 D2
        error(0.0625) D3 D4 D5
        error(0.0625) D0 D1 D2 D3 D4 D5
        error(0.25) D0 L1
        detector(0, 0, 0, 0) D0
        detector(0, 0, 0, 1) D1
        detector(0, 0, 0, 2) D2
        detector(0, 0, 0, 3) D3
        repeat 2 {
            detector(0, 0, 0, 4) D4
            shift_detectors(0, 0, 0, 1) 1
        }
    `)
	options := decode.DefaultDecoderConfigOptions()
	options.IncludeCoordsInMobiusDem = true
	decoder, err := decode.FromDem(d, options)
	require.NoError(t, err)

	expected := mustParse(t, `
        detector(0, 0, 0, 0, 2) D0
        detector(0, 0, 0, 0, 3) D1
        detector(0, 0, 0, 1, 1) D2
        detector(0, 0, 0, 1, 3) D3
        detector(0, 0, 0, 2, 1) D4
        detector(0, 0, 0, 2, 2) D5
        detector(0, 0, 0, 3, 2) D6
        detector(0, 0, 0, 3, 3) D7
        detector(0, 0, 0, 4, 1) D8
        detector(0, 0, 0, 4, 3) D9
        detector(0, 0, 0, 5, 1) D10
        detector(0, 0, 0, 5, 2) D11
        error(0.125) D1 D3 ^ D2 D4 ^ D0 D5
        error(0.0625) D7 D9 ^ D8 D10 ^ D6 D11
        error(0.0625) D1 D3 ^ D2 D4 ^ D0 D5 ^ D7 D9 ^ D8 D10 ^ D6 D11
        error(0.0625) D0 D1
    `)
	require.True(t, decoder.MobiusDem.ApproxEquals(expected, 1e-5),
		"mobius model mismatch, got:\n%s", decoder.MobiusDem.String())
}

func TestIgnoredDetectorsMatchAbsentDetectors(t *testing.T) {
	withIgnored := mustParse(t, `
        error(0.1) D0 D1 L0
        error(0.1) D20 D21 D22
        error(0.1) D0 D23
        detector(0, 0, 0, 0) D0
        detector(0, 0, 0, 1) D1
        detector(0, 0, 0, -1) D20
        detector(0, 0, 0, -1) D21
        detector(0, 0, 0, -1) D22
        detector(0, 0, 0, -1) D23
    `)
	decoder, err := decode.FromDem(withIgnored, decode.DefaultDecoderConfigOptions())
	require.NoError(t, err)

	// The same model without the ignored detectors (its mobius model is
	// padded to a smaller doubled detector count).
	without := mustParse(t, `
        error(0.1) D0 D1 L0
        error(0.1) D0
        detector(0, 0, 0, 0) D0
        detector(0, 0, 0, 1) D1
    `)
	plain, err := decode.FromDem(without, decode.DefaultDecoderConfigOptions())
	require.NoError(t, err)

	// Apart from the trailing padding declaration, the emitted mobius
	// errors are identical.
	require.Equal(t, len(plain.MobiusDem.Instructions), len(decoder.MobiusDem.Instructions))
	for i, instr := range plain.MobiusDem.Instructions {
		if instr.Type != dem.InstrError {
			continue
		}
		require.True(t,
			decoder.MobiusDem.Instructions[i].Type == dem.InstrError &&
				instr.Args[0] == decoder.MobiusDem.Instructions[i].Args[0],
			"instruction %d differs", i)
		require.Equal(t, instr.Targets, decoder.MobiusDem.Instructions[i].Targets)
	}

	// Shots over the ignored-detector model decode the same as the plain model.
	got, err := decoder.DecodeDetectionEvents(shotBytes(24, 0, 1))
	require.NoError(t, err)
	want, err := plain.DecodeDetectionEvents(shotBytes(2, 0, 1))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

// TestSingleErrorResilience fires every error of each model on its own and
// checks the decoder recovers exactly that error's observable flip.
func TestSingleErrorResilience(t *testing.T) {
	for _, text := range []string{repCodeDem, d5ColorCodeXDem} {
		d := mustParse(t, text)
		decoder, err := decode.FromDem(d, decode.DefaultDecoderConfigOptions())
		require.NoError(t, err)
		numDets := int(d.CountDetectors())

		var cases []dem.ErrorInstruction
		require.NoError(t, d.IterFlattenErrors(func(e dem.ErrorInstruction) error {
			cases = append(cases, e)
			return nil
		}))
		for _, e := range cases {
			var fired []int
			var want color.ObsMask
			for _, tgt := range e.Targets {
				switch tgt.Kind {
				case dem.TargetDetector:
					fired = append(fired, int(tgt.Val))
				case dem.TargetObservable:
					want ^= color.ObsMask(1) << tgt.Val
				}
			}
			got, err := decoder.DecodeDetectionEvents(shotBytes(numDets, fired...))
			require.NoError(t, err, "error %v", e.String())
			require.Equal(t, want, got, "error %v", e.String())
		}
	}
}

func TestCheckInvariantsAcceptsBuiltModels(t *testing.T) {
	for _, text := range []string{repCodeDem, d5ColorCodeXDem} {
		d := mustParse(t, text)
		decoder, err := decode.FromDem(d, decode.DefaultDecoderConfigOptions())
		require.NoError(t, err)
		require.NoError(t, decoder.CheckInvariants())
	}
}

func TestCheckInvariantsRejectsUnpairedTargets(t *testing.T) {
	d := mustParse(t, repCodeDem)
	decoder, err := decode.FromDem(d, decode.DefaultDecoderConfigOptions())
	require.NoError(t, err)
	decoder.MobiusDem.AppendError(0.1, []dem.Target{dem.DetTarget(0)})
	require.ErrorIs(t, decoder.CheckInvariants(), decode.ErrNotGraphlike)
}

// TestMobiusErrorsAreWellFormed re-checks the §4.3 emission shape on the
// d=5 model: length ≡ 2 (mod 3) with detector/detector/separator runs.
func TestMobiusErrorsAreWellFormed(t *testing.T) {
	d := mustParse(t, d5ColorCodeXDem)
	decoder, err := decode.FromDem(d, decode.DefaultDecoderConfigOptions())
	require.NoError(t, err)
	for _, instr := range decoder.MobiusDem.Instructions {
		if instr.Type != dem.InstrError {
			continue
		}
		require.Equal(t, 2, len(instr.Targets)%3)
		for k, tgt := range instr.Targets {
			if k%3 == 2 {
				require.Equal(t, dem.TargetSeparator, tgt.Kind)
			} else {
				require.Equal(t, dem.TargetDetector, tgt.Kind)
			}
		}
	}
}

func TestDecoderRejectsAnnotationlessDetectors(t *testing.T) {
	d := mustParse(t, `
        error(0.1) D0
        detector(0, 0) D0
    `)
	_, err := decode.FromDem(d, decode.DefaultDecoderConfigOptions())
	require.ErrorIs(t, err, graph.ErrColorAnnotation)
}
