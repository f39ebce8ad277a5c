package decode

import (
	"errors"

	"github.com/qec-tools/mobiusdec/dem"
)

// Sentinel errors for per-shot decoding.
var (
	// ErrLiftFailure indicates no start charge closed an Euler cycle.
	ErrLiftFailure = errors.New("decode: failed to lift a matched cycle")
	// ErrOddEvents indicates an odd number of detection events reached the
	// matcher.
	ErrOddEvents = errors.New("decode: odd number of detection events")
	// ErrNoMatching indicates the events cannot all be paired up within the
	// mobius graph.
	ErrNoMatching = errors.New("decode: detection events have no perfect matching")
	// ErrUnconfigured indicates a matcher used before ConfiguredForMobiusDem.
	ErrUnconfigured = errors.New("decode: matcher not configured")
	// ErrNotGraphlike indicates a mobius model error whose components are
	// not all detector pairs.
	ErrNotGraphlike = errors.New("decode: mobius model error is not edge-like")
)

// Matcher is the minimum-weight perfect-matching capability the decoder
// plugs into.
type Matcher interface {
	// ConfiguredForMobiusDem returns a new matcher bound to the given
	// mobius model.
	ConfiguredForMobiusDem(d *dem.Model) (Matcher, error)

	// MatchEdges pairs up the sparse detection events, appending an
	// interleaved endpoint list to out: (out[2k], out[2k+1]) is an edge of
	// the mobius graph. No endpoint is ever a boundary sentinel. If
	// outWeight is non-nil it receives the unscaled total weight.
	MatchEdges(events []uint64, out *[]int64, outWeight *float64) error
}

// DecoderConfigOptions configures FromDem. The zero value is NOT the
// default configuration; use DefaultDecoderConfigOptions.
type DecoderConfigOptions struct {
	// DropMobiusErrorsInvolvingRemnantErrors skips model errors whose
	// decomposition required introducing a remnant atomic error. Defaults
	// to true; that gives the best accuracy in most cases.
	DropMobiusErrorsInvolvingRemnantErrors bool `yaml:"drop_mobius_errors_involving_remnant_errors"`

	// IgnoreDecompositionFailures silently drops undecomposable errors
	// instead of failing configuration.
	IgnoreDecompositionFailures bool `yaml:"ignore_decomposition_failures"`

	// IncludeCoordsInMobiusDem copies coordinate data into the mobius
	// model's detector declarations, for debug output.
	IncludeCoordsInMobiusDem bool `yaml:"include_coords_in_mobius_dem"`

	// Matcher overrides the default minimum-weight perfect matcher.
	Matcher Matcher `yaml:"-"`
}

// DefaultDecoderConfigOptions returns the default configuration:
// remnant-involving errors dropped, decomposition failures fatal, no
// coordinates in the mobius model, built-in matcher.
func DefaultDecoderConfigOptions() DecoderConfigOptions {
	return DecoderConfigOptions{
		DropMobiusErrorsInvolvingRemnantErrors: true,
	}
}

// matcherFor resolves the configured or default matcher for a mobius model.
func (o DecoderConfigOptions) matcherFor(mobiusDem *dem.Model) (Matcher, error) {
	m := o.Matcher
	if m == nil {
		m = NewMwpmMatcher()
	}
	return m.ConfiguredForMobiusDem(mobiusDem)
}
