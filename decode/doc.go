// Package decode ties the configure-time structures into a working decoder.
//
// FromDem runs the full configuration pipeline — node colors, atomic
// errors, composite decomposition into the mobius model, charge graph, RGB
// representatives, drag graph — and binds a matcher to the mobius model.
// The result is immutable apart from small per-shot scratch buffers, so one
// decoder can decode any number of shots serially. To decode in parallel,
// build a separate decoder from the same model for each goroutine; a copy
// of a Decoder value shares its scratch buffers.
//
// DecodeDetectionEvents performs one shot:
//
//  1. Expand each set detection bit d into the doubled events 2d and 2d+1.
//  2. Hand the sparse event list to the matcher, receiving an interleaved
//     edge list over mobius nodes.
//  3. Decompose the matched edges plus one bridge edge per event into
//     disjoint Euler cycles.
//  4. Discharge each cycle: walk it tracking four charge states (Neutral,
//     R, G, B) and their accumulated observable masks, picking up events at
//     bridge self-revisits and moving between nodes through drag-graph
//     transitions. A cycle closes if some start charge is reachable at the
//     end; its accumulated mask is the cycle's contribution.
//  5. XOR the contributions: that is the predicted observable flip mask.
//
// The default matcher (see mwpm.go) works over the mobius model's edge
// graph: it finds an exact minimum-weight perfect matching for up to 16
// detection events and pairs larger event sets greedily by nearest
// neighbour, so those matchings are not guaranteed minimum-weight. Any
// implementation of Matcher may be substituted through
// DecoderConfigOptions.
//
// Errors (sentinel):
//
//	– ErrLiftFailure if no start charge closes an Euler cycle. The error
//	  text dumps the annotated cycle and the shot's detection events.
//	– ErrOddEvents / ErrNoMatching from the default matcher.
package decode
