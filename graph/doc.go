// Package graph builds the configure-time structures of the mobius decoder
// from a detector error model:
//
//  1. CollectNodesFromDem — resolve every detector's (color, basis) tag
//     from its 4th coordinate, honoring shift_detectors and repeat blocks,
//     optionally emitting doubled detector declarations into the mobius
//     model.
//  2. CollectAtomicErrors — classify each error whose symptoms already form
//     a valid atomic shape (singlet, pair, neutral triplet) and record its
//     observable mask.
//  3. CollectCompositeErrorsAndRemnantsIntoMobiusDem — rewrite every error
//     as a sum of atomic errors via a best-of split search, record remnant
//     atoms, and emit the edge-only mobius error instructions.
//  4. ChargeGraphFromAtomicErrors — adjacency of graph-like charge moves,
//     including synthetic edges from cancelling triplet pairs.
//  5. ChooseRgbRepsFromAtomicErrors — a nearby RGB triangle per detector,
//     used to park charge during lifting.
//  6. DragGraphFromChargeGraphPathsForSubEdgesOfAtomicErrors — the table
//     "drag charge c1 from n1 to n2 ending with charge c2 costs obs mask m".
//  7. EulerTourGraph — Hierholzer decomposition of the matcher's edge
//     multiset plus per-event bridge edges into disjoint Euler cycles.
//
// All structures are built once and then only read; the Euler tour graph is
// the exception, reusing its buffers across shots.
//
// Complexity: construction is dominated by the composite decomposition
// (bounded split search per error, at most C(6,3) candidates per split
// size) and the drag-graph shortest paths (a BFS from the source node only,
// capped at two hops, with a tag counter instead of per-query buffer
// clears).
//
// Errors (sentinel):
//
//	– ErrColorAnnotation      detector missing/invalid 4th coordinate.
//	– ErrObservableTooLarge   observable index does not fit the mask.
//	– ErrDetectorTooLarge     detector index exceeds the node width.
//	– ErrDecompositionFailure error not expressible as atomic errors.
//	– ErrMalformedMatching    matcher output does not Euler-decompose.
package graph
