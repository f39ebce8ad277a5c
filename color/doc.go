// Package color defines the small algebraic values the decoder is built
// from: color charges, measurement bases, per-detector annotations, atomic
// error keys, and RGB edges.
//
// The central object is Charge, an element of the Klein group Z₂×Z₂ under
// XOR with the three colors as its non-trivial elements:
//
//	R ⊕ G = B,  R ⊕ B = G,  G ⊕ B = R,  c ⊕ c = Neutral
//
// Encoding Neutral=0, R=1, G=2, B=3 makes the group operation a plain
// bitwise XOR on the underlying byte, so charge bookkeeping costs nothing.
//
// An AtomicErrorKey is a canonical (sorted, Boundary-padded) triple of
// detector indices naming one of the four building-block error shapes:
//
//	Neutral triplet: three symptoms, one of each color (bulk error)
//	Neutral pair:    two symptoms of the same color (measurement error)
//	Charged pair:    two symptoms of different colors (boundary error)
//	Charged singlet: one symptom (corner error)
//
// The package also fixes the mapping between detectors and the doubled
// "mobius" node set. Every detector of color c participates in exactly the
// two two-color subgraphs that include c; its two mobius nodes are 2d+0 and
// 2d+1, assigned to subgraphs in a fixed order:
//
//	color | offset 0 | offset 1
//	  R   | NotGreen | NotBlue
//	  G   | NotRed   | NotBlue
//	  B   | NotRed   | NotGreen
//
// Errors (sentinel):
//
//	– ErrBadSubgraph if a detector is mapped into the subgraph that
//	  excludes its own color.
//
// All types in this package are plain values; none carry references or
// require synchronization.
package color
