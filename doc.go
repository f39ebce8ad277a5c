// Package mobiusdec decodes color-code quantum error-correction circuits
// by reducing the three-color decoding problem to minimum-weight perfect
// matching — the mobius / matching-lift technique.
//
// 🧩 What is mobiusdec?
//
//	A pure-Go decoder that consumes a detector error model (DEM) whose
//	detectors carry color/basis annotations and, for every shot of
//	syndrome bits, predicts which logical observables flipped:
//		• color/   — charge algebra, atomic error keys, mobius node mapping
//		• dem/     — detector error model: grammar, flattening, rendering
//		• graph/   — node colors, atomic & composite error collection,
//		  charge graph, RGB representatives, drag graph, Euler tours
//		• decode/  — the decoder orchestrator, discharge lift, and the
//		  built-in matcher (exact minimum-weight up to 16 events, greedy
//		  beyond)
//		• shotio/  — 01/b8 shot record formats
//		• cmd/mobiusdec — predict, benchmark, describe_decoder
//
// The decode pipeline, per shot:
//
//	detection bits → doubled mobius events → matcher → interleaved edges
//	→ Euler tours → per-tour discharge lift → XOR of contributions
//
// Configuration happens once per model; decoding reuses per-shot scratch
// buffers and allocates little. See each package's doc.go for details and
// complexity notes.
package mobiusdec
