// Package shotio reads and writes shot records in the two supported
// formats:
//
//	01: one line of '0'/'1' characters per shot, one character per bit.
//	b8: ceil(bits/8) bytes per shot, little-endian bit packing — the bit
//	    at byte k, offset b is record bit 8k+b.
//
// Both readers deliver each shot into a caller-provided buffer using the b8
// bit packing, so downstream code handles exactly one layout. Writers
// accept the same packed layout.
//
// Errors (sentinel):
//
//	– ErrBadFormat      unknown format name.
//	– ErrTruncatedShot  input ended mid-record or a 01 line had the wrong
//	  length or stray characters.
package shotio
