package shotio

import "errors"

// Sentinel errors for shot record parsing.
var (
	// ErrBadFormat indicates an unknown format name.
	ErrBadFormat = errors.New("shotio: unknown format")
	// ErrTruncatedShot indicates input that ended mid-record or a malformed
	// 01 line.
	ErrTruncatedShot = errors.New("shotio: truncated or malformed shot record")
)

// Format names a shot record encoding.
type Format string

const (
	// Format01 is one '0'/'1' character per bit, one line per shot.
	Format01 Format = "01"
	// FormatB8 is ceil(bits/8) bytes per shot, little-endian bit packing.
	FormatB8 Format = "b8"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case Format01:
		return Format01, nil
	case FormatB8:
		return FormatB8, nil
	default:
		return "", ErrBadFormat
	}
}

// BytesPerShot returns the packed buffer size for a record of bits bits.
func BytesPerShot(bits int) int {
	return (bits + 7) / 8
}
