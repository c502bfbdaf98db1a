package utils

import (
	"os"
	"unsafe"
)

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities — Zero-Alloc Casts
///////////////////////////////////////////////////////////////////////////////

// B2s converts a []byte to a string **without** allocation.
// ⚠️ Caller must ensure the input slice remains valid and unchanged.
// Used for human-readable print paths.
//
//go:nosplit
//go:inline
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// TrimSymbol trims trailing ASCII space padding from a fixed-width wire
// symbol token, returning a view into the same backing array.
//
//go:nosplit
//go:inline
func TrimSymbol(b []byte) []byte {
	n := len(b)
	for n > 0 && b[n-1] == ' ' {
		n--
	}
	return b[:n]
}

///////////////////////////////////////////////////////////////////////////////
// Fast Loaders — Unaligned 64/128-Bit & Big-Endian Reads
///////////////////////////////////////////////////////////////////////////////

// Load64 reads an unaligned 64-bit word from a byte slice.
//
//go:nosplit
//go:inline
func Load64(b []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&b[0]))
}

// Load128 performs two consecutive unaligned 64-bit reads for fingerprinting.
//
//go:nosplit
//go:inline
func Load128(b []byte) (uint64, uint64) {
	p := (*[2]uint64)(unsafe.Pointer(&b[0]))
	return p[0], p[1]
}

// LoadBE64 performs a manual big-endian 64-bit read, avoiding dependency on
// encoding/binary on the hot decode path.
//
//go:nosplit
//go:inline
func LoadBE64(b []byte) uint64 {
	_ = b[7] // bounds check hint
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 |
		uint64(b[3])<<32 | uint64(b[4])<<24 | uint64(b[5])<<16 |
		uint64(b[6])<<8 | uint64(b[7])
}

// LoadBE48 reads a 6-byte big-endian value (ITCH's timestamp width) into a
// uint64.
//
//go:nosplit
//go:inline
func LoadBE48(b []byte) uint64 {
	_ = b[5]
	return uint64(b[0])<<40 | uint64(b[1])<<32 | uint64(b[2])<<24 |
		uint64(b[3])<<16 | uint64(b[4])<<8 | uint64(b[5])
}

// LoadBE32 reads an unaligned 32-bit big-endian value.
//
//go:nosplit
//go:inline
func LoadBE32(b []byte) uint32 {
	_ = b[3]
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// LoadBE16 reads an unaligned 16-bit big-endian value.
//
//go:nosplit
//go:inline
func LoadBE16(b []byte) uint16 {
	_ = b[1]
	return uint16(b[0])<<8 | uint16(b[1])
}

///////////////////////////////////////////////////////////////////////////////
// Hash & Mixers — For Index Probing & Key Rotation
///////////////////////////////////////////////////////////////////////////////

// Mix64 applies a Murmur3-style avalanche to a 64-bit value. Used to
// randomize slot mapping inside the symbol table's open-addressed lookup.
//
//go:nosplit
//go:inline
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

///////////////////////////////////////////////////////////////////////////////
// Zero-Alloc stderr Logging Primitives
///////////////////////////////////////////////////////////////////////////////

// digits is a static lookup table mapping 0-9 to ASCII digits for Itoa.
var digits = [10]byte{'0', '1', '2', '3', '4', '5', '6', '7', '8', '9'}

// Itoa converts an int to its decimal string form (negative values get a
// leading '-') without going through fmt or strconv. Used only on cold diagnostic paths.
//
//go:nosplit
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = digits[n%10]
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// PrintWarning writes msg directly to stderr, bypassing fmt's formatting
// machinery. Used only from cold paths (debug.DropError/DropMessage).
//
//go:nosplit
//go:inline
func PrintWarning(msg string) {
	os.Stderr.WriteString(msg)
}
