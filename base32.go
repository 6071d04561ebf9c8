package typeid

import "encoding/binary"

const (
	// SuffixLen is the length of an encoded suffix
	SuffixLen = 26

	// Alphabet is the suffix alphabet in increasing symbol value.
	// It is Crockford's base32 in lower case (no i, l, o, u).
	Alphabet = "0123456789abcdefghjkmnpqrstvwxyz"
)

// invalid marks bytes outside the alphabet in decodeTable
const invalid = 0xFF

var decodeTable = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = invalid
	}
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = byte(i)
	}
	return t
}()

// EncodeSuffix encodes a 128-bit big-endian value into its 26 character
// suffix. The value is read as one 130-bit number whose two highest bits
// are zero and emitted in 5-bit groups, most significant first.
func EncodeSuffix(src [16]byte) string {
	hi := binary.BigEndian.Uint64(src[0:8])
	lo := binary.BigEndian.Uint64(src[8:16])

	var dst [SuffixLen]byte
	for i := 0; i < SuffixLen; i++ {
		dst[i] = Alphabet[shr128(hi, lo, uint(5*(SuffixLen-1-i)))&0x1F]
	}
	return string(dst[:])
}

// DecodeSuffix decodes a 26 character suffix into its 128-bit big-endian
// value. It rejects any other length, characters outside Alphabet
// (upper case included) and a first character above '7', which would need
// more than 128 bits.
func DecodeSuffix(s string) ([16]byte, error) {
	var dst [16]byte
	if len(s) != SuffixLen {
		return dst, formatError(CodeSuffixLength, s, "suffix must be 26 characters")
	}

	var hi, lo uint64
	for i := 0; i < SuffixLen; i++ {
		v := decodeTable[s[i]]
		if v == invalid {
			return dst, formatError(CodeSuffixCharacter, s, "suffix contains a character outside the base32 alphabet")
		}
		if i == 0 && v > 7 {
			return dst, formatError(CodeSuffixOverflow, s, "suffix first character must be in 0-7")
		}
		hi = hi<<5 | lo>>59
		lo = lo<<5 | uint64(v)
	}

	binary.BigEndian.PutUint64(dst[0:8], hi)
	binary.BigEndian.PutUint64(dst[8:16], lo)
	return dst, nil
}

// shr128 returns the low 64 bits of (hi:lo) >> n
func shr128(hi, lo uint64, n uint) uint64 {
	switch {
	case n == 0:
		return lo
	case n >= 64:
		return hi >> (n - 64)
	default:
		return lo>>n | hi<<(64-n)
	}
}
