package typeid

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// TypeID is a prefix paired with a 128-bit value. The zero value is the
// prefix-less nil TypeID "00000000000000000000000000".
//
// TypeID is comparable: two TypeIDs are == exactly when prefix and value
// are equal.
type TypeID struct {
	prefix string
	value  uuid.UUID
}

// FromBytes builds a TypeID from a prefix and a big-endian 128-bit value.
// Only the prefix is validated; any value is accepted.
func FromBytes(prefix string, value [16]byte) (TypeID, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return TypeID{}, err
	}
	return TypeID{prefix: prefix, value: value}, nil
}

// FromUUID builds a TypeID from a prefix and an existing UUID
func FromUUID(prefix string, u uuid.UUID) (TypeID, error) {
	return FromBytes(prefix, u)
}

// FromUUIDString builds a TypeID from a prefix and a UUID in any form
// accepted by uuid.Parse (canonical, braces, urn:uuid:, no hyphens).
func FromUUIDString(prefix, s string) (TypeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return TypeID{}, formatError(CodeUUID, s, "cannot parse UUID")
	}
	return FromUUID(prefix, u)
}

// FromSuffix builds a TypeID from a prefix and an encoded suffix
func FromSuffix(prefix, suffix string) (TypeID, error) {
	value, err := DecodeSuffix(suffix)
	if err != nil {
		return TypeID{}, err
	}
	return FromBytes(prefix, value)
}

// Parse parses a TypeID from its canonical string form: a bare 26
// character suffix, or prefix + "_" + suffix. The suffix is everything
// after the last '_'.
func Parse(s string) (TypeID, error) {
	i := strings.LastIndexByte(s, '_')
	if i < 0 {
		return FromSuffix("", s)
	}

	prefix, suffix := s[:i], s[i+1:]
	if prefix == "" {
		return TypeID{}, formatError(CodeEmptyPrefix, s, "separator '_' present without a prefix")
	}
	value, err := DecodeSuffix(suffix)
	if err != nil {
		return TypeID{}, err
	}
	if err := ValidatePrefix(prefix); err != nil {
		return TypeID{}, err
	}
	return TypeID{prefix: prefix, value: value}, nil
}

// MustParse is like Parse but panics if the string cannot be parsed.
// It simplifies safe initialization of global variables.
func MustParse(s string) TypeID {
	tid, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("typeid: Parse(%q): %v", s, err))
	}
	return tid
}

// String returns the canonical form: the suffix alone when the prefix is
// empty, prefix + "_" + suffix otherwise.
func (t TypeID) String() string {
	if t.prefix == "" {
		return t.Suffix()
	}
	return t.prefix + "_" + t.Suffix()
}

// Prefix returns the type prefix, possibly empty
func (t TypeID) Prefix() string {
	return t.prefix
}

// Suffix returns the 26 character base32 encoding of the value
func (t TypeID) Suffix() string {
	return EncodeSuffix(t.value)
}

// UUID returns the value as a UUID
func (t TypeID) UUID() uuid.UUID {
	return t.value
}

// Bytes returns the big-endian value as a byte slice
func (t TypeID) Bytes() []byte {
	b := t.value
	return b[:]
}

// IsZero reports whether both prefix and value are empty
func (t TypeID) IsZero() bool {
	return t == TypeID{}
}

// Equal returns true if t and other have the same prefix and value
func (t TypeID) Equal(other TypeID) bool {
	return t == other
}

// Compare orders TypeIDs by prefix, then by value. For a shared prefix
// this is the same order as comparing String() lexicographically.
// The result will be 0 if t==other, -1 if t < other, and +1 if t > other.
func (t TypeID) Compare(other TypeID) int {
	if c := strings.Compare(t.prefix, other.prefix); c != 0 {
		return c
	}
	return bytes.Compare(t.value[:], other.value[:])
}
