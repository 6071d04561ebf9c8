// Package typeid provides type-safe, K-sortable, globally unique identifiers
// in the TypeID format.
//
// A TypeID is a human readable type prefix followed by a 26 character
// base32 encoding of a 128-bit UUID:
//
//	user_01h45z113fexh8c1at7axm1r75
//	└──┘ └────────────────────────┘
//	type    uuid suffix (base32)
//
// The suffix uses the alphabet 0123456789abcdefghjkmnpqrstvwxyz and packs
// the UUID big-endian into 5-bit groups, so sorting suffixes as strings
// sorts the underlying values numerically. With UUIDv7 values this means
// TypeIDs sort by creation time.
//
// Basic Usage:
//
//	// Generate a new TypeID backed by a UUIDv7
//	id, err := typeid.New("user")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(id) // user_01h45z113fexh8c1at7axm1r75
//
//	// Parse a TypeID from string
//	id, err = typeid.Parse("user_01h45z113fexh8c1at7axm1r75")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(id.Prefix(), id.UUID())
//
//	// Wrap an existing UUID
//	id, err = typeid.FromUUID("order", u)
//
// Typed Identifiers:
//
// A marker type pins the prefix at compile time:
//
//	type userPrefix struct{}
//
//	func (userPrefix) Prefix() string { return "user" }
//
//	type UserID = typeid.ID[userPrefix]
//
//	uid, err := typeid.ParseID[userPrefix]("order_01h45z113fexh8c1at7axm1r75") // ErrPrefixMismatch
//
// Errors:
//
// Every rejection of malformed input is a *FormatError. Use errors.Is with
// ErrInvalidFormat, or with the narrower ErrInvalidPrefix, ErrInvalidSuffix
// and ErrInvalidSeparator.
//
// Thread Safety:
//
// TypeID values are immutable. Parsing, encoding and validation are pure
// functions and the default generator is safe for concurrent use.
//
// The explain subpackage inspects arbitrary strings without failing, and the
// schema subpackage loads the optional prefix registry used to enrich those
// explanations.
package typeid
