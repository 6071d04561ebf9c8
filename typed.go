package typeid

import (
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
)

// Prefixer is implemented by marker types that pin the prefix of an ID.
// Prefix must be a pure function of the type.
type Prefixer interface {
	Prefix() string
}

// ID is a TypeID whose prefix is fixed by P. Values can only be created
// with P's prefix, so an ID[userPrefix] never holds an "order_..." id.
type ID[P Prefixer] struct {
	tid TypeID
}

func prefixOf[P Prefixer]() (string, error) {
	var p P
	prefix := p.Prefix()
	if err := ValidatePrefix(prefix); err != nil {
		return "", err
	}
	return prefix, nil
}

// NewID mints an ID with P's prefix using the default generator
func NewID[P Prefixer]() (ID[P], error) {
	prefix, err := prefixOf[P]()
	if err != nil {
		return ID[P]{}, err
	}
	tid, err := defaultGenerator.New(prefix)
	if err != nil {
		return ID[P]{}, err
	}
	return ID[P]{tid: tid}, nil
}

// IDFromUUID wraps u with P's prefix
func IDFromUUID[P Prefixer](u uuid.UUID) (ID[P], error) {
	prefix, err := prefixOf[P]()
	if err != nil {
		return ID[P]{}, err
	}
	return ID[P]{tid: TypeID{prefix: prefix, value: u}}, nil
}

// IDFromTypeID checks that tid carries P's prefix
func IDFromTypeID[P Prefixer](tid TypeID) (ID[P], error) {
	prefix, err := prefixOf[P]()
	if err != nil {
		return ID[P]{}, err
	}
	if tid.prefix != prefix {
		return ID[P]{}, formatError(CodePrefixMismatch, tid.String(), "expected prefix \""+prefix+"\"")
	}
	return ID[P]{tid: tid}, nil
}

// ParseID parses s and requires P's prefix
func ParseID[P Prefixer](s string) (ID[P], error) {
	tid, err := Parse(s)
	if err != nil {
		return ID[P]{}, err
	}
	return IDFromTypeID[P](tid)
}

// TypeID returns the untyped identifier
func (id ID[P]) TypeID() TypeID {
	return id.tid
}

// Prefix returns P's prefix
func (id ID[P]) Prefix() string {
	var p P
	return p.Prefix()
}

// Suffix returns the encoded value
func (id ID[P]) Suffix() string {
	return id.tid.Suffix()
}

// UUID returns the value as a UUID
func (id ID[P]) UUID() uuid.UUID {
	return id.tid.value
}

// String returns the canonical form with P's prefix
func (id ID[P]) String() string {
	return id.withPrefix().String()
}

// withPrefix fills in P's prefix for the zero ID
func (id ID[P]) withPrefix() TypeID {
	if id.tid.IsZero() {
		var p P
		return TypeID{prefix: p.Prefix()}
	}
	return id.tid
}

// MarshalText implements the encoding.TextMarshaler interface
func (id ID[P]) MarshalText() ([]byte, error) {
	return id.withPrefix().MarshalText()
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (id *ID[P]) UnmarshalText(data []byte) error {
	parsed, err := ParseID[P](string(data))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Scan implements the sql.Scanner interface
func (id *ID[P]) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		*id = ID[P]{}
		return nil
	case string:
		return id.scanString(src)
	case []byte:
		return id.scanString(string(src))
	default:
		return fmt.Errorf("typeid: cannot scan type %T into ID", src)
	}
}

func (id *ID[P]) scanString(s string) error {
	if s == "" {
		*id = ID[P]{}
		return nil
	}
	return id.UnmarshalText([]byte(s))
}

// Value implements the driver.Valuer interface
func (id ID[P]) Value() (driver.Value, error) {
	return id.String(), nil
}
