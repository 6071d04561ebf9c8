package typeid

import (
	"database/sql/driver"
	"fmt"
)

// MarshalText implements the encoding.TextMarshaler interface
func (t TypeID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface
func (t *TypeID) UnmarshalText(data []byte) error {
	tid, err := Parse(string(data))
	if err != nil {
		return err
	}
	*t = tid
	return nil
}

// Scan implements the sql.Scanner interface for database compatibility.
// NULL and empty values leave the zero TypeID.
func (t *TypeID) Scan(src interface{}) error {
	switch src := src.(type) {
	case nil:
		*t = TypeID{}
		return nil
	case string:
		return t.scanString(src)
	case []byte:
		return t.scanString(string(src))
	default:
		return fmt.Errorf("typeid: cannot scan type %T into TypeID", src)
	}
}

func (t *TypeID) scanString(s string) error {
	if s == "" {
		*t = TypeID{}
		return nil
	}
	return t.UnmarshalText([]byte(s))
}

// Value implements the driver.Valuer interface for database compatibility
func (t TypeID) Value() (driver.Value, error) {
	return t.String(), nil
}
