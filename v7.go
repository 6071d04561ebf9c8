package typeid

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Generator is a thread-safe UUIDv7 source that keeps ids minted in the same
// millisecond ordered by using a counter seeded with random data.
type Generator struct {
	mu            sync.Mutex
	lastTimestamp uint64
	clockSeq      uint16 // 12-bit counter for sub-millisecond ordering
	randReader    io.Reader
	now           func() time.Time
}

// NewGenerator creates a new generator with crypto/rand as the random source
func NewGenerator() *Generator {
	return &Generator{
		randReader: rand.Reader,
		now:        time.Now,
	}
}

// NewGeneratorWithReader creates a new generator with a custom random source.
// This is primarily useful for testing with deterministic random sources.
func NewGeneratorWithReader(r io.Reader) *Generator {
	return &Generator{
		randReader: r,
		now:        time.Now,
	}
}

// New mints a TypeID with the given prefix and a fresh UUIDv7
func (g *Generator) New(prefix string) (TypeID, error) {
	if err := ValidatePrefix(prefix); err != nil {
		return TypeID{}, err
	}
	u, err := g.UUIDWithTime(g.now())
	if err != nil {
		return TypeID{}, err
	}
	return TypeID{prefix: prefix, value: u}, nil
}

// UUID generates a UUIDv7 for the current time
func (g *Generator) UUID() (uuid.UUID, error) {
	return g.UUIDWithTime(g.now())
}

// UUIDWithTime generates a UUIDv7 with the specified timestamp.
// Values generated for the same or an earlier millisecond than the previous
// call still sort after it.
func (g *Generator) UUIDWithTime(t time.Time) (uuid.UUID, error) {
	var u uuid.UUID

	timestamp := uint64(t.UnixMilli())

	g.mu.Lock()
	defer g.mu.Unlock()

	if timestamp <= g.lastTimestamp {
		timestamp = g.lastTimestamp
		g.clockSeq++
		// 12-bit counter exhausted: borrow the next millisecond
		if g.clockSeq > 0xFFF {
			g.clockSeq = 0
			timestamp++
			g.lastTimestamp = timestamp
		}
	} else {
		var randBytes [2]byte
		if _, err := io.ReadFull(g.randReader, randBytes[:]); err != nil {
			return u, err
		}
		// top bit left clear so the counter has room before overflowing
		g.clockSeq = binary.BigEndian.Uint16(randBytes[:]) & 0x7FF
		g.lastTimestamp = timestamp
	}

	// bytes 0-5: 48-bit unix milliseconds
	binary.BigEndian.PutUint64(u[0:8], timestamp<<16)

	// bytes 6-7: version 7 and the 12-bit counter
	u[6] = byte(0x70 | (g.clockSeq >> 8))
	u[7] = byte(g.clockSeq)

	if _, err := io.ReadFull(g.randReader, u[8:]); err != nil {
		return u, err
	}

	// variant 10xx xxxx
	u[8] = (u[8] & 0x3F) | 0x80

	return u, nil
}

// Must is a helper that wraps a call to a function returning (TypeID, error)
// and panics if the error is non-nil. It is intended for use in variable
// initializations such as:
//
//	var id = typeid.Must(typeid.New("user"))
func Must(tid TypeID, err error) TypeID {
	if err != nil {
		panic(err)
	}
	return tid
}

// defaultGenerator is the package-level generator used by New
var defaultGenerator = NewGenerator()

// New mints a TypeID with the given prefix using the default generator
func New(prefix string) (TypeID, error) {
	return defaultGenerator.New(prefix)
}

// IsTimeOrdered reports whether the value is a version 7 UUID, whose top
// 48 bits are a unix millisecond timestamp.
func (t TypeID) IsTimeOrdered() bool {
	return t.value.Version() == 7
}

// Timestamp extracts the unix timestamp in milliseconds from a UUIDv7 value.
// It returns 0 for other versions.
func (t TypeID) Timestamp() int64 {
	if !t.IsTimeOrdered() {
		return 0
	}
	return int64(binary.BigEndian.Uint64(t.value[0:8]) >> 16)
}

// Time returns the UUIDv7 timestamp as a UTC time.Time, or the zero time
// for other versions.
func (t TypeID) Time() time.Time {
	if !t.IsTimeOrdered() {
		return time.Time{}
	}
	return time.UnixMilli(t.Timestamp()).UTC()
}
