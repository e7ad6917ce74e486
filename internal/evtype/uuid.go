package evtype

import (
	"github.com/google/uuid"
)

// UUID is the 128-bit opaque partition identifier used throughout the
// catalog. It wraps google/uuid.UUID, which already gives total ordering
// over its raw bytes and works as a Go map key without a custom Hash.
type UUID struct {
	inner uuid.UUID
}

// NewUUID generates a fresh random UUID (v4).
func NewUUID() UUID {
	return UUID{inner: uuid.New()}
}

// ParseUUID parses the canonical string form of a UUID.
func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}
	return UUID{inner: u}, nil
}

// UUIDFromBytes rebuilds a UUID from its raw 16-byte encoding, the inverse
// of Bytes — used by stores that key records on the raw form.
func UUIDFromBytes(b []byte) (UUID, error) {
	u, err := uuid.FromBytes(b)
	if err != nil {
		return UUID{}, err
	}
	return UUID{inner: u}, nil
}

// MustParseUUID is ParseUUID but panics on error; useful in tests and fixtures.
func MustParseUUID(s string) UUID {
	u, err := ParseUUID(s)
	if err != nil {
		panic(err)
	}
	return u
}

// String renders the canonical 8-4-4-4-12 form.
func (u UUID) String() string {
	return u.inner.String()
}

// Bytes returns the raw 16-byte encoding, suitable as a store key.
func (u UUID) Bytes() []byte {
	b := make([]byte, len(u.inner))
	copy(b, u.inner[:])
	return b
}

// Compare gives a total order: -1, 0, 1, by raw byte comparison.
func (u UUID) Compare(other UUID) int {
	for i := range u.inner {
		if u.inner[i] != other.inner[i] {
			if u.inner[i] < other.inner[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Less reports whether u sorts before other.
func (u UUID) Less(other UUID) bool {
	return u.Compare(other) < 0
}

// Equal reports byte-for-byte identity.
func (u UUID) Equal(other UUID) bool {
	return u.inner == other.inner
}
