// Package addr provides 32-byte ledger account addresses and deterministic
// program-address derivation.
package addr

import (
	"bytes"
	"crypto/ed25519"
	"errors"

	"github.com/mr-tron/base58"
)

// Size is the length of an address in bytes.
const Size = 32

// Address is a 32-byte account address on the ledger.
type Address [Size]byte

var (
	// ErrInvalidEncoding indicates a malformed address string.
	ErrInvalidEncoding = errors.New("invalid address encoding")
)

// Zero is the all-zero address.
var Zero Address

// FromBytes builds an Address from a byte slice.
// Returns ErrInvalidEncoding if the slice is not exactly 32 bytes.
func FromBytes(b []byte) (Address, error) {
	if len(b) != Size {
		return Address{}, ErrInvalidEncoding
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

// FromPublicKey builds an Address from an Ed25519 public key.
func FromPublicKey(pk ed25519.PublicKey) Address {
	var a Address
	copy(a[:], pk)
	return a
}

// Parse decodes an address from its base58 text form.
func Parse(s string) (Address, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Address{}, ErrInvalidEncoding
	}
	return FromBytes(raw)
}

// String returns the base58 text form of the address.
func (a Address) String() string {
	return base58.Encode(a[:])
}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero reports whether the address is all zeros.
func (a Address) IsZero() bool {
	return a == Zero
}

// Less reports whether a sorts before b in byte order.
// Used to canonicalize unordered address pairs.
func (a Address) Less(b Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
