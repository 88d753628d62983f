package addr

import (
	"crypto/sha256"
	"errors"

	"filippo.io/edwards25519"
)

// derivedMarker namespaces derived-address hashing so a derived address can
// never collide with a hash produced for another purpose.
const derivedMarker = "HeliographDerivedAddress"

// MaxSeeds is the maximum number of seeds accepted by a derivation.
const MaxSeeds = 16

// MaxSeedLen is the maximum length of a single seed in bytes.
const MaxSeedLen = 32

var (
	// ErrInvalidSeeds indicates too many seeds or an over-long seed.
	ErrInvalidSeeds = errors.New("invalid derivation seeds")

	// ErrNoViableNonce indicates the bump search was exhausted without
	// finding an off-curve address. Probability ~2^-256; callers may treat
	// this as fatal.
	ErrNoViableNonce = errors.New("unable to find a viable derivation nonce")

	// ErrOnCurve indicates the candidate address has a valid Ed25519 point,
	// i.e. a private key could exist for it.
	ErrOnCurve = errors.New("derived address is on the curve")
)

// CreateProgramAddress derives the address for the given seeds, bump and
// program. It fails with ErrOnCurve if the result could be a real public
// key; such addresses are reserved for holders of the private key.
func CreateProgramAddress(seeds [][]byte, bump uint8, program Address) (Address, error) {
	if len(seeds) >= MaxSeeds {
		return Address{}, ErrInvalidSeeds
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return Address{}, ErrInvalidSeeds
		}
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write(program[:])
	h.Write([]byte(derivedMarker))

	var a Address
	copy(a[:], h.Sum(nil))
	if isOnCurve(a) {
		return Address{}, ErrOnCurve
	}
	return a, nil
}

// FindProgramAddress searches bumps from 255 downward for the first seed
// combination whose derived address is off the Ed25519 curve, guaranteeing
// no private key exists for it. The search is deterministic: the same seeds
// and program always yield the same address and bump.
func FindProgramAddress(seeds [][]byte, program Address) (Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		a, err := CreateProgramAddress(seeds, uint8(bump), program)
		if err == nil {
			return a, uint8(bump), nil
		}
		if !errors.Is(err, ErrOnCurve) {
			return Address{}, 0, err
		}
	}
	return Address{}, 0, ErrNoViableNonce
}

// isOnCurve reports whether the address decompresses to a valid Ed25519
// point. Roughly half of all 32-byte strings do.
func isOnCurve(a Address) bool {
	_, err := new(edwards25519.Point).SetBytes(a[:])
	return err == nil
}
