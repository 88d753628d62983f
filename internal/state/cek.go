package state

import (
	"fmt"

	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
	"github.com/heliolabs/heliograph/pkg/wire"
)

const (
	// MaxCEKs is the maximum number of wrapped keys in one
	// key-distribution account.
	MaxCEKs = 8

	// cekVersionLegacy is the first-generation layout: wrapped keys as
	// string triples. Read-only; decoding migrates to the current layout.
	cekVersionLegacy = 1

	// cekVersion is the current layout: fixed-width EncryptedKey records.
	cekVersion = 2
)

// CEKAccount is the key-distribution record binding an identity to a
// channel. Its existence is the membership proof: the identity holds the
// channel's content-encryption key wrapped for each of its own keys.
//
// The Channel field is set at creation and never changes.
type CEKAccount struct {
	OwnerDID addr.Address
	Channel  addr.Address
	Keys     []EncryptedKey
}

// NewCEKAccount creates a key-distribution record for the identity and
// channel with the given initial wrapped keys.
func NewCEKAccount(ownerDID, channel addr.Address, keys []EncryptedKey) CEKAccount {
	return CEKAccount{
		OwnerDID: ownerDID,
		Channel:  channel,
		Keys:     append(make([]EncryptedKey, 0, MaxCEKs), keys...),
	}
}

// IsInitialized reports whether the record has been created.
func (a *CEKAccount) IsInitialized() bool {
	return !a.OwnerDID.IsZero()
}

// Add appends a wrapped key. Fails with ErrOverflow at capacity; the
// check happens before the append, never by truncation.
func (a *CEKAccount) Add(k EncryptedKey) error {
	if len(a.Keys) >= MaxCEKs {
		return errors.ErrOverflow
	}
	a.Keys = append(a.Keys, k)
	return nil
}

// Remove deletes the wrapped key with the given id, preserving the order
// of the rest. Fails with ErrCEKNotFound if no such key exists.
func (a *CEKAccount) Remove(id KeyID) error {
	for i, k := range a.Keys {
		if k.KeyID == id {
			a.Keys = append(a.Keys[:i], a.Keys[i+1:]...)
			return nil
		}
	}
	return errors.ErrCEKNotFound
}

// Encode serializes the record in the current layout.
func (a *CEKAccount) Encode() []byte {
	var w wire.Writer
	w.U8(cekVersion)
	w.Fixed(a.OwnerDID[:])
	w.Fixed(a.Channel[:])
	w.U32(uint32(len(a.Keys)))
	for _, k := range a.Keys {
		k.EncodeTo(&w)
	}
	return w.Bytes()
}

// DecodeCEKAccount deserializes a key-distribution record. Legacy records
// are migrated to the current in-memory shape; the next write persists
// them in the current layout. An all-zero or truncated buffer yields the
// uninitialized zero record.
func DecodeCEKAccount(data []byte) (CEKAccount, error) {
	r := wire.NewReader(data)
	version := r.U8()
	var a CEKAccount
	var err error
	switch version {
	case 0:
		// Zero buffer: unallocated slot.
	case cekVersionLegacy:
		a, err = decodeCEKLegacy(r)
	case cekVersion:
		a, err = decodeCEKCurrent(r)
	default:
		return CEKAccount{}, fmt.Errorf("cek record: unknown version %d: %w", version, errors.ErrInvalidInstructionData)
	}
	if err != nil {
		return CEKAccount{}, err
	}
	if err := r.Err(); err != nil {
		if wire.Incomplete(err) {
			return CEKAccount{}, nil
		}
		return CEKAccount{}, fmt.Errorf("cek record: %w", err)
	}
	return a, nil
}

func decodeCEKCurrent(r *wire.Reader) (CEKAccount, error) {
	var a CEKAccount
	r.Fixed(a.OwnerDID[:])
	r.Fixed(a.Channel[:])
	n := r.U32()
	if r.Err() == nil && n > MaxCEKs {
		return CEKAccount{}, fmt.Errorf("cek record: %d keys exceeds maximum %d", n, MaxCEKs)
	}
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		a.Keys = append(a.Keys, ReadEncryptedKey(r))
	}
	return a, nil
}

// decodeCEKLegacy reads the first-generation layout, in which each wrapped
// key was a (header, kid, ciphertext) string triple, and converts it to
// fixed-width records. Over-long fields are truncated; short ones are
// zero-padded. The conversion is deterministic, so repeated reads of the
// same legacy record always migrate identically.
func decodeCEKLegacy(r *wire.Reader) (CEKAccount, error) {
	var a CEKAccount
	r.Fixed(a.OwnerDID[:])
	r.Fixed(a.Channel[:])
	n := r.U32()
	if r.Err() == nil && n > MaxCEKs {
		return CEKAccount{}, fmt.Errorf("cek record: %d keys exceeds maximum %d", n, MaxCEKs)
	}
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		header := r.VarBytes()
		kid := r.VarBytes()
		ciphertext := r.VarBytes()
		var k EncryptedKey
		copy(k.Header[:], header)
		copy(k.KeyID[:], kid)
		copy(k.Ciphertext[:], ciphertext)
		a.Keys = append(a.Keys, k)
	}
	return a, nil
}

// CEKAccountSizeBytes is the allocation size for a key-distribution
// account: a full record in the current layout.
func CEKAccountSizeBytes() uint64 {
	return 1 + 2*addr.Size + 4 + MaxCEKs*EncryptedKeySize
}
