package state

import (
	"fmt"

	"github.com/heliolabs/heliograph/pkg/errors"
	"github.com/heliolabs/heliograph/pkg/wire"
)

const (
	// MaxUserKeys is the maximum number of wrapped private-key copies in
	// one profile (one per device).
	MaxUserKeys = 8

	// DefaultProfileSize is the recommended allocation for a profile
	// account.
	DefaultProfileSize = 3072
)

// UserProfile is the per-identity profile record: a public alias, the
// user's encrypted address book, the user public key, and the user
// private key wrapped for each of the identity's device keys.
// Singleton per identity; its address derives from the identity alone.
type UserProfile struct {
	Alias         string
	AddressBook   string
	UserPublicKey [32]byte
	Keys          []EncryptedKey
}

// IsInitialized reports whether the profile has been created. A profile
// must carry an alias, so an empty alias marks an unallocated slot.
func (p *UserProfile) IsInitialized() bool {
	return p.Alias != ""
}

// AddKey appends a wrapped user key. Fails with ErrOverflow at capacity.
func (p *UserProfile) AddKey(k EncryptedKey) error {
	if len(p.Keys) >= MaxUserKeys {
		return errors.ErrOverflow
	}
	p.Keys = append(p.Keys, k)
	return nil
}

// RemoveKey deletes the wrapped user key with the given id, preserving
// the order of the rest. Fails with ErrKeyNotFound if no such key exists.
// Note the distinct error kind from CEKAccount.Remove.
func (p *UserProfile) RemoveKey(id KeyID) error {
	for i, k := range p.Keys {
		if k.KeyID == id {
			p.Keys = append(p.Keys[:i], p.Keys[i+1:]...)
			return nil
		}
	}
	return errors.ErrKeyNotFound
}

// Encode serializes the profile record.
func (p *UserProfile) Encode() []byte {
	var w wire.Writer
	w.String(p.Alias)
	w.String(p.AddressBook)
	w.Fixed(p.UserPublicKey[:])
	w.U32(uint32(len(p.Keys)))
	for _, k := range p.Keys {
		k.EncodeTo(&w)
	}
	return w.Bytes()
}

// DecodeUserProfile deserializes a profile record. An all-zero or
// truncated buffer yields the uninitialized zero profile.
func DecodeUserProfile(data []byte) (UserProfile, error) {
	r := wire.NewReader(data)
	var p UserProfile
	p.Alias = r.String()
	p.AddressBook = r.String()
	r.Fixed(p.UserPublicKey[:])
	n := r.U32()
	if r.Err() == nil && n > MaxUserKeys {
		return UserProfile{}, fmt.Errorf("profile record: %d keys exceeds maximum %d", n, MaxUserKeys)
	}
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		p.Keys = append(p.Keys, ReadEncryptedKey(r))
	}
	if err := r.Err(); err != nil {
		if wire.Incomplete(err) {
			return UserProfile{}, nil
		}
		return UserProfile{}, fmt.Errorf("profile record: %w", err)
	}
	return p, nil
}
