package main

import (
	"context"
	"crypto/ed25519"
	"fmt"

	"github.com/heliolabs/heliograph/internal/keyring"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/keywrap"
)

// userKeyID labels wrapped keys sealed for an identity's user key, as
// opposed to ones sealed for a specific device key.
var userKeyID = state.KeyIDFromString("user")

// wrapKey seals key material for a recipient public key into the
// fixed-width record the ledger stores.
func wrapKey(key [keywrap.KeySize]byte, kid state.KeyID, recipient ed25519.PublicKey) (state.EncryptedKey, error) {
	sealed, err := keywrap.Seal(key, recipient)
	if err != nil {
		return state.EncryptedKey{}, err
	}
	k := state.EncryptedKey{KeyID: kid, Ciphertext: sealed}
	copy(k.Header[:], keywrap.Scheme)
	return k, nil
}

// loadProfile fetches and decodes an identity's profile record.
func (e *env) loadProfile(ctx context.Context, didAddr addr.Address) (state.UserProfile, error) {
	profileAddr, _, err := state.DeriveProfileAccount(e.runtime.Program(), didAddr)
	if err != nil {
		return state.UserProfile{}, err
	}
	account, err := e.runtime.View(ctx, profileAddr)
	if err != nil {
		return state.UserProfile{}, err
	}
	profile, err := state.DecodeUserProfile(account.Data)
	if err != nil {
		return state.UserProfile{}, err
	}
	if !profile.IsInitialized() {
		return state.UserProfile{}, fmt.Errorf("no profile for identity %s", didAddr)
	}
	return profile, nil
}

// userSecret recovers the identity's user keypair by opening the wrapped
// copy stored in the profile for this device key.
func (e *env) userSecret(ctx context.Context, key *keyring.Key, didAddr addr.Address) (ed25519.PrivateKey, error) {
	profile, err := e.loadProfile(ctx, didAddr)
	if err != nil {
		return nil, err
	}

	kid := state.KeyIDFromString(key.Name)
	for _, wrapped := range profile.Keys {
		if wrapped.KeyID != kid {
			continue
		}
		seed, err := keywrap.Open(wrapped.Ciphertext, key.Seed())
		if err != nil {
			return nil, fmt.Errorf("open user key: %w", err)
		}
		return ed25519.NewKeyFromSeed(seed[:]), nil
	}
	return nil, fmt.Errorf("profile has no user key wrapped for device key %q", key.Name)
}

// channelKey recovers the channel's content-encryption key from the
// identity's key-distribution account.
func (e *env) channelKey(ctx context.Context, key *keyring.Key, didAddr, channel addr.Address) ([keywrap.KeySize]byte, error) {
	var zero [keywrap.KeySize]byte

	cekAddr, _, err := state.DeriveCEKAccount(e.runtime.Program(), didAddr, channel)
	if err != nil {
		return zero, err
	}
	account, err := e.runtime.View(ctx, cekAddr)
	if err != nil {
		return zero, err
	}
	rec, err := state.DecodeCEKAccount(account.Data)
	if err != nil {
		return zero, err
	}
	if !rec.IsInitialized() {
		return zero, fmt.Errorf("identity %s is not a member of channel %s", didAddr, channel)
	}

	userPriv, err := e.userSecret(ctx, key, didAddr)
	if err != nil {
		return zero, err
	}
	for _, wrapped := range rec.Keys {
		cek, err := keywrap.Open(wrapped.Ciphertext, userPriv.Seed())
		if err == nil {
			return cek, nil
		}
	}
	return zero, fmt.Errorf("no wrapped channel key opens for identity %s", didAddr)
}

// documentFor resolves a subject key address to its identity record
// address.
func (e *env) documentFor(subject addr.Address) (addr.Address, error) {
	return e.registry.DeriveDocument(subject)
}
