package engine

import (
	"github.com/heliolabs/heliograph/internal/instruction"
	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/errors"
)

func (e *Engine) createProfile(inv *ledger.Invocation, in instruction.CreateProfile) error {
	funder, err := inv.Account(0)
	if err != nil {
		return err
	}
	ownerDID, err := inv.Account(1)
	if err != nil {
		return err
	}
	ownerAuthority, err := inv.Account(2)
	if err != nil {
		return err
	}
	profile, err := inv.Account(3)
	if err != nil {
		return err
	}

	if in.Alias == "" || len(in.Keys) > state.MaxUserKeys {
		return errors.ErrInvalidInstructionData
	}
	if profile.Exists() {
		return errors.ErrAlreadyInUse
	}
	if err := e.checkAuthorityOfDID(ownerDID, ownerAuthority); err != nil {
		return err
	}

	expected, _, err := state.DeriveProfileAccount(inv.Program, ownerDID.Address)
	if err != nil {
		return err
	}
	if profile.Address != expected {
		return errors.ErrAddressDerivationMismatch
	}

	size := uint64(in.Size)
	if size == 0 {
		size = state.DefaultProfileSize
	}
	if err := inv.Allocate(funder, profile, size); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.AccountsAllocated.WithLabelValues("profile").Inc()
	}

	rec := state.UserProfile{
		Alias:         in.Alias,
		AddressBook:   in.AddressBook,
		UserPublicKey: in.UserPublicKey,
		Keys:          in.Keys,
	}
	return profile.WriteRecord(rec.Encode())
}

// loadOwnedProfile runs the shared preamble of the profile mutations:
// authority chain, derivation binding, and an initialized record.
func (e *Engine) loadOwnedProfile(inv *ledger.Invocation, ownerDID, ownerAuthority, profile *ledger.AccountRef) (state.UserProfile, error) {
	if err := e.checkAuthorityOfProfile(inv, ownerAuthority, ownerDID, profile); err != nil {
		return state.UserProfile{}, err
	}
	if !profile.Writable {
		return state.UserProfile{}, errors.ErrAccountNotWritable
	}
	rec, err := state.DecodeUserProfile(profile.Data)
	if err != nil {
		return state.UserProfile{}, err
	}
	if !rec.IsInitialized() {
		return state.UserProfile{}, errors.ErrUninitializedAccount
	}
	return rec, nil
}

func (e *Engine) updateProfile(inv *ledger.Invocation, in instruction.UpdateProfile) error {
	ownerDID, err := inv.Account(0)
	if err != nil {
		return err
	}
	ownerAuthority, err := inv.Account(1)
	if err != nil {
		return err
	}
	profile, err := inv.Account(2)
	if err != nil {
		return err
	}

	if in.Alias == "" {
		return errors.ErrInvalidInstructionData
	}
	rec, err := e.loadOwnedProfile(inv, ownerDID, ownerAuthority, profile)
	if err != nil {
		return err
	}

	rec.Alias = in.Alias
	rec.AddressBook = in.AddressBook
	return profile.WriteRecord(rec.Encode())
}

func (e *Engine) addUserKey(inv *ledger.Invocation, in instruction.AddUserKey) error {
	ownerDID, err := inv.Account(0)
	if err != nil {
		return err
	}
	ownerAuthority, err := inv.Account(1)
	if err != nil {
		return err
	}
	profile, err := inv.Account(2)
	if err != nil {
		return err
	}

	rec, err := e.loadOwnedProfile(inv, ownerDID, ownerAuthority, profile)
	if err != nil {
		return err
	}
	if err := rec.AddKey(in.Key); err != nil {
		return err
	}
	return profile.WriteRecord(rec.Encode())
}

func (e *Engine) removeUserKey(inv *ledger.Invocation, in instruction.RemoveUserKey) error {
	ownerDID, err := inv.Account(0)
	if err != nil {
		return err
	}
	ownerAuthority, err := inv.Account(1)
	if err != nil {
		return err
	}
	profile, err := inv.Account(2)
	if err != nil {
		return err
	}

	rec, err := e.loadOwnedProfile(inv, ownerDID, ownerAuthority, profile)
	if err != nil {
		return err
	}
	if err := rec.RemoveKey(in.KeyID); err != nil {
		return err
	}
	return profile.WriteRecord(rec.Encode())
}
