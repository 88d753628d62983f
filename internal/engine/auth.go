package engine

import (
	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
)

// checkAuthorityOfDID verifies the first link of the authority chain:
// the authority signed the invocation and is listed on the identity
// record.
func (e *Engine) checkAuthorityOfDID(didRef, authority *ledger.AccountRef) error {
	if !authority.Signer {
		return errors.ErrMissingRequiredSignature
	}
	return e.resolver.ValidateOwner(didRef.Account, []addr.Address{authority.Address})
}

// checkAuthorityOfCEK verifies the full chain down to a key-distribution
// account: the authority controls the identity, the identity owns the
// record, and the record belongs to this engine's namespace. Returns the
// decoded record.
func (e *Engine) checkAuthorityOfCEK(inv *ledger.Invocation, authority, didRef, cekRef *ledger.AccountRef) (state.CEKAccount, error) {
	if err := e.checkAuthorityOfDID(didRef, authority); err != nil {
		return state.CEKAccount{}, err
	}

	rec, err := state.DecodeCEKAccount(cekRef.Data)
	if err != nil {
		return state.CEKAccount{}, err
	}
	if rec.OwnerDID != didRef.Address {
		return state.CEKAccount{}, errors.ErrIncorrectAuthority
	}
	if cekRef.Owner != inv.Program {
		return state.CEKAccount{}, errors.ErrIncorrectProgramID
	}
	return rec, nil
}

// checkCEKAccountForChannel verifies a key-distribution account is bound
// to the given channel, and that the channel is one of ours.
func checkCEKAccountForChannel(inv *ledger.Invocation, cekRef, channelRef *ledger.AccountRef) error {
	if channelRef.Owner != inv.Program {
		return errors.ErrIncorrectProgramID
	}
	rec, err := state.DecodeCEKAccount(cekRef.Data)
	if err != nil {
		return err
	}
	if rec.Channel != channelRef.Address {
		return errors.ErrCEKIncorrectChannel
	}
	return nil
}

// checkAuthorityOfProfile verifies the authority controls the identity
// and that the profile account is the one derived from it.
func (e *Engine) checkAuthorityOfProfile(inv *ledger.Invocation, authority, didRef, profileRef *ledger.AccountRef) error {
	if err := e.checkAuthorityOfDID(didRef, authority); err != nil {
		return err
	}
	if profileRef.Owner != inv.Program {
		return errors.ErrIncorrectProgramID
	}
	expected, _, err := state.DeriveProfileAccount(inv.Program, didRef.Address)
	if err != nil {
		return err
	}
	if profileRef.Address != expected {
		return errors.ErrAddressDerivationMismatch
	}
	return nil
}
