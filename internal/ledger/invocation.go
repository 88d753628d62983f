package ledger

import (
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
)

// Invocation is one synchronous state transition: an instruction payload
// plus the ordered account references it declared. Everything an engine
// may read or write is here; there is no other channel to the ledger.
type Invocation struct {
	// Program is the engine's own account namespace. Accounts the engine
	// created carry it as Owner.
	Program addr.Address

	// Accounts is the caller-supplied ordered reference list. The caller
	// controls both content and order; handlers must validate everything.
	Accounts []*AccountRef

	// Data is the raw instruction payload.
	Data []byte

	// Clock supplies message timestamps.
	Clock Clock

	// Rent is the storage-funding rule for allocations.
	Rent Rent
}

// Account returns the i-th account reference, or ErrNotEnoughAccounts if
// the caller supplied too few.
func (inv *Invocation) Account(i int) (*AccountRef, error) {
	if i >= len(inv.Accounts) {
		return nil, errors.ErrNotEnoughAccounts
	}
	return inv.Accounts[i], nil
}

// Allocate claims an empty slot for the program: it funds the account
// from the funder per the rent rule, assigns ownership, and sizes the
// data buffer. Fails with ErrAccountAlreadyInitialized if the slot is
// populated — an account transitions uninitialized to initialized exactly
// once.
func (inv *Invocation) Allocate(funder, target *AccountRef, size uint64) error {
	if target.Exists() {
		return errors.ErrAccountAlreadyInitialized
	}
	if !funder.Signer {
		return errors.ErrMissingRequiredSignature
	}
	if !funder.Writable || !target.Writable {
		return errors.ErrAccountNotWritable
	}

	need := inv.Rent.MinimumBalance(size)
	if funder.Lamports < need {
		return errors.ErrInsufficientFunds
	}
	funder.Lamports -= need
	target.Lamports += need
	target.Owner = inv.Program
	target.Data = make([]byte, size)
	return nil
}
