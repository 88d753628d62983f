package engine

import (
	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/internal/state"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
)

// createCEKAccount allocates and writes the key-distribution record that
// makes memberDID a member of the channel. The target reference must sit
// at the address derived from (member, channel); creation fails if that
// slot is already populated, so membership is granted at most once.
func (e *Engine) createCEKAccount(inv *ledger.Invocation, funder, target *ledger.AccountRef, memberDID, channel addr.Address, cek state.EncryptedKey) error {
	if target.Exists() {
		return errors.ErrAccountAlreadyInitialized
	}

	expected, _, err := state.DeriveCEKAccount(inv.Program, memberDID, channel)
	if err != nil {
		return err
	}
	if target.Address != expected {
		return errors.ErrAddressDerivationMismatch
	}

	if err := inv.Allocate(funder, target, state.CEKAccountSizeBytes()); err != nil {
		return err
	}
	if e.metrics != nil {
		e.metrics.AccountsAllocated.WithLabelValues("cek").Inc()
	}

	rec := state.NewCEKAccount(memberDID, channel, []state.EncryptedKey{cek})
	return target.WriteRecord(rec.Encode())
}
