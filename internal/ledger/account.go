// Package ledger models the host account store: address-keyed byte-buffer
// records, the invocation view over them, storage-quota funding, and the
// all-or-nothing transaction each state transition runs inside.
package ledger

import (
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
	"github.com/heliolabs/heliograph/pkg/wire"
)

// SystemOwner marks an account not yet claimed by any program. Allocation
// transfers ownership to the allocating program.
var SystemOwner = addr.Zero

// Account is a persistent record slot. Data length is fixed at allocation;
// records serialize into the buffer and may leave a zero tail.
type Account struct {
	Address  addr.Address
	Owner    addr.Address
	Lamports uint64
	Data     []byte
}

// Exists reports whether the slot has been allocated.
func (a *Account) Exists() bool {
	return len(a.Data) > 0 || a.Lamports > 0
}

// WriteRecord serializes a record into the account buffer. The record
// must fit the allocated size; the remainder of the buffer is zeroed so a
// shrinking record cannot leave stale bytes behind.
func (a *Account) WriteRecord(record []byte) error {
	if len(record) > len(a.Data) {
		return errors.ErrOverflow
	}
	n := copy(a.Data, record)
	clear(a.Data[n:])
	return nil
}

// encode flattens the account for backend storage.
func (a *Account) encode() []byte {
	var w wire.Writer
	w.Fixed(a.Owner[:])
	w.U64(a.Lamports)
	w.VarBytes(a.Data)
	return w.Bytes()
}

// decodeAccount restores an account from its backend form.
func decodeAccount(address addr.Address, b []byte) (*Account, error) {
	r := wire.NewReader(b)
	a := &Account{Address: address}
	r.Fixed(a.Owner[:])
	a.Lamports = r.U64()
	a.Data = r.VarBytes()
	if err := r.Done(); err != nil {
		return nil, err
	}
	return a, nil
}

// AccountRef is the per-invocation view of an account: the staged record
// plus the caller-declared signer and writable flags. Every account an
// instruction touches arrives as an explicit ref; there are no implicit
// lookups.
type AccountRef struct {
	*Account
	Signer   bool
	Writable bool
}
