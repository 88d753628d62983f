package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/heliolabs/heliograph/internal/ledger/physical"
	"github.com/heliolabs/heliograph/pkg/addr"
)

// Transaction stages working copies of every account an invocation
// touches. Engines mutate the staged copies; Commit persists them all in
// one atomic batch. A failed invocation simply drops the transaction, so
// no partial mutation is ever visible.
type Transaction struct {
	backend physical.Backend
	staged  map[addr.Address]*Account
}

// Begin opens a transaction over the backend.
func Begin(backend physical.Backend) *Transaction {
	return &Transaction{
		backend: backend,
		staged:  make(map[addr.Address]*Account),
	}
}

// Account returns the staged copy of the account at the address, loading
// it from the backend on first touch. An address with no stored account
// yields an empty, unallocated slot.
func (tx *Transaction) Account(ctx context.Context, address addr.Address) (*Account, error) {
	if a, ok := tx.staged[address]; ok {
		return a, nil
	}

	raw, err := tx.backend.Get(ctx, address[:])
	if errors.Is(err, physical.ErrNotFound) {
		a := &Account{Address: address}
		tx.staged[address] = a
		return a, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load account %s: %w", address, err)
	}

	a, err := decodeAccount(address, raw)
	if err != nil {
		return nil, fmt.Errorf("decode account %s: %w", address, err)
	}
	tx.staged[address] = a
	return a, nil
}

// Commit persists every staged account atomically.
func (tx *Transaction) Commit(ctx context.Context) error {
	if len(tx.staged) == 0 {
		return nil
	}
	pairs := make(map[string][]byte, len(tx.staged))
	for address, a := range tx.staged {
		pairs[string(address[:])] = a.encode()
	}
	return tx.backend.PutBatch(ctx, pairs)
}
