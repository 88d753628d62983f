package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heliolabs/heliograph/internal/ledger/physical"
	"github.com/heliolabs/heliograph/pkg/addr"
)

// Processor handles one decoded invocation. Implemented by the engine.
type Processor interface {
	Process(ctx context.Context, inv *Invocation) error
}

// AccountMeta declares one account an instruction touches. The host
// verifies signatures before execution; by the time a meta reaches the
// runtime, Signer means the key really signed.
type AccountMeta struct {
	Address  addr.Address
	Signer   bool
	Writable bool
}

// Runtime executes instructions against a backend: it stages the declared
// accounts in a transaction, hands them to the processor, and commits on
// success. A processor error discards the transaction entirely.
type Runtime struct {
	program addr.Address
	backend physical.Backend
	proc    Processor
	clock   Clock
	rent    Rent
	log     *slog.Logger
}

// NewRuntime creates a runtime for the given program namespace.
func NewRuntime(program addr.Address, backend physical.Backend, proc Processor, clock Clock, rent Rent, log *slog.Logger) *Runtime {
	if log == nil {
		log = slog.Default()
	}
	return &Runtime{
		program: program,
		backend: backend,
		proc:    proc,
		clock:   clock,
		rent:    rent,
		log:     log,
	}
}

// Execute runs one instruction. All-or-nothing: either every staged
// account write commits, or none do.
func (r *Runtime) Execute(ctx context.Context, metas []AccountMeta, data []byte) error {
	correlation := uuid.NewString()
	start := time.Now()

	tx := Begin(r.backend)
	refs := make([]*AccountRef, 0, len(metas))
	for _, meta := range metas {
		account, err := tx.Account(ctx, meta.Address)
		if err != nil {
			return err
		}
		refs = append(refs, &AccountRef{
			Account:  account,
			Signer:   meta.Signer,
			Writable: meta.Writable,
		})
	}

	inv := &Invocation{
		Program:  r.Program(),
		Accounts: refs,
		Data:     data,
		Clock:    r.clock,
		Rent:     r.rent,
	}

	if err := r.proc.Process(ctx, inv); err != nil {
		r.log.WarnContext(ctx, "invocation rejected",
			"correlation", correlation,
			"accounts", len(metas),
			"error", err,
			"elapsed", time.Since(start))
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		r.log.ErrorContext(ctx, "commit failed",
			"correlation", correlation,
			"error", err)
		return err
	}

	r.log.DebugContext(ctx, "invocation committed",
		"correlation", correlation,
		"accounts", len(metas),
		"elapsed", time.Since(start))
	return nil
}

// Program returns the runtime's program namespace address.
func (r *Runtime) Program() addr.Address {
	return r.program
}

// Fund credits lamports to an account directly, outside any program
// rule. Local deployments use it to seed funder balances.
func (r *Runtime) Fund(ctx context.Context, address addr.Address, lamports uint64) error {
	tx := Begin(r.backend)
	account, err := tx.Account(ctx, address)
	if err != nil {
		return err
	}
	account.Lamports += lamports
	return tx.Commit(ctx)
}

// View loads a read-only copy of an account outside any invocation.
// Clients use this to read channels and profiles.
func (r *Runtime) View(ctx context.Context, address addr.Address) (*Account, error) {
	tx := Begin(r.backend)
	return tx.Account(ctx, address)
}
