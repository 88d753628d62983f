package did

import (
	"context"
	"fmt"

	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/internal/ledger/physical"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
)

var documentSeed = []byte("heliograph_identity")

// Registry is the account-backed identity sub-system. It owns its own
// program namespace, separate from the messaging engine's; the engine
// only ever talks to it through the Resolver interface.
type Registry struct {
	program addr.Address
	backend physical.Backend
	rent    ledger.Rent
}

// NewRegistry creates a registry over the backend under the given program
// namespace.
func NewRegistry(program addr.Address, backend physical.Backend, rent ledger.Rent) *Registry {
	return &Registry{program: program, backend: backend, rent: rent}
}

// Program returns the registry's program namespace address.
func (r *Registry) Program() addr.Address {
	return r.program
}

// DeriveDocument derives the identity-record address for a subject key.
func (r *Registry) DeriveDocument(subject addr.Address) (addr.Address, error) {
	a, _, err := addr.FindProgramAddress([][]byte{subject[:], documentSeed}, r.program)
	return a, err
}

// Register creates an identity record for the subject with the subject
// key as its first authority. Fails with ErrAlreadyInUse if the identity
// is already registered.
func (r *Registry) Register(ctx context.Context, subject addr.Address) (addr.Address, error) {
	docAddr, err := r.DeriveDocument(subject)
	if err != nil {
		return addr.Zero, err
	}

	tx := ledger.Begin(r.backend)
	account, err := tx.Account(ctx, docAddr)
	if err != nil {
		return addr.Zero, err
	}
	if account.Exists() {
		return addr.Zero, errors.ErrAlreadyInUse
	}

	doc := Document{Subject: subject, Authorities: []addr.Address{subject}}
	account.Owner = r.program
	account.Lamports = r.rent.MinimumBalance(SizeBytes())
	account.Data = make([]byte, SizeBytes())
	if err := account.WriteRecord(doc.Encode()); err != nil {
		return addr.Zero, err
	}
	return docAddr, tx.Commit(ctx)
}

// AddAuthority appends a signer key to an existing identity record. Only
// an existing authority may extend the list.
func (r *Registry) AddAuthority(ctx context.Context, subject, signer, authority addr.Address) error {
	docAddr, err := r.DeriveDocument(subject)
	if err != nil {
		return err
	}

	tx := ledger.Begin(r.backend)
	account, err := tx.Account(ctx, docAddr)
	if err != nil {
		return err
	}
	doc, err := DecodeDocument(account.Data)
	if err != nil {
		return err
	}
	if !doc.IsInitialized() {
		return errors.ErrUninitializedAccount
	}
	if !doc.HasAuthority(signer) {
		return errors.ErrIncorrectAuthority
	}
	if doc.HasAuthority(authority) {
		return nil
	}
	if len(doc.Authorities) >= MaxAuthorities {
		return errors.ErrOverflow
	}

	doc.Authorities = append(doc.Authorities, authority)
	if err := account.WriteRecord(doc.Encode()); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ValidateOwner implements Resolver: the document account must belong to
// this registry's namespace, be registered, and list at least one of the
// candidate signers as an authority.
func (r *Registry) ValidateOwner(doc *ledger.Account, signers []addr.Address) error {
	if doc.Owner != r.program {
		return fmt.Errorf("identity %s: %w", doc.Address, errors.ErrIncorrectProgramID)
	}
	d, err := DecodeDocument(doc.Data)
	if err != nil {
		return err
	}
	if !d.IsInitialized() {
		return fmt.Errorf("identity %s: %w", doc.Address, errors.ErrUninitializedAccount)
	}
	for _, signer := range signers {
		if d.HasAuthority(signer) {
			return nil
		}
	}
	return fmt.Errorf("identity %s: %w", doc.Address, errors.ErrIncorrectAuthority)
}
