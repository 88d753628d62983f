// Package did is the boundary to the identity sub-system. The engine
// knows nothing about identity documents beyond "an address, and a way to
// ask whether a signer is one of its authorities"; that question is the
// Resolver interface. The account-backed Registry is a reference
// implementation for tests and self-contained ledgers.
package did

import (
	"fmt"

	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/pkg/addr"
	"github.com/heliolabs/heliograph/pkg/errors"
	"github.com/heliolabs/heliograph/pkg/wire"
)

// Resolver answers whether any of the candidate signers is a registered
// authority of the identity document held in the account. This is the
// engine's sole outward dependency.
type Resolver interface {
	ValidateOwner(doc *ledger.Account, signers []addr.Address) error
}

const docVersion = 1

// MaxAuthorities bounds the authority list of one document.
const MaxAuthorities = 16

// Document is an identity record: a subject key and the signer keys
// authorized to act as the identity.
type Document struct {
	Subject     addr.Address
	Authorities []addr.Address
}

// IsInitialized reports whether the document has been registered.
func (d *Document) IsInitialized() bool {
	return !d.Subject.IsZero()
}

// HasAuthority reports whether the key is a registered authority.
func (d *Document) HasAuthority(key addr.Address) bool {
	for _, a := range d.Authorities {
		if a == key {
			return true
		}
	}
	return false
}

// Encode serializes the document record.
func (d *Document) Encode() []byte {
	var w wire.Writer
	w.U8(docVersion)
	w.Fixed(d.Subject[:])
	w.U32(uint32(len(d.Authorities)))
	for _, a := range d.Authorities {
		w.Fixed(a[:])
	}
	return w.Bytes()
}

// DecodeDocument deserializes an identity record. An all-zero or
// truncated buffer yields the uninitialized zero document.
func DecodeDocument(data []byte) (Document, error) {
	r := wire.NewReader(data)
	version := r.U8()
	var d Document
	if version == 0 {
		return Document{}, nil
	}
	if version != docVersion {
		return Document{}, fmt.Errorf("identity record: unknown version %d: %w", version, errors.ErrInvalidInstructionData)
	}
	r.Fixed(d.Subject[:])
	n := r.U32()
	if r.Err() == nil && n > MaxAuthorities {
		return Document{}, fmt.Errorf("identity record: %d authorities exceeds maximum %d", n, MaxAuthorities)
	}
	for i := uint32(0); i < n && r.Err() == nil; i++ {
		var a addr.Address
		r.Fixed(a[:])
		d.Authorities = append(d.Authorities, a)
	}
	if err := r.Err(); err != nil {
		if wire.Incomplete(err) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("identity record: %w", err)
	}
	return d, nil
}

// SizeBytes is the allocation size for an identity record.
func SizeBytes() uint64 {
	return 1 + addr.Size + 4 + MaxAuthorities*addr.Size
}
