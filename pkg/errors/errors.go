// Package errors provides the shared sentinel errors returned by the
// heliograph state engine.
package errors

import stderrors "errors"

// Protocol errors. Every engine entry point maps a violated check onto
// exactly one of these; callers classify with errors.Is.
var (
	// ErrIncorrectAuthority indicates the record is not owned by the
	// claimed identity.
	ErrIncorrectAuthority = stderrors.New("incorrect authority provided")

	// ErrOverflow indicates an append would exceed a record's fixed
	// maximum.
	ErrOverflow = stderrors.New("calculation overflow")

	// ErrCEKNotFound indicates no wrapped channel key with the given key
	// id exists in the key-distribution account.
	ErrCEKNotFound = stderrors.New("cek not found")

	// ErrCEKIncorrectChannel indicates a key-distribution account bound to
	// a different channel.
	ErrCEKIncorrectChannel = stderrors.New("cek not valid for this channel")

	// ErrAlreadyInUse indicates an attempt to create a record at an
	// address that already holds initialized data.
	ErrAlreadyInUse = stderrors.New("address already in use")

	// ErrAddressDerivationMismatch indicates a supplied account address
	// does not match the derivation for its declared inputs.
	ErrAddressDerivationMismatch = stderrors.New("incorrect account address derivation")

	// ErrKeyNotFound indicates no wrapped user key with the given key id
	// exists in the profile.
	ErrKeyNotFound = stderrors.New("key not found")
)

// Host-level errors, shared with the ledger runtime.
var (
	// ErrMissingRequiredSignature indicates a claimed signer did not sign
	// the invocation.
	ErrMissingRequiredSignature = stderrors.New("missing required signature")

	// ErrUninitializedAccount indicates an operation on an account that
	// has not been created yet.
	ErrUninitializedAccount = stderrors.New("uninitialized account")

	// ErrAccountAlreadyInitialized indicates an allocation at a populated
	// address.
	ErrAccountAlreadyInitialized = stderrors.New("account already initialized")

	// ErrIncorrectProgramID indicates an account not owned by this
	// engine's program namespace.
	ErrIncorrectProgramID = stderrors.New("incorrect program id")

	// ErrInvalidInstructionData indicates a malformed or unrecognized
	// instruction buffer.
	ErrInvalidInstructionData = stderrors.New("invalid instruction data")

	// ErrNotEnoughAccounts indicates an instruction arrived with fewer
	// account references than its handler requires.
	ErrNotEnoughAccounts = stderrors.New("not enough account references")

	// ErrInsufficientFunds indicates the funder cannot cover the storage
	// quota for a new account.
	ErrInsufficientFunds = stderrors.New("insufficient funds for allocation")

	// ErrAccountNotWritable indicates a mutation of an account the caller
	// did not declare writable.
	ErrAccountNotWritable = stderrors.New("account is not writable")
)
