package ledger

// Rent is the storage-funding rule: every allocated account must carry a
// balance proportional to its size. The engine only asks for the minimum;
// the actual economics belong to the host.
type Rent struct {
	// LamportsPerByte is the per-byte funding requirement.
	LamportsPerByte uint64

	// BaseLamports is the flat funding floor per account.
	BaseLamports uint64
}

// DefaultRent is the funding rule used by local ledgers.
var DefaultRent = Rent{LamportsPerByte: 7, BaseLamports: 890880}

// MinimumBalance returns the funding an account of the given size must
// hold. Never zero, so an allocated account is always distinguishable
// from an empty slot.
func (r Rent) MinimumBalance(size uint64) uint64 {
	min := r.BaseLamports + r.LamportsPerByte*size
	if min == 0 {
		min = 1
	}
	return min
}
