// Package state defines the persistent record layouts stored in ledger
// accounts: channels, key-distribution accounts, user profiles, and
// notification logs.
//
// Records encode with the wire codec. Decoding is tolerant of an all-zero
// or truncated buffer: such buffers yield the zero record, which reports
// itself uninitialized. A buffer that decodes but violates a structural
// bound is corrupt and fails.
package state

// pushBounded appends entry and evicts the oldest element if the list
// exceeds capacity. FIFO order is preserved.
func pushBounded[T any](list []T, entry T, capacity int) []T {
	list = append(list, entry)
	if capacity > 0 && len(list) > capacity {
		list = list[len(list)-capacity:]
	}
	return list
}
