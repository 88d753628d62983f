// Package physical provides the physical storage interface for ledger
// account slots.
package physical

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates no account is stored under the key.
	ErrNotFound = errors.New("account not found")

	// ErrClosed indicates the backend has been closed.
	ErrClosed = errors.New("backend closed")
)

// Backend is the key-value interface a ledger store runs on. Keys are raw
// account addresses. All implementations must be thread-safe; write
// batching and atomicity across keys are the Transaction layer's job.
type Backend interface {
	// Get returns the stored bytes for the key, or ErrNotFound.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Put stores the bytes under the key, overwriting any prior value.
	Put(ctx context.Context, key, value []byte) error

	// PutBatch stores every pair atomically: either all writes land or
	// none do. The Transaction layer relies on this for commit.
	PutBatch(ctx context.Context, pairs map[string][]byte) error

	// Close releases backend resources.
	Close() error
}
