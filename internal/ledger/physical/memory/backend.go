// Package memory provides a map-backed ledger storage backend for tests
// and ephemeral runs.
package memory

import (
	"context"
	"sync"

	"github.com/heliolabs/heliograph/internal/ledger/physical"
)

func init() {
	physical.Register("memory", NewFactory, nil)
}

// Backend is an in-memory ledger store.
type Backend struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewFactory creates a memory backend. It takes no configuration.
func NewFactory(_ context.Context, _ map[string]string) (physical.Backend, error) {
	return New(), nil
}

// New creates an empty memory backend.
func New() *Backend {
	return &Backend{data: make(map[string][]byte)}
}

// Get implements physical.Backend.
func (b *Backend) Get(_ context.Context, key []byte) ([]byte, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, physical.ErrClosed
	}
	v, ok := b.data[string(key)]
	if !ok {
		return nil, physical.ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Put implements physical.Backend.
func (b *Backend) Put(_ context.Context, key, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return physical.ErrClosed
	}
	v := make([]byte, len(value))
	copy(v, value)
	b.data[string(key)] = v
	return nil
}

// PutBatch implements physical.Backend.
func (b *Backend) PutBatch(_ context.Context, pairs map[string][]byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return physical.ErrClosed
	}
	for k, value := range pairs {
		v := make([]byte, len(value))
		copy(v, value)
		b.data[k] = v
	}
	return nil
}

// Close implements physical.Backend.
func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.data = nil
	return nil
}
