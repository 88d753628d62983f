// Package badger provides a BadgerDB-backed ledger storage backend. This
// is the default on-disk store for a local ledger.
package badger

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/heliolabs/heliograph/internal/ledger/physical"
	"github.com/heliolabs/heliograph/internal/storage"
)

const keyPrefix = "acct/"

const (
	KeyPath       = "path"
	KeySyncWrites = "sync_writes"
	KeyInMemory   = "in_memory"
)

func init() {
	physical.Register("badger", NewFactory, Defaults)
}

// Defaults returns the default configuration for the BadgerDB backend.
func Defaults() map[string]string {
	return map[string]string{
		KeyPath:       "~/.heliograph/ledger",
		KeySyncWrites: "true",
		KeyInMemory:   "false",
	}
}

// NewFactory creates a BadgerDB backend from a configuration map.
func NewFactory(_ context.Context, config map[string]string) (physical.Backend, error) {
	inMemory, err := storage.GetBool(config, KeyInMemory, false)
	if err != nil {
		return nil, storage.NewConfigErrorWithValue("badger", KeyInMemory, config[KeyInMemory], err.Error())
	}

	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		path := storage.GetString(config, KeyPath, "")
		if path == "" {
			return nil, storage.NewConfigError("badger", KeyPath, "cannot be empty")
		}
		path = storage.ExpandPath(path)

		if err := os.MkdirAll(path, 0o700); err != nil {
			return nil, storage.NewConfigErrorWithCause("badger", KeyPath, "failed to create directory", err)
		}

		syncWrites, err := storage.GetBool(config, KeySyncWrites, true)
		if err != nil {
			return nil, storage.NewConfigErrorWithValue("badger", KeySyncWrites, config[KeySyncWrites], err.Error())
		}

		opts = badger.DefaultOptions(path)
		opts.SyncWrites = syncWrites
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, storage.NewConfigErrorWithCause("badger", KeyPath, "failed to open database", err)
	}

	slog.Info("badger ledger backend initialized", "in_memory", inMemory)
	return NewWithDB(db), nil
}

// Backend is a BadgerDB ledger store.
type Backend struct {
	db *badger.DB
}

// NewWithDB wraps an already-open BadgerDB handle.
func NewWithDB(db *badger.DB) *Backend {
	return &Backend{db: db}
}

func storageKey(key []byte) []byte {
	return append([]byte(keyPrefix), key...)
}

// Get implements physical.Backend.
func (b *Backend) Get(_ context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storageKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, physical.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put implements physical.Backend.
func (b *Backend) Put(_ context.Context, key, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storageKey(key), value)
	})
}

// PutBatch implements physical.Backend. All pairs land in one Badger
// transaction, so the commit is atomic.
func (b *Backend) PutBatch(_ context.Context, pairs map[string][]byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		for k, v := range pairs {
			if err := txn.Set(storageKey([]byte(k)), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close implements physical.Backend.
func (b *Backend) Close() error {
	return b.db.Close()
}
