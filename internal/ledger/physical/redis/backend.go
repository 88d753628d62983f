// Package redis provides a Redis-backed ledger storage backend, useful
// for a shared development ledger.
package redis

import (
	"context"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/heliolabs/heliograph/internal/ledger/physical"
	"github.com/heliolabs/heliograph/internal/storage"
)

const (
	KeyAddr      = "addr"
	KeyPassword  = "password"
	KeyDB        = "db"
	KeyKeyPrefix = "key_prefix"
)

func init() {
	physical.Register("redis", NewFactory, Defaults)
}

// Defaults returns the default configuration for the Redis backend.
func Defaults() map[string]string {
	return map[string]string{
		KeyAddr:      "localhost:6379",
		KeyPassword:  "",
		KeyDB:        "1",
		KeyKeyPrefix: "heliograph:",
	}
}

// NewFactory creates a Redis backend from a configuration map.
func NewFactory(ctx context.Context, config map[string]string) (physical.Backend, error) {
	addr := storage.GetString(config, KeyAddr, "")
	if addr == "" {
		return nil, storage.NewConfigError("redis", KeyAddr, "cannot be empty")
	}

	db, err := storage.GetInt(config, KeyDB, 1)
	if err != nil {
		return nil, storage.NewConfigErrorWithValue("redis", KeyDB, config[KeyDB], err.Error())
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: storage.GetString(config, KeyPassword, ""),
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, storage.NewConfigErrorWithCause("redis", KeyAddr, "failed to connect", err)
	}

	slog.Info("redis ledger backend initialized", "addr", addr, "db", db)
	return &Backend{
		client: client,
		prefix: storage.GetString(config, KeyKeyPrefix, "heliograph:"),
	}, nil
}

// Backend is a Redis ledger store.
type Backend struct {
	client *redis.Client
	prefix string
}

func (b *Backend) storageKey(key []byte) string {
	return b.prefix + "acct:" + hex.EncodeToString(key)
}

// Get implements physical.Backend.
func (b *Backend) Get(ctx context.Context, key []byte) ([]byte, error) {
	v, err := b.client.Get(ctx, b.storageKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, physical.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Put implements physical.Backend.
func (b *Backend) Put(ctx context.Context, key, value []byte) error {
	return b.client.Set(ctx, b.storageKey(key), value, 0).Err()
}

// PutBatch implements physical.Backend. The writes run inside MULTI/EXEC,
// so the commit is atomic.
func (b *Backend) PutBatch(ctx context.Context, pairs map[string][]byte) error {
	pipe := b.client.TxPipeline()
	for k, v := range pairs {
		pipe.Set(ctx, b.storageKey([]byte(k)), v, 0)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Close implements physical.Backend.
func (b *Backend) Close() error {
	return b.client.Close()
}
