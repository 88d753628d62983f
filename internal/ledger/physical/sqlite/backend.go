// Package sqlite provides a SQLite-backed ledger storage backend.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/heliolabs/heliograph/internal/ledger/physical"
	"github.com/heliolabs/heliograph/internal/storage"
)

const (
	KeyPath        = "path"
	KeyJournalMode = "journal_mode"
	KeyBusyTimeout = "busy_timeout"
)

func init() {
	physical.Register("sqlite", NewFactory, Defaults)
}

// Defaults returns the default configuration for the SQLite backend.
func Defaults() map[string]string {
	return map[string]string{
		KeyPath:        "~/.heliograph/ledger.db",
		KeyJournalMode: "wal",
		KeyBusyTimeout: "5000",
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    address  BLOB PRIMARY KEY,
    value    BLOB NOT NULL
);
`

// NewFactory creates a SQLite backend from a configuration map.
func NewFactory(_ context.Context, config map[string]string) (physical.Backend, error) {
	path := storage.GetString(config, KeyPath, "")
	if path == "" {
		return nil, storage.NewConfigError("sqlite", KeyPath, "cannot be empty")
	}
	path = storage.ExpandPath(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, storage.NewConfigErrorWithCause("sqlite", KeyPath, "failed to create directory", err)
	}

	journalMode := storage.GetString(config, KeyJournalMode, "wal")
	busyTimeout := storage.GetString(config, KeyBusyTimeout, "5000")

	dsn := fmt.Sprintf("file:%s?_journal_mode=%s&_busy_timeout=%s", path, journalMode, busyTimeout)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, storage.NewConfigErrorWithCause("sqlite", KeyPath, "failed to open database", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, storage.NewConfigErrorWithCause("sqlite", KeyPath, "failed to apply schema", err)
	}

	slog.Info("sqlite ledger backend initialized", "path", path)
	return &Backend{db: db}, nil
}

// Backend is a SQLite ledger store.
type Backend struct {
	db *sql.DB
}

// Get implements physical.Backend.
func (b *Backend) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := b.db.QueryRowContext(ctx, `SELECT value FROM accounts WHERE address = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, physical.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put implements physical.Backend.
func (b *Backend) Put(ctx context.Context, key, value []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO accounts (address, value) VALUES (?, ?)
		 ON CONFLICT(address) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// PutBatch implements physical.Backend. All pairs land in one SQL
// transaction, so the commit is atomic.
func (b *Backend) PutBatch(ctx context.Context, pairs map[string][]byte) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for k, v := range pairs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO accounts (address, value) VALUES (?, ?)
			 ON CONFLICT(address) DO UPDATE SET value = excluded.value`, []byte(k), v); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Close implements physical.Backend.
func (b *Backend) Close() error {
	return b.db.Close()
}
