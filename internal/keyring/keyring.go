// Package keyring stores named Ed25519 keypairs on disk. Keys act as
// invocation signers and identity authorities; their public keys double
// as ledger addresses.
package keyring

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/heliolabs/heliograph/pkg/addr"
)

const DefaultName = "default"

var (
	ErrNotFound      = errors.New("key not found")
	ErrAlreadyExists = errors.New("key already exists")
)

// Keyring is a directory of seed files, one per named key.
type Keyring struct {
	dir string
}

// Key is a loaded keypair with its ledger address.
type Key struct {
	Name    string
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
	Address addr.Address
}

// Seed returns the private key seed, the part keywrap needs to open
// wrapped keys.
func (k *Key) Seed() []byte {
	return k.Private.Seed()
}

func New(dir string) *Keyring {
	return &Keyring{dir: dir}
}

func (kr *Keyring) keysDir() string {
	return filepath.Join(kr.dir, "keys")
}

func (kr *Keyring) keyPath(name string) string {
	return filepath.Join(kr.keysDir(), name+".key")
}

// Generate creates and persists a new keypair under the given name.
func (kr *Keyring) Generate(name string) (*Key, error) {
	if _, err := os.Stat(kr.keyPath(name)); err == nil {
		return nil, ErrAlreadyExists
	}

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate keypair: %w", err)
	}

	if err := os.MkdirAll(kr.keysDir(), 0o700); err != nil {
		return nil, fmt.Errorf("create keys directory: %w", err)
	}
	if err := os.WriteFile(kr.keyPath(name), priv.Seed(), 0o600); err != nil {
		return nil, fmt.Errorf("write key file: %w", err)
	}

	return keyFrom(name, pub, priv), nil
}

// Load reads a named keypair from disk.
func (kr *Keyring) Load(name string) (*Key, error) {
	seed, err := os.ReadFile(kr.keyPath(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read key file: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("key file %s: bad seed length %d", name, len(seed))
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return keyFrom(name, priv.Public().(ed25519.PublicKey), priv), nil
}

// LoadOrGenerate loads a named keypair, creating it on first use.
func (kr *Keyring) LoadOrGenerate(name string) (*Key, error) {
	key, err := kr.Load(name)
	if err == nil {
		return key, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return kr.Generate(name)
}

// List returns the names of all stored keys.
func (kr *Keyring) List() ([]string, error) {
	entries, err := os.ReadDir(kr.keysDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".key") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".key"))
	}
	return names, nil
}

// Delete removes a named keypair.
func (kr *Keyring) Delete(name string) error {
	err := os.Remove(kr.keyPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrNotFound
	}
	return err
}

func keyFrom(name string, pub ed25519.PublicKey, priv ed25519.PrivateKey) *Key {
	return &Key{
		Name:    name,
		Public:  pub,
		Private: priv,
		Address: addr.FromPublicKey(pub),
	}
}
