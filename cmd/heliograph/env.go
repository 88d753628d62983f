package main

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/heliolabs/heliograph/internal/config"
	"github.com/heliolabs/heliograph/internal/did"
	"github.com/heliolabs/heliograph/internal/engine"
	"github.com/heliolabs/heliograph/internal/keyring"
	"github.com/heliolabs/heliograph/internal/ledger"
	"github.com/heliolabs/heliograph/internal/ledger/physical"
	"github.com/heliolabs/heliograph/internal/observability"
	"github.com/heliolabs/heliograph/pkg/addr"

	_ "github.com/heliolabs/heliograph/internal/ledger/physical/badger"
	_ "github.com/heliolabs/heliograph/internal/ledger/physical/memory"
	_ "github.com/heliolabs/heliograph/internal/ledger/physical/redis"
	_ "github.com/heliolabs/heliograph/internal/ledger/physical/sqlite"
)

// Program namespaces. Derived from fixed tags so every invocation of the
// CLI lands on the same addresses.
var (
	engineProgram   = programAddress("heliograph/engine/v1")
	identityProgram = programAddress("heliograph/identity/v1")
)

func programAddress(tag string) addr.Address {
	return addr.Address(sha256.Sum256([]byte(tag)))
}

// funderGrant is credited to the signing key before any allocating
// command, standing in for an external faucet.
const funderGrant = 100_000_000

// env wires the full stack for one CLI invocation.
type env struct {
	cfg      *config.Config
	log      *slog.Logger
	backend  physical.Backend
	keys     *keyring.Keyring
	registry *did.Registry
	runtime  *ledger.Runtime
}

func openEnv(ctx context.Context, v *viper.Viper) (*env, error) {
	cfg, err := config.Load(v, v.GetString("config_file"))
	if err != nil {
		return nil, err
	}

	log := observability.SetupLogger(cfg.Observability.LogLevel, cfg.Observability.LogFormat, os.Stderr)

	backendCfg := make(map[string]string, len(cfg.Ledger.Config)+1)
	for k, val := range cfg.Ledger.Config {
		backendCfg[k] = val
	}
	if backendCfg["path"] == "" {
		backendCfg["path"] = filepath.Join(cfg.DataDir, "ledger")
	}
	backend, err := physical.New(ctx, cfg.Ledger.Backend, backendCfg)
	if err != nil {
		return nil, err
	}

	rent := ledger.DefaultRent
	registry := did.NewRegistry(identityProgram, backend, rent)
	metrics := observability.NewMetrics()
	proc := engine.New(registry, metrics, log)
	runtime := ledger.NewRuntime(engineProgram, backend, proc, ledger.SystemClock{}, rent, log)

	return &env{
		cfg:      cfg,
		log:      log,
		backend:  backend,
		keys:     keyring.New(cfg.DataDir),
		registry: registry,
		runtime:  runtime,
	}, nil
}

func (e *env) Close() error {
	return e.backend.Close()
}

// signingKey loads the key selected by --key, defaulting to "default".
func (e *env) signingKey(v *viper.Viper) (*keyring.Key, error) {
	name := v.GetString("key")
	if name == "" {
		name = keyring.DefaultName
	}
	return e.keys.Load(name)
}

// fundedKey loads the signing key and tops up its ledger balance so it
// can fund allocations.
func (e *env) fundedKey(ctx context.Context, v *viper.Viper) (*keyring.Key, error) {
	key, err := e.signingKey(v)
	if err != nil {
		return nil, err
	}
	if err := e.runtime.Fund(ctx, key.Address, funderGrant); err != nil {
		return nil, err
	}
	return key, nil
}
