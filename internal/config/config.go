// Package config provides the heliograph configuration surface: file,
// environment, and flag layering via viper.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Config is the full heliograph node configuration.
type Config struct {
	DataDir       string              `mapstructure:"data_dir"`
	Ledger        BackendConfig       `mapstructure:"ledger"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// BackendConfig selects a physical ledger backend and its options.
type BackendConfig struct {
	Backend string            `mapstructure:"backend"`
	Config  map[string]string `mapstructure:"config"`
}

// ObservabilityConfig holds logging and metrics settings.
type ObservabilityConfig struct {
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// DefaultDataDir returns the default data directory (~/.heliograph).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".heliograph"
	}
	return filepath.Join(home, ".heliograph")
}

// SetDefaults configures standard defaults on a viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("ledger.backend", "badger")
	v.SetDefault("observability.log_level", "info")
	v.SetDefault("observability.log_format", "text")
	v.SetDefault("observability.metrics_addr", "")
}

// BindFlags binds standard CLI flags to viper.
func BindFlags(cmd *cobra.Command, v *viper.Viper) {
	f := cmd.PersistentFlags()

	f.String("data-dir", "", "data directory (default ~/.heliograph)")
	f.String("ledger", "", "ledger backend (memory, badger, sqlite, redis)")
	f.String("log-level", "", "log level (debug, info, warn, error)")
	f.String("log-format", "", "log format (json, text)")

	_ = v.BindPFlag("data_dir", f.Lookup("data-dir"))
	_ = v.BindPFlag("ledger.backend", f.Lookup("ledger"))
	_ = v.BindPFlag("observability.log_level", f.Lookup("log-level"))
	_ = v.BindPFlag("observability.log_format", f.Lookup("log-format"))
}

// Load reads configuration from flags, env, and file and unmarshals it.
// Environment variables use the HELIOGRAPH_ prefix. A missing config
// file is only an error when one was named explicitly.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix("HELIOGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultDataDir())
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && configFile != "" {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}
	return &cfg, nil
}
