// Package config loads the CLI configuration from a YAML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variable overrides. Each one, when set, wins over the
// file value.
const (
	EnvSecretKey = "GRIDSTREAK_SECRET_KEY"
	EnvDatabase  = "GRIDSTREAK_DB"
	EnvRemoteURL = "GRIDSTREAK_REMOTE_URL"
	EnvUserID    = "GRIDSTREAK_USER_ID"
)

// defaultSecret keys puzzle generation when no deployment secret is
// configured. Every device sharing it sees the same daily puzzles.
const defaultSecret = "daily-puzzle-2024"

// Config is the full CLI configuration.
type Config struct {
	// SecretKey seeds daily puzzle generation. All devices that should
	// agree on the day's puzzle must share it.
	SecretKey string `yaml:"secretKey"`

	// Database is the local SQLite file path.
	Database string `yaml:"database"`

	// RemoteURL is the score service base URL. Empty disables sync.
	RemoteURL string `yaml:"remoteUrl"`

	// UserID overrides the stored profile id for sync. Empty uses the
	// local (guest or linked) profile.
	UserID string `yaml:"userId"`

	// ListenAddr is the bind address for the serve command.
	ListenAddr string `yaml:"listenAddr"`
}

// Default returns the built-in configuration.
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		SecretKey:  defaultSecret,
		Database:   filepath.Join(home, ".gridstreak", "gridstreak.db"),
		ListenAddr: ":8487",
	}
}

// Load reads the configuration at path, falling back to defaults when
// the file does not exist, then applies environment overrides. An
// explicit path that cannot be read or parsed is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// No file is fine; defaults plus environment apply.
	case err != nil:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.SecretKey == "" {
		cfg.SecretKey = defaultSecret
	}
	if cfg.Database == "" {
		cfg.Database = Default().Database
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvSecretKey); v != "" {
		cfg.SecretKey = v
	}
	if v := os.Getenv(EnvDatabase); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv(EnvRemoteURL); v != "" {
		cfg.RemoteURL = v
	}
	if v := os.Getenv(EnvUserID); v != "" {
		cfg.UserID = v
	}
}
