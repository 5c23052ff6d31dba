// Package config resolves runtime settings: defaults, then a TOML file, then
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// StoreKind selects the snapshot backend.
type StoreKind string

const (
	StoreSQLite StoreKind = "sqlite"
	StoreFile   StoreKind = "file"
)

// Config holds every setting the binary needs.
type Config struct {
	// Store picks the snapshot backend.
	Store StoreKind `toml:"store"`
	// DBPath is the SQLite database used by the sqlite store.
	DBPath string `toml:"db"`
	// SnapshotPath is the JSON file used by the file store.
	SnapshotPath string `toml:"snapshot"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // text, logfmt or json

	// NotifyDays is how far ahead `notify` looks beyond tomorrow.
	NotifyDays int `toml:"notify_days"`
	// ExpandAll shows every task in timeline views regardless of the
	// per-task expanded flag.
	ExpandAll bool `toml:"expand_all"`

	// File is the config file that was read, if any.
	File string `toml:"-"`
}

// DefaultDir is the per-user data directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskline"
	}
	return filepath.Join(home, ".taskline")
}

// DefaultConfig returns the settings used when nothing overrides them.
func DefaultConfig() Config {
	dir := DefaultDir()
	return Config{
		Store:        StoreSQLite,
		DBPath:       filepath.Join(dir, "taskline.db"),
		SnapshotPath: filepath.Join(dir, "snapshot.json"),
		LogLevel:     "warn",
		LogFormat:    "text",
		NotifyDays:   3,
	}
}

// Load layers the config file (TASKLINE_CONFIG, else ~/.taskline/config.toml)
// and the environment over the defaults. A missing default file is not an
// error; a missing explicit file is.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, explicit := os.Getenv("TASKLINE_CONFIG"), true
	if path == "" {
		path, explicit = filepath.Join(DefaultDir(), "config.toml"), false
	}
	if err := loadFile(&cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading config file %s: %w", path, err)
		}
	} else {
		cfg.File = path
	}

	loadFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	_, err := toml.DecodeFile(path, cfg)
	return err
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TASKLINE_STORE"); v != "" {
		cfg.Store = StoreKind(strings.ToLower(v))
	}
	if v := os.Getenv("TASKLINE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TASKLINE_SNAPSHOT"); v != "" {
		cfg.SnapshotPath = v
	}
	if v := os.Getenv("TASKLINE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TASKLINE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TASKLINE_NOTIFY_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.NotifyDays = n
		}
	}
	if v := os.Getenv("TASKLINE_EXPAND_ALL"); v != "" {
		cfg.ExpandAll, _ = strconv.ParseBool(v)
	}
}

// Validate rejects settings the binary cannot run with.
func (c Config) Validate() error {
	switch c.Store {
	case StoreSQLite:
		if c.DBPath == "" {
			return errors.New("config: db path is required for the sqlite store")
		}
	case StoreFile:
		if c.SnapshotPath == "" {
			return errors.New("config: snapshot path is required for the file store")
		}
	default:
		return fmt.Errorf("config: unknown store %q (expected sqlite|file)", c.Store)
	}
	switch c.LogFormat {
	case "text", "logfmt", "json":
	default:
		return fmt.Errorf("config: unknown log format %q (expected text|logfmt|json)", c.LogFormat)
	}
	if c.NotifyDays < 0 {
		return fmt.Errorf("config: notify_days must be >= 0, got %d", c.NotifyDays)
	}
	return nil
}
