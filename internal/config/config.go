// Package config loads and saves the mb configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/theirongolddev/mb/internal/budget"
	"github.com/theirongolddev/mb/internal/money"

	"github.com/BurntSushi/toml"
)

// Config holds all mb configuration.
type Config struct {
	Money      MoneyConfig      `toml:"money"`
	Budgets    BudgetsConfig    `toml:"budgets"`
	Import     ImportConfig     `toml:"import"`
	Contacts   ContactsConfig   `toml:"contacts"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// MoneyConfig locates the transaction files.
type MoneyConfig struct {
	Path     string `toml:"path"`
	Currency string `toml:"currency"`
	NoCache  bool   `toml:"no_cache,omitempty"`
}

// BudgetsConfig holds the allocation settings.
type BudgetsConfig struct {
	Unallocated string         `toml:"unallocated"`
	Targets     []TargetConfig `toml:"targets,omitempty"`
}

// TargetConfig is one budget target. Monthly accepts "100.00" or an integer
// count of cents.
type TargetConfig struct {
	Name    string       `toml:"name"`
	Monthly money.Amount `toml:"monthly"`
}

// ImportConfig holds defaults for CSV import.
type ImportConfig struct {
	Account string `toml:"account"`
}

// ContactsConfig locates the contact files.
type ContactsConfig struct {
	Path string `toml:"path"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Money: MoneyConfig{
			Path:     "money",
			Currency: "EUR",
		},
		Budgets: BudgetsConfig{
			Unallocated: "Unallocated",
		},
		Import: ImportConfig{
			Account: "Giro",
		},
		Contacts: ContactsConfig{
			Path: "contacts",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mb")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mb")
}

// Path returns the full path to the config file. MB_CONFIG overrides it.
func Path() string {
	if p := os.Getenv("MB_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path. Keys mb does not know are an error,
// so that typos don't silently fall back to defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("parsing config: invalid keys: %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path, creating its directory.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// Allocation converts the budget section into the engine's configuration.
func (c Config) Allocation() budget.Config {
	targets := make([]budget.Target, len(c.Budgets.Targets))
	for i, t := range c.Budgets.Targets {
		targets[i] = budget.Target{Name: t.Name, Monthly: t.Monthly}
	}
	return budget.Config{
		Unallocated: c.Budgets.Unallocated,
		Targets:     targets,
	}
}

// MoneyDir resolves the transaction directory. Relative paths are taken
// relative to the config file's directory.
func (c Config) MoneyDir() string {
	return resolve(c.Money.Path)
}

// ContactsDir resolves the contacts directory like MoneyDir.
func (c Config) ContactsDir() string {
	return resolve(c.Contacts.Path)
}

// CachePath returns the location of the SQLite transaction cache.
func CachePath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "mb", "transactions.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "mb", "transactions.db")
}

func resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	return filepath.Join(filepath.Dir(Path()), p)
}
