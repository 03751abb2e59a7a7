package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings
const (
	EnvConfigPath = "PROINVOICE_CONFIG"
	EnvDBPath     = "PROINVOICE_DB_PATH"
	EnvLogLevel   = "PROINVOICE_LOG_LEVEL"
	EnvLogOutput  = "PROINVOICE_LOG_OUTPUT"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Invoice settings
	Invoice InvoiceConfig `yaml:"invoice"`

	// Log settings
	Log LogConfig `yaml:"log"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLCipher database
}

type InvoiceConfig struct {
	NumberPrefix   string  `yaml:"number_prefix"`    // Invoice number prefix, e.g. "FAC"
	DefaultDueDays int     `yaml:"default_due_days"` // Days from issue date until due
	DefaultTaxRate float64 `yaml:"default_tax_rate"` // Percentage (20 = 20%)
	OutputDir      string  `yaml:"output_dir"`       // Directory for rendered invoices and exports
	Currency       string  `yaml:"currency"`         // Symbol or code printed after amounts
}

type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // json, console
	Output string `yaml:"output"` // stdout, stderr, or file path
}

func baseDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "proinvoice")
}

// DefaultConfigPath returns $PROINVOICE_CONFIG or ~/.config/proinvoice/config.yaml
func DefaultConfigPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(baseDir(), "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	dir := baseDir()

	return &Config{
		Database: DatabaseConfig{
			Path: filepath.Join(dir, "proinvoice.db"),
		},
		Invoice: InvoiceConfig{
			NumberPrefix:   "FAC",
			DefaultDueDays: 30,
			DefaultTaxRate: 0,
			OutputDir:      filepath.Join(dir, "invoices"),
			Currency:       "FCFA",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Output: filepath.Join(dir, "proinvoice.log"),
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist.
// Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogOutput); v != "" {
		c.Log.Output = v
	}
}

// Validate rejects settings the rest of the application cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("invalid config: database.path is empty")
	}
	if strings.ContainsAny(c.Invoice.NumberPrefix, " -") {
		return fmt.Errorf("invalid config: invoice.number_prefix %q must not contain spaces or dashes", c.Invoice.NumberPrefix)
	}
	if c.Invoice.DefaultDueDays < 0 {
		return fmt.Errorf("invalid config: invoice.default_due_days cannot be negative")
	}
	if c.Invoice.DefaultTaxRate < 0 {
		return fmt.Errorf("invalid config: invoice.default_tax_rate cannot be negative")
	}
	return nil
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates all necessary directories (for database, invoices, etc.)
func (c *Config) EnsureDirectories() error {
	dbDir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dbDir, 0700); err != nil {
		return err
	}

	if err := os.MkdirAll(c.Invoice.OutputDir, 0755); err != nil {
		return err
	}

	return nil
}
