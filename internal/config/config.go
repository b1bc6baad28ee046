package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"snapkeep/internal/snap"
)

// Pair is one (source, target) directory mapping to back up.
type Pair struct {
	Source string `toml:"source"`
	Target string `toml:"target"`
}

// Config represents the main configuration for snapkeep.
type Config struct {
	LogDir      string `toml:"log_dir"`
	JournalPath string `toml:"journal_path"`

	// DryRun simulates runs without performing file operations.
	DryRun bool `toml:"dry_run"`

	// ReportSkipped logs files and directories skipped during a run.
	ReportSkipped bool `toml:"report_skipped"`

	// MaxAgeDays is the age limit for archived versions, per their label
	// timestamps. 0 keeps versions indefinitely.
	MaxAgeDays int `toml:"max_age_days"`

	// TrustedAgeDays is the minimum age before a version is trusted
	// enough to subject older versions to the max-age sweep. 0 trusts
	// every version.
	TrustedAgeDays int `toml:"trusted_age_days"`

	// ExcludedFiles and ExcludedDirs are glob patterns; patterns without
	// '/' match basenames, patterns with '/' match full paths.
	ExcludedFiles []string `toml:"excluded_files"`
	ExcludedDirs  []string `toml:"excluded_dirs"`

	Pairs []Pair `toml:"pairs"`
}

// NewConfig creates a Config with default values rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		LogDir:         filepath.Join(baseDir, "log"),
		JournalPath:    filepath.Join(baseDir, "journal.db"),
		DryRun:         true, // safe default for a first run
		MaxAgeDays:     400,
		TrustedAgeDays: 90,
		ExcludedFiles:  []string{"Thumbs.db", ".DS_Store", "~*", "*.swp"},
		ExcludedDirs:   []string{".git", "__pycache__", ".cache"},
	}
}

// Validate checks the configuration. It must pass before any filesystem
// mutation happens.
func (c *Config) Validate() error {
	if c.MaxAgeDays < 0 || c.TrustedAgeDays < 0 {
		return fmt.Errorf("retention ages must not be negative")
	}
	if c.MaxAgeDays != 0 && c.TrustedAgeDays != 0 && c.TrustedAgeDays >= c.MaxAgeDays {
		return fmt.Errorf("trusted_age_days (%d) must be less than max_age_days (%d)",
			c.TrustedAgeDays, c.MaxAgeDays)
	}
	for i, p := range c.Pairs {
		if p.Source == "" || p.Target == "" {
			return fmt.Errorf("pair %d: source and target are both required", i)
		}
	}
	return nil
}

// Policy returns the retention policy described by the day values.
func (c *Config) Policy() snap.RetentionPolicy {
	const day = 24 * time.Hour
	return snap.RetentionPolicy{
		MaxAge:     time.Duration(c.MaxAgeDays) * day,
		TrustedAge: time.Duration(c.TrustedAgeDays) * day,
	}
}

// DirPairs returns the configured pairs with absolute, cleaned paths.
func (c *Config) DirPairs() ([]snap.DirPair, error) {
	pairs := make([]snap.DirPair, 0, len(c.Pairs))
	for _, p := range c.Pairs {
		source, err := filepath.Abs(p.Source)
		if err != nil {
			return nil, fmt.Errorf("resolving source %s: %w", p.Source, err)
		}
		target, err := filepath.Abs(p.Target)
		if err != nil {
			return nil, fmt.Errorf("resolving target %s: %w", p.Target, err)
		}
		pairs = append(pairs, snap.DirPair{Source: source, Target: target})
	}
	return pairs, nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the
// provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
