package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleConfig = `
log_dir = "/var/log/snapkeep"
journal_path = "/var/lib/snapkeep/journal.db"
dry_run = false
report_skipped = true
max_age_days = 200
trusted_age_days = 30
excluded_files = ["*.swp"]
excluded_dirs = [".git"]

[[pairs]]
source = "/home/u/docs"
target = "/backup/docs"

[[pairs]]
source = "/home/u/photos"
target = "/backup/photos"
`

func TestManagerRead(t *testing.T) {
	m := &Manager{}
	cfg, err := m.Read(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if cfg.LogDir != "/var/log/snapkeep" {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.DryRun {
		t.Error("DryRun = true, want false")
	}
	if !cfg.ReportSkipped {
		t.Error("ReportSkipped = false, want true")
	}
	if cfg.MaxAgeDays != 200 || cfg.TrustedAgeDays != 30 {
		t.Errorf("retention = %d/%d, want 200/30", cfg.MaxAgeDays, cfg.TrustedAgeDays)
	}
	if len(cfg.Pairs) != 2 {
		t.Fatalf("Pairs = %v, want 2 entries", cfg.Pairs)
	}
	if cfg.Pairs[0].Source != "/home/u/docs" || cfg.Pairs[0].Target != "/backup/docs" {
		t.Errorf("Pairs[0] = %+v", cfg.Pairs[0])
	}
}

func TestManagerWriteReadRoundTrip(t *testing.T) {
	m := &Manager{}
	original := NewConfig("/data/snapkeep")
	original.Pairs = []Pair{{Source: "/src", Target: "/dst"}}

	var buf bytes.Buffer
	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.LogDir != original.LogDir || got.JournalPath != original.JournalPath {
		t.Errorf("paths did not round-trip: %+v", got)
	}
	if got.DryRun != original.DryRun || got.MaxAgeDays != original.MaxAgeDays {
		t.Errorf("settings did not round-trip: %+v", got)
	}
	if len(got.Pairs) != 1 || got.Pairs[0] != original.Pairs[0] {
		t.Errorf("pairs did not round-trip: %+v", got.Pairs)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative max age", func(c *Config) { c.MaxAgeDays = -1 }, true},
		{"negative trusted age", func(c *Config) { c.TrustedAgeDays = -1 }, true},
		{"trusted above max", func(c *Config) { c.MaxAgeDays = 30; c.TrustedAgeDays = 90 }, true},
		{"pruning disabled ignores trusted age", func(c *Config) { c.MaxAgeDays = 0; c.TrustedAgeDays = 90 }, false},
		{"pair missing target", func(c *Config) { c.Pairs = []Pair{{Source: "/src"}} }, true},
		{"pair missing source", func(c *Config) { c.Pairs = []Pair{{Target: "/dst"}} }, true},
		{"complete pair", func(c *Config) { c.Pairs = []Pair{{Source: "/src", Target: "/dst"}} }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewConfig("/data")
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfigPolicy(t *testing.T) {
	cfg := NewConfig("/data")
	cfg.MaxAgeDays = 400
	cfg.TrustedAgeDays = 90

	p := cfg.Policy()
	if want := 400 * 24 * time.Hour; p.MaxAge != want {
		t.Errorf("MaxAge = %v, want %v", p.MaxAge, want)
	}
	if want := 90 * 24 * time.Hour; p.TrustedAge != want {
		t.Errorf("TrustedAge = %v, want %v", p.TrustedAge, want)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("derived policy invalid: %v", err)
	}
}

func TestConfigDirPairs(t *testing.T) {
	cfg := NewConfig("/data")
	cfg.Pairs = []Pair{{Source: "/src/docs", Target: "/backup/docs"}}

	pairs, err := cfg.DirPairs()
	if err != nil {
		t.Fatalf("DirPairs() error = %v", err)
	}
	if len(pairs) != 1 {
		t.Fatalf("DirPairs() = %v", pairs)
	}
	if !filepath.IsAbs(pairs[0].Source) || !filepath.IsAbs(pairs[0].Target) {
		t.Errorf("DirPairs() returned relative paths: %+v", pairs[0])
	}
}

func TestInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf", "snapkeep.toml")
	cfg := NewConfig(dir)

	if err := Init(path, cfg); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	got, err := ReadFromFile(path)
	if err != nil {
		t.Fatalf("ReadFromFile() error = %v", err)
	}
	if !got.DryRun {
		t.Error("initialized config must default to dry_run = true")
	}

	// A second init must not overwrite.
	if err := Init(path, cfg); err == nil {
		t.Fatal("Init() overwrote an existing config")
	}
}

func TestReadFromFileMissing(t *testing.T) {
	if _, err := ReadFromFile(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("ReadFromFile() succeeded on a missing file")
	}
}
