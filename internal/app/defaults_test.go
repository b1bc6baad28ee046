package app

import (
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SNAPKEEP_CONFIG_PATH", "/etc/snapkeep.toml")
		t.Setenv("SNAPKEEP_HOME", "/data/snapkeep")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		if defaults["config_path"] != "/etc/snapkeep.toml" {
			t.Errorf("config_path = %q", defaults["config_path"])
		}
		if defaults["base_dir"] != "/data/snapkeep" {
			t.Errorf("base_dir = %q", defaults["base_dir"])
		}
		if defaults["log_dir"] != filepath.Join("/data/snapkeep", "log") {
			t.Errorf("log_dir = %q", defaults["log_dir"])
		}
	})

	t.Run("home fallbacks", func(t *testing.T) {
		t.Setenv("SNAPKEEP_CONFIG_PATH", "")
		t.Setenv("SNAPKEEP_HOME", "")
		t.Setenv("HOME", "/home/tester")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}
		if want := filepath.Join("/home/tester", ".config", "snapkeep.toml"); defaults["config_path"] != want {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], want)
		}
		if want := filepath.Join("/home/tester", ".local", "share", "snapkeep"); defaults["base_dir"] != want {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], want)
		}
	})
}
