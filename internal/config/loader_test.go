package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestLoadConfigFile tests YAML configuration loading.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a full config file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".typescore")
		content := `separator: ";"
jobs: 2
timeout: 2m30s
tool: /usr/local/bin/pyright
python: python3.12
site_packages: /opt/venv/lib/python3.12/site-packages
skip:
  - mypy
  - ruff
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cf.Separator != ";" {
			t.Errorf("expected separator ;, got %q", cf.Separator)
		}
		if cf.Jobs != 2 {
			t.Errorf("expected jobs 2, got %d", cf.Jobs)
		}
		if cf.Tool != "/usr/local/bin/pyright" {
			t.Errorf("unexpected tool: %q", cf.Tool)
		}
		if len(cf.Skip) != 2 {
			t.Errorf("expected 2 skip entries, got %d", len(cf.Skip))
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml returns error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), ".typescore")
		if err := os.WriteFile(path, []byte("jobs: [not a number"), 0600); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid yaml")
		}
	})
}

// TestFileApply tests merging file settings into a Config.
func TestFileApply(t *testing.T) {
	t.Parallel()

	t.Run("overrides defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cf := &File{
			Separator: ";",
			Jobs:      8,
			Timeout:   "90s",
			Tool:      "basedpyright",
			Skip:      []string{"mypy"},
		}

		if err := cf.Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Separator != ';' {
			t.Errorf("expected separator ;, got %q", cfg.Separator)
		}
		if cfg.Jobs != 8 {
			t.Errorf("expected jobs 8, got %d", cfg.Jobs)
		}
		if cfg.CheckTimeout != 90*time.Second {
			t.Errorf("expected timeout 90s, got %v", cfg.CheckTimeout)
		}
		if cfg.ToolPath != "basedpyright" {
			t.Errorf("expected tool basedpyright, got %q", cfg.ToolPath)
		}
		if cfg.Skip[len(cfg.Skip)-1] != "mypy" {
			t.Error("expected skip list to be extended with mypy")
		}
	})

	t.Run("zero values leave defaults untouched", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := (&File{}).Apply(cfg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Separator != DefaultSeparator || cfg.Jobs != DefaultJobs {
			t.Error("expected defaults to survive an empty file")
		}
	})

	t.Run("multi-character separator is rejected", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		err := (&File{Separator: ";;"}).Apply(cfg)
		if !errors.Is(err, ErrInvalidSeparator) {
			t.Errorf("expected ErrInvalidSeparator, got %v", err)
		}
	})

	t.Run("bad timeout is rejected", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		if err := (&File{Timeout: "soon"}).Apply(cfg); err == nil {
			t.Error("expected error for unparseable timeout")
		}
	})
}

// TestFindConfigFile tests config file discovery.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(path, []byte("jobs: 1\n"), 0600); err != nil {
			t.Fatal(err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml")); got != "" {
			t.Errorf("expected empty path, got %q", got)
		}
	})
}
