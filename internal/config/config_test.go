package config

import (
	"errors"
	"testing"
	"time"
)

// TestNewConfig tests that defaults are applied.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.ScoresFile != DefaultScoresFile {
		t.Errorf("expected scores file %q, got %q", DefaultScoresFile, cfg.ScoresFile)
	}
	if cfg.Separator != DefaultSeparator {
		t.Errorf("expected separator %q, got %q", DefaultSeparator, cfg.Separator)
	}
	if cfg.Jobs != DefaultJobs {
		t.Errorf("expected jobs %d, got %d", DefaultJobs, cfg.Jobs)
	}
	if cfg.CheckTimeout != DefaultCheckTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultCheckTimeout, cfg.CheckTimeout)
	}
	if cfg.ToolPath != DefaultTool {
		t.Errorf("expected tool %q, got %q", DefaultTool, cfg.ToolPath)
	}
	if len(cfg.Skip) == 0 {
		t.Error("expected non-empty default skip list")
	}
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		cfg := NewConfig()
		cfg.PackagesFile = "packages.txt"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "valid config",
			mutate:  func(_ *Config) {},
			wantErr: nil,
		},
		{
			name:    "missing packages file",
			mutate:  func(c *Config) { c.PackagesFile = "" },
			wantErr: ErrNoPackagesFile,
		},
		{
			name:    "missing scores file",
			mutate:  func(c *Config) { c.ScoresFile = "" },
			wantErr: ErrNoScoresFile,
		},
		{
			name:    "newline separator",
			mutate:  func(c *Config) { c.Separator = '\n' },
			wantErr: ErrInvalidSeparator,
		},
		{
			name:    "quote separator",
			mutate:  func(c *Config) { c.Separator = '"' },
			wantErr: ErrInvalidSeparator,
		},
		{
			name:    "semicolon separator is fine",
			mutate:  func(c *Config) { c.Separator = ';' },
			wantErr: nil,
		},
		{
			name:    "zero jobs",
			mutate:  func(c *Config) { c.Jobs = 0 },
			wantErr: ErrInvalidJobs,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.CheckTimeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "empty tool",
			mutate:  func(c *Config) { c.ToolPath = "" },
			wantErr: ErrNoTool,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
