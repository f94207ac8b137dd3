package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".typescore"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File is the on-disk YAML configuration. All fields are optional;
// zero values leave the corresponding Config default untouched.
type File struct {
	// Separator overrides the column separator (a single character).
	Separator string `yaml:"separator"`

	// Jobs overrides the number of concurrent checker invocations.
	Jobs int `yaml:"jobs"`

	// Timeout overrides the per-invocation checker timeout,
	// in time.ParseDuration syntax (e.g. "2m30s").
	Timeout string `yaml:"timeout"`

	// Tool overrides the type checker executable.
	Tool string `yaml:"tool"`

	// Python overrides the Python interpreter.
	Python string `yaml:"python"`

	// SitePackages pins the site-packages directory instead of asking
	// the interpreter.
	SitePackages string `yaml:"site_packages"`

	// Skip extends the built-in list of packages that must never be
	// installed or uninstalled.
	Skip []string `yaml:"skip"`
}

// LoadConfigFile loads a configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound; callers decide
// whether that matters based on whether the path was explicitly given.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .typescore in the current directory
// 3. Look for .typescore in the user's home directory
//
// Returns the path if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, DefaultConfigFile)
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	return ""
}

// Apply copies the file's non-zero settings onto c. CLI flags are applied
// after this, so explicit flags win over the config file.
func (f *File) Apply(c *Config) error {
	if f.Separator != "" {
		r, size := utf8.DecodeRuneInString(f.Separator)
		if size != len(f.Separator) || r == utf8.RuneError {
			return fmt.Errorf("%w: %q", ErrInvalidSeparator, f.Separator)
		}
		c.Separator = r
	}
	if f.Jobs > 0 {
		c.Jobs = f.Jobs
	}
	if f.Timeout != "" {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q in config file: %w", f.Timeout, err)
		}
		c.CheckTimeout = d
	}
	if f.Tool != "" {
		c.ToolPath = f.Tool
	}
	if f.Python != "" {
		c.Python = f.Python
	}
	if f.SitePackages != "" {
		c.SitePackages = f.SitePackages
	}
	c.Skip = append(c.Skip, f.Skip...)
	return nil
}
