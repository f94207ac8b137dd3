package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These match the behavior of the original
// typescore tool where applicable.
const (
	// DefaultScoresFile is the default output path for the CSV report.
	DefaultScoresFile = "scores.csv"

	// DefaultSeparator is the column separator used for both reading the
	// package list and writing the report.
	DefaultSeparator = ','

	// DefaultJobs is the number of concurrent checker invocations.
	// The external checker is CPU-bound and spawns a Node process per
	// invocation, so a small fixed pool works better than NumCPU on
	// large machines.
	DefaultJobs = 4

	// DefaultCheckTimeout bounds a single checker invocation. Verifying a
	// large module can legitimately take minutes; expiry is converted into
	// a zero-score failure, never a hung batch.
	DefaultCheckTimeout = 5 * time.Minute

	// DefaultTool is the external type checker executable. Any tool that
	// accepts "--outputjson --verifytypes <module>" and emits the same
	// JSON completeness field is substitutable.
	DefaultTool = "pyright"

	// DefaultPython is the Python interpreter used for site-packages
	// discovery and pip install/uninstall.
	DefaultPython = "python3"

	// AppName is the application name used for XDG directory paths.
	AppName = "typescore"
)

// Config holds all configuration options for a typescore run.
// It is populated from CLI flags (optionally seeded from the config file)
// and passed through the application by dependency injection rather than
// global state.
type Config struct {
	// PackagesFile is the input list of packages to score, one per line,
	// optionally with extra CSV columns after the name.
	PackagesFile string

	// ScoresFile is the CSV report destination.
	ScoresFile string

	// Separator is the column separator for both input and output.
	Separator rune

	// Verbose enables the extended column set (version and description)
	// in the report and switches logging to slog.LevelDebug.
	Verbose bool

	// Jobs is the maximum number of packages scored concurrently.
	// Forced to 1 when Install is set, because pip mutates shared
	// site-packages state.
	Jobs int

	// CheckTimeout bounds each external checker invocation.
	CheckTimeout time.Duration

	// ToolPath is the external type checker executable.
	ToolPath string

	// Python is the Python interpreter for environment operations.
	Python string

	// Install enables pip install before scoring each package and
	// uninstall afterwards, mirroring the original tool's behavior.
	Install bool

	// SitePackages is the site-packages directory to resolve modules in.
	// When empty it is discovered by asking the Python interpreter.
	SitePackages string

	// ConfigFilePath is the path to the configuration file. If empty,
	// the tool searches for .typescore in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// MarkdownFile, when set, additionally writes a Markdown summary
	// report to this path.
	MarkdownFile string

	// SaveToDB indicates whether to record the run in the history
	// database for later comparison.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	DBDir string

	// Skip lists packages that must never be installed or uninstalled
	// because the scoring environment itself depends on them.
	Skip []string
}

// NewConfig creates a Config with default values. Many defaults are
// non-zero, so relying on zero values would be error-prone; this
// constructor also documents what the defaults are.
func NewConfig() *Config {
	return &Config{
		ScoresFile:   DefaultScoresFile,
		Separator:    DefaultSeparator,
		Jobs:         DefaultJobs,
		CheckTimeout: DefaultCheckTimeout,
		ToolPath:     DefaultTool,
		Python:       DefaultPython,
		Skip:         DefaultSkip(),
	}
}

// DefaultSkip returns the packages that are part of the scoring
// environment and must never be installed or uninstalled by a run.
func DefaultSkip() []string {
	return []string{
		"certifi",
		"charset-normalizer",
		"distutils",
		"docopt",
		"docutils",
		"flit",
		"flit_core",
		"idna",
		"importlib-metadata",
		"nodeenv",
		"pip",
		"pyright",
		"requests",
		"setuptools",
		"tomli",
		"tomli_w",
		"urllib3",
		"wheel",
		"zipp",
	}
}

// XDGDataDir returns the XDG data directory for typescore.
// On Linux: ~/.local/share/typescore
// On macOS: ~/Library/Application Support/typescore
// On Windows: %LOCALAPPDATA%\typescore
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for typescore.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid. It is called once after
// CLI parsing, before any scoring begins, and returns the first problem
// found as a sentinel error usable with errors.Is.
func (c *Config) Validate() error {
	if c.PackagesFile == "" {
		return ErrNoPackagesFile
	}
	if c.ScoresFile == "" {
		return ErrNoScoresFile
	}
	// Newline and the quote character would break CSV framing.
	if c.Separator == '\n' || c.Separator == '\r' || c.Separator == '"' {
		return ErrInvalidSeparator
	}
	if c.Jobs <= 0 {
		return ErrInvalidJobs
	}
	if c.CheckTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.ToolPath == "" {
		return ErrNoTool
	}
	return nil
}
