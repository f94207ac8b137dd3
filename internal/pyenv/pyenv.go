package pyenv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/nao1215/typescore/internal/resolver"
)

// ErrNoSitePackages is returned when the interpreter does not report a
// usable site-packages location.
var ErrNoSitePackages = errors.New("could not determine site-packages directory")

// Env drives a Python environment through its interpreter.
type Env struct {
	// python is the interpreter executable.
	python string

	// skip holds normalized names of packages that must never be
	// installed or uninstalled.
	skip map[string]bool

	// logger is used for pip diagnostics.
	logger *slog.Logger
}

// Option configures an Env.
type Option func(*Env)

// WithSkip sets the protected package list. Names are matched after
// PEP 503 normalization, so "Flit_Core" and "flit-core" are the same entry.
func WithSkip(packages []string) Option {
	return func(e *Env) {
		for _, pkg := range packages {
			e.skip[resolver.NormalizeName(pkg)] = true
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Env) {
		e.logger = logger
	}
}

// New creates an Env for the given Python interpreter.
func New(python string, opts ...Option) *Env {
	e := &Env{
		python: python,
		skip:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// SitePackages asks the interpreter for its purelib directory, which is
// where pip installs packages in a virtualenv.
func (e *Env) SitePackages(ctx context.Context) (string, error) {
	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, e.python, "-c",
		"import sysconfig; print(sysconfig.get_paths()['purelib'])") //nolint:gosec // Interpreter is operator-configured
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoSitePackages, err)
	}
	dir := strings.TrimSpace(stdout.String())
	if dir == "" {
		return "", ErrNoSitePackages
	}
	return dir, nil
}

// Install runs pip install for pkg and waits for completion. Packages on
// the skip list are silently left alone. The --require-virtualenv guard
// refuses to mutate a system-wide Python installation.
func (e *Env) Install(ctx context.Context, pkg string) error {
	if e.skip[resolver.NormalizeName(pkg)] {
		e.logger.Debug("skipping install of protected package", "package", pkg)
		return nil
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.python, "-m", "pip", "install", pkg, "--require-virtualenv", "--quiet") //nolint:gosec // Interpreter is operator-configured
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pip install %s: %v: %s", pkg, err, firstLine(stderr.String()))
	}
	return nil
}

// Uninstall runs pip uninstall for pkg. Protected packages and stub-only
// distributions are left installed.
func (e *Env) Uninstall(ctx context.Context, pkg string) error {
	if e.skip[resolver.NormalizeName(pkg)] || strings.HasSuffix(pkg, "-stubs") {
		e.logger.Debug("skipping uninstall of protected package", "package", pkg)
		return nil
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.python, "-m", "pip", "uninstall", "-y", pkg, "--quiet") //nolint:gosec // Interpreter is operator-configured
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pip uninstall %s: %v: %s", pkg, err, firstLine(stderr.String()))
	}
	return nil
}

// firstLine trims output to its first line for compact error messages.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
