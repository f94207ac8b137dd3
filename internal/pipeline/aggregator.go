package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/typescore/internal/checker"
	"github.com/nao1215/typescore/internal/model"
	"github.com/nao1215/typescore/internal/resolver"
)

// Installer prepares a package in the environment before scoring and
// removes it afterwards. It is implemented by pyenv.Env; the aggregator
// only needs these two operations.
type Installer interface {
	Install(ctx context.Context, pkg string) error
	Uninstall(ctx context.Context, pkg string) error
}

// MetadataFunc reports the installed version and description for a
// package; both may be empty when metadata is unavailable. Used only for
// verbose reports.
type MetadataFunc func(pkg string) (version, description string)

// Aggregator turns ordered package records into ordered report rows.
type Aggregator struct {
	// resolver maps packages to their top-level modules.
	resolver resolver.Resolver

	// checker scores one module per invocation.
	checker checker.Checker

	// installer, when non-nil, wraps each package's scoring in a pip
	// install/uninstall pair. Install mode forces sequential execution
	// because pip mutates shared site-packages state.
	installer Installer

	// metadata supplies verbose columns; may be nil.
	metadata MetadataFunc

	// verbose enables version/description lookup per package.
	verbose bool

	// jobs is the maximum number of packages scored concurrently.
	jobs int

	// logger is used for per-package diagnostics.
	logger *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithJobs sets the maximum number of concurrently scored packages.
// Non-positive values are ignored.
func WithJobs(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.jobs = n
		}
	}
}

// WithInstaller enables install mode using the given installer.
func WithInstaller(installer Installer) Option {
	return func(a *Aggregator) {
		a.installer = installer
	}
}

// WithMetadata supplies the metadata lookup used for verbose reports.
func WithMetadata(fn MetadataFunc) Option {
	return func(a *Aggregator) {
		a.metadata = fn
	}
}

// WithVerbose enables per-package version and description lookup.
func WithVerbose(verbose bool) Option {
	return func(a *Aggregator) {
		a.verbose = verbose
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// New creates an Aggregator from a resolver and a checker.
func New(res resolver.Resolver, chk checker.Checker, opts ...Option) *Aggregator {
	a := &Aggregator{
		resolver: res,
		checker:  chk,
		jobs:     1,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// scorePackage produces the report rows for one package record: one row
// per resolved module, or a single zero-score fallback row when the
// package cannot be resolved (or installed, in install mode).
func (a *Aggregator) scorePackage(ctx context.Context, rec model.PackageRecord) []model.ReportRow {
	if a.installer != nil {
		if err := a.installer.Install(ctx, rec.Name); err != nil {
			a.logger.Warn("install failed", "package", rec.Name, "error", err)
			return []model.ReportRow{a.fallbackRow(rec)}
		}
		defer func() {
			// Cleanup proceeds even when the surrounding run is being
			// cancelled, otherwise an aborted run leaks installations.
			if err := a.installer.Uninstall(context.WithoutCancel(ctx), rec.Name); err != nil {
				a.logger.Warn("uninstall failed", "package", rec.Name, "error", err)
			}
		}()
	}

	modules, err := a.resolver.Resolve(ctx, rec.Name)
	if err != nil {
		a.logger.Warn("resolution failed", "package", rec.Name, "error", err)
		modules = nil
	}
	if len(modules) == 0 {
		a.logger.Warn("no top-level modules found", "package", rec.Name)
		return []model.ReportRow{a.fallbackRow(rec)}
	}

	var version, description string
	if a.verbose && a.metadata != nil {
		version, description = a.metadata(rec.Name)
	}

	rows := make([]model.ReportRow, 0, len(modules))
	for _, module := range modules {
		result := a.checker.Check(ctx, module)
		if !result.Succeeded {
			a.logger.Warn("scoring failed",
				"package", rec.Name,
				"module", module,
				"reason", result.FailureReason,
			)
		}

		score := result.Score
		if !result.Succeeded {
			score = 0
		}
		rows = append(rows, model.ReportRow{
			PackageName: rec.Name,
			Version:     version,
			ModuleName:  module,
			Score:       score,
			Description: description,
			Extra:       rec.Extra,
			Succeeded:   result.Succeeded,
		})
	}
	return rows
}

// fallbackRow builds the single zero-score row emitted for a package that
// could not be scored at all. The empty module name is the sentinel that
// distinguishes "unresolvable" from "measured zero".
func (a *Aggregator) fallbackRow(rec model.PackageRecord) model.ReportRow {
	return model.ReportRow{
		PackageName: rec.Name,
		ModuleName:  "",
		Score:       0,
		Extra:       rec.Extra,
		Succeeded:   false,
	}
}
