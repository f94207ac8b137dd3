package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"unicode/utf8"

	"github.com/nao1215/typescore/internal/checker"
	"github.com/nao1215/typescore/internal/config"
	"github.com/nao1215/typescore/internal/database"
	"github.com/nao1215/typescore/internal/model"
	"github.com/nao1215/typescore/internal/pipeline"
	"github.com/nao1215/typescore/internal/pkglist"
	"github.com/nao1215/typescore/internal/pyenv"
	"github.com/nao1215/typescore/internal/report"
	"github.com/nao1215/typescore/internal/resolver"
	"github.com/spf13/cobra"
)

// runScoreCmd executes the scoring run of the root command.
func runScoreCmd(cmd *cobra.Command, args []string) error {
	// Build config from the config file and flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScore(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the config file and cobra command flags.
// The config file is applied first; explicitly set flags win over it.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load settings from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cf.Apply(cfg); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.ScoresFile, err = cmd.Flags().GetString("scores")
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("sep") {
		sep, err := cmd.Flags().GetString("sep")
		if err != nil {
			return nil, err
		}
		r, size := utf8.DecodeRuneInString(sep)
		if size != len(sep) || r == utf8.RuneError {
			return nil, fmt.Errorf("%w: %q", config.ErrInvalidSeparator, sep)
		}
		cfg.Separator = r
	}

	if cmd.Flags().Changed("jobs") {
		cfg.Jobs, err = cmd.Flags().GetInt("jobs")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("timeout") {
		cfg.CheckTimeout, err = cmd.Flags().GetDuration("timeout")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("tool") {
		cfg.ToolPath, err = cmd.Flags().GetString("tool")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("python") {
		cfg.Python, err = cmd.Flags().GetString("python")
		if err != nil {
			return nil, err
		}
	}

	if cmd.Flags().Changed("site-packages") {
		cfg.SitePackages, err = cmd.Flags().GetString("site-packages")
		if err != nil {
			return nil, err
		}
	}

	cfg.Install, err = cmd.Flags().GetBool("install")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownFile, err = cmd.Flags().GetString("markdown")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noSave
	cfg.DBDir = config.XDGDataDir()

	cfg.Verbose = getVerboseFlag(cmd)

	// Positional argument is the package list
	if len(args) > 0 {
		cfg.PackagesFile = args[0]
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler)
}

// runScore executes the scoring run.
func runScore(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting scoring run",
		"packagesFile", cfg.PackagesFile,
		"scoresFile", cfg.ScoresFile,
		"jobs", cfg.Jobs,
		"install", cfg.Install,
		"saveToDB", cfg.SaveToDB,
	)

	// Read the package list up front so a bad input fails fast
	records, err := pkglist.NewReader(cfg.Separator).Read(cfg.PackagesFile)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no packages listed in %s", cfg.PackagesFile)
	}

	// Create the output file before any scoring so an unwritable
	// destination does not discard a completed run's work
	output, err := report.CreateFile(cfg.ScoresFile)
	if err != nil {
		return err
	}
	defer output.Close()

	// Python environment for site-packages discovery and pip operations
	env := pyenv.New(cfg.Python,
		pyenv.WithSkip(cfg.Skip),
		pyenv.WithLogger(logger),
	)

	siteDir := cfg.SitePackages
	if siteDir == "" {
		siteDir, err = env.SitePackages(ctx)
		if err != nil {
			return fmt.Errorf("failed to locate site-packages: %w", err)
		}
	}
	logger.Debug("using site-packages", "dir", siteDir)

	res := resolver.NewDist(siteDir)
	chk := checker.NewPyright(cfg.ToolPath,
		checker.WithTimeout(cfg.CheckTimeout),
		checker.WithSiteDir(siteDir),
		checker.WithLogger(logger),
	)

	opts := []pipeline.Option{
		pipeline.WithJobs(cfg.Jobs),
		pipeline.WithVerbose(cfg.Verbose),
		pipeline.WithLogger(logger),
	}
	if cfg.Verbose {
		opts = append(opts, pipeline.WithMetadata(func(pkg string) (string, string) {
			m := res.Metadata(pkg)
			return m.Version, m.Summary
		}))
	}
	if cfg.Install {
		opts = append(opts, pipeline.WithInstaller(env))
	}

	rows, aggErr := pipeline.New(res, chk, opts...).Aggregate(ctx, records)

	// Write whatever was produced, even when the run was cancelled
	csv := report.NewCSVWriter(output,
		report.WithSeparator(cfg.Separator),
		report.WithVerbose(cfg.Verbose),
	)
	if _, err := csv.Write(rows); err != nil {
		return err
	}

	if aggErr != nil {
		return aggErr
	}

	if cfg.MarkdownFile != "" {
		if err := writeMarkdownReport(cfg.MarkdownFile, rows); err != nil {
			return err
		}
	}

	if cfg.SaveToDB {
		saveRun(ctx, cfg, rows, logger)
	}

	summary := model.NewRunSummary(rows)
	fmt.Printf("Scored %d modules across %d packages (%d failures, average score %.2f)\n",
		summary.Modules, summary.Packages, summary.Failures, summary.AverageScore)
	fmt.Printf("Report written to %s\n", cfg.ScoresFile)

	return nil
}

// writeMarkdownReport writes the optional Markdown summary report.
func writeMarkdownReport(path string, rows []model.ReportRow) error {
	out, err := report.CreateFile(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := report.NewMarkdownWriter(out).Write(rows); err != nil {
		return err
	}
	return nil
}

// saveRun records the run in the history database. A history failure must
// not fail a completed scoring run, so problems are logged and swallowed.
func saveRun(ctx context.Context, cfg *config.Config, rows []model.ReportRow, logger *slog.Logger) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Warn("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, cfg.PackagesFile, cfg.Verbose, rows)
	if err != nil {
		logger.Warn("failed to save run history", "error", err)
		return
	}
	logger.Info("run saved to history", "runID", runID)
}
