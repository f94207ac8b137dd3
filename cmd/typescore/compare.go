package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nao1215/typescore/internal/config"
	"github.com/nao1215/typescore/internal/database"
	"github.com/nao1215/typescore/internal/model"
	"github.com/spf13/cobra"
)

// Constants for score change direction.
const (
	scoreDirectionImproved  = "improved"
	scoreDirectionWorsened  = "worsened"
	scoreDirectionUnchanged = "unchanged"
)

// NewCompareCmd creates the compare command.
// This command compares scoring runs stored in the history database.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the latest scoring run with a previous one",
		Long: `Compare displays per-module score differences between two scoring runs.

By default the two most recent runs in the history database are compared.
The comparison shows which modules improved, which worsened, and which
packages appeared in or disappeared from the input list.

Examples:
  # Compare the two most recent runs
  typescore compare

  # List stored runs with their IDs
  typescore compare --list

  # Compare the latest run with a specific run by ID
  typescore compare --with-run-id 3

  # Output comparison in JSON format
  typescore compare --json`,
		Args: cobra.NoArgs,
		RunE: runCompareCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List stored scoring runs")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare the latest run with a specific run by ID (use --list to see available IDs)")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")

	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")

	return cmd
}

// runCompareCmd executes the compare command.
func runCompareCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Never create the database here; no history means nothing to compare
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(dbDir, opts)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	listRuns, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}
	if listRuns {
		return listRunHistory(ctx, cmd, db)
	}

	withRunID, err := cmd.Flags().GetInt64("with-run-id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	return runComparison(ctx, cmd, db, withRunID, jsonOutput)
}

// listRunHistory lists all stored scoring runs.
func listRunHistory(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB) error {
	runs, err := db.ListRuns(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No scoring runs found in the history database.")
		fmt.Fprintln(out, "\nRun 'typescore <packages-file>' to score packages and save a run.")
		return nil
	}

	fmt.Fprintf(out, "Scoring runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-8s  %s\n", "ID", "Date", "Packages", "Input")
	for _, run := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-8d  %s\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Packages,
			run.PackagesFile,
		)
	}
	fmt.Fprintln(out, "\nUse 'typescore compare --with-run-id <id>' to compare the latest run with a specific one.")

	return nil
}

// ComparisonResult holds the result of comparing two scoring runs.
type ComparisonResult struct {
	// BaseRun contains metadata about the older run.
	BaseRun RunMetadata `json:"base_run"`

	// TargetRun contains metadata about the newer run.
	TargetRun RunMetadata `json:"target_run"`

	// Improved lists modules whose score went up.
	Improved []ScoreChange `json:"improved,omitempty"`

	// Worsened lists modules whose score went down.
	Worsened []ScoreChange `json:"worsened,omitempty"`

	// Added lists modules present only in the newer run.
	Added []ScoreChange `json:"added,omitempty"`

	// Removed lists modules present only in the older run.
	Removed []ScoreChange `json:"removed,omitempty"`

	// UnchangedCount is the number of modules with identical scores.
	UnchangedCount int `json:"unchanged_count"`

	// Direction summarizes the overall change in average score.
	Direction string `json:"direction"`
}

// RunMetadata contains metadata about a run for comparison display.
type RunMetadata struct {
	// ID is the run's database ID.
	ID int64 `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// AverageScore is the mean score across scored modules.
	AverageScore float64 `json:"average_score"`

	// Modules is the number of scored modules in the run.
	Modules int `json:"modules"`
}

// ScoreChange describes one module's score movement between two runs.
type ScoreChange struct {
	// Package is the distribution name.
	Package string `json:"package"`

	// Module is the scored top-level module.
	Module string `json:"module"`

	// Before is the score in the older run.
	Before float64 `json:"before"`

	// After is the score in the newer run.
	After float64 `json:"after"`
}

// runComparison loads the two runs and prints their differences.
func runComparison(ctx context.Context, cmd *cobra.Command, db *database.HistoryDB, withRunID int64, jsonOutput bool) error {
	runs, err := db.ListRuns(ctx, 2)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		return errors.New("no scoring runs found in the history database")
	}

	target := runs[0]
	var base database.Run

	if withRunID > 0 {
		if withRunID == target.ID {
			return fmt.Errorf("run %d is the latest run; pick an earlier one to compare against", withRunID)
		}
		all, err := db.ListRuns(ctx, 0)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
		found := false
		for _, run := range all {
			if run.ID == withRunID {
				base = run
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("run with ID %d not found (use --list to see available IDs)", withRunID)
		}
	} else {
		if len(runs) < 2 {
			return fmt.Errorf("at least 2 runs are required for comparison (found %d)", len(runs))
		}
		base = runs[1]
	}

	baseRows, err := db.RunScores(ctx, base.ID)
	if err != nil {
		return fmt.Errorf("failed to load scores for run %d: %w", base.ID, err)
	}
	targetRows, err := db.RunScores(ctx, target.ID)
	if err != nil {
		return fmt.Errorf("failed to load scores for run %d: %w", target.ID, err)
	}

	result := compareRuns(base, target, baseRows, targetRows)

	if jsonOutput {
		return outputComparisonJSON(cmd, result)
	}
	return outputComparisonText(cmd, result)
}

// rowKey identifies a scored module across runs.
type rowKey struct {
	pkg    string
	module string
}

// compareRuns diffs two runs' score rows.
func compareRuns(base, target database.Run, baseRows, targetRows []model.ReportRow) *ComparisonResult {
	result := &ComparisonResult{
		BaseRun:   runMetadata(base, baseRows),
		TargetRun: runMetadata(target, targetRows),
	}

	baseByKey := make(map[rowKey]model.ReportRow, len(baseRows))
	for _, row := range baseRows {
		baseByKey[rowKey{row.PackageName, row.ModuleName}] = row
	}

	for _, row := range targetRows {
		key := rowKey{row.PackageName, row.ModuleName}
		prev, ok := baseByKey[key]
		if !ok {
			result.Added = append(result.Added, ScoreChange{
				Package: row.PackageName,
				Module:  row.ModuleName,
				After:   row.Score,
			})
			continue
		}
		delete(baseByKey, key)

		change := ScoreChange{
			Package: row.PackageName,
			Module:  row.ModuleName,
			Before:  prev.Score,
			After:   row.Score,
		}
		switch {
		case row.Score > prev.Score:
			result.Improved = append(result.Improved, change)
		case row.Score < prev.Score:
			result.Worsened = append(result.Worsened, change)
		default:
			result.UnchangedCount++
		}
	}

	// Whatever is left in the map was only in the older run
	for key, row := range baseByKey {
		result.Removed = append(result.Removed, ScoreChange{
			Package: key.pkg,
			Module:  key.module,
			Before:  row.Score,
		})
	}
	sortChanges(result.Improved)
	sortChanges(result.Worsened)
	sortChanges(result.Added)
	sortChanges(result.Removed)

	switch {
	case result.TargetRun.AverageScore > result.BaseRun.AverageScore:
		result.Direction = scoreDirectionImproved
	case result.TargetRun.AverageScore < result.BaseRun.AverageScore:
		result.Direction = scoreDirectionWorsened
	default:
		result.Direction = scoreDirectionUnchanged
	}

	return result
}

// runMetadata builds display metadata for one run.
func runMetadata(run database.Run, rows []model.ReportRow) RunMetadata {
	summary := model.NewRunSummary(rows)
	return RunMetadata{
		ID:           run.ID,
		StartedAt:    run.StartedAt,
		AverageScore: summary.AverageScore,
		Modules:      summary.Modules,
	}
}

// sortChanges orders changes by package then module for stable output.
func sortChanges(changes []ScoreChange) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Package != changes[j].Package {
			return changes[i].Package < changes[j].Package
		}
		return changes[i].Module < changes[j].Module
	})
}

// outputComparisonJSON prints the comparison result as JSON.
func outputComparisonJSON(cmd *cobra.Command, result *ComparisonResult) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputComparisonText prints the comparison result in human-readable form.
func outputComparisonText(cmd *cobra.Command, result *ComparisonResult) error {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Comparing run %d (%s) with run %d (%s)\n\n",
		result.BaseRun.ID, result.BaseRun.StartedAt.Format("2006-01-02 15:04:05"),
		result.TargetRun.ID, result.TargetRun.StartedAt.Format("2006-01-02 15:04:05"),
	)
	fmt.Fprintf(out, "Average score: %.2f -> %.2f (%s)\n",
		result.BaseRun.AverageScore, result.TargetRun.AverageScore, result.Direction)

	if len(result.Improved) > 0 {
		fmt.Fprintf(out, "\nImproved (%d):\n", len(result.Improved))
		for _, c := range result.Improved {
			fmt.Fprintf(out, "  %s/%s: %.2f -> %.2f\n", c.Package, c.Module, c.Before, c.After)
		}
	}
	if len(result.Worsened) > 0 {
		fmt.Fprintf(out, "\nWorsened (%d):\n", len(result.Worsened))
		for _, c := range result.Worsened {
			fmt.Fprintf(out, "  %s/%s: %.2f -> %.2f\n", c.Package, c.Module, c.Before, c.After)
		}
	}
	if len(result.Added) > 0 {
		fmt.Fprintf(out, "\nAdded (%d):\n", len(result.Added))
		for _, c := range result.Added {
			fmt.Fprintf(out, "  %s/%s: %.2f\n", c.Package, c.Module, c.After)
		}
	}
	if len(result.Removed) > 0 {
		fmt.Fprintf(out, "\nRemoved (%d):\n", len(result.Removed))
		for _, c := range result.Removed {
			fmt.Fprintf(out, "  %s/%s: was %.2f\n", c.Package, c.Module, c.Before)
		}
	}

	fmt.Fprintf(out, "\nUnchanged: %d modules\n", result.UnchangedCount)

	return nil
}
