package model

import "strconv"

// ScoreResult is the outcome of a single checker invocation against one
// top-level module.
//
// Invariant: Succeeded == false implies Score == 0. Checker errors,
// timeouts, and malformed tool output all degrade into this state rather
// than propagate; use NewFailedScore to construct failures so the
// invariant holds.
type ScoreResult struct {
	// ModuleName is the module the checker was invoked against.
	ModuleName string `json:"module_name"`

	// Score is the typing completeness fraction in [0.0, 1.0].
	// Always 0 when Succeeded is false.
	Score float64 `json:"score"`

	// Succeeded reports whether the checker ran and produced a usable
	// completeness value.
	Succeeded bool `json:"succeeded"`

	// FailureReason is a short human-readable explanation when
	// Succeeded is false. Empty on success.
	FailureReason string `json:"failure_reason,omitempty"`
}

// NewFailedScore returns a zero-valued failure result for module with the
// given reason.
func NewFailedScore(module, reason string) ScoreResult {
	return ScoreResult{
		ModuleName:    module,
		Score:         0,
		Succeeded:     false,
		FailureReason: reason,
	}
}

// ReportRow is one line of the final score report. One row is produced per
// resolved module, so a package shipping two top-level modules yields two
// rows, both carrying the same package-level fields and extra columns.
// A package that could not be resolved yields exactly one row with an
// empty ModuleName and a zero score.
type ReportRow struct {
	// PackageName is the distribution name from the input list.
	PackageName string `json:"package_name"`

	// Version is the installed distribution version. Only emitted in
	// verbose reports; may be empty when metadata is unavailable.
	Version string `json:"version,omitempty"`

	// ModuleName is the scored top-level module. Empty is the sentinel
	// for "package could not be resolved".
	ModuleName string `json:"module_name"`

	// Score is the typing completeness fraction in [0.0, 1.0].
	Score float64 `json:"score"`

	// Description is the distribution summary line. Only emitted in
	// verbose reports.
	Description string `json:"description,omitempty"`

	// Extra holds the pass-through columns from the input record.
	Extra []string `json:"extra,omitempty"`

	// Succeeded distinguishes a measured zero from "could not be scored".
	// It is not a report column; it feeds the run summary and the
	// history database.
	Succeeded bool `json:"succeeded"`
}

// ScoreString formats the score as a fraction with two decimal places
// (0.95, 0.10, 0.00). Every output mode uses this same formatting.
func (r ReportRow) ScoreString() string {
	return strconv.FormatFloat(r.Score, 'f', 2, 64)
}

// RunSummary holds aggregate counts over a completed run.
type RunSummary struct {
	// Packages is the number of distinct input packages.
	Packages int `json:"packages"`

	// Modules is the number of report rows with a resolved module.
	Modules int `json:"modules"`

	// Failures is the number of rows that could not be scored,
	// including unresolvable packages.
	Failures int `json:"failures"`

	// AverageScore is the mean score across successfully scored modules,
	// or 0 when nothing was scored.
	AverageScore float64 `json:"average_score"`
}

// NewRunSummary computes a RunSummary from report rows.
func NewRunSummary(rows []ReportRow) RunSummary {
	var s RunSummary
	seen := make(map[string]bool, len(rows))
	var total float64
	var scored int
	for _, row := range rows {
		if !seen[row.PackageName] {
			seen[row.PackageName] = true
			s.Packages++
		}
		if row.ModuleName != "" {
			s.Modules++
		}
		if row.Succeeded {
			total += row.Score
			scored++
		} else {
			s.Failures++
		}
	}
	if scored > 0 {
		s.AverageScore = total / float64(scored)
	}
	return s
}
