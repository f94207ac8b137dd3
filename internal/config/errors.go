package config

import "errors"

// Configuration validation errors returned by Config.Validate().
// Package-level sentinel errors let callers use errors.Is() for
// programmatic handling while still carrying a human-readable message.
var (
	// ErrNoPackagesFile is returned when no input package list is given.
	ErrNoPackagesFile = errors.New("no packages file specified: provide the package list path as an argument")

	// ErrNoScoresFile is returned when the scores output path is empty.
	ErrNoScoresFile = errors.New("no scores file specified: --scores must not be empty")

	// ErrInvalidSeparator is returned when the separator cannot frame CSV
	// records (newline or double quote).
	ErrInvalidSeparator = errors.New("invalid separator: must be a single character other than newline or quote")

	// ErrInvalidJobs is returned when the job count is not positive.
	ErrInvalidJobs = errors.New("invalid jobs: must be positive")

	// ErrInvalidTimeout is returned when the checker timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrNoTool is returned when the type checker executable is empty.
	ErrNoTool = errors.New("no checker tool specified: --tool must not be empty")
)
