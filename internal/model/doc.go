// Package model defines the core data structures used throughout typescore.
//
// This package contains the following main types:
//   - PackageRecord: One entry from the input package list
//   - ModuleReference: A package paired with one of its top-level modules
//   - ScoreResult: The outcome of a single checker invocation
//   - ReportRow: One line of the final score report
//   - RunSummary: Aggregate counts over a completed run
//
// The models live in their own package because several packages (pkglist,
// checker, pipeline, report, database) exchange them, and centralizing them
// prevents import cycles.
package model
