// Package report serializes aggregated score rows.
//
// This package contains writers for different output formats:
//   - CSVWriter: The primary score report, separator-configurable
//   - MarkdownWriter: A human-oriented summary with tables
//
// Row shape is fixed; each writer decides its own projection (the CSV
// writer adds version and description columns only in verbose mode)
// rather than varying the row structures themselves.
//
// The CSV report is header-less, matching the format of the original
// typescore tool, so its output can be concatenated across runs.
package report
