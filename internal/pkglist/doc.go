// Package pkglist reads the input package list into ordered records.
//
// The input is line-oriented UTF-8 text. A line without the configured
// separator is a bare package name; a line containing the separator is
// parsed as CSV, with the first field as the package name and the
// remaining fields carried through as extra columns. Blank lines are
// skipped. Package-name syntax is not validated here; unknown names
// surface later as resolution failures.
package pkglist
