// Package main provides the entry point for the typescore CLI.
//
// typescore measures the typing completeness of Python packages. It reads
// a package list, resolves each package to its importable top-level
// modules, runs an external type checker against every module, and writes
// the scores as CSV.
//
// Usage:
//
//	typescore packages.csv
//	typescore packages.csv --verbose --scores out.csv
//
// See --help for all available options.
package main

// main is the entry point for typescore.
func main() {
	Execute()
}
