// Package database provides SQLite-based storage for run history.
//
// Every completed scoring run can be saved with its rows, which is what
// the compare command diffs against. This is history, not a cache: runs
// never read previous results to skip work, every package is re-scored
// every time.
package database
