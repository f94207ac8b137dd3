// Package config provides configuration structures and utilities for
// typescore. It defines the options that control package-list parsing,
// checker invocation, report generation, and run-history storage.
package config
