// Package resolver determines the top-level importable modules provided
// by an installed Python distribution.
//
// Resolution is environment-dependent: it reads the dist-info metadata
// that pip leaves in site-packages. The Resolver interface exists so the
// rest of the application can be tested against a fixed mapping instead
// of a real Python environment.
//
// Resolution fails softly. A package that is not installed, not
// resolvable, or ships zero top-level modules yields an empty result
// rather than an error; the aggregator turns that into the zero-score
// fallback row.
package resolver
