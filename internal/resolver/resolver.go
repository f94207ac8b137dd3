package resolver

import (
	"context"
	"regexp"
	"strings"
)

// Resolver maps a package (distribution) name to its top-level importable
// module names.
type Resolver interface {
	// Resolve returns the top-level modules provided by the installed
	// distribution matching pkg, in a stable order. An empty result with
	// a nil error means the package could not be resolved; that is the
	// signal for the aggregator's zero-score fallback. A non-nil error is
	// reserved for environment-level problems and is also treated as
	// "unresolved" by callers.
	Resolve(ctx context.Context, pkg string) ([]string, error)
}

// Static is a Resolver backed by a fixed mapping. It is used in tests and
// wherever scoring should not depend on the local Python environment.
type Static struct {
	// Modules maps package names to their top-level modules.
	Modules map[string][]string
}

// Resolve returns the configured modules for pkg, or nil when absent.
func (s *Static) Resolve(_ context.Context, pkg string) ([]string, error) {
	return s.Modules[pkg], nil
}

// nameSeparators matches the character runs PEP 503 collapses.
var nameSeparators = regexp.MustCompile(`[-_.]+`)

// NormalizeName normalizes a distribution name the way package indexes do
// (PEP 503): lowercase, with runs of hyphen, underscore, and dot collapsed
// to a single hyphen.
func NormalizeName(name string) string {
	return nameSeparators.ReplaceAllString(strings.ToLower(name), "-")
}
