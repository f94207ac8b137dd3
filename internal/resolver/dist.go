package resolver

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
)

// Dist resolves packages against the dist-info metadata pip writes into a
// site-packages directory.
//
// Resolution order:
//  1. <dist>-<version>.dist-info/top_level.txt, one module per line.
//  2. The normalized package name itself (hyphens become underscores),
//     which is the import name for the vast majority of distributions
//     without a top_level.txt.
//
// In both cases only modules that actually exist in site-packages (as a
// package directory or a single-file module) are returned, so a stale or
// lying top_level.txt cannot send the checker after a missing module.
type Dist struct {
	// siteDir is the site-packages directory to resolve in.
	siteDir string
}

// NewDist creates a Dist resolver over the given site-packages directory.
func NewDist(siteDir string) *Dist {
	return &Dist{siteDir: siteDir}
}

// Resolve returns the installed top-level modules for pkg.
// Missing distributions yield an empty result with a nil error.
func (d *Dist) Resolve(_ context.Context, pkg string) ([]string, error) {
	if infoDir := d.distInfoDir(pkg); infoDir != "" {
		if modules := d.readTopLevel(filepath.Join(infoDir, "top_level.txt")); len(modules) > 0 {
			return modules, nil
		}
	}

	// No usable top_level.txt: fall back to the import-normalized name.
	fallback := strings.ReplaceAll(NormalizeName(pkg), "-", "_")
	if d.moduleExists(fallback) {
		return []string{fallback}, nil
	}
	return nil, nil
}

// Metadata holds the distribution fields used for verbose reports.
type Metadata struct {
	// Version is the installed distribution version.
	Version string

	// Summary is the one-line distribution description.
	Summary string
}

// Metadata reads the Version and Summary fields from the distribution's
// METADATA file. Missing distributions or files yield a zero Metadata;
// verbose columns are best effort.
func (d *Dist) Metadata(pkg string) Metadata {
	infoDir := d.distInfoDir(pkg)
	if infoDir == "" {
		return Metadata{}
	}
	return readMetadataFile(filepath.Join(infoDir, "METADATA"))
}

// distInfoDir locates the <dist>-<version>.dist-info directory for pkg,
// trying the literal name first and the underscore-normalized form second
// (wheels built from modern tooling use the latter).
func (d *Dist) distInfoDir(pkg string) string {
	names := []string{pkg, strings.ReplaceAll(NormalizeName(pkg), "-", "_")}
	for _, name := range names {
		matches, err := filepath.Glob(filepath.Join(d.siteDir, name+"-*.dist-info"))
		if err != nil || len(matches) == 0 {
			continue
		}
		// Multiple matches would mean a broken environment with two
		// installed versions; take the first deterministically.
		return matches[0]
	}
	return ""
}

// readTopLevel reads module names from a top_level.txt file, keeping only
// modules that exist in site-packages. Nested names (containing a dot)
// are skipped: only top-level modules are scored.
func (d *Dist) readTopLevel(path string) []string {
	f, err := os.Open(path) //nolint:gosec // Path is derived from the site-packages dir
	if err != nil {
		return nil
	}
	defer f.Close() //nolint:errcheck // Read-only file

	var modules []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		module := strings.TrimSpace(sc.Text())
		if module == "" || strings.Contains(module, ".") || seen[module] {
			continue
		}
		seen[module] = true
		if d.moduleExists(module) {
			modules = append(modules, module)
		}
	}
	if sc.Err() != nil {
		return nil
	}
	return modules
}

// moduleExists reports whether module is present in site-packages, either
// as a package directory or as a single-file module.
func (d *Dist) moduleExists(module string) bool {
	if fi, err := os.Stat(filepath.Join(d.siteDir, module)); err == nil && fi.IsDir() {
		return true
	}
	if fi, err := os.Stat(filepath.Join(d.siteDir, module+".py")); err == nil && !fi.IsDir() {
		return true
	}
	return false
}
