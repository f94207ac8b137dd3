package checker

import (
	"os"
	"path/filepath"
)

// markerFile is the PEP 561 marker the tool requires before it agrees to
// verify a module's types.
const markerFile = "py.typed"

// prepareModule adjusts site-packages so the tool accepts module for
// verification, returning a restore function that undoes the changes.
//
// Two adjustments may be needed, taken from the original tool:
//   - A package directory without a py.typed marker gets a temporary one.
//   - A single-file module (mod.py) is temporarily converted to package
//     form (mod/__init__.py with a marker), because the tool only verifies
//     directory-based packages.
//
// An empty siteDir disables preparation entirely. The returned restore is
// nil when nothing was changed.
func prepareModule(siteDir, module string) (restore func(), err error) {
	if siteDir == "" {
		return nil, nil
	}

	moduleDir := filepath.Join(siteDir, module)
	singleFile := filepath.Join(siteDir, module+".py")

	if fi, statErr := os.Stat(singleFile); statErr == nil && !fi.IsDir() {
		return prepareSingleFile(moduleDir, singleFile)
	}
	if fi, statErr := os.Stat(moduleDir); statErr == nil && fi.IsDir() {
		return prepareMarker(moduleDir)
	}
	return nil, nil
}

// prepareMarker creates a py.typed marker in moduleDir unless one already
// exists.
func prepareMarker(moduleDir string) (func(), error) {
	marker := filepath.Join(moduleDir, markerFile)
	if _, err := os.Stat(marker); err == nil {
		return nil, nil
	}
	if err := os.WriteFile(marker, nil, 0600); err != nil {
		return nil, err
	}
	return func() {
		_ = os.Remove(marker) //nolint:errcheck // Best effort cleanup
	}, nil
}

// prepareSingleFile converts mod.py into mod/__init__.py plus a marker,
// and restores the original layout afterwards.
func prepareSingleFile(moduleDir, singleFile string) (func(), error) {
	if err := os.Mkdir(moduleDir, 0750); err != nil {
		return nil, err
	}
	initFile := filepath.Join(moduleDir, "__init__.py")
	if err := os.Rename(singleFile, initFile); err != nil {
		_ = os.Remove(moduleDir) //nolint:errcheck // Best effort cleanup
		return nil, err
	}
	marker := filepath.Join(moduleDir, markerFile)
	if err := os.WriteFile(marker, nil, 0600); err != nil {
		_ = os.Rename(initFile, singleFile) //nolint:errcheck // Best effort cleanup
		_ = os.Remove(moduleDir)            //nolint:errcheck // Best effort cleanup
		return nil, err
	}
	return func() {
		_ = os.Remove(marker)               //nolint:errcheck // Best effort cleanup
		_ = os.Rename(initFile, singleFile) //nolint:errcheck // Best effort cleanup
		_ = os.Remove(moduleDir)            //nolint:errcheck // Best effort cleanup
	}, nil
}
