package model

// PackageRecord is one entry from the input package list.
// Records are created by the pkglist reader, one per non-empty line,
// and their order matches the input file. That order is preserved all
// the way into the output report.
type PackageRecord struct {
	// Name is the package (distribution) name exactly as listed.
	// No syntax validation happens at read time; an unknown or malformed
	// name surfaces later as a resolution failure.
	Name string `json:"name"`

	// Extra holds any additional CSV columns from the input line,
	// in their original order. They are carried through unchanged to
	// every output row produced for this package.
	Extra []string `json:"extra,omitempty"`
}

// ModuleReference pairs a package with one of its top-level importable
// modules. A package may resolve to zero, one, or several top-level
// modules; zero is a failure condition handled by the aggregator.
// References are consumed immediately by the checker and never persisted.
type ModuleReference struct {
	// PackageName is the distribution name the module belongs to.
	PackageName string `json:"package_name"`

	// ModuleName is the importable top-level module name.
	ModuleName string `json:"module_name"`
}
