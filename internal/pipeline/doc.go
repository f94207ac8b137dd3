// Package pipeline orchestrates scoring a batch of packages: each input
// record is resolved to its top-level modules, every module is handed to
// the checker, and the results are flattened into report rows.
//
// The failure-isolation contract of the whole tool lives here: no single
// package or module failure may abort the batch. Unresolvable packages
// and failed checks are absorbed into zero-score rows so the report
// always covers every input package. Only context cancellation stops a
// run early.
//
// Packages are scored concurrently under an errgroup limit, with results
// collected by input position so the output order is a deterministic
// function of input order and per-package module-resolution order,
// regardless of completion timing.
package pipeline
