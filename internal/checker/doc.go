// Package checker invokes the external static type checker against a
// single top-level module and extracts its typing completeness score.
//
// The real implementation drives pyright's verify-types mode through
// os/exec, but anything honoring the same JSON contract (a document with
// a typeCompleteness.completenessScore fraction) is substitutable via the
// Checker interface. All failure modes degrade into a zero score rather
// than an error: a tool that cannot be spawned, times out, exits
// abnormally, or produces unparseable output must never abort the batch.
package checker
