// Package preflight provides readiness checks for the filesystem paths and
// external binaries tubemeta depends on.
//
// The CLI "tubemeta check" command runs RunAll and renders each Result.
// Checks never modify anything; a missing cache directory is reported rather
// than created.
package preflight
