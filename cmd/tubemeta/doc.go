// Package main hosts the tubemeta CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves media URLs, fetches metadata through
// the memoizing fetch service, and exposes cache maintenance, configuration
// scaffolding, and preflight checks. It centralizes configuration resolution
// and logger setup so subcommands can focus on output.
//
// Keep this package lean: add functionality to the internal packages first,
// then surface it through dedicated commands or flags here.
package main
