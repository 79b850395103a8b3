// Package services defines shared utilities consumed by the resolver, cache,
// and fetch layers.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so every failure carries
//     one of the error kinds callers can classify with errors.Is.
//   - Kind, which turns a wrapped error into a stable name for logs and CLI
//     output.
//   - Context helpers that stamp correlation and media identifiers for
//     logging.
//
// Nothing in this module retries; a failure is surfaced to the immediate
// caller exactly once.
package services
