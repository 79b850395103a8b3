// Package logging assembles structured slog loggers and formatting helpers used
// across tubemeta.
//
// It owns the console and JSON handlers, routes console output to stderr so
// command output on stdout stays machine-readable, and mirrors every record as
// JSON into a size-rotated log file when a log directory is configured. Context
// helpers tag log lines with the media identifier and fetch correlation ID.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// records with the same shape as the rest of the tool.
package logging
