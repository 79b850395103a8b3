// Package config loads, normalizes, and validates tubemeta configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TUBEMETA_CACHE_DIR
// environment override. The Config type centralizes every knob the CLI needs
// so the metadata cache directory, log routing, and yt-dlp invocation are
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
