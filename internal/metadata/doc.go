// Package metadata models the document returned by the remote metadata
// fetcher.
//
// A Document is opaque JSON: the cache stores and reloads the exact bytes it
// was given, so serialization is lossless for every field the fetcher emits.
// Video decodes the handful of fields the CLI displays.
package metadata
