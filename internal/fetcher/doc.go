// Package fetcher resolves a media URL to its identifier and returns the
// item's metadata, consulting the metadata cache before the remote fetcher.
//
// Cache hits never reach the remote. Misses, or every call while the refresh
// flag is set, go to the remote with the original URL and are written through
// to the cache before being returned. Remote failures are never cached.
// Concurrent misses for one identifier are not coalesced: each caller fetches
// and the last write wins.
package fetcher
