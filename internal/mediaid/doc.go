// Package mediaid turns media URLs into stable identifiers.
//
// An ID is a plain immutable string used as the metadata cache key and as the
// stem of the cache file name. IDs are produced by Resolver strategies, one per
// host family, composed into a Registry that tries them in the order the
// caller installed them and returns the first match.
//
// Add support for a new host family by writing another Resolver and
// registering it; existing strategies never need to change.
package mediaid
