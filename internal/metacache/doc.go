// Package metacache stores media metadata documents in two tiers: an
// in-memory index keyed by media identifier in front of a directory holding
// one <id>.json file per identifier.
//
// Writes go to disk first (temp file plus rename) and only then update the
// index, so a failed write leaves both tiers untouched. Writes to one
// identifier are serialized by a per-key lock; different identifiers never
// contend. Reads that miss the index fall back to disk without populating
// the index.
//
// An open Cache holds a shared advisory lock on <dir>/.lock. Clear takes the
// same lock exclusively, so maintenance never races a running process.
// Entries are never evicted or expired.
package metacache
