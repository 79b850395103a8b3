package mediaid

import "strings"

// ID identifies one media item. The zero value is the empty identifier; no
// validation is performed on construction.
type ID string

// New builds an ID from text.
func New(value string) ID {
	return ID(value)
}

// String returns the identifier text.
func (id ID) String() string {
	return string(id)
}

// FileName returns the cache file name for the identifier, e.g. "abc.json".
func (id ID) FileName(ext string) string {
	return string(id) + ext
}

// FromFileName recovers an ID from a cache file name by trimming ext. The
// second result is false when name does not carry the extension.
func FromFileName(name, ext string) (ID, bool) {
	if !strings.HasSuffix(name, ext) {
		return "", false
	}
	return ID(strings.TrimSuffix(name, ext)), true
}
