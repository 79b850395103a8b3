package metacache

import (
	"io/fs"
	"os"

	"tubemeta/internal/mediaid"
	"tubemeta/internal/metadata"
)

// cacheEntryID reports whether entry is a cache file and returns its ID.
func cacheEntryID(entry fs.DirEntry) (mediaid.ID, bool) {
	if !entry.Type().IsRegular() {
		return "", false
	}
	id, ok := mediaid.FromFileName(entry.Name(), FileExt)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func readDocument(path string) (metadata.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return metadata.Document{}, err
	}
	return metadata.Parse(data)
}
