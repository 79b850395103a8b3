package metacache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"tubemeta/internal/fileutil"
	"tubemeta/internal/mediaid"
	"tubemeta/internal/services"
)

// ErrCacheBusy reports that another cache instance holds the directory lock
// in a conflicting mode.
var ErrCacheBusy = errors.New("metadata cache directory is in use")

// EntrySummary describes one cached file.
type EntrySummary struct {
	ID         mediaid.ID
	Path       string
	SizeBytes  int64
	ModifiedAt time.Time
	// Indexed reports whether the entry is also held in memory.
	Indexed bool
}

// Entries lists cached files in file-name order.
func (c *Cache) Entries(ctx context.Context) ([]EntrySummary, error) {
	if err := c.usable(ctx, "entries"); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, component, "entries", "list cache directory", err)
	}
	summaries := make([]EntrySummary, 0, len(entries))
	for _, entry := range entries {
		if ctx != nil {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		id, ok := cacheEntryID(entry)
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, services.Wrap(services.ErrStorage, component, "entries", entry.Name(), err)
		}
		_, indexed := c.index.Load(id)
		summaries = append(summaries, EntrySummary{
			ID:         id,
			Path:       filepath.Join(c.dir, entry.Name()),
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
			Indexed:    indexed,
		})
	}
	return summaries, nil
}

// Clear deletes every cached file in dir, plus leftover temp files. It needs
// the directory lock exclusively and fails with ErrCacheBusy while any Cache
// on dir is open. It returns the number of cache entries removed.
func Clear(dir string) (int, error) {
	if dir == "" {
		return 0, services.Wrap(services.ErrStorage, component, "clear", "cache directory not set", nil)
	}
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, services.Wrap(services.ErrStorage, component, "clear", "stat cache directory", err)
	}

	dirLock := flock.New(filepath.Join(dir, LockFileName))
	locked, err := dirLock.TryLock()
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, component, "clear", "acquire directory lock", err)
	}
	if !locked {
		return 0, services.Wrap(services.ErrStorage, component, "clear", dir, ErrCacheBusy)
	}
	defer func() { _ = dirLock.Unlock() }()

	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, services.Wrap(services.ErrStorage, component, "clear", "list cache directory", err)
	}

	removed := 0
	for _, entry := range entries {
		_, isEntry := cacheEntryID(entry)
		if !isEntry && !(entry.Type().IsRegular() && fileutil.IsTempFile(entry.Name())) {
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
			return removed, services.Wrap(services.ErrStorage, component, "clear", entry.Name(), err)
		}
		if isEntry {
			removed++
		}
	}
	return removed, nil
}
