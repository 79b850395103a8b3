package metacache

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"tubemeta/internal/fileutil"
	"tubemeta/internal/logging"
	"tubemeta/internal/mediaid"
	"tubemeta/internal/metadata"
	"tubemeta/internal/services"
)

const (
	// FileExt is appended to the identifier to form the cache file name.
	FileExt = ".json"
	// LockFileName is the advisory lock file inside the cache directory.
	LockFileName = ".lock"

	component = "metacache"
)

// Option configures Open.
type Option func(*options)

type options struct {
	warmUp bool
	logger *slog.Logger
}

// WithWarmUp preloads every cached document into the index during Open. Any
// unreadable or malformed file makes Open fail.
func WithWarmUp(enabled bool) Option {
	return func(o *options) { o.warmUp = enabled }
}

// WithLogger sets the logger used for cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// Cache is a two-tier metadata store. It is safe for concurrent use.
//
// The index only ever holds documents that were written or loaded. A
// "known absent" entry is never stored: Set rejects empty documents, so an
// index miss always means the identifier has not been seen by this process.
type Cache struct {
	dir    string
	logger *slog.Logger

	index sync.Map // mediaid.ID -> metadata.Document
	count atomic.Int64

	mu    sync.Mutex
	locks map[mediaid.ID]*entryLock

	dirLock *flock.Flock
	closed  atomic.Bool
}

type entryLock struct {
	mu   sync.Mutex
	refs int
}

// Open prepares the cache directory, takes the shared directory lock and,
// when requested, warms the index from disk.
func Open(dir string, opts ...Option) (*Cache, error) {
	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, services.Wrap(services.ErrStorage, component, "open", "cache directory not set", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStorage, component, "open", "create cache directory", err)
	}

	dirLock := flock.New(filepath.Join(dir, LockFileName))
	locked, err := dirLock.TryRLock()
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, component, "open", "acquire directory lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrStorage, component, "open", dir, ErrCacheBusy)
	}

	c := &Cache{
		dir:     dir,
		logger:  logging.NewComponentLogger(cfg.logger, component),
		locks:   make(map[mediaid.ID]*entryLock),
		dirLock: dirLock,
	}

	if cfg.warmUp {
		if err := c.warmUp(); err != nil {
			_ = dirLock.Unlock()
			return nil, err
		}
	}
	return c, nil
}

func (c *Cache) warmUp() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return services.Wrap(services.ErrStorage, component, "warm up", "list cache directory", err)
	}
	for _, entry := range entries {
		id, ok := cacheEntryID(entry)
		if !ok {
			continue
		}
		doc, err := readDocument(filepath.Join(c.dir, entry.Name()))
		if err != nil {
			return readFailure("warm up", entry.Name(), err)
		}
		if _, loaded := c.index.Swap(id, doc); !loaded {
			c.count.Add(1)
		}
	}
	c.logger.Debug("metadata cache warmed",
		logging.String("dir", c.dir),
		logging.Int64("entries", c.count.Load()),
	)
	return nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Len returns the number of indexed entries.
func (c *Cache) Len() int {
	return int(c.count.Load())
}

// Get returns the document cached for id. An index miss falls back to the
// on-disk file without populating the index. A missing file is a miss, not
// an error; so is an identifier that cannot name a file.
func (c *Cache) Get(ctx context.Context, id mediaid.ID) (metadata.Document, bool, error) {
	if err := c.usable(ctx, "get"); err != nil {
		return metadata.Document{}, false, err
	}
	if value, ok := c.index.Load(id); ok {
		return value.(metadata.Document), true, nil
	}

	path, err := c.path(id)
	if err != nil {
		return metadata.Document{}, false, nil
	}
	doc, err := readDocument(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return metadata.Document{}, false, nil
		}
		return metadata.Document{}, false, readFailure("get", id.String(), err)
	}
	return doc, true, nil
}

// Set persists doc for id and then records it in the index. On failure
// neither tier changes. It returns the stored document.
func (c *Cache) Set(ctx context.Context, id mediaid.ID, doc metadata.Document) (metadata.Document, error) {
	if err := c.usable(ctx, "set"); err != nil {
		return metadata.Document{}, err
	}
	if doc.IsZero() {
		return metadata.Document{}, services.Wrap(services.ErrSerialization, component, "set", "empty document", nil)
	}
	path, err := c.path(id)
	if err != nil {
		return metadata.Document{}, err
	}

	unlock := c.lockEntry(id)
	defer unlock()

	payload := append(doc.Bytes(), '\n')
	if err := fileutil.WriteFileAtomic(path, payload, 0o644); err != nil {
		return metadata.Document{}, services.Wrap(services.ErrStorage, component, "set", id.String(), err)
	}
	if _, loaded := c.index.Swap(id, doc); !loaded {
		c.count.Add(1)
	}
	c.logger.Debug("metadata cached",
		logging.String(logging.FieldMediaID, id.String()),
		logging.Int("bytes", len(payload)),
	)
	return doc, nil
}

// Remove deletes the on-disk file (a missing file is fine) and drops the
// index entry. It returns the document that was indexed, if any. Identifiers
// that cannot name a file have nothing on disk to delete.
func (c *Cache) Remove(ctx context.Context, id mediaid.ID) (metadata.Document, bool, error) {
	if err := c.usable(ctx, "remove"); err != nil {
		return metadata.Document{}, false, err
	}

	unlock := c.lockEntry(id)
	defer unlock()

	if path, err := c.path(id); err == nil {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return metadata.Document{}, false, services.Wrap(services.ErrStorage, component, "remove", id.String(), err)
		}
	}
	value, loaded := c.index.LoadAndDelete(id)
	if !loaded {
		return metadata.Document{}, false, nil
	}
	c.count.Add(-1)
	return value.(metadata.Document), true, nil
}

// Close releases the shared directory lock. The cache is unusable afterwards.
func (c *Cache) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	if err := c.dirLock.Unlock(); err != nil {
		return services.Wrap(services.ErrStorage, component, "close", "release directory lock", err)
	}
	return nil
}

func (c *Cache) usable(ctx context.Context, op string) error {
	if c.closed.Load() {
		return services.Wrap(services.ErrInvalidState, component, op, "cache is closed", nil)
	}
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// readFailure keeps the serialization marker for malformed files and reports
// everything else as a storage failure.
func readFailure(op, subject string, err error) error {
	if errors.Is(err, services.ErrSerialization) {
		return services.Wrap(services.ErrSerialization, component, op, subject, err)
	}
	return services.Wrap(services.ErrStorage, component, op, subject, err)
}

func (c *Cache) lockEntry(id mediaid.ID) func() {
	c.mu.Lock()
	lock := c.locks[id]
	if lock == nil {
		lock = &entryLock{}
		c.locks[id] = lock
	}
	lock.refs++
	c.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		c.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(c.locks, id)
		}
		c.mu.Unlock()
	}
}

// Path returns the cache file for id, whether or not it exists. Identifiers
// that cannot be a single file name fail with a storage error.
func (c *Cache) Path(id mediaid.ID) (string, error) {
	return c.path(id)
}

func (c *Cache) path(id mediaid.ID) (string, error) {
	value := id.String()
	if value == "" || strings.ContainsAny(value, "/\\\x00") {
		return "", services.Wrap(services.ErrStorage, component, "path", "identifier is not a valid file name: "+value, nil)
	}
	return filepath.Join(c.dir, id.FileName(FileExt)), nil
}
