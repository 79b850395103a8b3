package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"tubemeta/internal/logging"
	"tubemeta/internal/mediaid"
	"tubemeta/internal/metadata"
	"tubemeta/internal/services"
)

const component = "fetcher"

// Remote performs the expensive metadata retrieval for a URL.
type Remote interface {
	Fetch(ctx context.Context, rawURL string) (metadata.Document, error)
}

// Cache is the metadata store consulted before the remote.
type Cache interface {
	Get(ctx context.Context, id mediaid.ID) (metadata.Document, bool, error)
	Set(ctx context.Context, id mediaid.ID, doc metadata.Document) (metadata.Document, error)
}

// Service memoizes remote metadata fetches per media identifier.
type Service struct {
	registry *mediaid.Registry
	cache    Cache
	remote   Remote
	refresh  atomic.Bool
	logger   *slog.Logger
}

// New wires a fetch service. A nil registry selects mediaid.DefaultRegistry.
func New(registry *mediaid.Registry, cache Cache, remote Remote, logger *slog.Logger) (*Service, error) {
	if cache == nil {
		return nil, errors.New("fetcher: cache required")
	}
	if remote == nil {
		return nil, errors.New("fetcher: remote required")
	}
	if registry == nil {
		registry = mediaid.DefaultRegistry()
	}
	return &Service{
		registry: registry,
		cache:    cache,
		remote:   remote,
		logger:   logging.NewComponentLogger(logger, component),
	}, nil
}

// Refresh reports whether cache lookups are currently bypassed.
func (s *Service) Refresh() bool {
	return s.refresh.Load()
}

// SetRefresh sets the refresh flag and returns its previous value, so callers
// can restore it after a scoped override.
func (s *Service) SetRefresh(enabled bool) bool {
	return s.refresh.Swap(enabled)
}

// Resolve maps rawURL to a media identifier using the service registry.
func (s *Service) Resolve(rawURL string) (mediaid.ID, error) {
	return s.registry.ResolveString(rawURL)
}

// Fetch returns metadata for rawURL, from the cache when possible.
func (s *Service) Fetch(ctx context.Context, rawURL string) (metadata.Document, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	id, err := s.Resolve(rawURL)
	if err != nil {
		return metadata.Document{}, err
	}

	ctx = services.WithRequestID(ctx, uuid.NewString())
	ctx = services.WithMediaID(ctx, id.String())
	logger := logging.WithContext(ctx, s.logger)

	refresh := s.refresh.Load()
	if !refresh {
		doc, ok, err := s.cache.Get(ctx, id)
		if err != nil {
			logging.ErrorWithContext(logger, "metadata cache read failed", "cache_read_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorKind, services.Kind(err)),
				logging.String(logging.FieldErrorHint, "check cache directory permissions or remove the corrupt entry"),
			)
			return metadata.Document{}, err
		}
		if ok {
			logger.Debug("metadata served from cache", logging.String(logging.FieldEventType, "cache_hit"))
			return doc, nil
		}
	}

	started := time.Now()
	doc, err := s.remote.Fetch(ctx, rawURL)
	if err != nil {
		if !errors.Is(err, services.ErrRemoteFetch) {
			err = services.Wrap(services.ErrRemoteFetch, component, "remote fetch", rawURL, err)
		}
		logging.ErrorWithContext(logger, "remote metadata fetch failed", "remote_fetch_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "verify the URL and that yt-dlp is installed and up to date"),
		)
		return metadata.Document{}, err
	}
	if doc.IsZero() {
		return metadata.Document{}, services.Wrap(services.ErrRemoteFetch, component, "remote fetch", "remote returned an empty document", nil)
	}

	s.checkReturnedID(logger, id, doc)

	stored, err := s.cache.Set(ctx, id, doc)
	if err != nil {
		logging.ErrorWithContext(logger, "metadata cache write failed", "cache_write_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorKind, services.Kind(err)),
			logging.String(logging.FieldErrorHint, "check free space and permissions on the cache directory"),
		)
		return metadata.Document{}, err
	}
	logger.Info("metadata fetched",
		logging.String(logging.FieldEventType, "remote_fetch"),
		logging.Bool("refresh", refresh),
		logging.Duration("elapsed", time.Since(started)),
	)
	return stored, nil
}

// checkReturnedID warns when the remote describes a different item than the
// one the URL resolved to, e.g. a playlist served for a watch link. The
// document is still cached under the resolved identifier.
func (s *Service) checkReturnedID(logger *slog.Logger, id mediaid.ID, doc metadata.Document) {
	video, err := doc.Video()
	if err != nil || video.ID == "" || video.ID == id.String() {
		return
	}
	logging.WarnWithContext(logger, "remote metadata describes a different item", "remote_id_mismatch",
		logging.String("remote_id", video.ID),
		logging.String("remote_type", video.Type),
		logging.String(logging.FieldErrorHint, "pass a direct video URL to cache the video itself"),
		logging.String(logging.FieldImpact, "metadata cached under the resolved identifier"),
	)
}
