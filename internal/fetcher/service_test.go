package fetcher_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tubemeta/internal/fetcher"
	"tubemeta/internal/logging"
	"tubemeta/internal/mediaid"
	"tubemeta/internal/metacache"
	"tubemeta/internal/metadata"
	"tubemeta/internal/services"
)

const watchURL = "https://www.youtube.com/watch?v=dVteKLjhKFM"

type mockRemote struct {
	mock.Mock
}

func (m *mockRemote) Fetch(ctx context.Context, rawURL string) (metadata.Document, error) {
	args := m.Called(ctx, rawURL)
	return args.Get(0).(metadata.Document), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, id mediaid.ID) (metadata.Document, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(metadata.Document), args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, id mediaid.ID, doc metadata.Document) (metadata.Document, error) {
	args := m.Called(ctx, id, doc)
	return args.Get(0).(metadata.Document), args.Error(1)
}

func newCache(t *testing.T) *metacache.Cache {
	t.Helper()
	cache, err := metacache.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cache.Close() })
	return cache
}

func TestFetchServesSecondCallFromCache(t *testing.T) {
	cache := newCache(t)
	remote := &mockRemote{}
	doc := metadata.MustParse(`{"id":"dVteKLjhKFM","title":"Shelter","artist":"Porter Robinson"}`)
	remote.On("Fetch", mock.Anything, watchURL).Return(doc, nil).Once()
	remote.On("Fetch", mock.Anything, watchURL).Return(metadata.Document{}, errors.New("remote must not be called twice")).Once()

	svc, err := fetcher.New(nil, cache, remote, nil)
	require.NoError(t, err)

	first, err := svc.Fetch(context.Background(), watchURL)
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background(), watchURL)
	require.NoError(t, err)

	require.True(t, first.Equal(doc))
	require.True(t, second.Equal(first))
	remote.AssertNumberOfCalls(t, "Fetch", 1)
}

func TestFetchSharesEntriesAcrossURLShapes(t *testing.T) {
	cache := newCache(t)
	remote := &mockRemote{}
	doc := metadata.MustParse(`{"id":"dVteKLjhKFM"}`)
	remote.On("Fetch", mock.Anything, "https://youtu.be/dVteKLjhKFM").Return(doc, nil).Once()

	svc, err := fetcher.New(mediaid.DefaultRegistry(), cache, remote, nil)
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background(), "https://youtu.be/dVteKLjhKFM")
	require.NoError(t, err)
	got, err := svc.Fetch(context.Background(), "https://youtube.com/watch?v=dVteKLjhKFM")
	require.NoError(t, err)
	require.True(t, got.Equal(doc))
	remote.AssertExpectations(t)
}

func TestFetchWithRefreshBypassesCache(t *testing.T) {
	cache := newCache(t)
	remote := &mockRemote{}
	v1 := metadata.MustParse(`{"title":"v1"}`)
	v2 := metadata.MustParse(`{"title":"v2"}`)
	remote.On("Fetch", mock.Anything, watchURL).Return(v1, nil).Once()
	remote.On("Fetch", mock.Anything, watchURL).Return(v2, nil).Once()

	svc, err := fetcher.New(nil, cache, remote, nil)
	require.NoError(t, err)
	require.False(t, svc.SetRefresh(true))
	require.True(t, svc.Refresh())

	first, err := svc.Fetch(context.Background(), watchURL)
	require.NoError(t, err)
	second, err := svc.Fetch(context.Background(), watchURL)
	require.NoError(t, err)

	require.True(t, first.Equal(v1))
	require.True(t, second.Equal(v2))
	remote.AssertNumberOfCalls(t, "Fetch", 2)

	stored, ok, err := cache.Get(context.Background(), mediaid.New("dVteKLjhKFM"))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, stored.Equal(v2), "refresh must write through the newest document")
}

func TestSetRefreshReturnsPreviousValue(t *testing.T) {
	svc, err := fetcher.New(nil, newCache(t), &mockRemote{}, nil)
	require.NoError(t, err)

	require.False(t, svc.Refresh())
	previous := svc.SetRefresh(true)
	require.False(t, previous)
	require.True(t, svc.SetRefresh(previous))
	require.False(t, svc.Refresh())
}

func TestFetchPropagatesResolveErrors(t *testing.T) {
	remote := &mockRemote{}
	cache := &mockCache{}
	svc, err := fetcher.New(nil, cache, remote, nil)
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background(), "https://example.com/watch?v=x")
	require.ErrorIs(t, err, services.ErrIdentifierNotFound)

	_, err = svc.Fetch(context.Background(), "not a url")
	require.ErrorIs(t, err, services.ErrURLParse)

	remote.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestFetchDoesNotCacheRemoteFailures(t *testing.T) {
	cache := &mockCache{}
	remote := &mockRemote{}
	id := mediaid.New("dVteKLjhKFM")
	cache.On("Get", mock.Anything, id).Return(metadata.Document{}, false, nil)
	remote.On("Fetch", mock.Anything, watchURL).Return(metadata.Document{}, errors.New("HTTP Error 429"))

	svc, err := fetcher.New(nil, cache, remote, nil)
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background(), watchURL)
	require.ErrorIs(t, err, services.ErrRemoteFetch)
	require.Contains(t, err.Error(), "HTTP Error 429")
	cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything)
}

func TestFetchPropagatesCacheFailures(t *testing.T) {
	id := mediaid.New("dVteKLjhKFM")
	doc := metadata.MustParse(`{"title":"x"}`)

	t.Run("read", func(t *testing.T) {
		cache := &mockCache{}
		remote := &mockRemote{}
		readErr := services.Wrap(services.ErrSerialization, "metacache", "get", "corrupt", nil)
		cache.On("Get", mock.Anything, id).Return(metadata.Document{}, false, readErr)

		svc, err := fetcher.New(nil, cache, remote, nil)
		require.NoError(t, err)
		_, err = svc.Fetch(context.Background(), watchURL)
		require.ErrorIs(t, err, services.ErrSerialization)
		remote.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything)
	})

	t.Run("write", func(t *testing.T) {
		cache := &mockCache{}
		remote := &mockRemote{}
		writeErr := services.Wrap(services.ErrStorage, "metacache", "set", "disk full", nil)
		cache.On("Get", mock.Anything, id).Return(metadata.Document{}, false, nil)
		cache.On("Set", mock.Anything, id, doc).Return(metadata.Document{}, writeErr)
		remote.On("Fetch", mock.Anything, watchURL).Return(doc, nil)

		svc, err := fetcher.New(nil, cache, remote, nil)
		require.NoError(t, err)
		_, err = svc.Fetch(context.Background(), watchURL)
		require.ErrorIs(t, err, services.ErrStorage)
	})
}

func TestFetchTagsContextWithCorrelationID(t *testing.T) {
	cache := &mockCache{}
	remote := &mockRemote{}
	id := mediaid.New("dVteKLjhKFM")
	doc := metadata.MustParse(`{"title":"x"}`)
	cache.On("Get", mock.Anything, id).Return(metadata.Document{}, false, nil)
	cache.On("Set", mock.Anything, id, doc).Return(doc, nil)
	remote.On("Fetch", mock.MatchedBy(func(ctx context.Context) bool {
		rid, ok := services.RequestIDFromContext(ctx)
		mid, _ := services.MediaIDFromContext(ctx)
		return ok && rid != "" && mid == "dVteKLjhKFM"
	}), watchURL).Return(doc, nil).Once()

	svc, err := fetcher.New(nil, cache, remote, nil)
	require.NoError(t, err)
	_, err = svc.Fetch(context.Background(), watchURL)
	require.NoError(t, err)
	remote.AssertExpectations(t)
}

func TestFetchShortLinkWithNestedPathStillCallsRemote(t *testing.T) {
	const shortURL = "https://youtu.be/abc/def"
	remote := &mockRemote{}
	remote.On("Fetch", mock.Anything, shortURL).Return(metadata.MustParse(`{"title":"x"}`), nil).Once()

	svc, err := fetcher.New(nil, newCache(t), remote, nil)
	require.NoError(t, err)

	_, err = svc.Fetch(context.Background(), shortURL)
	require.ErrorIs(t, err, services.ErrStorage, "the identifier cannot name a cache file, so only the write fails")
	remote.AssertExpectations(t)
}

func TestFetchWarnsWhenRemoteDescribesAnotherItem(t *testing.T) {
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Console: &logs})
	require.NoError(t, err)

	remote := &mockRemote{}
	playlist := metadata.MustParse(`{"id":"PL123","_type":"playlist","title":"mix"}`)
	remote.On("Fetch", mock.Anything, watchURL).Return(playlist, nil).Once()

	cache := newCache(t)
	svc, err := fetcher.New(nil, cache, remote, logger)
	require.NoError(t, err)

	stored, err := svc.Fetch(context.Background(), watchURL)
	require.NoError(t, err)
	require.True(t, stored.Equal(playlist))
	require.Contains(t, logs.String(), `"event_type":"remote_id_mismatch"`)
	require.Contains(t, logs.String(), `"remote_id":"PL123"`)

	_, ok, err := cache.Get(context.Background(), mediaid.New("dVteKLjhKFM"))
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFetchDoesNotWarnWhenIDsMatch(t *testing.T) {
	var logs bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Console: &logs})
	require.NoError(t, err)

	remote := &mockRemote{}
	remote.On("Fetch", mock.Anything, watchURL).Return(metadata.MustParse(`{"id":"dVteKLjhKFM"}`), nil).Once()

	svc, err := fetcher.New(nil, newCache(t), remote, logger)
	require.NoError(t, err)
	_, err = svc.Fetch(context.Background(), watchURL)
	require.NoError(t, err)
	require.Empty(t, logs.String())
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := fetcher.New(nil, nil, &mockRemote{}, nil)
	require.Error(t, err)
	_, err = fetcher.New(nil, &mockCache{}, nil, nil)
	require.Error(t, err)
}
