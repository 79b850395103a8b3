package mediaid

import (
	"errors"
	"net/url"
	"testing"

	"tubemeta/internal/services"
)

func TestYouTubeResolvesWatchURLs(t *testing.T) {
	registry := DefaultRegistry()
	for _, raw := range []string{
		"https://www.youtube.com/watch?v=dVteKLjhKFM",
		"https://youtube.com/watch?v=dVteKLjhKFM",
		"https://www.youtube.com/watch?list=PL123&v=dVteKLjhKFM&t=42",
	} {
		id, err := registry.ResolveString(raw)
		if err != nil {
			t.Fatalf("ResolveString(%q) failed: %v", raw, err)
		}
		if id.String() != "dVteKLjhKFM" {
			t.Fatalf("ResolveString(%q) = %q, want dVteKLjhKFM", raw, id)
		}
	}
}

func TestYouTubeResolvesShortLinks(t *testing.T) {
	id, err := DefaultRegistry().ResolveString("https://youtu.be/dVteKLjhKFM")
	if err != nil {
		t.Fatalf("ResolveString failed: %v", err)
	}
	if id != "dVteKLjhKFM" {
		t.Fatalf("unexpected id %q", id)
	}
}

func TestYouTubeDecodesQueryValue(t *testing.T) {
	id, err := DefaultRegistry().ResolveString("https://www.youtube.com/watch?v=a%2Bb")
	if err != nil {
		t.Fatalf("ResolveString failed: %v", err)
	}
	if id != "a+b" {
		t.Fatalf("expected decoded query value, got %q", id)
	}
}

func TestYouTubeRejectsUnrecognizedShapes(t *testing.T) {
	for _, raw := range []string{
		"https://youtu.be/",
		"https://youtu.be",
		"https://example.com/watch?v=x",
		"https://www.youtube.com/watch",
		"https://www.youtube.com/watch?v=",
		"https://www.youtube.com/channel/UC123",
	} {
		_, err := DefaultRegistry().ResolveString(raw)
		if !errors.Is(err, services.ErrIdentifierNotFound) {
			t.Fatalf("ResolveString(%q) error = %v, want ErrIdentifierNotFound", raw, err)
		}
	}
}

func TestResolveStringRejectsMalformedInput(t *testing.T) {
	for _, raw := range []string{"::not a url", "youtu.be/dVteKLjhKFM", ""} {
		_, err := DefaultRegistry().ResolveString(raw)
		if !errors.Is(err, services.ErrURLParse) {
			t.Fatalf("ResolveString(%q) error = %v, want ErrURLParse", raw, err)
		}
	}
}

func TestRegistryStopsAtFirstMatch(t *testing.T) {
	var calls []string
	first := ResolverFunc(func(u *url.URL) (ID, error) {
		calls = append(calls, "first")
		return "", services.Wrap(services.ErrIdentifierNotFound, "test", "first", "", nil)
	})
	second := ResolverFunc(func(u *url.URL) (ID, error) {
		calls = append(calls, "second")
		return "from-second", nil
	})
	third := ResolverFunc(func(u *url.URL) (ID, error) {
		calls = append(calls, "third")
		return "from-third", nil
	})

	registry := NewRegistry(first, second)
	registry.Register(third)
	registry.Register(nil)
	if registry.Len() != 3 {
		t.Fatalf("expected 3 resolvers, got %d", registry.Len())
	}

	id, err := registry.ResolveString("https://media.example/item/1")
	if err != nil {
		t.Fatalf("ResolveString failed: %v", err)
	}
	if id != "from-second" {
		t.Fatalf("expected second resolver to win, got %q", id)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("unexpected call order %v", calls)
	}
}

func TestRegistryFallsBackToLaterStrategies(t *testing.T) {
	custom := ResolverFunc(func(u *url.URL) (ID, error) {
		if u.Hostname() != "media.example" {
			return "", services.Wrap(services.ErrIdentifierNotFound, "test", "custom", "", nil)
		}
		return New(u.Query().Get("id")), nil
	})
	registry := NewRegistry(YouTube{}, custom)

	id, err := registry.ResolveString("https://media.example/play?id=42")
	if err != nil {
		t.Fatalf("ResolveString failed: %v", err)
	}
	if id != "42" {
		t.Fatalf("unexpected id %q", id)
	}
	id, err = registry.ResolveString("https://youtu.be/dVteKLjhKFM")
	if err != nil || id != "dVteKLjhKFM" {
		t.Fatalf("expected youtube resolver to still apply, got %q %v", id, err)
	}
}

func TestEmptyRegistryFindsNothing(t *testing.T) {
	_, err := NewRegistry().ResolveString("https://youtu.be/dVteKLjhKFM")
	if !errors.Is(err, services.ErrIdentifierNotFound) {
		t.Fatalf("expected ErrIdentifierNotFound, got %v", err)
	}
	if _, err := NewRegistry().Resolve(nil); !errors.Is(err, services.ErrIdentifierNotFound) {
		t.Fatalf("expected ErrIdentifierNotFound for nil url, got %v", err)
	}
}
