package services_test

import (
	"errors"
	"strings"
	"testing"

	"tubemeta/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrStorage, "metacache", "set", "write entry", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrStorage) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"metacache", "set", "write entry", "boom"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrIdentifierNotFound, "mediaid", "", "", nil)
	if !errors.Is(err, services.ErrIdentifierNotFound) {
		t.Fatalf("expected marker, got %v", err)
	}
	if got := err.Error(); got != "no identifier found: mediaid" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestWrapNilMarkerFallsBackToInvalidState(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrInvalidState) {
		t.Fatalf("expected invalid state marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected default detail, got %q", err.Error())
	}
}

func TestKindMapping(t *testing.T) {
	cases := map[error]string{
		nil: "",
		services.Wrap(services.ErrIdentifierNotFound, "mediaid", "resolve", "", nil): "identifier_not_found",
		services.Wrap(services.ErrURLParse, "mediaid", "parse", "", nil):             "url_parse_failure",
		services.Wrap(services.ErrSerialization, "metacache", "decode", "", nil):     "serialization_failure",
		services.Wrap(services.ErrStorage, "metacache", "write", "", nil):            "storage_failure",
		services.Wrap(services.ErrRemoteFetch, "ytdlp", "run", "", nil):              "remote_fetch_failure",
		services.Wrap(services.ErrInvalidState, "fetcher", "", "", nil):              "invalid_internal_state",
		errors.New("plain"): "unknown",
	}
	for err, want := range cases {
		if got := services.Kind(err); got != want {
			t.Fatalf("Kind(%v) = %q, want %q", err, got, want)
		}
	}
}
