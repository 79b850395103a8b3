package services_test

import (
	"context"
	"testing"

	"tubemeta/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithMediaID(ctx, "dVteKLjhKFM")

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if id, ok := services.MediaIDFromContext(ctx); !ok || id != "dVteKLjhKFM" {
		t.Fatalf("unexpected media id: %v %v", id, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "")
	ctx = services.WithMediaID(ctx, "")
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id value")
	}
	if _, ok := services.MediaIDFromContext(ctx); ok {
		t.Fatal("expected no media id value")
	}
}
