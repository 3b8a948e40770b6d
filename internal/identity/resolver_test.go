package identity

import (
	"context"
	"testing"

	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

func TestResolvePrefersSuppliedID(t *testing.T) {
	t.Parallel()

	r := NewResolver("fallback-chat", logger.New(logger.Options{ServiceName: "test"}))
	supplied := "  chat-42  "
	got := r.Resolve(context.Background(), &supplied)
	if got == nil || *got != "chat-42" {
		t.Fatalf("expected trimmed supplied id, got %v", got)
	}
}

func TestResolveFallsBackToConfiguredDefault(t *testing.T) {
	t.Parallel()

	r := NewResolver(" fallback-chat ", logger.New(logger.Options{ServiceName: "test"}))
	blank := "   "
	got := r.Resolve(context.Background(), &blank)
	if got == nil || *got != "fallback-chat" {
		t.Fatalf("expected configured default, got %v", got)
	}
	if got = r.Resolve(context.Background(), nil); got == nil || *got != "fallback-chat" {
		t.Fatalf("expected configured default for nil supplied, got %v", got)
	}
}

func TestResolveAbsent(t *testing.T) {
	t.Parallel()

	r := NewResolver("", logger.New(logger.Options{ServiceName: "test"}))
	if got := r.Resolve(context.Background(), nil); got != nil {
		t.Fatalf("expected nil when nothing is configured, got %v", got)
	}
}
