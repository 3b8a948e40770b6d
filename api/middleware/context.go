package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	ctxSessionID contextKey = "session_id"
	ctxPhone     contextKey = "session_phone"
)

// SessionIDFromContext returns the authenticated session id, or uuid.Nil.
func SessionIDFromContext(ctx context.Context) uuid.UUID {
	if ctx == nil {
		return uuid.Nil
	}
	if v, ok := ctx.Value(ctxSessionID).(uuid.UUID); ok {
		return v
	}
	return uuid.Nil
}

// PhoneFromContext returns the authenticated phone number, or empty.
func PhoneFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxPhone).(string); ok {
		return v
	}
	return ""
}

// WithSession injects the authenticated session identity into the context.
func WithSession(ctx context.Context, sessionID uuid.UUID, phone string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, ctxSessionID, sessionID)
	return context.WithValue(ctx, ctxPhone, phone)
}
