package location

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

// Options mirrors the acquisition knobs exposed to the checkout flow.
type Options struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	MaximumAge         time.Duration
}

// DefaultOptions matches the original checkout behavior: high accuracy,
// five second budget, no reuse of stale fixes.
func DefaultOptions() Options {
	return Options{
		EnableHighAccuracy: true,
		Timeout:            5 * time.Second,
		MaximumAge:         0,
	}
}

// Provider obtains a position fix from whatever capability is available:
// the device shell, or a server-side resolver.
type Provider interface {
	Acquire(ctx context.Context, opts Options) (*types.GeoPoint, error)
}

// Failure is the typed acquisition error. Every failure carries one of the
// three reasons; the reason only changes user messaging, never control flow
// beyond the configured policy.
type Failure struct {
	Reason enums.LocationFailureReason
	cause  error
}

// NewFailure builds a typed acquisition failure.
func NewFailure(reason enums.LocationFailureReason, cause error) *Failure {
	return &Failure{Reason: reason, cause: cause}
}

func (f *Failure) Error() string {
	if f == nil {
		return ""
	}
	if f.cause != nil {
		return fmt.Sprintf("location %s: %v", f.Reason, f.cause)
	}
	return fmt.Sprintf("location %s", f.Reason)
}

func (f *Failure) Unwrap() error {
	if f == nil {
		return nil
	}
	return f.cause
}

// FailureFrom extracts a typed Failure from an error chain, or nil.
func FailureFrom(err error) *Failure {
	if err == nil {
		return nil
	}
	var typed *Failure
	if errors.As(err, &typed) {
		return typed
	}
	return nil
}

// Classify coerces an arbitrary acquisition error into a Failure. Context
// deadlines become timeouts; everything untyped is unavailable.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}
	if typed := FailureFrom(err); typed != nil {
		return typed
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return NewFailure(enums.LocationFailureTimeout, err)
	}
	return NewFailure(enums.LocationFailureUnavailable, err)
}
