package location

import (
	"context"
	"sync"
	"time"

	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

// Strategy coordinates position acquisition for a single checkout session.
// It enforces the timeout budget, deduplicates concurrent requests so at
// most one acquisition is in flight, and caches the last good fix for the
// prefetch policy.
type Strategy struct {
	provider Provider
	policy   enums.LocationPolicy
	opts     Options
	logg     *logger.Logger
	now      func() time.Time

	mu       sync.Mutex
	inflight *acquisition
	cached   *types.GeoPoint
	cachedAt time.Time
}

type acquisition struct {
	done  chan struct{}
	point *types.GeoPoint
	fail  *Failure
}

// NewStrategy builds a Strategy for one checkout session. The provider is
// shared; the in-flight and cache state are not.
func NewStrategy(provider Provider, policy enums.LocationPolicy, opts Options, logg *logger.Logger) *Strategy {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	return &Strategy{
		provider: provider,
		policy:   policy,
		opts:     opts,
		logg:     logg,
		now:      time.Now,
	}
}

// Policy reports the configured acquisition policy.
func (s *Strategy) Policy() enums.LocationPolicy {
	return s.policy
}

// Prefetch starts a background acquisition without blocking the caller.
// Failures are logged and swallowed; a later Acquire will retry or reuse
// the cached fix as the policy dictates.
func (s *Strategy) Prefetch(ctx context.Context) {
	if !s.policy.Prefetches() {
		return
	}
	go func() {
		detached := context.WithoutCancel(ctx)
		if _, err := s.Acquire(detached); err != nil {
			s.logg.Warn(s.logg.WithField(detached, "error", err.Error()), "location prefetch failed")
		}
	}()
}

// Acquire returns a position fix, joining any acquisition already in
// flight rather than starting a second one. The timeout budget applies to
// the caller's wait even when it joined an older request. On failure it
// returns a typed *Failure.
func (s *Strategy) Acquire(ctx context.Context) (*types.GeoPoint, error) {
	s.mu.Lock()
	if point := s.cachedFixLocked(); point != nil {
		s.mu.Unlock()
		return point, nil
	}
	req := s.inflight
	if req == nil {
		req = &acquisition{done: make(chan struct{})}
		s.inflight = req
		go s.run(req)
	}
	s.mu.Unlock()

	timer := time.NewTimer(s.opts.Timeout)
	defer timer.Stop()

	select {
	case <-req.done:
		if req.fail != nil {
			return nil, req.fail
		}
		return req.point.Clone(), nil
	case <-timer.C:
		return nil, NewFailure(enums.LocationFailureTimeout, context.DeadlineExceeded)
	case <-ctx.Done():
		return nil, Classify(ctx.Err())
	}
}

// run performs the acquisition on a context detached from any single
// caller, so a dismissed checkout view does not cancel a fix another
// waiter (or the cache) can still use.
func (s *Strategy) run(req *acquisition) {
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.Timeout)
	defer cancel()

	point, err := s.provider.Acquire(ctx, s.opts)
	if err == nil && point == nil {
		err = NewFailure(enums.LocationFailureUnavailable, nil)
	}

	s.mu.Lock()
	if err != nil {
		req.fail = Classify(err)
	} else {
		req.point = point
		s.cached = point.Clone()
		s.cachedAt = s.now()
	}
	if s.inflight == req {
		s.inflight = nil
	}
	s.mu.Unlock()
	close(req.done)
}

// cachedFixLocked returns a reusable cached fix, or nil. With a positive
// MaximumAge the fix must be fresh; with MaximumAge zero only the prefetch
// policy reuses it, since a prefetched fix exists precisely to be consumed
// at submit time.
func (s *Strategy) cachedFixLocked() *types.GeoPoint {
	if s.cached == nil {
		return nil
	}
	if s.opts.MaximumAge > 0 {
		if s.now().Sub(s.cachedAt) > s.opts.MaximumAge {
			return nil
		}
		return s.cached.Clone()
	}
	if s.policy == enums.LocationPolicyPrefetch {
		return s.cached.Clone()
	}
	return nil
}
