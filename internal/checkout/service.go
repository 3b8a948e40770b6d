package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/internal/location"
	"github.com/mnavarro-dev/storefront-backend/pkg/config"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

// IdentityResolver yields the optional external chat id for a checkout open.
type IdentityResolver interface {
	Resolve(ctx context.Context, supplied *string) *string
}

// Service owns at most one live checkout session per authenticated session.
// Opening checkout again dismisses the previous session, so late results
// from the old one are discarded rather than applied to the new view.
type Service interface {
	Open(ctx context.Context, sessionID uuid.UUID, phone string, suppliedChatID *string) (Status, error)
	Status(ctx context.Context, sessionID uuid.UUID) (Status, error)
	UpdateForm(ctx context.Context, sessionID uuid.UUID, patch FormPatch) (Status, error)
	Submit(ctx context.Context, sessionID uuid.UUID, devicePoint *types.GeoPoint) (Status, error)
	RetryLocation(ctx context.Context, sessionID uuid.UUID, devicePoint *types.GeoPoint) (Status, error)
	Close(ctx context.Context, sessionID uuid.UUID) (Status, error)
}

type service struct {
	cfg      config.LocationConfig
	policy   enums.LocationPolicy
	provider location.Provider
	identity IdentityResolver
	deps     sessionDeps

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewService wires the checkout orchestrator.
func NewService(
	cfg config.LocationConfig,
	provider location.Provider,
	carts CartGateway,
	submitter Submitter,
	notifier Notifier,
	orders OrderLog,
	identity IdentityResolver,
	logg *logger.Logger,
) (Service, error) {
	if provider == nil {
		return nil, fmt.Errorf("location provider required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart gateway required")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	policy, err := enums.ParseLocationPolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	return &service{
		cfg:      cfg,
		policy:   policy,
		provider: provider,
		identity: identity,
		deps: sessionDeps{
			carts:     carts,
			submitter: submitter,
			notifier:  notifier,
			orders:    orders,
			logg:      logg,
		},
		sessions: make(map[uuid.UUID]*Session),
	}, nil
}

func (s *service) Open(ctx context.Context, sessionID uuid.UUID, phone string, suppliedChatID *string) (Status, error) {
	if sessionID == uuid.Nil {
		return Status{}, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	var chatID *string
	if s.identity != nil {
		chatID = s.identity.Resolve(ctx, suppliedChatID)
	} else {
		chatID = suppliedChatID
	}

	strategy := location.NewStrategy(s.provider, s.policy, location.Options{
		EnableHighAccuracy: s.cfg.EnableHighAccuracy,
		Timeout:            s.cfg.Timeout,
		MaximumAge:         s.cfg.MaxCacheAge,
	}, s.deps.logg)

	session := newSession(sessionID, phone, s.policy, strategy, chatID, s.deps)

	s.mu.Lock()
	if previous, ok := s.sessions[sessionID]; ok {
		previous.Close()
	}
	s.sessions[sessionID] = session
	s.mu.Unlock()

	strategy.Prefetch(ctx)
	return session.Status(), nil
}

func (s *service) Status(ctx context.Context, sessionID uuid.UUID) (Status, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return Status{}, err
	}
	return session.Status(), nil
}

func (s *service) UpdateForm(ctx context.Context, sessionID uuid.UUID, patch FormPatch) (Status, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return Status{}, err
	}
	return session.UpdateForm(patch)
}

func (s *service) Submit(ctx context.Context, sessionID uuid.UUID, devicePoint *types.GeoPoint) (Status, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return Status{}, err
	}
	return session.Submit(ctx, devicePoint)
}

func (s *service) RetryLocation(ctx context.Context, sessionID uuid.UUID, devicePoint *types.GeoPoint) (Status, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return Status{}, err
	}
	return session.RetryLocation(ctx, devicePoint)
}

func (s *service) Close(ctx context.Context, sessionID uuid.UUID) (Status, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()
	if !ok {
		return Status{}, pkgerrors.New(pkgerrors.CodeNotFound, "no open checkout session")
	}
	return session.Close(), nil
}

func (s *service) lookup(sessionID uuid.UUID) (*Session, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open checkout session")
	}
	return session, nil
}
