package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/auth"
	"github.com/mnavarro-dev/storefront-backend/pkg/config"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/redis"
	"gorm.io/gorm"
)

// Authenticator exchanges a phone number for an upstream token. Nil means no
// upstream is configured and sessions are issued locally.
type Authenticator interface {
	Authenticate(ctx context.Context, phone string) (string, error)
}

type notifier interface {
	Notify(ctx context.Context, sessionID uuid.UUID, kind enums.AlertKind, message string)
}

type cartClearer interface {
	Clear(ctx context.Context, sessionID uuid.UUID) error
}

// LoginResult is what a successful phone login yields.
type LoginResult struct {
	Token     string    `json:"token"`
	SessionID uuid.UUID `json:"sessionId"`
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service manages the phone-login session lifecycle.
type Service interface {
	Login(ctx context.Context, phone string) (*LoginResult, error)
	Active(ctx context.Context, sessionID uuid.UUID) (bool, error)
	UpstreamToken(ctx context.Context, sessionID uuid.UUID) (string, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

type service struct {
	repo     Repository
	upstream Authenticator
	cache    *redis.Client
	carts    cartClearer
	notifier notifier
	jwtCfg   config.JWTConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the session service. upstream may be nil when the
// storefront runs without a live backend.
func NewService(
	repo Repository,
	upstream Authenticator,
	cache *redis.Client,
	carts cartClearer,
	notifier notifier,
	jwtCfg config.JWTConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("session repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart clearer required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		upstream: upstream,
		cache:    cache,
		carts:    carts,
		notifier: notifier,
		jwtCfg:   jwtCfg,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, phone string) (*LoginResult, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}
	ctx = s.logg.WithPhone(ctx, phone)

	var upstreamToken string
	if s.upstream != nil {
		token, err := s.upstream.Authenticate(ctx, phone)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
				return nil, err
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upstream authentication")
		}
		upstreamToken = token
	} else {
		s.logg.Info(ctx, "no upstream configured, issuing local session")
	}

	row := &models.Session{
		ID:            uuid.New(),
		Phone:         phone,
		UpstreamToken: upstreamToken,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist session")
	}

	now := s.now()
	token, err := auth.MintSessionToken(s.jwtCfg, now, auth.SessionTokenPayload{
		SessionID: row.ID,
		Phone:     phone,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	s.notifier.Notify(ctx, row.ID, enums.AlertKindSuccess, "Logged in successfully!")
	return &LoginResult{
		Token:     token,
		SessionID: row.ID,
		Phone:     phone,
		ExpiresAt: now.Add(s.jwtCfg.Expiration()),
	}, nil
}

// Active reports whether a session is still usable. Redis answers the fast
// path; the database decides when the revocation key is missing.
func (s *service) Active(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	if sessionID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	revoked, err := s.cache.SessionRevoked(ctx, sessionID.String())
	if err == nil && revoked {
		return false, nil
	}
	if err != nil {
		s.logg.Error(ctx, "check session revocation cache", err)
	}

	row, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return row.Active(), nil
}

// UpstreamToken returns the backend token granted at login, empty when the
// session was issued locally.
func (s *service) UpstreamToken(ctx context.Context, sessionID uuid.UUID) (string, error) {
	row, err := s.repo.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeNotFound, "session not found")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load session")
	}
	return row.UpstreamToken, nil
}

// Logout revokes the session and empties its cart. The revocation is written
// to both stores; redis carries it for the remaining token lifetime.
func (s *service) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if sessionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	ctx = s.logg.WithSessionID(ctx, sessionID.String())

	if err := s.repo.Revoke(ctx, sessionID, s.now()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session")
	}
	if err := s.cache.RevokeSession(ctx, sessionID.String(), s.jwtCfg.Expiration()); err != nil {
		s.logg.Error(ctx, "cache session revocation", err)
	}
	if err := s.carts.Clear(ctx, sessionID); err != nil {
		s.logg.Error(ctx, "clear cart on logout", err)
	}
	s.logg.Info(ctx, "session logged out")
	return nil
}
