package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

// DefaultTTL keeps alerts around long enough for the next poll but prevents
// a stale backlog from replaying on a later visit.
const DefaultTTL = 30 * time.Second

// Service records and serves the transient notifications the client shows
// as toasts. Notify is fire-and-forget: a failed write is logged, never
// propagated, because no caller treats a missing toast as an error.
type Service interface {
	Notify(ctx context.Context, sessionID uuid.UUID, kind enums.AlertKind, message string)
	List(ctx context.Context, sessionID uuid.UUID) ([]models.Alert, error)
	Dismiss(ctx context.Context, sessionID, alertID uuid.UUID) error
}

type service struct {
	repo Repository
	ttl  time.Duration
	logg *logger.Logger
	now  func() time.Time
}

// NewService builds the alert service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, ttl: DefaultTTL, logg: logg, now: time.Now}, nil
}

func (s *service) Notify(ctx context.Context, sessionID uuid.UUID, kind enums.AlertKind, message string) {
	if sessionID == uuid.Nil || message == "" {
		return
	}
	if !kind.IsValid() {
		kind = enums.AlertKindInfo
	}
	alert := &models.Alert{
		ID:        uuid.New(),
		SessionID: sessionID,
		Kind:      kind,
		Message:   message,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, alert); err != nil {
		s.logg.Error(ctx, "persist alert", err)
	}
}

func (s *service) List(ctx context.Context, sessionID uuid.UUID) ([]models.Alert, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	now := s.now()
	if err := s.repo.DeleteExpired(ctx, sessionID, now); err != nil {
		s.logg.Error(ctx, "prune expired alerts", err)
	}
	rows, err := s.repo.ListActive(ctx, sessionID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list alerts")
	}
	return rows, nil
}

func (s *service) Dismiss(ctx context.Context, sessionID, alertID uuid.UUID) error {
	if sessionID == uuid.Nil || alertID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id and alert id are required")
	}
	if err := s.repo.Delete(ctx, sessionID, alertID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "dismiss alert")
	}
	return nil
}
