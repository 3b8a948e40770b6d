package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
)

const defaultListLimit = 50

// Service is the order log: accepted orders written once at checkout, listed
// for the session's order history.
type Service interface {
	Record(ctx context.Context, record *models.OrderRecord) error
	List(ctx context.Context, sessionID uuid.UUID) ([]models.OrderRecord, error)
}

type service struct {
	repo Repository
}

// NewService builds the order log service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Record(ctx context.Context, record *models.OrderRecord) error {
	if record == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order record is required")
	}
	if record.SessionID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if len(record.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "order must contain at least one item")
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order record")
	}
	return nil
}

func (s *service) List(ctx context.Context, sessionID uuid.UUID) ([]models.OrderRecord, error) {
	if sessionID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	rows, err := s.repo.ListBySession(ctx, sessionID, defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return rows, nil
}
