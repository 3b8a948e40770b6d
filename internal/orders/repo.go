package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/internal/repo"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists the log of accepted orders.
type Repository interface {
	Create(ctx context.Context, record *models.OrderRecord) error
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.OrderRecord, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds the order log repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, record *models.OrderRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.DB(ctx).Create(record).Error
}

func (r *repository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit int) ([]models.OrderRecord, error) {
	var rows []models.OrderRecord
	query := r.DB(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
