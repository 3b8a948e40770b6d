package cart

import (
	"context"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/internal/repo"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists cart lines per session.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBySession(ctx context.Context, sessionID uuid.UUID) ([]models.CartLine, error)
	ReplaceForSession(ctx context.Context, sessionID uuid.UUID, lines []models.CartLine) error
	DeleteForSession(ctx context.Context, sessionID uuid.UUID) error
}

type repository struct {
	repo.Base
}

// NewRepository builds the cart line repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{Base: r.Rebound(tx)}
}

func (r *repository) FindBySession(ctx context.Context, sessionID uuid.UUID) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := r.DB(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *repository) ReplaceForSession(ctx context.Context, sessionID uuid.UUID, lines []models.CartLine) error {
	if err := r.DeleteForSession(ctx, sessionID); err != nil {
		return err
	}
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		if lines[i].ID == uuid.Nil {
			lines[i].ID = uuid.New()
		}
		lines[i].SessionID = sessionID
		lines[i].Position = i
	}
	return r.DB(ctx).Create(&lines).Error
}

func (r *repository) DeleteForSession(ctx context.Context, sessionID uuid.UUID) error {
	return r.DB(ctx).
		Where("session_id = ?", sessionID).
		Delete(&models.CartLine{}).Error
}
