package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/internal/repo"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists authenticated sessions.
type Repository interface {
	Create(ctx context.Context, session *models.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error
}

type repository struct {
	repo.Base
}

// NewRepository builds the session repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	return r.DB(ctx).Create(session).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var row models.Session
	err := r.DB(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB(ctx).
		Model(&models.Session{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Update("revoked_at", at).Error
}
