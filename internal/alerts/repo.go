package alerts

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/internal/repo"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists session-scoped alerts.
type Repository interface {
	Create(ctx context.Context, alert *models.Alert) error
	ListActive(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]models.Alert, error)
	DeleteExpired(ctx context.Context, sessionID uuid.UUID, now time.Time) error
	Delete(ctx context.Context, sessionID, alertID uuid.UUID) error
}

type repository struct {
	repo.Base
}

// NewRepository builds the alert repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, alert *models.Alert) error {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	return r.DB(ctx).Create(alert).Error
}

func (r *repository) ListActive(ctx context.Context, sessionID uuid.UUID, now time.Time) ([]models.Alert, error) {
	var rows []models.Alert
	err := r.DB(ctx).
		Where("session_id = ? AND expires_at > ?", sessionID, now).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) DeleteExpired(ctx context.Context, sessionID uuid.UUID, now time.Time) error {
	return r.DB(ctx).
		Where("session_id = ? AND expires_at <= ?", sessionID, now).
		Delete(&models.Alert{}).Error
}

func (r *repository) Delete(ctx context.Context, sessionID, alertID uuid.UUID) error {
	return r.DB(ctx).
		Where("id = ? AND session_id = ?", alertID, sessionID).
		Delete(&models.Alert{}).Error
}
