package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
)

// Alert is a transient user-visible notification scoped to a session.
// Expired rows are pruned on read.
type Alert struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SessionID uuid.UUID       `gorm:"column:session_id;type:uuid;not null;index:idx_alerts_session"`
	Kind      enums.AlertKind `gorm:"column:kind;not null"`
	Message   string          `gorm:"column:message;not null"`
	ExpiresAt time.Time       `gorm:"column:expires_at;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
