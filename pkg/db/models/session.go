package models

import (
	"time"

	"github.com/google/uuid"
)

// Session records an authenticated phone login and the upstream token it was
// granted. Revocation is tracked here and mirrored in redis for fast checks.
type Session struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Phone         string     `gorm:"column:phone;not null;index:idx_sessions_phone"`
	UpstreamToken string     `gorm:"column:upstream_token;not null"`
	RevokedAt     *time.Time `gorm:"column:revoked_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// Active reports whether the session can still be used.
func (s Session) Active() bool {
	return s.RevokedAt == nil
}
