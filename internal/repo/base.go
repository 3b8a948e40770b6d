package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base is the shared foundation for the storefront's domain repositories.
// The per-session stores (cart lines, alerts, order records, sessions)
// embed it and query through DB so the request context rides along.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// Rebound returns a Base bound to tx instead of the root connection.
// Repositories use it to derive transactional copies of themselves; a
// nil tx leaves the receiver untouched.
func (b Base) Rebound(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}
