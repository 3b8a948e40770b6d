package models

import (
	"time"

	"github.com/google/uuid"
)

// CartLine persists one product line of a session's cart. Position preserves
// insertion order, which is also display order.
type CartLine struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	SessionID  uuid.UUID `gorm:"column:session_id;type:uuid;not null;uniqueIndex:idx_cart_lines_session_product"`
	ProductID  string    `gorm:"column:product_id;not null;uniqueIndex:idx_cart_lines_session_product"`
	Name       string    `gorm:"column:name;not null"`
	Price      float64   `gorm:"column:price;not null"`
	Category   string    `gorm:"column:category"`
	Image      string    `gorm:"column:image"`
	Quantity   int       `gorm:"column:quantity;not null"`
	OfferPrice float64   `gorm:"column:offer_price;not null"`
	Position   int       `gorm:"column:position;not null"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
