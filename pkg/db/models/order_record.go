package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
)

// OrderItemSnapshot is the immutable cart line copy embedded in an order record.
type OrderItemSnapshot struct {
	ProductID  string  `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Category   string  `json:"category"`
	Image      string  `json:"image"`
	Quantity   int     `json:"quantity"`
	OfferPrice float64 `json:"offerPrice"`
}

// OrderRecord logs an order request accepted by the upstream backend. It is
// written once after a confirmed submission and never mutated.
type OrderRecord struct {
	ID             uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SessionID      uuid.UUID           `gorm:"column:session_id;type:uuid;not null;index:idx_order_records_session"`
	CustomerName   string              `gorm:"column:customer_name;not null"`
	CustomerPhone  string              `gorm:"column:customer_phone;not null"`
	CustomerType   enums.CustomerType  `gorm:"column:customer_type;not null"`
	Latitude       *float64            `gorm:"column:latitude"`
	Longitude      *float64            `gorm:"column:longitude"`
	Items          []OrderItemSnapshot `gorm:"column:items;serializer:json"`
	Total          float64             `gorm:"column:total;not null"`
	TotalOffer     float64             `gorm:"column:total_offer;not null"`
	ExternalChatID *string             `gorm:"column:external_chat_id"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime"`
}
