package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/api/middleware"
	"github.com/mnavarro-dev/storefront-backend/api/responses"
	ordersvc "github.com/mnavarro-dev/storefront-backend/internal/orders"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

type orderResponse struct {
	ID            uuid.UUID                  `json:"id"`
	CustomerName  string                     `json:"customerName"`
	CustomerPhone string                     `json:"customerPhone"`
	CustomerType  string                     `json:"customerType"`
	Latitude      *float64                   `json:"latitude,omitempty"`
	Longitude     *float64                   `json:"longitude,omitempty"`
	Items         []models.OrderItemSnapshot `json:"items"`
	Total         float64                    `json:"total"`
	TotalOffer    float64                    `json:"totalOffer"`
	CreatedAt     time.Time                  `json:"createdAt"`
}

// OrdersList returns the session's accepted order history.
func OrdersList(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		rows, err := svc.List(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]orderResponse, 0, len(rows))
		for _, row := range rows {
			out = append(out, orderResponse{
				ID:            row.ID,
				CustomerName:  row.CustomerName,
				CustomerPhone: row.CustomerPhone,
				CustomerType:  row.CustomerType.String(),
				Latitude:      row.Latitude,
				Longitude:     row.Longitude,
				Items:         row.Items,
				Total:         row.Total,
				TotalOffer:    row.TotalOffer,
				CreatedAt:     row.CreatedAt,
			})
		}
		responses.WriteSuccess(w, out)
	}
}
