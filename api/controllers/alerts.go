package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/api/middleware"
	"github.com/mnavarro-dev/storefront-backend/api/responses"
	alertsvc "github.com/mnavarro-dev/storefront-backend/internal/alerts"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

type alertResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// AlertsList returns the session's pending alerts.
func AlertsList(svc alertsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		rows, err := svc.List(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newAlertListResponse(rows))
	}
}

// AlertsDismiss deletes one alert.
func AlertsDismiss(svc alertsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		alertID, err := uuid.Parse(chi.URLParam(r, "alertID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid alert id"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Dismiss(r.Context(), sessionID, alertID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "dismissed"})
	}
}

func newAlertListResponse(rows []models.Alert) []alertResponse {
	out := make([]alertResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, alertResponse{
			ID:        row.ID,
			Kind:      row.Kind.String(),
			Message:   row.Message,
			CreatedAt: row.CreatedAt,
		})
	}
	return out
}
