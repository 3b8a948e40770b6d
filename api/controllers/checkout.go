package controllers

import (
	"net/http"
	"strings"

	"github.com/mnavarro-dev/storefront-backend/api/middleware"
	"github.com/mnavarro-dev/storefront-backend/api/responses"
	"github.com/mnavarro-dev/storefront-backend/api/validators"
	checkoutsvc "github.com/mnavarro-dev/storefront-backend/internal/checkout"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

const chatIDHeader = "X-Chat-Id"

type submitRequest struct {
	Location *locationPayload `json:"location" validate:"omitempty"`
}

type locationPayload struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

func (p *locationPayload) toPoint() (*types.GeoPoint, error) {
	if p == nil {
		return nil, nil
	}
	point, err := types.NewGeoPoint(p.Latitude, p.Longitude)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location")
	}
	return point, nil
}

// CheckoutOpen starts a fresh checkout session for the caller.
func CheckoutOpen(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		phone := middleware.PhoneFromContext(r.Context())

		var suppliedChatID *string
		if raw := strings.TrimSpace(r.Header.Get(chatIDHeader)); raw != "" {
			suppliedChatID = &raw
		}

		status, err := svc.Open(r.Context(), sessionID, phone, suppliedChatID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, status)
	}
}

// CheckoutStatus reports the current checkout session state.
func CheckoutStatus(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		status, err := svc.Status(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// CheckoutUpdateForm applies partial edits to the checkout form.
func CheckoutUpdateForm(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch checkoutsvc.FormPatch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		status, err := svc.UpdateForm(r.Context(), sessionID, patch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// CheckoutSubmit runs a submission attempt. Device-resolved coordinates may
// ride along in the body and take precedence over server-side acquisition.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		point, err := decodeOptionalLocation(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		status, err := svc.Submit(r.Context(), sessionID, point)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// CheckoutRetryLocation re-runs acquisition after a strict-policy failure.
func CheckoutRetryLocation(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		point, err := decodeOptionalLocation(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		status, err := svc.RetryLocation(r.Context(), sessionID, point)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// CheckoutClose dismisses the checkout session.
func CheckoutClose(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		status, err := svc.Close(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, status)
	}
}

// decodeOptionalLocation reads the submit body, which is allowed to be empty.
func decodeOptionalLocation(r *http.Request) (*types.GeoPoint, error) {
	if r.ContentLength == 0 {
		return nil, nil
	}
	var payload submitRequest
	if err := validators.DecodeJSONBody(r, &payload); err != nil {
		return nil, err
	}
	return payload.Location.toPoint()
}
