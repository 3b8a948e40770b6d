package controllers

import (
	"net/http"

	"github.com/mnavarro-dev/storefront-backend/api/middleware"
	"github.com/mnavarro-dev/storefront-backend/api/responses"
	"github.com/mnavarro-dev/storefront-backend/api/validators"
	sessionsvc "github.com/mnavarro-dev/storefront-backend/internal/session"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

type loginRequest struct {
	Phone string `json:"phone" validate:"required,max=32"`
}

// Login exchanges a phone number for a session token.
func Login(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// Logout revokes the current session and empties its cart.
func Logout(svc sessionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Logout(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
