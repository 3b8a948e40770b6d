package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/mnavarro-dev/storefront-backend/api/responses"
	"github.com/mnavarro-dev/storefront-backend/api/validators"
	pkgAuth "github.com/mnavarro-dev/storefront-backend/pkg/auth"
	"github.com/mnavarro-dev/storefront-backend/pkg/config"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

// SessionChecker reports whether a session is still usable (not revoked).
type SessionChecker interface {
	Active(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

// Auth validates the session bearer token and seeds the request context with
// the session identity.
func Auth(cfg config.JWTConfig, checker SessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := validators.BearerToken(r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgAuth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}
			if claims.SessionID == uuid.Nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			if checker != nil {
				active, err := checker.Active(r.Context(), claims.SessionID)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !active {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session revoked"))
					return
				}
			}

			ctx := WithSession(r.Context(), claims.SessionID, claims.Phone)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, claims.SessionID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
