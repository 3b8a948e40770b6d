package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/mnavarro-dev/storefront-backend/api/responses"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

// Recoverer converts handler panics into a logged 500 response so a single
// bad request cannot take down the server loop.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err := fmt.Errorf("panic: %v", rec)
					ctx := r.Context()
					if logg != nil {
						ctx = logg.WithFields(ctx, map[string]any{
							"panic": fmt.Sprintf("%v", rec),
							"stack": string(debug.Stack()),
						})
						logg.Error(ctx, "panic.recovered", err)
					}
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "request handling failed"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
