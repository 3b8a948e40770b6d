package controllers

import (
	"net/http"

	"github.com/mnavarro-dev/storefront-backend/api/responses"
	"github.com/mnavarro-dev/storefront-backend/api/validators"
	catalogsvc "github.com/mnavarro-dev/storefront-backend/internal/catalog"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

// Products serves the paginated, category-filterable listing.
func Products(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		page, err := validators.ParseQueryInt(r, "page", 1, 1, 100000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category := validators.ParseQueryString(r, "category", "")

		listing, err := svc.List(r.Context(), page, category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, listing)
	}
}
