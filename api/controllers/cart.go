package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/mnavarro-dev/storefront-backend/api/middleware"
	"github.com/mnavarro-dev/storefront-backend/api/responses"
	"github.com/mnavarro-dev/storefront-backend/api/validators"
	cartsvc "github.com/mnavarro-dev/storefront-backend/internal/cart"
	pkgerrors "github.com/mnavarro-dev/storefront-backend/pkg/errors"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

// offerAmount tolerates the offer price arriving as a JSON number or a quoted
// numeric string. Anything unparseable coerces to 0, matching how invalid
// numeric text entry behaves in the client.
type offerAmount float64

func (a *offerAmount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	raw = strings.Trim(raw, `"`)
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*a = 0
		return nil
	}
	*a = offerAmount(value)
	return nil
}

type addCartItemRequest struct {
	ID       string  `json:"id" validate:"required,max=64"`
	Name     string  `json:"name" validate:"required,max=200"`
	Price    float64 `json:"price" validate:"gte=0"`
	Category string  `json:"category" validate:"max=100"`
	Image    string  `json:"image" validate:"omitempty,url"`
}

type setOfferPriceRequest struct {
	OfferPrice offerAmount `json:"offerPrice"`
}

// CartGet returns the session's cart snapshot.
func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		snapshot, err := svc.Get(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartAddItem adds one unit of a product to the cart.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		snapshot, err := svc.Add(r.Context(), sessionID, types.Product{
			ID:       payload.ID,
			Name:     payload.Name,
			Price:    payload.Price,
			Category: payload.Category,
			Image:    payload.Image,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartSetOfferPrice replaces the offer price for one line.
func CartSetOfferPrice(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var payload setOfferPriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		snapshot, err := svc.SetOfferPrice(r.Context(), sessionID, productID, float64(payload.OfferPrice))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartRemoveItem deletes one line from the cart.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		snapshot, err := svc.Remove(r.Context(), sessionID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(snapshot))
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := middleware.SessionIDFromContext(r.Context())
		if err := svc.Clear(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(cartsvc.Snapshot{}))
	}
}

type cartLineResponse struct {
	Product    types.Product `json:"product"`
	Quantity   int           `json:"quantity"`
	OfferPrice float64       `json:"offerPrice"`
	ListTotal  float64       `json:"listTotal"`
	OfferTotal float64       `json:"offerTotal"`
}

type cartResponse struct {
	Lines      []cartLineResponse `json:"lines"`
	ListTotal  float64            `json:"listTotal"`
	OfferTotal float64            `json:"offerTotal"`
	ItemCount  int                `json:"itemCount"`
}

func newCartResponse(snapshot cartsvc.Snapshot) cartResponse {
	lines := make([]cartLineResponse, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, cartLineResponse{
			Product:    line.Product,
			Quantity:   line.Quantity,
			OfferPrice: line.OfferPrice,
			ListTotal:  line.LineListTotal(),
			OfferTotal: line.LineOfferTotal(),
		})
	}
	return cartResponse{
		Lines:      lines,
		ListTotal:  snapshot.ListTotal,
		OfferTotal: snapshot.OfferTotal,
		ItemCount:  snapshot.ItemCount,
	}
}
