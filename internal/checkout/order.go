package checkout

import (
	"strings"

	"github.com/mnavarro-dev/storefront-backend/internal/cart"
	"github.com/mnavarro-dev/storefront-backend/pkg/enums"
	"github.com/mnavarro-dev/storefront-backend/pkg/types"
	"github.com/mnavarro-dev/storefront-backend/pkg/upstream"
)

// OrderRequest is the immutable snapshot built exactly once per submission
// attempt, after location acquisition resolves. Location stays nil when
// acquisition failed under a lenient policy.
type OrderRequest struct {
	CustomerName  string
	CustomerPhone string
	CustomerType  enums.CustomerType
	Location      *types.GeoPoint
	Items         []cart.Line
	Total         float64
	TotalOffer    float64
	ChatID        *string
}

func buildOrderRequest(form Form, snap cart.Snapshot, point *types.GeoPoint, chatID *string) OrderRequest {
	return OrderRequest{
		CustomerName:  strings.TrimSpace(form.CustomerName),
		CustomerPhone: strings.TrimSpace(form.CustomerPhone),
		CustomerType:  form.CustomerType,
		Location:      point.Clone(),
		Items:         snap.Lines,
		Total:         snap.ListTotal,
		TotalOffer:    snap.OfferTotal,
		ChatID:        chatID,
	}
}

// Payload flattens the request into the upstream wire shape. The coercion of
// an absent location to 0,0 happens here and nowhere else.
func (r OrderRequest) Payload() upstream.OrderPayload {
	lat, lng, resolved := r.Location.Coerce()
	items := make([]upstream.OrderPayloadItem, 0, len(r.Items))
	for _, line := range r.Items {
		items = append(items, upstream.OrderPayloadItem{
			ID:         line.Product.ID,
			Name:       line.Product.Name,
			Price:      line.Product.Price,
			Category:   line.Product.Category,
			Image:      line.Product.Image,
			Quantity:   line.Quantity,
			OfferPrice: line.OfferPrice,
		})
	}
	return upstream.OrderPayload{
		CustomerName:     r.CustomerName,
		CustomerPhone:    r.CustomerPhone,
		CustomerType:     r.CustomerType.String(),
		Latitude:         lat,
		Longitude:        lng,
		LocationResolved: resolved,
		Items:            items,
		Total:            r.Total,
		TotalOffer:       r.TotalOffer,
		ChatID:           r.ChatID,
	}
}
