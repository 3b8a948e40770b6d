package cart

import (
	"math"

	"github.com/mnavarro-dev/storefront-backend/pkg/types"
)

// Line is one cart entry: a product snapshot plus quantity and the
// customer-proposed offer price. The offer price is advisory; nothing ties it
// to the list price.
type Line struct {
	Product    types.Product
	Quantity   int
	OfferPrice float64
}

// LineListTotal is the line's contribution at list price.
func (l Line) LineListTotal() float64 {
	return l.Product.Price * float64(l.Quantity)
}

// LineOfferTotal is the line's contribution at the offered price.
func (l Line) LineOfferTotal() float64 {
	return l.OfferPrice * float64(l.Quantity)
}

// Ledger holds the cart lines in insertion order, which is display order.
// At most one line exists per product id; repeated adds merge quantities.
// Totals are derived on read and never cached.
type Ledger struct {
	lines []Line
}

// NewLedger builds a ledger from existing lines (hydration from storage).
func NewLedger(lines []Line) *Ledger {
	copied := make([]Line, len(lines))
	copy(copied, lines)
	return &Ledger{lines: copied}
}

// Add merges a repeat product into its existing line (quantity +1, offer
// price untouched) or appends a fresh line with quantity 1 and the offer
// price initialized to the list price. Reports whether a new line was created.
func (g *Ledger) Add(product types.Product) bool {
	for i := range g.lines {
		if g.lines[i].Product.ID == product.ID {
			g.lines[i].Quantity++
			return false
		}
	}
	g.lines = append(g.lines, Line{
		Product:    product,
		Quantity:   1,
		OfferPrice: product.Price,
	})
	return true
}

// SetOfferPrice replaces the offer price for the matching line. Missing lines
// are a no-op. Negative or non-numeric input clamps to 0, matching the
// behavior of coercing invalid numeric text entry.
func (g *Ledger) SetOfferPrice(productID string, price float64) {
	if price < 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		price = 0
	}
	for i := range g.lines {
		if g.lines[i].Product.ID == productID {
			g.lines[i].OfferPrice = price
			return
		}
	}
}

// Remove deletes the line for productID if present.
func (g *Ledger) Remove(productID string) {
	for i := range g.lines {
		if g.lines[i].Product.ID == productID {
			g.lines = append(g.lines[:i], g.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the ledger.
func (g *Ledger) Clear() {
	g.lines = nil
}

// Lines returns an independent copy of the lines in display order.
func (g *Ledger) Lines() []Line {
	out := make([]Line, len(g.lines))
	copy(out, g.lines)
	return out
}

// Len returns the number of distinct lines.
func (g *Ledger) Len() int {
	return len(g.lines)
}

// ListTotal sums price x quantity over all lines.
func (g *Ledger) ListTotal() float64 {
	var total float64
	for _, line := range g.lines {
		total += line.LineListTotal()
	}
	return total
}

// OfferTotal sums offerPrice x quantity over all lines.
func (g *Ledger) OfferTotal() float64 {
	var total float64
	for _, line := range g.lines {
		total += line.LineOfferTotal()
	}
	return total
}

// ItemCount sums quantities over all lines.
func (g *Ledger) ItemCount() int {
	var count int
	for _, line := range g.lines {
		count += line.Quantity
	}
	return count
}

// Snapshot captures the ledger and its totals at a point in time. The copy is
// deep: later ledger mutations never leak into a built order request.
type Snapshot struct {
	Lines      []Line
	ListTotal  float64
	OfferTotal float64
	ItemCount  int
}

// Snapshot derives an immutable snapshot of the current ledger state.
func (g *Ledger) Snapshot() Snapshot {
	return Snapshot{
		Lines:      g.Lines(),
		ListTotal:  g.ListTotal(),
		OfferTotal: g.OfferTotal(),
		ItemCount:  g.ItemCount(),
	}
}
