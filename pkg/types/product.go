package types

// Product is one catalog row as served by the upstream backend. Immutable
// once loaded; cart lines snapshot these fields at add time.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
	Image    string  `json:"image"`
}
