package types

import (
	"fmt"
	"math"
)

// GeoPoint is a resolved device position. Absence of a position is always a
// nil *GeoPoint; 0,0 is a legitimate fix (Gulf of Guinea) and is never used as
// an "unknown" sentinel inside the process. Coercion of absence to numeric
// zeroes happens only in the outbound order payload.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// NewGeoPoint validates and builds a position fix.
func NewGeoPoint(lat, lng float64) (*GeoPoint, error) {
	p := &GeoPoint{Latitude: lat, Longitude: lng}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate rejects non-finite and out-of-range coordinates.
func (g *GeoPoint) Validate() error {
	if g == nil {
		return nil
	}
	if math.IsNaN(g.Latitude) || math.IsInf(g.Latitude, 0) {
		return fmt.Errorf("latitude must be finite")
	}
	if math.IsNaN(g.Longitude) || math.IsInf(g.Longitude, 0) {
		return fmt.Errorf("longitude must be finite")
	}
	if g.Latitude < -90 || g.Latitude > 90 {
		return fmt.Errorf("latitude %f out of range", g.Latitude)
	}
	if g.Longitude < -180 || g.Longitude > 180 {
		return fmt.Errorf("longitude %f out of range", g.Longitude)
	}
	return nil
}

// Coerce flattens the point for transports whose schema requires numeric
// lat/lng fields: an absent point becomes 0,0 with resolved=false.
func (g *GeoPoint) Coerce() (lat, lng float64, resolved bool) {
	if g == nil {
		return 0, 0, false
	}
	return g.Latitude, g.Longitude, true
}

// Clone returns an independent copy, preserving nil.
func (g *GeoPoint) Clone() *GeoPoint {
	if g == nil {
		return nil
	}
	clone := *g
	return &clone
}
