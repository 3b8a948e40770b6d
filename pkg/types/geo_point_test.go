package types

import (
	"math"
	"testing"
)

func TestNewGeoPoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		lat     float64
		lng     float64
		wantErr bool
	}{
		{"valid", 12.34, 56.78, false},
		{"null island is a real fix", 0, 0, false},
		{"lat upper bound", 90, 0, false},
		{"lng lower bound", 0, -180, false},
		{"lat out of range", 90.01, 0, true},
		{"lng out of range", 0, 180.5, true},
		{"nan latitude", math.NaN(), 0, true},
		{"infinite longitude", 0, math.Inf(1), true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			point, err := NewGeoPoint(tc.lat, tc.lng)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if point.Latitude != tc.lat || point.Longitude != tc.lng {
				t.Fatalf("unexpected point %+v", point)
			}
		})
	}
}

func TestCoerce(t *testing.T) {
	t.Parallel()

	var absent *GeoPoint
	lat, lng, resolved := absent.Coerce()
	if lat != 0 || lng != 0 || resolved {
		t.Fatalf("absent point must coerce to unresolved zeroes, got %v %v %v", lat, lng, resolved)
	}

	fix := &GeoPoint{Latitude: 0, Longitude: 0}
	lat, lng, resolved = fix.Coerce()
	if !resolved {
		t.Fatalf("a real 0,0 fix must stay resolved")
	}
	_ = lat
	_ = lng
}

func TestClone(t *testing.T) {
	t.Parallel()

	var absent *GeoPoint
	if absent.Clone() != nil {
		t.Fatalf("nil must clone to nil")
	}

	original := &GeoPoint{Latitude: 1, Longitude: 2}
	clone := original.Clone()
	clone.Latitude = 99
	if original.Latitude != 1 {
		t.Fatalf("clone must be independent")
	}
}
