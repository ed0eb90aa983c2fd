// Package geo holds the planar coordinate types used by the map. The map is an
// image in a simple CRS, so "lat" is the vertical pixel axis and "lng" the
// horizontal one; no spherical math applies.
package geo

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrInvalidCoordinate indicates a coordinate that is neither a {lat,lng}
// object nor a [lat, lng] tuple of numbers.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// LatLng is the canonical point representation.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Pt is shorthand for LatLng{Lat: lat, Lng: lng}.
func Pt(lat, lng float64) LatLng {
	return LatLng{Lat: lat, Lng: lng}
}

// IsFinite reports whether both components are finite numbers.
func (p LatLng) IsFinite() bool {
	return !math.IsNaN(p.Lat) && !math.IsInf(p.Lat, 0) &&
		!math.IsNaN(p.Lng) && !math.IsInf(p.Lng, 0)
}

// String renders the point as "lat,lng" with two decimals.
func (p LatLng) String() string {
	return fmt.Sprintf("%.2f,%.2f", p.Lat, p.Lng)
}

// UnmarshalJSON accepts both encodings emitted by the authoring pipeline:
// {"lat": 1, "lng": 2} and [1, 2].
func (p *LatLng) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty value", ErrInvalidCoordinate)
	}

	switch trimmed[0] {
	case '[':
		// Quoted numbers are rejected: only JSON numbers decode into float64.
		var tuple []float64
		if err := json.Unmarshal(trimmed, &tuple); err != nil {
			return fmt.Errorf("%w: tuple %s", ErrInvalidCoordinate, trimmed)
		}
		if len(tuple) != 2 {
			return fmt.Errorf("%w: tuple must have 2 elements, got %d", ErrInvalidCoordinate, len(tuple))
		}
		*p = LatLng{Lat: tuple[0], Lng: tuple[1]}
		return nil

	case '{':
		var obj struct {
			Lat *float64 `json:"lat"`
			Lng *float64 `json:"lng"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return fmt.Errorf("%w: object %s", ErrInvalidCoordinate, trimmed)
		}
		if obj.Lat == nil || obj.Lng == nil {
			return fmt.Errorf("%w: object %s lacks lat or lng", ErrInvalidCoordinate, trimmed)
		}
		*p = LatLng{Lat: *obj.Lat, Lng: *obj.Lng}
		return nil
	}

	return fmt.Errorf("%w: unsupported format %s", ErrInvalidCoordinate, trimmed)
}

// Centroid returns the arithmetic mean of the points. The second result is
// false for an empty slice.
func Centroid(points []LatLng) (LatLng, bool) {
	if len(points) == 0 {
		return LatLng{}, false
	}
	var latSum, lngSum float64
	for _, p := range points {
		latSum += p.Lat
		lngSum += p.Lng
	}
	n := float64(len(points))
	return LatLng{Lat: latSum / n, Lng: lngSum / n}, true
}

// PolygonContains reports whether p lies inside the ring using the even-odd
// rule. Rings with fewer than three points contain nothing.
func PolygonContains(ring []LatLng, p LatLng) bool {
	n := len(ring)
	if n < 3 {
		return false
	}
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		yi, xi := ring[i].Lat, ring[i].Lng
		yj, xj := ring[j].Lat, ring[j].Lng
		if (yi > p.Lat) != (yj > p.Lat) &&
			p.Lng < (xj-xi)*(p.Lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
