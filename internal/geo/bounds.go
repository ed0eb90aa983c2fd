package geo

import (
	"github.com/golang/geo/r2"
)

// Bounds is an axis-aligned rectangle in map space. X carries lng and Y
// carries lat.
type Bounds struct {
	rect r2.Rect
}

// EmptyBounds returns bounds that contain no points.
func EmptyBounds() Bounds {
	return Bounds{rect: r2.EmptyRect()}
}

// NewBounds builds bounds from two opposite corners given in any order.
func NewBounds(a, b LatLng) Bounds {
	return Bounds{rect: r2.RectFromPoints(toPoint(a), toPoint(b))}
}

// BoundsOf returns the smallest bounds containing every point.
func BoundsOf(points []LatLng) Bounds {
	b := EmptyBounds()
	for _, p := range points {
		b.rect = b.rect.AddPoint(toPoint(p))
	}
	return b
}

// BoundsAround returns bounds of the given height (lat span) and width (lng
// span) centred on c.
func BoundsAround(c LatLng, height, width float64) Bounds {
	return Bounds{rect: r2.RectFromCenterSize(toPoint(c), r2.Point{X: width, Y: height})}
}

// IsEmpty reports whether the bounds contain no points.
func (b Bounds) IsEmpty() bool {
	return b.rect.IsEmpty()
}

// Contains reports whether p lies inside or on the edge of b.
func (b Bounds) Contains(p LatLng) bool {
	return b.rect.ContainsPoint(toPoint(p))
}

// Intersects reports whether the two bounds share any point.
func (b Bounds) Intersects(o Bounds) bool {
	return b.rect.Intersects(o.rect)
}

// Buffered grows every side by frac of the corresponding span.
func (b Bounds) Buffered(frac float64) Bounds {
	if b.IsEmpty() || frac == 0 {
		return b
	}
	size := b.rect.Size()
	return Bounds{rect: b.rect.Expanded(r2.Point{X: size.X * frac, Y: size.Y * frac})}
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() LatLng {
	return fromPoint(b.rect.Center())
}

// SouthWest returns the minimum corner.
func (b Bounds) SouthWest() LatLng {
	return fromPoint(b.rect.Lo())
}

// NorthEast returns the maximum corner.
func (b Bounds) NorthEast() LatLng {
	return fromPoint(b.rect.Hi())
}

// Clamp moves p to the nearest point inside b. Empty bounds return p unchanged.
func (b Bounds) Clamp(p LatLng) LatLng {
	if b.IsEmpty() {
		return p
	}
	return fromPoint(b.rect.ClampPoint(toPoint(p)))
}

func toPoint(p LatLng) r2.Point {
	return r2.Point{X: p.Lng, Y: p.Lat}
}

func fromPoint(p r2.Point) LatLng {
	return LatLng{Lat: p.Y, Lng: p.X}
}
