package geom

import "fmt"

// GeoPoint is a WGS 84 coordinate in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies inside lat [-90,90] and lng [-180,180].
func (p GeoPoint) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func (p GeoPoint) String() string {
	return fmt.Sprintf("%.6f, %.6f", p.Lat, p.Lng)
}

// Vec is a point in 2-D screen space. Y grows downward.
type Vec struct {
	X float64
	Y float64
}

func (v Vec) Add(o Vec) Vec { return Vec{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec { return Vec{X: v.X - o.X, Y: v.Y - o.Y} }

// BBox is a lng/lat bounding box; X is longitude and Y latitude.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64

	set bool
}

// Extend grows the box to include p.
func (b *BBox) Extend(p GeoPoint) {
	if !b.set {
		*b = BBox{MinX: p.Lng, MinY: p.Lat, MaxX: p.Lng, MaxY: p.Lat, set: true}
		return
	}
	if p.Lng < b.MinX {
		b.MinX = p.Lng
	}
	if p.Lat < b.MinY {
		b.MinY = p.Lat
	}
	if p.Lng > b.MaxX {
		b.MaxX = p.Lng
	}
	if p.Lat > b.MaxY {
		b.MaxY = p.Lat
	}
}

// Empty reports whether nothing has been added to the box.
func (b BBox) Empty() bool { return !b.set }

// Center returns the middle of the box.
func (b BBox) Center() GeoPoint {
	return GeoPoint{Lat: (b.MinY + b.MaxY) / 2, Lng: (b.MinX + b.MaxX) / 2}
}
