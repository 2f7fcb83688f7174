package view

import (
	"math"

	"trenchmap/internal/geom"
)

const (
	minMetersPerPixel = 0.01
	maxMetersPerPixel = 5000
)

// Projection is a local equirectangular projection centred on a point. It
// maps geographic coordinates to unrotated model-space pixels with (0,0) at
// the top-left.
type Projection struct {
	center         geom.GeoPoint
	metersPerPixel float64
	width          float64
	height         float64

	kx float64 // pixels per degree of longitude
	ky float64 // pixels per degree of latitude
}

// NewProjection creates a projection of a width x height pixel surface.
func NewProjection(center geom.GeoPoint, metersPerPixel, width, height float64) *Projection {
	p := &Projection{
		center:         center,
		metersPerPixel: clampScale(metersPerPixel),
		width:          width,
		height:         height,
	}
	p.calculateScale()
	return p
}

func clampScale(mpp float64) float64 {
	if mpp <= 0 || math.IsNaN(mpp) {
		return 1
	}
	return math.Max(minMetersPerPixel, math.Min(maxMetersPerPixel, mpp))
}

// calculateScale derives the pixels-per-degree factors from the scale and
// the latitude of the centre.
func (p *Projection) calculateScale() {
	metersPerDegree := geom.EarthRadius * math.Pi / 180
	cosLat := math.Max(1e-6, math.Cos(p.center.Lat*math.Pi/180))
	p.ky = metersPerDegree / p.metersPerPixel
	p.kx = metersPerDegree * cosLat / p.metersPerPixel
}

// GeoToScreen converts a coordinate to model-space pixels.
func (p *Projection) GeoToScreen(g geom.GeoPoint) geom.Vec {
	return geom.Vec{
		X: p.width/2 + (g.Lng-p.center.Lng)*p.kx,
		Y: p.height/2 - (g.Lat-p.center.Lat)*p.ky, // screen Y is inverted
	}
}

// ScreenToGeo converts model-space pixels back to a coordinate.
func (p *Projection) ScreenToGeo(v geom.Vec) geom.GeoPoint {
	return geom.GeoPoint{
		Lat: p.center.Lat - (v.Y-p.height/2)/p.ky,
		Lng: p.center.Lng + (v.X-p.width/2)/p.kx,
	}
}

// Center returns the screen centre in pixels, which is also the rotation
// centre of the visual surface.
func (p *Projection) Center() geom.Vec {
	return geom.Vec{X: p.width / 2, Y: p.height / 2}
}

// GeoCenter returns the coordinate at the middle of the surface.
func (p *Projection) GeoCenter() geom.GeoPoint { return p.center }

// MetersPerPixel returns the current scale.
func (p *Projection) MetersPerPixel() float64 { return p.metersPerPixel }

// Size returns the surface size in pixels.
func (p *Projection) Size() (w, h float64) { return p.width, p.height }

// Resize updates the surface dimensions.
func (p *Projection) Resize(width, height float64) {
	p.width = width
	p.height = height
}

// SetCenter recentres the projection on g.
func (p *Projection) SetCenter(g geom.GeoPoint) {
	p.center = g
	p.calculateScale()
}

// Pan moves the view by a model-space pixel displacement.
func (p *Projection) Pan(d geom.Vec) {
	c := p.Center()
	p.SetCenter(p.ScreenToGeo(geom.Vec{X: c.X + d.X, Y: c.Y + d.Y}))
}

// Zoom multiplies the scale; factors above 1 zoom in.
func (p *Projection) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	p.metersPerPixel = clampScale(p.metersPerPixel / factor)
	p.calculateScale()
}

// Fit centres on b and picks a scale that shows all of it with a margin.
func (p *Projection) Fit(b geom.BBox) {
	if b.Empty() || p.width <= 0 || p.height <= 0 {
		return
	}
	c := b.Center()
	spanY := geom.Distance(geom.GeoPoint{Lat: b.MinY, Lng: c.Lng}, geom.GeoPoint{Lat: b.MaxY, Lng: c.Lng})
	spanX := geom.Distance(geom.GeoPoint{Lat: c.Lat, Lng: b.MinX}, geom.GeoPoint{Lat: c.Lat, Lng: b.MaxX})
	mpp := math.Max(spanX/(p.width*0.8), spanY/(p.height*0.8))
	p.center = c
	p.metersPerPixel = clampScale(math.Max(mpp, minMetersPerPixel))
	p.calculateScale()
}

// Bounds returns the geographic box covered by the unrotated surface.
func (p *Projection) Bounds() geom.BBox {
	var b geom.BBox
	b.Extend(p.ScreenToGeo(geom.Vec{X: 0, Y: 0}))
	b.Extend(p.ScreenToGeo(geom.Vec{X: p.width, Y: p.height}))
	return b
}
