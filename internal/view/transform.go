// Package view holds the display rotation and the model-space projection.
//
// The render surface is rotated as a whole by RotationDegrees. Geometry is
// always kept in model space, the unrotated projection the backend uses for
// geo lookups; pointer positions arrive in visual space and must be passed
// through ToModelPoint before they are turned into coordinates.
package view

import "trenchmap/internal/geom"

// Transform owns the current rotation of the visual surface.
type Transform struct {
	rotation  float64
	listeners []func(deg float64)
	gesture   gesture
}

// NewTransform returns an unrotated transform.
func NewTransform() *Transform {
	return &Transform{}
}

// Rotation returns the current rotation in [0,360).
func (t *Transform) Rotation() float64 { return t.rotation }

// SetRotation normalizes deg into [0,360), stores it and notifies listeners.
func (t *Transform) SetRotation(deg float64) {
	t.rotation = geom.NormalizeDegrees(deg)
	for _, fn := range t.listeners {
		fn(t.rotation)
	}
}

// RotateBy adds deg to the current rotation.
func (t *Transform) RotateBy(deg float64) {
	t.SetRotation(t.rotation + deg)
}

// OnChange registers fn to run after every rotation change.
func (t *Transform) OnChange(fn func(deg float64)) {
	t.listeners = append(t.listeners, fn)
}

// ToModelPoint maps a visual pointer position to model space by rotating it
// about center by -Rotation.
func (t *Transform) ToModelPoint(visual, center geom.Vec) geom.Vec {
	return geom.Rotate(visual, center, -t.rotation)
}

// ToVisualPoint is the forward rotation used when painting.
func (t *Transform) ToVisualPoint(model, center geom.Vec) geom.Vec {
	return geom.Rotate(model, center, t.rotation)
}

// ToModelDelta rotates a visual displacement into model space.
func (t *Transform) ToModelDelta(d geom.Vec) geom.Vec {
	return geom.Rotate(d, geom.Vec{}, -t.rotation)
}
