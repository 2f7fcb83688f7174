package geom

import "math"

// Rotate turns p about center by degrees. Screen Y grows downward, so a
// positive angle turns clockwise on screen.
func Rotate(p, center Vec, degrees float64) Vec {
	if degrees == 0 {
		return p
	}
	rad := toRad(degrees)
	cos := math.Cos(rad)
	sin := math.Sin(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return Vec{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// Angle returns the direction of p as seen from center, in degrees.
func Angle(p, center Vec) float64 {
	return toDeg(math.Atan2(p.Y-center.Y, p.X-center.X))
}

// NormalizeDegrees maps any angle into [0,360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d >= 360 {
		d = 0
	}
	return d
}
