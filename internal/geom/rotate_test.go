package geom

import (
	"math"
	"testing"
)

func near(a, b Vec) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestRotate_QuarterTurnIsClockwise(t *testing.T) {
	c := Vec{X: 100, Y: 100}
	// a point to the right of center moves below it
	got := Rotate(Vec{X: 110, Y: 100}, c, 90)
	if !near(got, Vec{X: 100, Y: 110}) {
		t.Fatalf("Rotate 90 = %v", got)
	}
}

func TestRotate_InverseRoundTrip(t *testing.T) {
	c := Vec{X: 40, Y: 25}
	pts := []Vec{{0, 0}, {40, 25}, {80, 3}, {-12.5, 99.25}}
	for deg := -720.0; deg <= 720; deg += 7.5 {
		for _, p := range pts {
			back := Rotate(Rotate(p, c, deg), c, -deg)
			if !near(back, p) {
				t.Fatalf("round trip at %v deg: %v -> %v", deg, p, back)
			}
		}
	}
}

func TestAngle(t *testing.T) {
	c := Vec{}
	if a := Angle(Vec{0, 5}, c); math.Abs(a-90) > 1e-12 {
		t.Fatalf("Angle below center = %v, want 90", a)
	}
	if a := Angle(Vec{-5, 0}, c); math.Abs(a-180) > 1e-12 {
		t.Fatalf("Angle left of center = %v, want 180", a)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		360:  0,
		-90:  270,
		725:  5,
		-720: 0,
		359:  359,
	}
	for in, want := range tests {
		if got := NormalizeDegrees(in); math.Abs(got-want) > 1e-9 {
			t.Fatalf("NormalizeDegrees(%v) = %v, want %v", in, got, want)
		}
	}
}
