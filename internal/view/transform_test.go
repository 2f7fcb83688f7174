package view

import (
	"math"
	"testing"

	"trenchmap/internal/geom"
)

func closeTo(a, b geom.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

func TestSetRotation_Normalizes(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(-90)
	if tr.Rotation() != 270 {
		t.Fatalf("Rotation() = %v, want 270", tr.Rotation())
	}
	tr.SetRotation(720 + 15)
	if tr.Rotation() != 15 {
		t.Fatalf("Rotation() = %v, want 15", tr.Rotation())
	}
}

func TestSetRotation_NotifiesListeners(t *testing.T) {
	tr := NewTransform()
	var got []float64
	tr.OnChange(func(deg float64) { got = append(got, deg) })
	tr.SetRotation(10)
	tr.RotateBy(-20)
	if len(got) != 2 || got[0] != 10 || got[1] != 350 {
		t.Fatalf("listener saw %v", got)
	}
}

func TestModelVisualRoundTrip(t *testing.T) {
	tr := NewTransform()
	center := geom.Vec{X: 80, Y: 48}
	pts := []geom.Vec{{X: 0, Y: 0}, {X: 80, Y: 48}, {X: 159, Y: 95}, {X: 12.5, Y: 70}}
	for deg := 0.0; deg < 360; deg += 11.25 {
		tr.SetRotation(deg)
		for _, p := range pts {
			back := tr.ToModelPoint(tr.ToVisualPoint(p, center), center)
			if !closeTo(back, p, 1e-9) {
				t.Fatalf("round trip at %v: %v -> %v", deg, p, back)
			}
		}
	}
}

func TestToModelPoint_UndoesVisualRotation(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(90)
	center := geom.Vec{X: 50, Y: 50}
	// model point right of center renders below it
	visual := tr.ToVisualPoint(geom.Vec{X: 60, Y: 50}, center)
	if !closeTo(visual, geom.Vec{X: 50, Y: 60}, 1e-9) {
		t.Fatalf("ToVisualPoint = %v", visual)
	}
	if m := tr.ToModelPoint(geom.Vec{X: 50, Y: 60}, center); !closeTo(m, geom.Vec{X: 60, Y: 50}, 1e-9) {
		t.Fatalf("ToModelPoint = %v", m)
	}
}

func TestGesture(t *testing.T) {
	tr := NewTransform()
	tr.SetRotation(30)
	c := geom.Vec{X: 0, Y: 0}
	if !tr.BeginGesture(geom.Vec{X: 10, Y: 0}, c) {
		t.Fatalf("BeginGesture refused")
	}
	if tr.BeginGesture(geom.Vec{X: 0, Y: 10}, c) {
		t.Fatalf("second BeginGesture accepted")
	}
	if !tr.Rotating() {
		t.Fatalf("Rotating() = false during gesture")
	}
	// quarter turn clockwise on screen
	tr.UpdateGesture(geom.Vec{X: 0, Y: 10})
	if math.Abs(tr.Rotation()-120) > 1e-9 {
		t.Fatalf("Rotation() = %v, want 120", tr.Rotation())
	}
	// back past the start
	tr.UpdateGesture(geom.Vec{X: 0, Y: -10})
	if math.Abs(tr.Rotation()-300) > 1e-9 {
		t.Fatalf("Rotation() = %v, want 300", tr.Rotation())
	}
	tr.EndGesture()
	if tr.Rotating() {
		t.Fatalf("Rotating() after EndGesture")
	}
	tr.UpdateGesture(geom.Vec{X: 10, Y: 0})
	if math.Abs(tr.Rotation()-300) > 1e-9 {
		t.Fatalf("UpdateGesture after end changed rotation to %v", tr.Rotation())
	}
}
