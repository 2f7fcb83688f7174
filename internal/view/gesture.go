package view

import "trenchmap/internal/geom"

type gesture struct {
	active        bool
	center        geom.Vec
	startAngle    float64
	startRotation float64
}

// BeginGesture starts a rotation drag at visual point p around center. The
// caller decides whether rotation is allowed (mode and modifier); this only
// records the starting angle and rotation. It reports false if a gesture is
// already running.
func (t *Transform) BeginGesture(p, center geom.Vec) bool {
	if t.gesture.active {
		return false
	}
	t.gesture = gesture{
		active:        true,
		center:        center,
		startAngle:    geom.Angle(p, center),
		startRotation: t.rotation,
	}
	return true
}

// UpdateGesture rotates by the angle swept since BeginGesture.
func (t *Transform) UpdateGesture(p geom.Vec) {
	if !t.gesture.active {
		return
	}
	current := geom.Angle(p, t.gesture.center)
	t.SetRotation(t.gesture.startRotation + (current - t.gesture.startAngle))
}

// EndGesture stops the rotation drag. Safe to call when none is active.
func (t *Transform) EndGesture() {
	t.gesture = gesture{}
}

// Rotating reports whether a rotation gesture is in progress.
func (t *Transform) Rotating() bool { return t.gesture.active }
