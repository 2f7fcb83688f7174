package router

import (
	"fmt"
	"strings"

	"trenchmap/internal/annot"
	"trenchmap/internal/geom"
)

// Mode is the active interaction mode.
type Mode int

const (
	ModeDraw Mode = iota
	ModeSelect
	ModeRotate
)

var modeNames = []string{"draw", "select", "rotate"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// Next cycles draw -> select -> rotate -> draw.
func (m Mode) Next() Mode { return (m + 1) % Mode(len(modeNames)) }

// ParseMode accepts a mode name.
func ParseMode(s string) (Mode, error) {
	for i, n := range modeNames {
		if strings.EqualFold(s, n) {
			return Mode(i), nil
		}
	}
	return ModeDraw, fmt.Errorf("mode %q: %w", s, annot.ErrInvalidInput)
}

// Origin records how a pending start point was placed.
type Origin int

const (
	OriginClick Origin = iota
	OriginGPS
)

func (o Origin) String() string {
	if o == OriginGPS {
		return "gps"
	}
	return "click"
}

// Gesture is the pointer gesture in progress. Rotating and dragging are
// mutually exclusive.
type Gesture int

const (
	GestureNone Gesture = iota
	GestureRotating
	GestureDragging
)

func (g Gesture) String() string {
	switch g {
	case GestureRotating:
		return "rotating"
	case GestureDragging:
		return "dragging"
	default:
		return "none"
	}
}

// GPSStatus summarises the position source.
type GPSStatus int

const (
	GPSWaiting GPSStatus = iota
	GPSActive
	GPSError
	GPSUnavailable
)

func (s GPSStatus) String() string {
	switch s {
	case GPSActive:
		return "active"
	case GPSError:
		return "error"
	case GPSUnavailable:
		return "unavailable"
	default:
		return "waiting"
	}
}

// Modifiers are the keys held when a pointer button went down.
type Modifiers struct {
	Alt   bool
	Ctrl  bool
	Shift bool
}

// Modifier names the key that must be held to start a rotation.
type Modifier string

const (
	ModifierNone  Modifier = "none"
	ModifierAlt   Modifier = "alt"
	ModifierCtrl  Modifier = "ctrl"
	ModifierShift Modifier = "shift"
)

// Valid reports whether m is a known modifier name.
func (m Modifier) Valid() bool {
	switch m {
	case ModifierNone, ModifierAlt, ModifierCtrl, ModifierShift:
		return true
	}
	return false
}

func (m Modifier) heldIn(mods Modifiers) bool {
	switch m {
	case ModifierAlt:
		return mods.Alt
	case ModifierCtrl:
		return mods.Ctrl
	case ModifierShift:
		return mods.Shift
	default:
		return true
	}
}

type pending struct {
	point  geom.GeoPoint
	origin Origin
	marker annot.Handle
}
