package annot

import "trenchmap/internal/geom"

// Handle identifies a visual primitive owned by the overlay. Zero means none.
type Handle uint64

// Style selects how a polyline is stroked.
type Style int

const (
	StyleDefault Style = iota
	StyleSelected
)

// MarkerKind selects the glyph used for a point marker.
type MarkerKind int

const (
	MarkerStart MarkerKind = iota
	MarkerEnd
	MarkerPending
	MarkerPosition
)

// Overlay is the drawing capability of the mapping backend. Every primitive
// is placed at geographic coordinates; markers and labels are drawn upright
// whatever the view rotation.
type Overlay interface {
	AddPolyline(a, b geom.GeoPoint, style Style) Handle
	AddMarker(p geom.GeoPoint, kind MarkerKind) Handle
	AddLabel(p geom.GeoPoint, text string) Handle
	MovePolyline(h Handle, a, b geom.GeoPoint)
	MoveMarker(h Handle, p geom.GeoPoint)
	UpdateLabel(h Handle, p geom.GeoPoint, text string)
	SetStyle(h Handle, style Style)
	Remove(h Handle)
}
