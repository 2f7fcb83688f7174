package geom

// Projector converts between geographic coordinates and unrotated (model)
// screen space. Implementations are supplied by the mapping backend.
type Projector interface {
	GeoToScreen(p GeoPoint) Vec
	ScreenToGeo(v Vec) GeoPoint
}
