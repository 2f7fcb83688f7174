package basemap

import (
	"github.com/jonas-p/go-shp"

	"trenchmap/internal/geom"
)

// loadShapefile reads polylines, polygon rings and points. Multi-part
// shapes are split at their part offsets.
func loadShapefile(path string, l *Layer) error {
	shape, err := shp.Open(path)
	if err != nil {
		return err
	}
	defer shape.Close()

	for shape.Next() {
		_, p := shape.Shape()
		switch g := p.(type) {
		case *shp.PolyLine:
			splitParts(g.Parts, g.Points, l)
		case *shp.Polygon:
			splitParts(g.Parts, g.Points, l)
		case *shp.Point:
			l.addPoint(geom.GeoPoint{Lat: g.Y, Lng: g.X})
		}
	}
	return nil
}

func splitParts(parts []int32, points []shp.Point, l *Layer) {
	for i, start := range parts {
		end := int32(len(points))
		if i+1 < len(parts) {
			end = parts[i+1]
		}
		if start < 0 || end > int32(len(points)) || start >= end {
			continue
		}
		path := make([]geom.GeoPoint, 0, end-start)
		for _, pt := range points[start:end] {
			path = append(path, geom.GeoPoint{Lat: pt.Y, Lng: pt.X})
		}
		l.addPath(path)
	}
}
