package basemap

import (
	"errors"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"trenchmap/internal/geom"
)

// loadGeoJSON accepts a FeatureCollection, a single Feature or a bare
// geometry.
func loadGeoJSON(path string, l *Layer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if fc, err := geojson.UnmarshalFeatureCollection(data); err == nil && len(fc.Features) > 0 {
		for _, f := range fc.Features {
			walkGeometry(f.Geometry, l)
		}
		return nil
	}
	if f, err := geojson.UnmarshalFeature(data); err == nil && f.Geometry != nil {
		walkGeometry(f.Geometry, l)
		return nil
	}
	g, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return err
	}
	if g.Coordinates == nil {
		return errors.New("geojson: no geometry")
	}
	walkGeometry(g.Coordinates, l)
	return nil
}

func walkGeometry(g orb.Geometry, l *Layer) {
	switch g := g.(type) {
	case orb.Point:
		l.addPoint(pointOf(g))
	case orb.MultiPoint:
		for _, p := range g {
			l.addPoint(pointOf(p))
		}
	case orb.LineString:
		l.addPath(pathOf(g))
	case orb.MultiLineString:
		for _, ls := range g {
			l.addPath(pathOf(ls))
		}
	case orb.Ring:
		l.addPath(pathOf(g))
	case orb.Polygon:
		for _, r := range g {
			l.addPath(pathOf(r))
		}
	case orb.MultiPolygon:
		for _, poly := range g {
			walkGeometry(poly, l)
		}
	case orb.Collection:
		for _, c := range g {
			walkGeometry(c, l)
		}
	}
}

func pointOf(p orb.Point) geom.GeoPoint { return geom.GeoPoint{Lat: p.Lat(), Lng: p.Lon()} }

func pathOf(ps []orb.Point) []geom.GeoPoint {
	out := make([]geom.GeoPoint, len(ps))
	for i, p := range ps {
		out[i] = pointOf(p)
	}
	return out
}
