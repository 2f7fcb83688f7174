// Package basemap loads read-only backdrop geometry drawn under the lines.
package basemap

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"trenchmap/internal/geom"
)

// Layer is a backdrop: polylines (polygon rings included) and points.
type Layer struct {
	Name   string
	Paths  [][]geom.GeoPoint
	Points []geom.GeoPoint
	Bounds geom.BBox
}

func (l *Layer) addPath(p []geom.GeoPoint) {
	if len(p) < 2 {
		return
	}
	l.Paths = append(l.Paths, p)
	for _, pt := range p {
		l.Bounds.Extend(pt)
	}
}

func (l *Layer) addPoint(p geom.GeoPoint) {
	l.Points = append(l.Points, p)
	l.Bounds.Extend(p)
}

// Empty reports whether the layer has nothing to draw.
func (l *Layer) Empty() bool { return len(l.Paths) == 0 && len(l.Points) == 0 }

// Supported reports whether path has an extension Load understands.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp", ".geojson", ".json", ".kml", ".csv", ".wkt":
		return true
	}
	return false
}

// Load reads a backdrop from a shapefile, GeoJSON, KML, CSV point list or
// WKT file.
func Load(path string) (*Layer, error) {
	l := &Layer{Name: filepath.Base(path)}
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".shp":
		err = loadShapefile(path, l)
	case ".geojson", ".json":
		err = loadGeoJSON(path, l)
	case ".kml":
		err = loadKML(path, l)
	case ".csv":
		err = loadCSV(path, l)
	case ".wkt":
		err = loadWKT(path, l)
	default:
		return nil, fmt.Errorf("basemap %s: unsupported file type", path)
	}
	if err != nil {
		return nil, fmt.Errorf("basemap %s: %w", path, err)
	}
	if l.Empty() {
		return nil, fmt.Errorf("basemap %s: %w", path, errors.New("no geometries found"))
	}
	return l, nil
}
