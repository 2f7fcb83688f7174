package basemap

import (
	"encoding/xml"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"trenchmap/internal/geom"
)

type kmlPlacemark struct {
	Points   []string `xml:"Point>coordinates"`
	Lines    []string `xml:"LineString>coordinates"`
	Polygons []string `xml:"Polygon>outerBoundaryIs>LinearRing>coordinates"`
	Multi    struct {
		Points   []string `xml:"Point>coordinates"`
		Lines    []string `xml:"LineString>coordinates"`
		Polygons []string `xml:"Polygon>outerBoundaryIs>LinearRing>coordinates"`
	} `xml:"MultiGeometry"`
}

// loadKML collects every Placemark, however deeply it is nested in
// Documents and Folders. KML coordinates are "lon,lat[,alt]"; altitude is
// ignored.
func loadKML(path string, l *Layer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := xml.NewDecoder(f)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "Placemark" {
			continue
		}
		var pm kmlPlacemark
		if err := dec.DecodeElement(&pm, &se); err != nil {
			return err
		}
		for _, c := range append(pm.Points, pm.Multi.Points...) {
			for _, p := range parseCoordinates(c) {
				l.addPoint(p)
			}
		}
		for _, c := range append(append(pm.Lines, pm.Polygons...), append(pm.Multi.Lines, pm.Multi.Polygons...)...) {
			l.addPath(parseCoordinates(c))
		}
	}
}

// parseCoordinates reads space separated "lon,lat[,alt]" tuples, skipping
// malformed ones.
func parseCoordinates(s string) []geom.GeoPoint {
	var out []geom.GeoPoint
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, geom.GeoPoint{Lat: lat, Lng: lon})
	}
	return out
}
