package basemap

import (
	"encoding/csv"
	"errors"
	"os"
	"strconv"
	"strings"

	"trenchmap/internal/geom"
)

// loadCSV reads points from latitude/longitude columns.
// Column detection: lat|latitude|y and lon|lng|long|longitude|x (case-insensitive).
func loadCSV(path string, l *Layer) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	// rows may be short; the loop checks lengths
	r.FieldsPerRecord = -1
	recs, err := r.ReadAll()
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return errors.New("empty csv")
	}
	idxLat, idxLon := -1, -1
	for i, h := range recs[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "lat", "latitude", "y":
			if idxLat == -1 {
				idxLat = i
			}
		case "lon", "lng", "long", "longitude", "x":
			if idxLon == -1 {
				idxLon = i
			}
		}
	}
	if idxLat == -1 || idxLon == -1 {
		return errors.New("csv: latitude/longitude columns not found")
	}
	for _, row := range recs[1:] {
		if idxLon >= len(row) || idxLat >= len(row) {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(row[idxLon]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(row[idxLat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		l.addPoint(geom.GeoPoint{Lat: lat, Lng: lon})
	}
	return nil
}

func loadWKT(path string, l *Layer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	paths, err := geom.ParseLineStrings(string(data))
	if err != nil {
		return err
	}
	for _, p := range paths {
		l.addPath(p)
	}
	return nil
}
